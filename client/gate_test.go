package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSessions is a scripted session endpoint that counts round trips
type fakeSessions struct {
	identity *Identity
	err      error
	calls    int
}

func (f *fakeSessions) Me(ctx context.Context, credential string) (*Identity, error) {
	f.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func testGate(sessions Sessions) (*Gate, *CredentialStore) {
	store := NewCredentialStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGate(store, sessions, logger), store
}

func TestGateNoCredentialRedirectsWithoutNetworkCall(t *testing.T) {
	sessions := &fakeSessions{}
	gate, _ := testGate(sessions)

	result := gate.Check(context.Background(), View{Name: "my-orders", RequiredRole: "user"})

	assert.Equal(t, GateRedirecting, result.State)
	assert.False(t, result.RoleDenied)
	assert.Zero(t, sessions.calls, "no stored credential must not trigger a round trip")
}

func TestGateRejectionClearsStore(t *testing.T) {
	sessions := &fakeSessions{err: ErrUnauthenticated}
	gate, store := testGate(sessions)
	store.SetCredential("stale-token")
	store.SetDisplay(&DisplayIdentity{Name: "Asha"})

	result := gate.Check(context.Background(), View{Name: "my-orders", RequiredRole: "user"})

	assert.Equal(t, GateRedirecting, result.State)
	assert.False(t, result.RoleDenied)
	assert.Empty(t, store.Credential())
	assert.Nil(t, store.Display())
}

func TestGateTransportFailureFailsClosed(t *testing.T) {
	sessions := &fakeSessions{err: errors.New("connection refused")}
	gate, store := testGate(sessions)
	store.SetCredential("token")

	result := gate.Check(context.Background(), View{Name: "my-orders", RequiredRole: "user"})

	assert.Equal(t, GateRedirecting, result.State)
	assert.Empty(t, store.Credential())
}

func TestGateRoleMismatch(t *testing.T) {
	sessions := &fakeSessions{identity: &Identity{
		ID:    "u1",
		Name:  "Asha",
		Email: "asha@example.com",
		Role:  "pharmacy",
	}}
	gate, store := testGate(sessions)
	store.SetCredential("token")

	result := gate.Check(context.Background(), View{Name: "admin-users", RequiredRole: "admin"})

	assert.Equal(t, GateRedirecting, result.State)
	assert.True(t, result.RoleDenied, "confirmed identity with wrong role is the one distinct rejection")
	assert.Empty(t, store.Credential())
	assert.Nil(t, store.Display())
}

func TestGateRoleMatchAuthorizes(t *testing.T) {
	sessions := &fakeSessions{identity: &Identity{
		ID:    "u1",
		Name:  "Asha",
		Email: "asha@example.com",
		Role:  "pharmacy",
	}}
	gate, store := testGate(sessions)
	store.SetCredential("token")

	result := gate.Check(context.Background(), View{Name: "pharmacy-dashboard", RequiredRole: "pharmacy"})

	assert.Equal(t, GateAuthorized, result.State)
	require.NotNil(t, result.Identity)
	assert.Equal(t, "u1", result.Identity.ID)

	display := store.Display()
	require.NotNil(t, display)
	assert.Equal(t, "Asha", display.Name)
	assert.Equal(t, "pharmacy", display.RoleLabel)
	assert.Equal(t, "token", store.Credential(), "authorized check keeps the credential")
}

func TestGateIgnoresEditedDisplayCache(t *testing.T) {
	sessions := &fakeSessions{identity: &Identity{ID: "u1", Role: "pharmacy"}}
	gate, store := testGate(sessions)
	store.SetCredential("token")
	// A tampered local cache claiming admin must have zero effect on the decision
	store.SetDisplay(&DisplayIdentity{Name: "Asha", RoleLabel: "admin"})

	result := gate.Check(context.Background(), View{Name: "admin-users", RequiredRole: "admin"})

	assert.Equal(t, GateRedirecting, result.State)
	assert.True(t, result.RoleDenied)
}

func TestGateLogoutThenCheckSkipsNetwork(t *testing.T) {
	sessions := &fakeSessions{identity: &Identity{ID: "u1", Role: "user"}}
	gate, store := testGate(sessions)
	store.SetCredential("token")

	gate.Logout()

	result := gate.Check(context.Background(), View{Name: "my-orders", RequiredRole: "user"})
	assert.Equal(t, GateRedirecting, result.State)
	assert.Zero(t, sessions.calls)
	assert.Empty(t, store.Credential())
}

func TestGateCancelledContextDoesNotClearStore(t *testing.T) {
	sessions := &fakeSessions{identity: &Identity{ID: "u1", Role: "user"}}
	gate, store := testGate(sessions)
	store.SetCredential("token")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := gate.Check(ctx, View{Name: "my-orders", RequiredRole: "user"})

	assert.Equal(t, GateRedirecting, result.State)
	assert.Equal(t, "token", store.Credential(), "torn-down view must not log the user out")
}

func TestGateCheckViewUnknownFailsClosed(t *testing.T) {
	sessions := &fakeSessions{identity: &Identity{ID: "u1", Role: "user"}}
	gate, store := testGate(sessions)
	store.SetCredential("token")

	registry, err := LoadViews(strings.NewReader(sampleViews))
	require.NoError(t, err)

	result := gate.CheckView(context.Background(), registry, "no-such-view")

	assert.Equal(t, GateRedirecting, result.State)
	assert.Zero(t, sessions.calls)
}

func TestGateCheckViewResolvesRequirement(t *testing.T) {
	sessions := &fakeSessions{identity: &Identity{ID: "u1", Name: "Asha", Role: "pharmacy"}}
	gate, store := testGate(sessions)
	store.SetCredential("token")

	registry, err := LoadViews(strings.NewReader(sampleViews))
	require.NoError(t, err)

	assert.Equal(t, GateAuthorized, gate.CheckView(context.Background(), registry, "pharmacy-dashboard").State)

	store.SetCredential("token")
	denied := gate.CheckView(context.Background(), registry, "admin-users")
	assert.Equal(t, GateRedirecting, denied.State)
	assert.True(t, denied.RoleDenied)
}

func TestSessionClientMe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/auth/me", r.URL.Path)

		switch r.Header.Get("Authorization") {
		case "Bearer good-token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"success": true,
				"data": {
					"user": {
						"id": "u1",
						"name": "Asha",
						"email": "asha@example.com",
						"role": "pharmacy",
						"pharmacy": {
							"pharmacy_name": "City Pharma",
							"license_number": "LIC-1042"
						}
					}
				}
			}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"authentication required"}`))
		}
	}))
	defer server.Close()

	sc := NewSessionClient(server.URL, 2*time.Second)

	identity, err := sc.Me(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
	assert.Equal(t, "pharmacy", identity.Role)
	require.NotNil(t, identity.Pharmacy)
	assert.Equal(t, "City Pharma", identity.Pharmacy.PharmacyName)
	assert.Nil(t, identity.Delivery)

	_, err = sc.Me(context.Background(), "bad-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = sc.Me(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSessionClientMeRejectsMalformedEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{}}`))
	}))
	defer server.Close()

	sc := NewSessionClient(server.URL, 2*time.Second)
	_, err := sc.Me(context.Background(), "token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSessionClientMeTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	sc := NewSessionClient(server.URL, 50*time.Millisecond)
	_, err := sc.Me(context.Background(), "token")
	assert.Error(t, err, "an unanswered check must resolve, not hang")
}
