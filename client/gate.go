package client

import (
	"context"
	"log/slog"
)

// GateState is the outcome of a gate check for one protected view
type GateState int

const (
	// GateChecking is the initial state while the round trip is in flight
	GateChecking GateState = iota
	// GateAuthorized means the server confirmed identity and required role;
	// rendering may proceed
	GateAuthorized
	// GateRedirecting means the check was rejected; the view must navigate
	// to the unauthenticated entry point without rendering
	GateRedirecting
)

// String returns a readable state name
func (s GateState) String() string {
	switch s {
	case GateChecking:
		return "checking"
	case GateAuthorized:
		return "authorized"
	case GateRedirecting:
		return "redirecting"
	}
	return "unknown"
}

// View declares one protected view and the single role it requires
type View struct {
	Name         string `yaml:"name"`
	RequiredRole string `yaml:"required_role"`
}

// Result is the terminal outcome of one gate check
type Result struct {
	State    GateState
	Identity *Identity

	// RoleDenied is set when the server confirmed identity but the role did
	// not match the view's requirement. The one rejection that is surfaced
	// distinctly to the user.
	RoleDenied bool
}

// Sessions is the session-endpoint dependency of the gate
type Sessions interface {
	Me(ctx context.Context, credential string) (*Identity, error)
}

// Gate blocks rendering of protected views until the server has confirmed
// identity and role. One shared routine parameterized by required role,
// replacing per-view copies of the check.
type Gate struct {
	store    *CredentialStore
	sessions Sessions
	logger   *slog.Logger
}

// NewGate creates a gate over the shared credential store
func NewGate(store *CredentialStore, sessions Sessions, logger *slog.Logger) *Gate {
	return &Gate{
		store:    store,
		sessions: sessions,
		logger:   logger,
	}
}

// Check runs the verify-then-render protocol for one view entry:
//
//  1. No stored credential: Redirecting, without any network call.
//  2. Otherwise one round trip to the session endpoint.
//  3. Any rejection, transport failure or timeout: clear the store, Redirecting.
//  4. Verified role differs from the view's requirement: clear the store,
//     Redirecting with RoleDenied set.
//  5. Match: write the display cache, Authorized.
//
// The decision never reads the display cache; only the live server response
// populates it. If ctx is cancelled because the view was torn down the
// result is Redirecting, which the caller discards along with the view.
func (g *Gate) Check(ctx context.Context, view View) Result {
	credential := g.store.Credential()
	if credential == "" {
		return Result{State: GateRedirecting}
	}

	identity, err := g.sessions.Me(ctx, credential)
	if err != nil {
		if ctx.Err() != nil {
			// View is gone; nothing may act on this result
			return Result{State: GateRedirecting}
		}
		g.logger.Warn("gate check rejected", "view", view.Name, "error", err)
		g.store.Clear()
		return Result{State: GateRedirecting}
	}

	if identity.Role != view.RequiredRole {
		g.logger.Warn("gate role mismatch",
			"view", view.Name,
			"required", view.RequiredRole,
			"actual", identity.Role)
		g.store.Clear()
		return Result{State: GateRedirecting, RoleDenied: true}
	}

	g.store.SetDisplay(&DisplayIdentity{
		Name:      identity.Name,
		Email:     identity.Email,
		RoleLabel: identity.Role,
	})

	return Result{State: GateAuthorized, Identity: identity}
}

// CheckView resolves a view by name in the registry and runs Check.
// An unknown view name fails closed.
func (g *Gate) CheckView(ctx context.Context, registry *ViewRegistry, name string) Result {
	view, ok := registry.View(name)
	if !ok {
		g.logger.Error("gate check for unregistered view", "view", name)
		return Result{State: GateRedirecting}
	}
	return g.Check(ctx, view)
}

// Logout clears the credential and display cache. Checks already in flight
// in other views resolve against the server; any check started afterwards
// finds the slot empty and redirects immediately.
func (g *Gate) Logout() {
	g.store.Clear()
}
