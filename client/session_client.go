package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Session endpoint errors. Everything that is not ErrUnauthenticated is an
// infrastructure failure, and the gate treats both the same way: fail closed.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Identity is the verified identity returned by the session endpoint
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`

	Pharmacy *PharmacyInfo `json:"pharmacy,omitempty"`
	Delivery *DeliveryInfo `json:"delivery,omitempty"`
}

// PharmacyInfo holds pharmacy-portal profile fields
type PharmacyInfo struct {
	PharmacyName  string `json:"pharmacy_name"`
	LicenseNumber string `json:"license_number"`
}

// DeliveryInfo holds delivery-portal profile fields
type DeliveryInfo struct {
	VehicleType string `json:"vehicle_type"`
	ServiceArea string `json:"service_area"`
}

type meResponse struct {
	Success bool `json:"success"`
	Data    struct {
		User *Identity `json:"user"`
	} `json:"data"`
	Message string `json:"message"`
}

// SessionClient calls the auth service's session endpoint
type SessionClient struct {
	baseURL string
	client  *http.Client
}

// NewSessionClient creates a session client with a bounded request timeout.
// The timeout is mandatory: an unanswered check must resolve to a rejection,
// never hang a view open.
func NewSessionClient(baseURL string, timeout time.Duration) *SessionClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SessionClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Me sends the credential to GET /auth/me and returns the verified identity.
// Any non-2xx response maps to ErrUnauthenticated; transport errors are
// returned as-is for the caller to treat as a rejection.
func (c *SessionClient) Me(ctx context.Context, credential string) (*Identity, error) {
	if credential == "" {
		return nil, ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("build session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call session endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrUnauthenticated
	}

	var body meResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode session response: %w", err)
	}
	if !body.Success || body.Data.User == nil {
		return nil, ErrUnauthenticated
	}

	return body.Data.User, nil
}
