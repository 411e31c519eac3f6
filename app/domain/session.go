package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenClaims is what the credential codec extracts from a verified blob.
// Role here is a hint cached at issuance time; authorization decisions must
// re-resolve the role from the identity store.
type TokenClaims struct {
	UserID       uuid.UUID
	AdvisoryRole string
	TokenVersion int64
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// SessionContext is the request-scoped verified identity produced by the
// verification middleware after a credential is validated and the matching
// identity record is fetched. Never persisted.
type SessionContext struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Role   UserRole  `json:"role"`
	User   *User     `json:"-"`
}
