package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/PSUNAND/Medassist/app/domain"
)

// TokenCodec creates and validates signed, time-bounded credentials
type TokenCodec interface {
	// Issue produces a signed credential for the given identity. The role and
	// token version are embedded as issuance-time hints.
	Issue(userID uuid.UUID, role domain.UserRole, tokenVersion int64) (string, error)

	// Verify checks signature integrity and expiry. Fails with
	// domain.ErrMalformedToken, domain.ErrInvalidSignature or
	// domain.ErrTokenExpired. The returned claims carry an advisory role only;
	// callers must re-confirm the role against the identity store.
	Verify(blob string) (*domain.TokenClaims, error)
}

// AuthUsecase defines authentication business logic interface
type AuthUsecase interface {
	// Login verifies email+password and issues a fresh credential
	Login(ctx context.Context, email, password string) (string, *domain.User, error)

	// Register creates a new identity record
	Register(ctx context.Context, req *domain.User, password string) (*domain.User, error)

	// VerifySession resolves a credential blob into a verified session
	// context backed by the authoritative identity store
	VerifySession(ctx context.Context, blob string) (*domain.SessionContext, error)

	// RevokeAll invalidates every outstanding credential for the user
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}
