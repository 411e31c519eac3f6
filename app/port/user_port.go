package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/PSUNAND/Medassist/app/domain"
)

// UserRepository defines identity record data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error

	// FindByID returns the identity record for an identifier, excluding the
	// password hash. Fails with domain.ErrUserNotFound when no record matches.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// FindByEmailWithSecret returns the full record including the password
	// hash. Only the login path may call this.
	FindByEmailWithSecret(ctx context.Context, email string) (*domain.User, error)

	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	BumpTokenVersion(ctx context.Context, id uuid.UUID) error
}

// IdentityGateway is the authoritative-identity lookup used during
// verification. Implementations must never fall back to credential-embedded
// data when the record is gone.
type IdentityGateway interface {
	FindByIdentifier(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
