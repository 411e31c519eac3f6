package gateway

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/PSUNAND/Medassist/app/domain"
	"github.com/PSUNAND/Medassist/app/port"
)

// IdentityGateway resolves a verified credential identifier into the
// authoritative identity record. It is the only read path the verification
// flow uses; a missing record invalidates the session rather than falling
// back to credential-embedded data.
type IdentityGateway struct {
	users  port.UserRepository
	logger *slog.Logger
}

// NewIdentityGateway creates a new identity gateway
func NewIdentityGateway(users port.UserRepository, logger *slog.Logger) port.IdentityGateway {
	return &IdentityGateway{
		users:  users,
		logger: logger.With("component", "identity_gateway"),
	}
}

// FindByIdentifier fetches the identity record for an identifier.
// Fails with domain.ErrUserNotFound when no record matches, e.g. the account
// was deleted after the credential was issued.
func (g *IdentityGateway) FindByIdentifier(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := g.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			g.logger.Warn("identity lookup missed", "user_id", id)
			return nil, domain.ErrUserNotFound
		}
		g.logger.Error("identity lookup failed", "user_id", id, "error", err)
		return nil, err
	}

	return user, nil
}
