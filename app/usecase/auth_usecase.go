package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/PSUNAND/Medassist/app/domain"
	"github.com/PSUNAND/Medassist/app/port"
	"github.com/PSUNAND/Medassist/app/utils/security"
)

// AuthUseCase implements authentication business logic
type AuthUseCase struct {
	users    port.UserRepository
	identity port.IdentityGateway
	codec    port.TokenCodec
	logger   *slog.Logger
}

// NewAuthUseCase creates a new AuthUseCase instance
func NewAuthUseCase(users port.UserRepository, identity port.IdentityGateway, codec port.TokenCodec, logger *slog.Logger) *AuthUseCase {
	return &AuthUseCase{
		users:    users,
		identity: identity,
		codec:    codec,
		logger:   logger.With("component", "auth_usecase"),
	}
}

// Login verifies email+password and issues a fresh credential.
// Unknown email and wrong password collapse to the same error so the login
// endpoint cannot be used to probe for accounts.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := uc.users.FindByEmailWithSecret(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := security.VerifyPassword(user.PasswordHash, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive() {
		uc.logger.Warn("login rejected for inactive user", "user_id", user.ID, "status", user.Status)
		return "", nil, domain.ErrInvalidCredentials
	}

	blob, err := uc.codec.Issue(user.ID, user.Role, user.TokenVersion)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue credential: %w", err)
	}

	now := time.Now()
	if err := uc.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// Login still succeeds; the timestamp is bookkeeping only
		uc.logger.Warn("failed to record login time", "user_id", user.ID, "error", err)
	}
	user.RecordLogin(now)
	user.PasswordHash = ""

	uc.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return blob, user, nil
}

// Register creates a new identity record with a bcrypt-hashed secret
func (uc *AuthUseCase) Register(ctx context.Context, req *domain.User, password string) (*domain.User, error) {
	user, err := domain.NewUser(req.Email, req.Name, req.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	user.Pharmacy = req.Pharmacy
	user.Delivery = req.Delivery

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	uc.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// VerifySession resolves a credential blob into a verified session context.
// The credential's embedded role is a hint only; the role returned here is
// always the one held by the authoritative identity store.
func (uc *AuthUseCase) VerifySession(ctx context.Context, blob string) (*domain.SessionContext, error) {
	claims, err := uc.codec.Verify(blob)
	if err != nil {
		return nil, err
	}

	user, err := uc.identity.FindByIdentifier(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if !user.IsActive() {
		return nil, domain.ErrUserInactive
	}

	// Credentials issued before the last revocation carry a stale version
	if claims.TokenVersion != user.TokenVersion {
		return nil, domain.ErrTokenRevoked
	}

	return &domain.SessionContext{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		User:   user,
	}, nil
}

// RevokeAll invalidates every outstanding credential for the user
func (uc *AuthUseCase) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if err := uc.users.BumpTokenVersion(ctx, userID); err != nil {
		return err
	}
	uc.logger.Info("all credentials revoked", "user_id", userID)
	return nil
}
