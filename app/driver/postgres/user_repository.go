package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/PSUNAND/Medassist/app/domain"
	"github.com/PSUNAND/Medassist/app/port"
)

// UserRepository implements port.UserRepository for PostgreSQL
type UserRepository struct {
	db     Querier
	logger *slog.Logger
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db Querier, logger *slog.Logger) port.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger.With("component", "user_repository"),
	}
}

// Create inserts a new identity record
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			id, email, name, password_hash, role, status,
			pharmacy_name, license_number, vehicle_type, service_area,
			token_version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)`

	var pharmacyName, licenseNumber, vehicleType, serviceArea *string
	if user.Pharmacy != nil {
		pharmacyName = &user.Pharmacy.PharmacyName
		licenseNumber = &user.Pharmacy.LicenseNumber
	}
	if user.Delivery != nil {
		vehicleType = &user.Delivery.VehicleType
		serviceArea = &user.Delivery.ServiceArea
	}

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.Status,
		pharmacyName,
		licenseNumber,
		vehicleType,
		serviceArea,
		user.TokenVersion,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		r.logger.Error("failed to create user", "email", user.Email, "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("user created", "user_id", user.ID, "role", user.Role)
	return nil
}

// FindByID returns the identity record for an identifier. The password hash
// column is never selected here; the projection is safe to hand outward.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT
			id, email, name, role, status,
			pharmacy_name, license_number, vehicle_type, service_area,
			token_version, created_at, updated_at, last_login_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL`

	row := r.db.QueryRow(ctx, query, id)
	user, err := scanUser(row, nil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("failed to find user by id", "user_id", id, "error", err)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// FindByEmailWithSecret returns the full record including the password hash.
// Only the login path may call this.
func (r *UserRepository) FindByEmailWithSecret(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT
			id, email, name, role, status,
			pharmacy_name, license_number, vehicle_type, service_area,
			token_version, created_at, updated_at, last_login_at,
			password_hash
		FROM users
		WHERE email = $1 AND deleted_at IS NULL`

	var hash string
	row := r.db.QueryRow(ctx, query, email)
	user, err := scanUser(row, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("failed to find user by email", "error", err)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.PasswordHash = hash
	return user, nil
}

// UpdateLastLogin records the last successful login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE users SET last_login_at = $2, updated_at = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		r.logger.Error("failed to update last login", "user_id", id, "error", err)
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// BumpTokenVersion increments the issuance counter, invalidating every
// outstanding credential for the user
func (r *UserRepository) BumpTokenVersion(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET token_version = token_version + 1, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to bump token version", "user_id", id, "error", err)
		return fmt.Errorf("failed to bump token version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	r.logger.Info("token version bumped", "user_id", id)
	return nil
}

// scanUser scans a user row in column order shared by the SELECT queries.
// When hash is non-nil, password_hash is expected as the trailing column.
func scanUser(row pgx.Row, hash *string) (*domain.User, error) {
	var (
		user          domain.User
		pharmacyName  *string
		licenseNumber *string
		vehicleType   *string
		serviceArea   *string
		lastLoginAt   *time.Time
	)

	dest := []interface{}{
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.Status,
		&pharmacyName,
		&licenseNumber,
		&vehicleType,
		&serviceArea,
		&user.TokenVersion,
		&user.CreatedAt,
		&user.UpdatedAt,
		&lastLoginAt,
	}
	if hash != nil {
		dest = append(dest, hash)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if pharmacyName != nil || licenseNumber != nil {
		user.Pharmacy = &domain.PharmacyProfile{}
		if pharmacyName != nil {
			user.Pharmacy.PharmacyName = *pharmacyName
		}
		if licenseNumber != nil {
			user.Pharmacy.LicenseNumber = *licenseNumber
		}
	}
	if vehicleType != nil || serviceArea != nil {
		user.Delivery = &domain.DeliveryProfile{}
		if vehicleType != nil {
			user.Delivery.VehicleType = *vehicleType
		}
		if serviceArea != nil {
			user.Delivery.ServiceArea = *serviceArea
		}
	}
	user.LastLoginAt = lastLoginAt

	return &user, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
