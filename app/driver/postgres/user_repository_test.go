package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PSUNAND/Medassist/app/domain"
	"github.com/PSUNAND/Medassist/app/utils/logger"
)

// Helper function to create a test user repository with mocked database
func createTestUserRepository(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	testLogger, err := logger.New("error")
	require.NoError(t, err)

	repo := NewUserRepository(mockDB, testLogger).(*UserRepository)
	return repo, mockDB
}

func userColumns() []string {
	return []string{
		"id", "email", "name", "role", "status",
		"pharmacy_name", "license_number", "vehicle_type", "service_area",
		"token_version", "created_at", "updated_at", "last_login_at",
	}
}

func TestUserRepository_FindByID(t *testing.T) {
	repo, mockDB := createTestUserRepository(t)

	id := uuid.New()
	now := time.Now()
	pharmacyName := "City Pharmacy"
	license := "PH-1234"

	rows := pgxmock.NewRows(userColumns()).AddRow(
		id, "rx@example.com", "City Pharmacy", domain.UserRolePharmacy, domain.UserStatusActive,
		&pharmacyName, &license, nil, nil,
		int64(2), now, now, nil,
	)

	mockDB.ExpectQuery("SELECT(.|\n)*FROM users").
		WithArgs(id).
		WillReturnRows(rows)

	user, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, user.ID)
	assert.Equal(t, domain.UserRolePharmacy, user.Role)
	assert.Equal(t, int64(2), user.TokenVersion)
	require.NotNil(t, user.Pharmacy)
	assert.Equal(t, "PH-1234", user.Pharmacy.LicenseNumber)
	assert.Nil(t, user.Delivery)
	assert.Empty(t, user.PasswordHash, "FindByID must not select the password hash")

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	repo, mockDB := createTestUserRepository(t)

	id := uuid.New()
	mockDB.ExpectQuery("SELECT(.|\n)*FROM users").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.FindByID(context.Background(), id)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_FindByEmailWithSecret(t *testing.T) {
	repo, mockDB := createTestUserRepository(t)

	id := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows(append(userColumns(), "password_hash")).AddRow(
		id, "u1@example.com", "U One", domain.UserRoleUser, domain.UserStatusActive,
		nil, nil, nil, nil,
		int64(0), now, now, nil,
		"$2a$10$fakehash",
	)

	mockDB.ExpectQuery("SELECT(.|\n)*password_hash(.|\n)*FROM users").
		WithArgs("u1@example.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmailWithSecret(context.Background(), "u1@example.com")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$fakehash", user.PasswordHash)
	assert.Nil(t, user.Pharmacy)
}

func TestUserRepository_Create(t *testing.T) {
	repo, mockDB := createTestUserRepository(t)

	user, err := domain.NewUser("new@example.com", "Newcomer", domain.UserRoleDelivery)
	require.NoError(t, err)
	user.PasswordHash = "$2a$10$fakehash"
	user.Delivery = &domain.DeliveryProfile{VehicleType: "bike", ServiceArea: "downtown"}

	mockDB.ExpectExec("INSERT INTO users").
		WithArgs(
			user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.Status,
			(*string)(nil), (*string)(nil), &user.Delivery.VehicleType, &user.Delivery.ServiceArea,
			user.TokenVersion, user.CreatedAt, user.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), user))
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	repo, mockDB := createTestUserRepository(t)

	user, err := domain.NewUser("dup@example.com", "Dup", domain.UserRoleUser)
	require.NoError(t, err)

	mockDB.ExpectExec("INSERT INTO users").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err = repo.Create(context.Background(), user)
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestUserRepository_BumpTokenVersion(t *testing.T) {
	repo, mockDB := createTestUserRepository(t)

	id := uuid.New()
	mockDB.ExpectExec("UPDATE users SET token_version").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.BumpTokenVersion(context.Background(), id))
}

func TestUserRepository_BumpTokenVersion_Missing(t *testing.T) {
	repo, mockDB := createTestUserRepository(t)

	id := uuid.New()
	mockDB.ExpectExec("UPDATE users SET token_version").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.BumpTokenVersion(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_UpdateLastLogin(t *testing.T) {
	repo, mockDB := createTestUserRepository(t)

	id := uuid.New()
	at := time.Now()
	mockDB.ExpectExec("UPDATE users SET last_login_at").
		WithArgs(id, at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.UpdateLastLogin(context.Background(), id, at))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("plain error")))
	assert.False(t, isUniqueViolation(nil))
}
