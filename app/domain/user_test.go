package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		userName  string
		role      UserRole
		wantError bool
	}{
		{
			name:     "valid user",
			email:    "alice@example.com",
			userName: "Alice",
			role:     UserRoleUser,
		},
		{
			name:     "valid pharmacy",
			email:    "rx@example.com",
			userName: "City Pharmacy",
			role:     UserRolePharmacy,
		},
		{
			name:      "empty email",
			email:     "",
			userName:  "Alice",
			role:      UserRoleUser,
			wantError: true,
		},
		{
			name:      "invalid email",
			email:     "not-an-email",
			userName:  "Alice",
			role:      UserRoleUser,
			wantError: true,
		},
		{
			name:      "empty name",
			email:     "alice@example.com",
			userName:  "",
			role:      UserRoleUser,
			wantError: true,
		},
		{
			name:      "unknown role",
			email:     "alice@example.com",
			userName:  "Alice",
			role:      UserRole("superuser"),
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := NewUser(tt.email, tt.userName, tt.role)
			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, user)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.email, user.Email)
			assert.Equal(t, tt.userName, user.Name)
			assert.Equal(t, tt.role, user.Role)
			assert.Equal(t, UserStatusActive, user.Status)
			assert.Equal(t, int64(0), user.TokenVersion)
			assert.NotEqual(t, "", user.ID.String())
		})
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"user", "pharmacy", "delivery", "admin"} {
		role, err := ParseRole(valid)
		assert.NoError(t, err)
		assert.Equal(t, UserRole(valid), role)
	}

	for _, invalid := range []string{"", "Admin", "superuser", "pharmacist"} {
		_, err := ParseRole(invalid)
		assert.ErrorIs(t, err, ErrInvalidUserRole)
	}
}

func TestProfileShaping(t *testing.T) {
	pharmacy, err := NewUser("rx@example.com", "City Pharmacy", UserRolePharmacy)
	require.NoError(t, err)
	pharmacy.Pharmacy = &PharmacyProfile{PharmacyName: "City Pharmacy", LicenseNumber: "PH-1234"}
	pharmacy.Delivery = &DeliveryProfile{VehicleType: "bike"} // stale data, must not leak

	profile := pharmacy.Profile()
	require.NotNil(t, profile.Pharmacy)
	assert.Equal(t, "PH-1234", profile.Pharmacy.LicenseNumber)
	assert.Nil(t, profile.Delivery, "profile must only carry fields for the matching role")

	user, err := NewUser("alice@example.com", "Alice", UserRoleUser)
	require.NoError(t, err)
	plain := user.Profile()
	assert.Nil(t, plain.Pharmacy)
	assert.Nil(t, plain.Delivery)
}

func TestBumpTokenVersion(t *testing.T) {
	user, err := NewUser("alice@example.com", "Alice", UserRoleUser)
	require.NoError(t, err)

	user.BumpTokenVersion()
	user.BumpTokenVersion()
	assert.Equal(t, int64(2), user.TokenVersion)
}

func TestChangeStatus(t *testing.T) {
	user, err := NewUser("alice@example.com", "Alice", UserRoleUser)
	require.NoError(t, err)

	assert.True(t, user.IsActive())

	require.NoError(t, user.ChangeStatus(UserStatusSuspended))
	assert.False(t, user.IsActive())

	assert.Error(t, user.ChangeStatus(UserStatus("banned")))
	assert.Equal(t, UserStatusSuspended, user.Status)
}

func TestRecordLogin(t *testing.T) {
	user, err := NewUser("alice@example.com", "Alice", UserRoleUser)
	require.NoError(t, err)
	require.Nil(t, user.LastLoginAt)

	at := time.Now()
	user.RecordLogin(at)
	require.NotNil(t, user.LastLoginAt)
	assert.Equal(t, at, *user.LastLoginAt)
}

func TestIsAuthenticationError(t *testing.T) {
	authErrors := []error{
		ErrMalformedToken,
		ErrInvalidSignature,
		ErrTokenExpired,
		ErrTokenRevoked,
		ErrUserNotFound,
		ErrUserInactive,
		ErrUnauthorized,
	}
	for _, err := range authErrors {
		assert.True(t, IsAuthenticationError(err), err.Error())
	}

	assert.False(t, IsAuthenticationError(ErrForbidden))
	assert.False(t, IsAuthenticationError(ErrInternal))
	assert.False(t, IsAuthenticationError(nil))
}
