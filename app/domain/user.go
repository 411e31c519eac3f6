package domain

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// UserRole represents the portal a user belongs to
type UserRole string

const (
	UserRoleUser     UserRole = "user"
	UserRolePharmacy UserRole = "pharmacy"
	UserRoleDelivery UserRole = "delivery"
	UserRoleAdmin    UserRole = "admin"
)

// ParseRole validates a raw role string against the known portal roles
func ParseRole(raw string) (UserRole, error) {
	role := UserRole(raw)
	switch role {
	case UserRoleUser, UserRolePharmacy, UserRoleDelivery, UserRoleAdmin:
		return role, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidUserRole, raw)
}

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// PharmacyProfile holds pharmacy-portal specific fields
type PharmacyProfile struct {
	PharmacyName  string `json:"pharmacy_name"`
	LicenseNumber string `json:"license_number"`
}

// DeliveryProfile holds delivery-portal specific fields
type DeliveryProfile struct {
	VehicleType string `json:"vehicle_type"`
	ServiceArea string `json:"service_area"`
}

// User is the authoritative identity record for a principal.
// Its Role field is the single source of truth for authorization;
// any role embedded in a credential is advisory only.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"` // Exclude from JSON
	Role         UserRole   `json:"role"`
	Status       UserStatus `json:"status"`

	// Role-specific profile fields, populated only for the matching role
	Pharmacy *PharmacyProfile `json:"pharmacy,omitempty"`
	Delivery *DeliveryProfile `json:"delivery,omitempty"`

	// TokenVersion is a monotonic issuance counter. A credential embeds the
	// version current at issue time; bumping the counter invalidates every
	// outstanding credential for this user.
	TokenVersion int64 `json:"-"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// NewUser creates a new user with validation
func NewUser(email, name string, role UserRole) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email format: %w", err)
	}

	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}

	now := time.Now()

	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Role:      role,
		Status:    UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return user, nil
}

// RecordLogin records the last login time
func (u *User) RecordLogin(loginTime time.Time) {
	u.LastLoginAt = &loginTime
	u.UpdatedAt = time.Now()
}

// BumpTokenVersion invalidates all outstanding credentials for the user
func (u *User) BumpTokenVersion() {
	u.TokenVersion++
	u.UpdatedAt = time.Now()
}

// ChangeStatus changes the user's status
func (u *User) ChangeStatus(status UserStatus) error {
	validStatuses := []UserStatus{UserStatusActive, UserStatusInactive, UserStatusSuspended}

	for _, validStatus := range validStatuses {
		if status == validStatus {
			u.Status = status
			u.UpdatedAt = time.Now()
			return nil
		}
	}

	return fmt.Errorf("invalid status: %s", status)
}

// IsActive returns true if the user is active
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Profile returns the wire-safe projection of the user, shaped per role.
// The projection never carries the password hash or token version.
func (u *User) Profile() *UserProfile {
	profile := &UserProfile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}

	switch u.Role {
	case UserRolePharmacy:
		profile.Pharmacy = u.Pharmacy
	case UserRoleDelivery:
		profile.Delivery = u.Delivery
	}

	return profile
}

// UserProfile is the wire-safe projection of a user identity
type UserProfile struct {
	ID       uuid.UUID        `json:"id"`
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Role     UserRole         `json:"role"`
	Pharmacy *PharmacyProfile `json:"pharmacy,omitempty"`
	Delivery *DeliveryProfile `json:"delivery,omitempty"`
}
