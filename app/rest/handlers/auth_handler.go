package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PSUNAND/Medassist/app/domain"
	"github.com/PSUNAND/Medassist/app/port"
	"github.com/PSUNAND/Medassist/app/rest/middleware"
	"github.com/PSUNAND/Medassist/app/utils/validator"
)

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,portal_role"`

	// Role-specific fields, required for the matching role only
	PharmacyName  string `json:"pharmacy_name,omitempty" validate:"required_if=Role pharmacy"`
	LicenseNumber string `json:"license_number,omitempty" validate:"required_if=Role pharmacy"`
	VehicleType   string `json:"vehicle_type,omitempty" validate:"required_if=Role delivery"`
	ServiceArea   string `json:"service_area,omitempty"`
}

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authUsecase port.AuthUsecase
	validator   *validator.Validator
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase port.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator.New(),
		logger:      logger,
	}
}

// Login verifies email+password and returns a freshly issued credential
// together with the user's profile
func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Fail("invalid request body"))
	}
	if err := h.validator.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Fail(err.Error()))
	}

	blob, user, err := h.authUsecase.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, Fail("invalid email or password"))
		}
		h.logger.Error("login failed", "error", err)
		return c.JSON(http.StatusInternalServerError, Fail("login failed"))
	}

	return c.JSON(http.StatusOK, OK(map[string]interface{}{
		"token": blob,
		"user":  user.Profile(),
	}))
}

// Register creates a new identity record
func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Fail("invalid request body"))
	}
	if err := h.validator.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Fail(err.Error()))
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, Fail("invalid role"))
	}

	seed := &domain.User{
		Email: req.Email,
		Name:  req.Name,
		Role:  role,
	}
	switch role {
	case domain.UserRolePharmacy:
		seed.Pharmacy = &domain.PharmacyProfile{
			PharmacyName:  req.PharmacyName,
			LicenseNumber: req.LicenseNumber,
		}
	case domain.UserRoleDelivery:
		seed.Delivery = &domain.DeliveryProfile{
			VehicleType: req.VehicleType,
			ServiceArea: req.ServiceArea,
		}
	}

	user, err := h.authUsecase.Register(ctx, seed, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return c.JSON(http.StatusConflict, Fail("account already exists"))
		case errors.Is(err, domain.ErrPasswordTooWeak), errors.Is(err, domain.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, Fail(err.Error()))
		default:
			h.logger.Error("registration failed", "error", err)
			return c.JSON(http.StatusInternalServerError, Fail("registration failed"))
		}
	}

	return c.JSON(http.StatusCreated, OK(map[string]interface{}{
		"user": user.Profile(),
	}))
}

// LogoutAll revokes every outstanding credential for the authenticated user.
// Single-device logout is purely client-side slot clearing and needs no
// server call.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	ctx := c.Request().Context()

	session, err := middleware.SessionFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, Fail("authentication required"))
	}

	if err := h.authUsecase.RevokeAll(ctx, session.UserID); err != nil {
		h.logger.Error("revocation failed", "user_id", session.UserID, "error", err)
		return c.JSON(http.StatusInternalServerError, Fail("logout failed"))
	}

	return c.JSON(http.StatusOK, OK(map[string]interface{}{
		"revoked": true,
	}))
}
