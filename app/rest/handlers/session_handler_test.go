package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PSUNAND/Medassist/app/domain"
	"github.com/PSUNAND/Medassist/app/rest/middleware"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMeReturnsShapedProfile(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	userID := uuid.New()
	user := &domain.User{
		ID:    userID,
		Email: "rx@example.com",
		Name:  "City Pharmacy",
		Role:  domain.UserRolePharmacy,
		Pharmacy: &domain.PharmacyProfile{
			PharmacyName:  "City Pharmacy",
			LicenseNumber: "PH-1234",
		},
	}
	c.Set(middleware.ContextKeySession, &domain.SessionContext{
		UserID: userID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		User:   user,
	})

	handler := NewSessionHandler(testLogger())
	require.NoError(t, handler.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			User struct {
				ID       string `json:"id"`
				Name     string `json:"name"`
				Email    string `json:"email"`
				Role     string `json:"role"`
				Pharmacy *struct {
					LicenseNumber string `json:"license_number"`
				} `json:"pharmacy"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.Equal(t, userID.String(), body.Data.User.ID)
	assert.Equal(t, "pharmacy", body.Data.User.Role)
	require.NotNil(t, body.Data.User.Pharmacy)
	assert.Equal(t, "PH-1234", body.Data.User.Pharmacy.LicenseNumber)

	// Secrets must never appear in the projection
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "token_version")
}

func TestMeWithoutVerifiedSession(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewSessionHandler(testLogger())
	require.NoError(t, handler.Me(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Message)
}
