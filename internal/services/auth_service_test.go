// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beirutvibes/menu-backend/internal/apperrors"
	"github.com/beirutvibes/menu-backend/internal/config"
	"github.com/beirutvibes/menu-backend/internal/models"
	"github.com/beirutvibes/menu-backend/internal/utils"
)

func newAuthService(t *testing.T, enableSignup bool) *AuthService {
	t.Helper()
	db := setupTestDB(t)
	return NewAuthService(db,
		config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 1},
		config.AdminConfig{EnableSignup: enableSignup},
	)
}

func TestRegisterFirstAccountIsAdmin(t *testing.T) {
	svc := newAuthService(t, true)

	first, err := svc.Register(&RegisterRequest{Email: "owner@example.com", Password: "correct-horse-1"})
	require.NoError(t, err)
	require.NotNil(t, first.Profile)
	assert.Equal(t, models.RoleAdmin, first.Profile.Role)
	assert.True(t, first.Profile.IsAdmin())
	assert.NotEmpty(t, first.Token)

	second, err := svc.Register(&RegisterRequest{Email: "staff@example.com", Password: "correct-horse-2"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, second.Profile.Role)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc := newAuthService(t, true)

	resp, err := svc.Register(&RegisterRequest{Email: "  Owner@Example.COM ", Password: "correct-horse-1"})
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", resp.User.Email)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthService(t, true)

	_, err := svc.Register(&RegisterRequest{Email: "owner@example.com", Password: "correct-horse-1"})
	require.NoError(t, err)

	_, err = svc.Register(&RegisterRequest{Email: "OWNER@example.com", Password: "correct-horse-2"})
	require.Error(t, err)
	var valErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestRegisterDisabled(t *testing.T) {
	svc := newAuthService(t, false)

	_, err := svc.Register(&RegisterRequest{Email: "owner@example.com", Password: "correct-horse-1"})
	require.Error(t, err)
	var authErr *apperrors.AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc := newAuthService(t, true)

	_, err := svc.Register(&RegisterRequest{Email: "owner@example.com", Password: "correct-horse-1"})
	require.NoError(t, err)

	resp, err := svc.Login(&LoginRequest{Email: "owner@example.com", Password: "correct-horse-1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User.LastLoginAt)

	claims, err := utils.ValidateJWT(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc := newAuthService(t, true)

	_, err := svc.Register(&RegisterRequest{Email: "owner@example.com", Password: "correct-horse-1"})
	require.NoError(t, err)

	_, wrongPass := svc.Login(&LoginRequest{Email: "owner@example.com", Password: "wrong"})
	require.Error(t, wrongPass)
	_, unknown := svc.Login(&LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	require.Error(t, unknown)

	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestGetOrCreateProfileBackfillsViewer(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db,
		config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 1},
		config.AdminConfig{EnableSignup: true},
	)

	// Account without a profile row, as if it predated the profiles table.
	user := &models.User{Email: "legacy@example.com"}
	require.NoError(t, user.SetPassword("correct-horse-1"))
	require.NoError(t, db.Create(user).Error)

	profile, err := svc.GetOrCreateProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, profile.Role)
	assert.Equal(t, user.Email, profile.Email)

	again, err := svc.GetOrCreateProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
}
