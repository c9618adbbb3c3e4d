// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beirutvibes/menu-backend/internal/apperrors"
	"github.com/beirutvibes/menu-backend/internal/config"
	"github.com/beirutvibes/menu-backend/internal/models"
	"github.com/beirutvibes/menu-backend/internal/utils"
)

type AuthService struct {
	db  *gorm.DB
	jwt config.JWTConfig
	adm config.AdminConfig
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is the token plus the signed-in identity.
type AuthResponse struct {
	Token   string          `json:"token"`
	User    *models.User    `json:"user"`
	Profile *models.Profile `json:"profile"`
}

func NewAuthService(db *gorm.DB, jwtCfg config.JWTConfig, admCfg config.AdminConfig) *AuthService {
	return &AuthService{
		db:  db,
		jwt: jwtCfg,
		adm: admCfg,
	}
}

// Register creates an account. The very first account becomes the
// admin; everyone after that starts as a viewer until an admin promotes
// them. Signup can be switched off entirely once the team is onboarded.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	if !s.adm.EnableSignup {
		return nil, apperrors.NewAuthError("signup is disabled")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User
	err := s.db.First(&existing, "email = ?", email).Error
	if err == nil {
		return nil, apperrors.NewValidationError("email", "an account with this email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewDataError("failed to check existing account", err)
	}

	var userCount int64
	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return nil, apperrors.NewDataError("failed to count accounts", err)
	}

	user := &models.User{Email: email}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperrors.NewAuthError("failed to hash password")
	}

	role := models.RoleViewer
	if userCount == 0 {
		role = models.RoleAdmin
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile := &models.Profile{
			UserID: user.ID,
			Email:  user.Email,
			Role:   role,
		}
		return tx.Create(profile).Error
	})
	if err != nil {
		return nil, apperrors.NewDataError("failed to create account", err)
	}

	return s.issueToken(user)
}

// Login verifies credentials and issues a token. Invalid email and
// invalid password are deliberately the same error.
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := s.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAuthError("invalid email or password")
		}
		return nil, apperrors.NewDataError("failed to fetch account", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, apperrors.NewAuthError("invalid email or password")
	}

	now := time.Now()
	if err := s.db.Model(&user).Update("last_login_at", now).Error; err != nil {
		return nil, apperrors.NewDataError("failed to record login", err)
	}
	user.LastLoginAt = &now

	return s.issueToken(&user)
}

// GetOrCreateProfile returns the role profile for a user, creating a
// viewer profile on first access for accounts that predate the
// profiles table.
func (s *AuthService) GetOrCreateProfile(userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.First(&profile, "user_id = ?", userID).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewDataError("failed to fetch profile", err)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %w", apperrors.ErrNotFound)
		}
		return nil, apperrors.NewDataError("failed to fetch user", err)
	}

	profile = models.Profile{
		UserID: user.ID,
		Email:  user.Email,
		Role:   models.RoleViewer,
	}
	if err := s.db.Create(&profile).Error; err != nil {
		return nil, apperrors.NewDataError("failed to create profile", err)
	}
	return &profile, nil
}

func (s *AuthService) issueToken(user *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateJWT(user.ID, user.Email, s.jwt.AccessTokenTTL)
	if err != nil {
		return nil, apperrors.NewAuthError("failed to issue token")
	}

	profile, err := s.GetOrCreateProfile(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token:   token,
		User:    user,
		Profile: profile,
	}, nil
}
