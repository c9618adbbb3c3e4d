// internal/services/settings_service.go
package services

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/beirutvibes/menu-backend/internal/apperrors"
	"github.com/beirutvibes/menu-backend/internal/config"
	"github.com/beirutvibes/menu-backend/internal/models"
	"github.com/beirutvibes/menu-backend/internal/utils"
)

// SettingsService manages the single restaurant settings row.
type SettingsService struct {
	db           *gorm.DB
	imageService *ImageService
	brand        config.BrandConfig
}

type UpdateSettingsRequest struct {
	Name       string  `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Tagline    *string `json:"tagline,omitempty"`
	Currency   *string `json:"currency,omitempty" validate:"omitempty,len=3"`
	Address    *string `json:"address,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Hours      *string `json:"hours,omitempty"`
	MapsURL    *string `json:"maps_url,omitempty" validate:"omitempty,url"`
	SocialURL  *string `json:"social_url,omitempty" validate:"omitempty,url"`
	AboutTitle *string `json:"about_title,omitempty"`
	AboutText  *string `json:"about_text,omitempty"`

	AboutImage       *ImageFile `json:"-"`
	RemoveAboutImage bool       `json:"remove_about_image,omitempty"`
}

func NewSettingsService(db *gorm.DB, imageService *ImageService, brand config.BrandConfig) *SettingsService {
	return &SettingsService{
		db:           db,
		imageService: imageService,
		brand:        brand,
	}
}

// GetSettings returns the settings row, falling back to the configured
// brand defaults when nobody has saved anything yet.
func (s *SettingsService) GetSettings() (*models.Settings, error) {
	var settings models.Settings
	err := s.db.First(&settings, "id = ?", models.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.defaults(), nil
	}
	if err != nil {
		return nil, apperrors.NewDataError("failed to fetch settings", err)
	}
	return &settings, nil
}

// PublicSettings merges the stored row over the brand defaults so empty
// fields never reach the public surface blank.
func (s *SettingsService) PublicSettings() (*models.Settings, error) {
	settings, err := s.GetSettings()
	if err != nil {
		return nil, err
	}

	merged := *settings
	def := s.defaults()
	if merged.Name == "" {
		merged.Name = def.Name
	}
	if merged.Tagline == "" {
		merged.Tagline = def.Tagline
	}
	if merged.Currency == "" {
		merged.Currency = def.Currency
	}
	if merged.Address == "" {
		merged.Address = def.Address
	}
	if merged.Phone == "" {
		merged.Phone = def.Phone
	}
	if merged.Hours == "" {
		merged.Hours = def.Hours
	}
	if merged.MapsURL == "" {
		merged.MapsURL = def.MapsURL
	}
	if merged.SocialURL == "" {
		merged.SocialURL = def.SocialURL
	}
	if merged.AboutTitle == "" {
		merged.AboutTitle = def.AboutTitle
	}
	if merged.AboutText == "" {
		merged.AboutText = def.AboutText
	}
	return &merged, nil
}

// UpdateSettings upserts the singleton row. A new about image is
// uploaded before the row is written; the old object is removed only
// after the write succeeds.
func (s *SettingsService) UpdateSettings(req *UpdateSettingsRequest) (*models.Settings, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	var current models.Settings
	err := s.db.First(&current, "id = ?", models.SettingsID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewDataError("failed to fetch settings", err)
	}

	settings := current
	settings.ID = models.SettingsID

	if req.Name != "" {
		settings.Name = req.Name
	}
	if req.Tagline != nil {
		settings.Tagline = *req.Tagline
	}
	if req.Currency != nil {
		settings.Currency = *req.Currency
	}
	if req.Address != nil {
		settings.Address = *req.Address
	}
	if req.Phone != nil {
		settings.Phone = *req.Phone
	}
	if req.Hours != nil {
		settings.Hours = *req.Hours
	}
	if req.MapsURL != nil {
		settings.MapsURL = *req.MapsURL
	}
	if req.SocialURL != nil {
		settings.SocialURL = *req.SocialURL
	}
	if req.AboutTitle != nil {
		settings.AboutTitle = *req.AboutTitle
	}
	if req.AboutText != nil {
		settings.AboutText = *req.AboutText
	}

	oldAboutPath := current.AboutImagePath
	var uploadedPath string

	if req.AboutImage != nil {
		uploaded, err := s.imageService.UploadImage("settings", *req.AboutImage)
		if err != nil {
			return nil, err
		}
		settings.AboutImageURL = uploaded.URL
		settings.AboutImagePath = uploaded.Path
		uploadedPath = uploaded.Path
	} else if req.RemoveAboutImage {
		settings.AboutImageURL = ""
		settings.AboutImagePath = ""
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&settings).Error; err != nil {
		if uploadedPath != "" {
			if rmErr := s.imageService.DeleteStoragePath(uploadedPath); rmErr != nil {
				logrus.WithError(rmErr).WithField("path", uploadedPath).Warn("Orphan cleanup failed")
			}
		}
		return nil, apperrors.NewDataError("failed to save settings", err)
	}

	if oldAboutPath != "" && oldAboutPath != settings.AboutImagePath {
		if rmErr := s.imageService.DeleteStoragePath(oldAboutPath); rmErr != nil {
			logrus.WithError(rmErr).WithField("path", oldAboutPath).Warn("Old about image cleanup failed")
		}
	}

	return &settings, nil
}

func (s *SettingsService) defaults() *models.Settings {
	return &models.Settings{
		ID:         models.SettingsID,
		Name:       s.brand.Name,
		Tagline:    s.brand.Tagline,
		Currency:   s.brand.Currency,
		Address:    s.brand.Address,
		Phone:      s.brand.Phone,
		Hours:      s.brand.Hours,
		MapsURL:    s.brand.MapsURL,
		SocialURL:  s.brand.SocialURL,
		AboutTitle: s.brand.AboutTitle,
		AboutText:  s.brand.AboutText,
	}
}
