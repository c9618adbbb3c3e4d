// internal/models/settings.go
package models

import "time"

// SettingsID is the fixed primary key of the restaurant settings singleton.
// The row is always written via upsert-by-id, never insert-then-lookup.
const SettingsID = 1

// Settings holds optional overrides for the branding defaults from config.
// Empty fields fall back to the static defaults when merged for the public
// surface.
type Settings struct {
	ID        int    `json:"id" gorm:"primary_key"`
	Name      string `json:"name" gorm:"size:255"`
	Tagline   string `json:"tagline" gorm:"size:512"`
	Currency  string `json:"currency" gorm:"size:8"`
	Address   string `json:"address" gorm:"size:512"`
	Phone     string `json:"phone" gorm:"size:64"`
	Hours     string `json:"hours" gorm:"size:255"`
	MapsURL   string `json:"maps_url" gorm:"size:1024"`
	SocialURL string `json:"social_url" gorm:"size:1024"`

	AboutTitle     string `json:"about_title" gorm:"size:255"`
	AboutText      string `json:"about_text" gorm:"type:text"`
	AboutImageURL  string `json:"about_image_url" gorm:"size:1024"`
	AboutImagePath string `json:"about_image_path" gorm:"size:1024"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (Settings) TableName() string {
	return "restaurant_settings"
}
