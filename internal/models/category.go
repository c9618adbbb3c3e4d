// internal/models/category.go
package models

type Category struct {
	BaseModel
	Name           string `json:"name" gorm:"size:255;not null"`
	Description    string `json:"description" gorm:"type:text"`
	CoverImageURL  string `json:"cover_image_url" gorm:"size:1024"`
	CoverImagePath string `json:"cover_image_path" gorm:"size:1024"`
	SortOrder      int    `json:"sort_order" gorm:"not null;default:0;index"`

	// No column default on purpose: a default would make gorm skip the
	// field on insert when it holds false.
	IsActive bool `json:"is_active" gorm:"not null;index"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}

// Visible reports whether the category appears on the public menu.
func (c *Category) Visible() bool {
	return c.IsActive
}
