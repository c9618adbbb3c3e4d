// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxProductImages caps the photo gallery per product.
const MaxProductImages = 5

// MaxProductTags caps the free-text tag list per product.
const MaxProductTags = 8

type Product struct {
	BaseModel
	CategoryID  uuid.UUID  `json:"category_id" gorm:"type:uuid;not null;index"`
	Name        string     `json:"name" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Price       float64    `json:"price" gorm:"type:decimal(10,2);not null"`
	Tags        StringList `json:"tags" gorm:"type:jsonb"`
	IsFeatured  bool       `json:"is_featured" gorm:"not null;index"`
	IsAvailable bool       `json:"is_available" gorm:"not null;index"`
	SortOrder   int        `json:"sort_order" gorm:"not null;default:0;index"`

	// Relationships
	Category Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Images   []ProductImage `json:"images,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// Visible reports whether the product appears on the public menu.
func (p *Product) Visible() bool {
	return p.IsAvailable
}

type ProductImage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	URL       string    `json:"url" gorm:"size:1024;not null"`
	Path      string    `json:"path" gorm:"size:1024;not null"`
	Alt       string    `json:"alt" gorm:"size:255"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
