// internal/services/menu_service.go
package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/beirutvibes/menu-backend/internal/apperrors"
	"github.com/beirutvibes/menu-backend/internal/models"
)

// MenuService assembles the ordered category/product/image tree that
// both the public menu and the admin dashboard render.
type MenuService struct {
	db *gorm.DB
}

// MenuCategory is one category with its products in display order.
type MenuCategory struct {
	models.Category
	Products []MenuProduct `json:"products"`
}

// MenuProduct is one product with its images in display order.
type MenuProduct struct {
	models.Product
	Images []models.ProductImage `json:"images"`
}

// Menu is the full tree plus the featured strip.
type Menu struct {
	Categories []MenuCategory `json:"categories"`
	Featured   []MenuProduct  `json:"featured"`
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

// AdminMenu returns every category and product, visible or not, for the
// dashboard. An optional search term filters products the same way the
// public menu does, without hiding empty categories.
func (s *MenuService) AdminMenu(search string) (*Menu, error) {
	return s.buildMenu(false, search)
}

// PublicMenu returns only what a guest should see: active categories
// that still have at least one available product, available products,
// and the available featured items. An optional search term filters
// products by name, description, or tag before visibility is applied.
func (s *MenuService) PublicMenu(search string) (*Menu, error) {
	return s.buildMenu(true, search)
}

func (s *MenuService) buildMenu(publicOnly bool, search string) (*Menu, error) {
	var categories []models.Category
	if err := s.db.Order("sort_order asc").Order("created_at asc").
		Find(&categories).Error; err != nil {
		return nil, apperrors.NewDataError("failed to load categories", err)
	}

	var products []models.Product
	if err := s.db.Order("sort_order asc").Order("created_at asc").
		Find(&products).Error; err != nil {
		return nil, apperrors.NewDataError("failed to load products", err)
	}

	var images []models.ProductImage
	if err := s.db.Order("sort_order asc").Order("created_at asc").
		Find(&images).Error; err != nil {
		return nil, apperrors.NewDataError("failed to load product images", err)
	}

	imagesByProduct := make(map[string][]models.ProductImage, len(products))
	for _, img := range images {
		key := img.ProductID.String()
		imagesByProduct[key] = append(imagesByProduct[key], img)
	}

	term := strings.ToLower(strings.TrimSpace(search))

	productsByCategory := make(map[string][]MenuProduct)
	var featured []MenuProduct
	for _, p := range products {
		if publicOnly && !p.IsAvailable {
			continue
		}
		if term != "" && !matchesSearch(&p, term) {
			continue
		}

		mp := MenuProduct{
			Product: p,
			Images:  imagesByProduct[p.ID.String()],
		}
		key := p.CategoryID.String()
		productsByCategory[key] = append(productsByCategory[key], mp)

		if p.IsFeatured {
			featured = append(featured, mp)
		}
	}

	menu := &Menu{
		Categories: []MenuCategory{},
		Featured:   featured,
	}
	if menu.Featured == nil {
		menu.Featured = []MenuProduct{}
	}

	for _, c := range categories {
		prods := productsByCategory[c.ID.String()]
		if publicOnly {
			if !c.IsActive {
				continue
			}
			if len(prods) == 0 {
				continue
			}
		}
		if prods == nil {
			prods = []MenuProduct{}
		}
		menu.Categories = append(menu.Categories, MenuCategory{
			Category: c,
			Products: prods,
		})
	}

	if publicOnly {
		menu.Featured = filterVisibleFeatured(menu.Featured, categories)
	}

	return menu, nil
}

// matchesSearch does a case-insensitive substring match over the
// product name, description, and tags.
func matchesSearch(p *models.Product, term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// filterVisibleFeatured drops featured products whose category is
// hidden; a hidden category hides everything in it.
func filterVisibleFeatured(featured []MenuProduct, categories []models.Category) []MenuProduct {
	active := make(map[string]bool, len(categories))
	for _, c := range categories {
		active[c.ID.String()] = c.IsActive
	}

	visible := make([]MenuProduct, 0, len(featured))
	for _, f := range featured {
		if active[f.CategoryID.String()] {
			visible = append(visible, f)
		}
	}
	return visible
}
