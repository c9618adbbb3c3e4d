// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/beirutvibes/menu-backend/internal/apperrors"
	"github.com/beirutvibes/menu-backend/internal/models"
	"github.com/beirutvibes/menu-backend/internal/ordering"
	"github.com/beirutvibes/menu-backend/internal/utils"
)

type ProductService struct {
	db           *gorm.DB
	imageService *ImageService
}

type CreateProductRequest struct {
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
	Name        string    `json:"name" validate:"required,min=2,max=255"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Tags        []string  `json:"tags,omitempty"`
	IsFeatured  bool      `json:"is_featured,omitempty"`
	IsAvailable *bool     `json:"is_available,omitempty"`
}

type UpdateProductRequest struct {
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Name        string     `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description *string    `json:"description,omitempty"`
	Price       *float64   `json:"price,omitempty" validate:"omitempty,gt=0"`
	Tags        []string   `json:"tags,omitempty"`
	IsFeatured  *bool      `json:"is_featured,omitempty"`
	IsAvailable *bool      `json:"is_available,omitempty"`
}

func NewProductService(db *gorm.DB, imageService *ImageService) *ProductService {
	return &ProductService{
		db:           db,
		imageService: imageService,
	}
}

// ProductSearchParams narrows the admin product listing.
type ProductSearchParams struct {
	CategoryID *uuid.UUID
	Featured   *bool
	Available  *bool
	Search     string
}

// SearchProducts lists products for the dashboard, newest position last.
// Free-text search matches name, description, and tags case-insensitively.
func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, error) {
	query := s.db.Model(&models.Product{})

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.Featured != nil {
		query = query.Where("is_featured = ?", *params.Featured)
	}
	if params.Available != nil {
		query = query.Where("is_available = ?", *params.Available)
	}
	if term := strings.TrimSpace(params.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(CAST(tags AS TEXT)) LIKE ?",
			like, like, like,
		)
	}

	var products []models.Product
	if err := query.Order("sort_order asc").Order("created_at asc").
		Find(&products).Error; err != nil {
		return nil, apperrors.NewDataError("failed to search products", err)
	}
	return products, nil
}

func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %w", apperrors.ErrNotFound)
		}
		return nil, apperrors.NewDataError("failed to fetch product", err)
	}
	return &product, nil
}

// CreateProduct appends the product at the end of its category:
// sort_order = max sibling sort_order + 1, independent per category.
func (s *ProductService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	var category models.Category
	if err := s.db.First(&category, "id = ?", req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %w", apperrors.ErrNotFound)
		}
		return nil, apperrors.NewDataError("failed to verify category", err)
	}

	var sortOrders []int
	if err := s.db.Model(&models.Product{}).
		Where("category_id = ?", req.CategoryID).
		Pluck("sort_order", &sortOrders).Error; err != nil {
		return nil, apperrors.NewDataError("failed to determine sort order", err)
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	product := &models.Product{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Tags:        capTags(req.Tags),
		IsFeatured:  req.IsFeatured,
		IsAvailable: isAvailable,
		SortOrder:   ordering.NextSortOrder(sortOrders),
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, apperrors.NewDataError("failed to create product", err)
	}

	return product, nil
}

// UpdateProduct applies partial field updates. Moving the product to
// another category re-appends it at the end of the target category and
// compacts the one it left.
func (s *ProductService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	oldCategoryID := product.CategoryID
	updates := make(map[string]interface{})

	if req.CategoryID != nil && *req.CategoryID != oldCategoryID {
		var category models.Category
		if err := s.db.First(&category, "id = ?", *req.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("category %w", apperrors.ErrNotFound)
			}
			return nil, apperrors.NewDataError("failed to verify category", err)
		}

		var sortOrders []int
		if err := s.db.Model(&models.Product{}).
			Where("category_id = ?", *req.CategoryID).
			Pluck("sort_order", &sortOrders).Error; err != nil {
			return nil, apperrors.NewDataError("failed to determine sort order", err)
		}

		updates["category_id"] = *req.CategoryID
		updates["sort_order"] = ordering.NextSortOrder(sortOrders)
	}

	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Tags != nil {
		updates["tags"] = capTags(req.Tags)
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}

	if len(updates) > 0 {
		if err := s.db.Model(product).Updates(updates).Error; err != nil {
			return nil, apperrors.NewDataError("failed to update product", err)
		}
	}

	if _, moved := updates["category_id"]; moved {
		if err := s.compactProducts(oldCategoryID); err != nil {
			return nil, err
		}
	}

	return s.GetProduct(id)
}

func (s *ProductService) SetAvailable(id uuid.UUID, available bool) (*models.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(product).Update("is_available", available).Error; err != nil {
		return nil, apperrors.NewDataError("failed to update product availability", err)
	}

	product.IsAvailable = available
	return product, nil
}

// DeleteProduct removes the product's managed storage objects first (a
// failure there is a logged warning, not an abort), then the row; image
// rows go with it via the cascade. Remaining category siblings are
// renumbered densely.
func (s *ProductService) DeleteProduct(id uuid.UUID) error {
	product, err := s.GetProduct(id)
	if err != nil {
		return err
	}

	var images []models.ProductImage
	if err := s.db.Where("product_id = ?", id).Find(&images).Error; err != nil {
		return apperrors.NewDataError("failed to load product images", err)
	}

	var paths []string
	for _, img := range images {
		if img.Path != "" && !IsExternalPath(img.Path) {
			paths = append(paths, img.Path)
		}
	}
	if len(paths) > 0 {
		if rmErr := s.imageService.store.Remove(paths...); rmErr != nil {
			// Warn but still proceed with the row delete.
			logrus.WithError(rmErr).WithField("product_id", id).Warn("Storage cleanup failed")
		}
	}

	if err := s.db.Select("Images").Delete(product).Error; err != nil {
		return apperrors.NewDataError("failed to delete product", err)
	}

	return s.compactProducts(product.CategoryID)
}

// Reorder persists a drag reorder of one category's products. The
// permutation must cover exactly that sibling set.
func (s *ProductService) Reorder(categoryID uuid.UUID, orderedIDs []uuid.UUID) error {
	var products []models.Product
	if err := s.db.Where("category_id = ?", categoryID).Find(&products).Error; err != nil {
		return apperrors.NewDataError("failed to load products", err)
	}

	siblings := make(map[uuid.UUID]int, len(products))
	for _, p := range products {
		siblings[p.ID] = p.SortOrder
	}

	if !ordering.SameMembers(orderedIDs, siblings) {
		return apperrors.NewValidationError("ordered_ids", "reorder must include every product of the category exactly once")
	}

	for _, u := range ordering.Changed(orderedIDs, siblings) {
		if err := s.db.Model(&models.Product{}).
			Where("id = ?", u.ID).
			Update("sort_order", u.SortOrder).Error; err != nil {
			return apperrors.NewDataError("failed to persist product order", err)
		}
	}

	return nil
}

func (s *ProductService) compactProducts(categoryID uuid.UUID) error {
	var products []models.Product
	if err := s.db.Where("category_id = ?", categoryID).
		Order("sort_order asc").Order("created_at asc").
		Find(&products).Error; err != nil {
		return apperrors.NewDataError("failed to load products", err)
	}

	for idx, p := range products {
		if p.SortOrder == idx {
			continue
		}
		if err := s.db.Model(&models.Product{}).
			Where("id = ?", p.ID).
			Update("sort_order", idx).Error; err != nil {
			return apperrors.NewDataError("failed to renumber products", err)
		}
	}

	return nil
}

func capTags(tags []string) models.StringList {
	var cleaned []string
	for _, t := range tags {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
		if len(cleaned) == models.MaxProductTags {
			break
		}
	}
	return models.StringList(cleaned)
}
