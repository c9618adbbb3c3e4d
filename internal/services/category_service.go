// internal/services/category_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/beirutvibes/menu-backend/internal/apperrors"
	"github.com/beirutvibes/menu-backend/internal/models"
	"github.com/beirutvibes/menu-backend/internal/ordering"
	"github.com/beirutvibes/menu-backend/internal/utils"
)

type CategoryService struct {
	db           *gorm.DB
	imageService *ImageService
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`

	// Optional cover, uploaded after the row exists so the storage path can
	// be scoped under the category id.
	Cover *ImageFile `json:"-"`
}

type UpdateCategoryRequest struct {
	Name        string  `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`

	Cover       *ImageFile `json:"-"`
	RemoveCover bool       `json:"remove_cover,omitempty"`
}

func NewCategoryService(db *gorm.DB, imageService *ImageService) *CategoryService {
	return &CategoryService{
		db:           db,
		imageService: imageService,
	}
}

func (s *CategoryService) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("sort_order asc").Order("created_at asc").
		Find(&categories).Error; err != nil {
		return nil, apperrors.NewDataError("failed to fetch categories", err)
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %w", apperrors.ErrNotFound)
		}
		return nil, apperrors.NewDataError("failed to fetch category", err)
	}
	return &category, nil
}

// CreateCategory appends the new category at the end of the order
// (max sort_order + 1). The cover, if any, is uploaded after the insert
// and unwired again if the follow-up update fails.
func (s *CategoryService) CreateCategory(req *CreateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	var sortOrders []int
	if err := s.db.Model(&models.Category{}).
		Pluck("sort_order", &sortOrders).Error; err != nil {
		return nil, apperrors.NewDataError("failed to determine sort order", err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    isActive,
		SortOrder:   ordering.NextSortOrder(sortOrders),
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.NewDataError("failed to create category", err)
	}

	if req.Cover != nil {
		cover, err := s.imageService.UploadImage(fmt.Sprintf("categories/%s", category.ID), *req.Cover)
		if err != nil {
			return nil, err
		}

		if err := s.db.Model(category).Updates(map[string]interface{}{
			"cover_image_url":  cover.URL,
			"cover_image_path": cover.Path,
		}).Error; err != nil {
			// Avoid leaving an orphan object behind the failed update.
			if rmErr := s.imageService.DeleteStoragePath(cover.Path); rmErr != nil {
				logrus.WithError(rmErr).WithField("path", cover.Path).Warn("Orphan cleanup failed")
			}
			return nil, apperrors.NewDataError("failed to attach cover image", err)
		}
		category.CoverImageURL = cover.URL
		category.CoverImagePath = cover.Path
	}

	return category, nil
}

// UpdateCategory uploads a replacement cover before touching the row, and
// deletes the previous cover object only after the row update succeeded.
func (s *CategoryService) UpdateCategory(id uuid.UUID, req *UpdateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	oldPath := category.CoverImagePath

	var nextCover *UploadedImage
	if req.Cover != nil {
		nextCover, err = s.imageService.UploadImage(fmt.Sprintf("categories/%s", id), *req.Cover)
		if err != nil {
			return nil, err
		}
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if nextCover != nil {
		updates["cover_image_url"] = nextCover.URL
		updates["cover_image_path"] = nextCover.Path
	} else if req.RemoveCover {
		updates["cover_image_url"] = ""
		updates["cover_image_path"] = ""
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			if nextCover != nil {
				if rmErr := s.imageService.DeleteStoragePath(nextCover.Path); rmErr != nil {
					logrus.WithError(rmErr).WithField("path", nextCover.Path).Warn("Orphan cleanup failed")
				}
			}
			return nil, apperrors.NewDataError("failed to update category", err)
		}
	}

	// Cleanup the old cover only after the row update succeeded.
	if (nextCover != nil || req.RemoveCover) && oldPath != "" {
		if rmErr := s.imageService.DeleteStoragePath(oldPath); rmErr != nil {
			logrus.WithError(rmErr).WithField("path", oldPath).Warn("Old cover cleanup failed")
		}
	}

	return s.GetCategory(id)
}

func (s *CategoryService) SetActive(id uuid.UUID, active bool) (*models.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(category).Update("is_active", active).Error; err != nil {
		return nil, apperrors.NewDataError("failed to update category visibility", err)
	}

	category.IsActive = active
	return category, nil
}

// DeleteCategory is blocked by the store while products still reference
// the category; hiding it is the supported alternative. On success a
// managed cover object is removed and the remaining categories are
// renumbered densely.
func (s *CategoryService) DeleteCategory(id uuid.UUID) error {
	category, err := s.GetCategory(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(&models.Category{}, "id = ?", id).Error; err != nil {
		if apperrors.IsForeignKeyViolation(err) {
			return apperrors.NewDataError("category still has products; hide it instead of deleting", err)
		}
		return apperrors.NewDataError("failed to delete category", err)
	}

	if category.CoverImagePath != "" {
		if rmErr := s.imageService.DeleteStoragePath(category.CoverImagePath); rmErr != nil {
			logrus.WithError(rmErr).WithField("path", category.CoverImagePath).Warn("Cover cleanup failed")
		}
	}

	return s.compactCategories()
}

// Reorder persists a drag reorder of the whole category list: one
// sort_order update per changed element, ascending. Any failure leaves the
// store partially updated; the caller restores truth by re-fetching.
func (s *CategoryService) Reorder(orderedIDs []uuid.UUID) error {
	var categories []models.Category
	if err := s.db.Find(&categories).Error; err != nil {
		return apperrors.NewDataError("failed to load categories", err)
	}

	siblings := make(map[uuid.UUID]int, len(categories))
	for _, c := range categories {
		siblings[c.ID] = c.SortOrder
	}

	if !ordering.SameMembers(orderedIDs, siblings) {
		return apperrors.NewValidationError("ordered_ids", "reorder must include every category exactly once")
	}

	for _, u := range ordering.Changed(orderedIDs, siblings) {
		if err := s.db.Model(&models.Category{}).
			Where("id = ?", u.ID).
			Update("sort_order", u.SortOrder).Error; err != nil {
			return apperrors.NewDataError("failed to persist category order", err)
		}
	}

	return nil
}

func (s *CategoryService) compactCategories() error {
	var categories []models.Category
	if err := s.db.Order("sort_order asc").Order("created_at asc").
		Find(&categories).Error; err != nil {
		return apperrors.NewDataError("failed to load categories", err)
	}

	for idx, c := range categories {
		if c.SortOrder == idx {
			continue
		}
		if err := s.db.Model(&models.Category{}).
			Where("id = ?", c.ID).
			Update("sort_order", idx).Error; err != nil {
			return apperrors.NewDataError("failed to renumber categories", err)
		}
	}

	return nil
}
