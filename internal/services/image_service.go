// internal/services/image_service.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/beirutvibes/menu-backend/internal/apperrors"
	"github.com/beirutvibes/menu-backend/internal/models"
	"github.com/beirutvibes/menu-backend/internal/ordering"
)

// ImageService moves image bytes into object storage and keeps the
// product_images rows consistent with what actually exists there, even
// under partial failure. Upload before insert, row delete before object
// delete: a failure can leak an unreferenced storage object but never a
// row pointing at a missing object.
type ImageService struct {
	db    *gorm.DB
	store ObjectStore
}

func NewImageService(db *gorm.DB, store ObjectStore) *ImageService {
	return &ImageService{
		db:    db,
		store: store,
	}
}

// ImageFile is an in-memory upload, decoded from the multipart form by the
// handler.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type UploadedImage struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// UploadProgress is emitted after each successfully stored file. It is an
// observation-only side channel for UI feedback.
type UploadProgress struct {
	Uploaded int    `json:"uploaded"`
	Total    int    `json:"total"`
	FileName string `json:"file_name"`
}

// ErrImageLimit reports that a batch was truncated to the per-product
// gallery cap. The rows returned alongside it are committed.
var ErrImageLimit = apperrors.NewValidationError("images", fmt.Sprintf("max %d photos per product", models.MaxProductImages))

// Storage objects and external image URLs (e.g. stock photos for demo
// content) share the path column. External references are never deleted
// from storage.
func IsExternalPath(path string) bool {
	return strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "external:")
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9._-]`)

func sanitizeFileName(name string) string {
	lower := strings.ToLower(name)
	lower = strings.Join(strings.Fields(lower), "-")
	return unsafeFileChars.ReplaceAllString(lower, "")
}

func objectPath(folder, fileName string) string {
	ext := strings.TrimPrefix(filepath.Ext(fileName), ".")
	if ext == "" {
		ext = "jpg"
	}
	safe := sanitizeFileName(strings.TrimSuffix(fileName, filepath.Ext(fileName)))
	if safe == "" {
		safe = "image"
	}
	return fmt.Sprintf("%s/%s-%s.%s", folder, uuid.New().String(), safe, ext)
}

// UploadImage stores a single file under folder and returns its public URL
// and storage path. No metadata row is created; the caller wires the path
// into whichever entity field references it.
func (s *ImageService) UploadImage(folder string, file ImageFile) (*UploadedImage, error) {
	if err := ValidateImage(file.Data); err != nil {
		return nil, apperrors.NewValidationError("file", err.Error())
	}

	path := objectPath(folder, file.Name)
	if err := s.store.Upload(path, bytes.NewReader(file.Data), file.ContentType); err != nil {
		return nil, apperrors.NewStorageError("upload", path, err)
	}

	return &UploadedImage{
		URL:  s.store.PublicURL(path),
		Path: path,
	}, nil
}

// CountProductImages returns how many gallery rows a product has. The
// count doubles as the next sort_order while the sequence stays dense.
func (s *ImageService) CountProductImages(productID uuid.UUID) (int, error) {
	var count int64
	if err := s.db.Model(&models.ProductImage{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, apperrors.NewDataError("failed to count product images", err)
	}
	return int(count), nil
}

// UploadProductImages stores the files strictly in order, inserting a
// product_images row after each upload so sort_order assignment is
// deterministic and a mid-batch failure leaves a well-defined prefix of
// committed rows. A failed insert removes the just-uploaded object before
// the error surfaces; earlier rows of the batch are not rolled back.
//
// Files beyond the gallery cap are not uploaded: the fitting prefix is
// stored and returned together with ErrImageLimit.
func (s *ImageService) UploadProductImages(productID uuid.UUID, files []ImageFile, startSortOrder int, onProgress func(UploadProgress)) ([]models.ProductImage, error) {
	if len(files) == 0 {
		return nil, nil
	}

	var existing int64
	if err := s.db.Model(&models.ProductImage{}).
		Where("product_id = ?", productID).
		Count(&existing).Error; err != nil {
		return nil, apperrors.NewDataError("failed to count product images", err)
	}

	remaining := models.MaxProductImages - int(existing)
	if remaining <= 0 {
		return nil, ErrImageLimit
	}

	truncated := false
	if len(files) > remaining {
		files = files[:remaining]
		truncated = true
	}

	var inserted []models.ProductImage

	for i, file := range files {
		if err := ValidateImage(file.Data); err != nil {
			return inserted, apperrors.NewValidationError("file", fmt.Sprintf("%s: %v", file.Name, err))
		}

		path := objectPath(fmt.Sprintf("products/%s", productID), file.Name)
		if err := s.store.Upload(path, bytes.NewReader(file.Data), file.ContentType); err != nil {
			return inserted, apperrors.NewStorageError("upload", path, err)
		}

		image := models.ProductImage{
			ProductID: productID,
			URL:       s.store.PublicURL(path),
			Path:      path,
			SortOrder: startSortOrder + i,
		}
		if err := s.db.Create(&image).Error; err != nil {
			// Cleanup uploaded file if the insert fails; its own failure is
			// not chased further.
			if rmErr := s.store.Remove(path); rmErr != nil {
				logrus.WithError(rmErr).WithField("path", path).Warn("Orphan cleanup failed")
			}
			return inserted, apperrors.NewDataError("failed to save image metadata", err)
		}

		inserted = append(inserted, image)
		if onProgress != nil {
			onProgress(UploadProgress{Uploaded: i + 1, Total: len(files), FileName: file.Name})
		}
	}

	if truncated {
		return inserted, ErrImageLimit
	}
	return inserted, nil
}

// DeleteProductImage removes the metadata row first, then the storage
// object. Storage cleanup failure is returned as storageErr rather than
// failing the call: a leaked object referenced by nothing beats a live row
// pointing at a deleted object. Remaining siblings are renumbered densely.
func (s *ImageService) DeleteProductImage(id uuid.UUID, path string) (storageErr error, err error) {
	var image models.ProductImage
	if dbErr := s.db.First(&image, "id = ?", id).Error; dbErr != nil {
		if errors.Is(dbErr, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("image %w", apperrors.ErrNotFound)
		}
		return nil, apperrors.NewDataError("failed to load image", dbErr)
	}

	if path == "" {
		path = image.Path
	}

	if dbErr := s.db.Delete(&models.ProductImage{}, "id = ?", id).Error; dbErr != nil {
		return nil, apperrors.NewDataError("failed to delete image", dbErr)
	}

	if path != "" && !IsExternalPath(path) {
		if rmErr := s.store.Remove(path); rmErr != nil {
			storageErr = apperrors.NewStorageError("remove", path, rmErr)
		}
	}

	if dbErr := s.compactProductImages(image.ProductID); dbErr != nil {
		return storageErr, dbErr
	}

	return storageErr, nil
}

// DeleteStoragePath removes a single 1:1 scalar image reference (category
// cover, about image). Empty and external paths are a no-op.
func (s *ImageService) DeleteStoragePath(path string) error {
	if path == "" || IsExternalPath(path) {
		return nil
	}
	if err := s.store.Remove(path); err != nil {
		return apperrors.NewStorageError("remove", path, err)
	}
	return nil
}

// ReorderProductImages persists a drag reorder of a product's gallery. The
// permutation must cover exactly the current sibling set; only elements
// whose position changed are written, in ascending index order. On failure
// the caller re-fetches, no compensating writes happen here.
func (s *ImageService) ReorderProductImages(productID uuid.UUID, orderedIDs []uuid.UUID) error {
	var images []models.ProductImage
	if err := s.db.Where("product_id = ?", productID).Find(&images).Error; err != nil {
		return apperrors.NewDataError("failed to load product images", err)
	}

	siblings := make(map[uuid.UUID]int, len(images))
	for _, img := range images {
		siblings[img.ID] = img.SortOrder
	}

	if !ordering.SameMembers(orderedIDs, siblings) {
		return apperrors.NewValidationError("ordered_ids", "reorder must include every image of the product exactly once")
	}

	for _, u := range ordering.Changed(orderedIDs, siblings) {
		if err := s.db.Model(&models.ProductImage{}).
			Where("id = ?", u.ID).
			Update("sort_order", u.SortOrder).Error; err != nil {
			return apperrors.NewDataError("failed to persist image order", err)
		}
	}

	return nil
}

// compactProductImages renumbers a product's remaining images to a dense
// 0..N-1 sequence after a sibling was removed.
func (s *ImageService) compactProductImages(productID uuid.UUID) error {
	var images []models.ProductImage
	if err := s.db.Where("product_id = ?", productID).
		Order("sort_order asc").Order("created_at asc").
		Find(&images).Error; err != nil {
		return apperrors.NewDataError("failed to load product images", err)
	}

	ids := make([]uuid.UUID, len(images))
	for i, img := range images {
		ids[i] = img.ID
	}

	for _, u := range ordering.Renumber(ids) {
		if images[u.SortOrder].SortOrder == u.SortOrder {
			continue
		}
		if err := s.db.Model(&models.ProductImage{}).
			Where("id = ?", u.ID).
			Update("sort_order", u.SortOrder).Error; err != nil {
			return apperrors.NewDataError("failed to renumber images", err)
		}
	}

	return nil
}
