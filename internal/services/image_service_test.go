// internal/services/image_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beirutvibes/menu-backend/internal/apperrors"
	"github.com/beirutvibes/menu-backend/internal/models"
)

func TestIsExternalPath(t *testing.T) {
	assert.True(t, IsExternalPath("https://images.unsplash.com/photo.jpg"))
	assert.True(t, IsExternalPath("http://example.com/x.png"))
	assert.True(t, IsExternalPath("external:demo-seed-1"))
	assert.False(t, IsExternalPath("products/abc/x.jpg"))
	assert.False(t, IsExternalPath(""))
}

func TestObjectPathSanitizesFileName(t *testing.T) {
	path := objectPath("products/p1", "My Fancy Photo (1).JPG")
	assert.Contains(t, path, "products/p1/")
	assert.Contains(t, path, "my-fancy-photo-1")
	assert.Contains(t, path, ".JPG")
	assert.NotContains(t, path, " ")
	assert.NotContains(t, path, "(")
}

func TestUploadProductImagesAssignsSequentialOrder(t *testing.T) {
	db := setupTestDB(t)
	store := newFakeStore()
	svc := NewImageService(db, store)

	category := createTestCategory(t, db, "Mezze", 0)
	product := createTestProduct(t, db, category.ID, "Hummus", 0)

	files := []ImageFile{jpegFile("a.jpg"), jpegFile("b.jpg"), jpegFile("c.jpg")}

	var progress []UploadProgress
	inserted, err := svc.UploadProductImages(product.ID, files, 0, func(p UploadProgress) {
		progress = append(progress, p)
	})
	require.NoError(t, err)
	require.Len(t, inserted, 3)

	for i, img := range inserted {
		assert.Equal(t, i, img.SortOrder)
		assert.True(t, store.has(img.Path))
		assert.Equal(t, store.PublicURL(img.Path), img.URL)
	}

	require.Len(t, progress, 3)
	assert.Equal(t, UploadProgress{Uploaded: 1, Total: 3, FileName: "a.jpg"}, progress[0])
	assert.Equal(t, UploadProgress{Uploaded: 3, Total: 3, FileName: "c.jpg"}, progress[2])
}

func TestUploadProductImagesEnforcesGalleryCap(t *testing.T) {
	db := setupTestDB(t)
	store := newFakeStore()
	svc := NewImageService(db, store)

	category := createTestCategory(t, db, "Grill", 0)
	product := createTestProduct(t, db, category.ID, "Shish Taouk", 0)

	files := make([]ImageFile, 6)
	for i := range files {
		files[i] = jpegFile(string(rune('a'+i)) + ".jpg")
	}

	inserted, err := svc.UploadProductImages(product.ID, files, 0, nil)
	require.ErrorIs(t, err, ErrImageLimit)
	require.Len(t, inserted, models.MaxProductImages)

	var count int64
	require.NoError(t, db.Model(&models.ProductImage{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.Equal(t, int64(models.MaxProductImages), count)
	assert.Equal(t, models.MaxProductImages, store.count())
}

func TestUploadProductImagesRejectsFullGallery(t *testing.T) {
	db := setupTestDB(t)
	store := newFakeStore()
	svc := NewImageService(db, store)

	category := createTestCategory(t, db, "Grill", 0)
	product := createTestProduct(t, db, category.ID, "Kafta", 0)
	for i := 0; i < models.MaxProductImages; i++ {
		createTestImage(t, db, product.ID, uuid.New().String()+".jpg", i)
	}

	inserted, err := svc.UploadProductImages(product.ID, []ImageFile{jpegFile("extra.jpg")}, models.MaxProductImages, nil)
	require.ErrorIs(t, err, ErrImageLimit)
	assert.Empty(t, inserted)
	assert.Zero(t, store.count())
}

func TestUploadProductImagesRemovesObjectOnInsertFailure(t *testing.T) {
	db := setupTestDB(t)
	store := newFakeStore()
	svc := NewImageService(db, store)

	// Nonexistent product makes the insert fail on the FK while uploads
	// still succeed.
	missing := uuid.New()
	inserted, err := svc.UploadProductImages(missing, []ImageFile{jpegFile("a.jpg")}, 0, nil)

	require.Error(t, err)
	var dataErr *apperrors.DataError
	assert.ErrorAs(t, err, &dataErr)
	assert.Empty(t, inserted)
	assert.Zero(t, store.count(), "uploaded object should be cleaned up after insert failure")
	require.Len(t, store.removed, 1)
}

func TestUploadProductImagesRejectsInvalidBytes(t *testing.T) {
	db := setupTestDB(t)
	store := newFakeStore()
	svc := NewImageService(db, store)

	category := createTestCategory(t, db, "Mezze", 0)
	product := createTestProduct(t, db, category.ID, "Tabbouleh", 0)

	bad := ImageFile{Name: "notes.txt", ContentType: "text/plain", Data: []byte("not an image")}
	inserted, err := svc.UploadProductImages(product.ID, []ImageFile{bad}, 0, nil)

	require.Error(t, err)
	var valErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Empty(t, inserted)
	assert.Zero(t, store.count())
}

func TestDeleteProductImageRemovesRowThenObject(t *testing.T) {
	db := setupTestDB(t)
	store := newFakeStore()
	svc := NewImageService(db, store)

	category := createTestCategory(t, db, "Mezze", 0)
	product := createTestProduct(t, db, category.ID, "Hummus", 0)

	inserted, err := svc.UploadProductImages(product.ID, []ImageFile{jpegFile("a.jpg"), jpegFile("b.jpg"), jpegFile("c.jpg")}, 0, nil)
	require.NoError(t, err)

	storageErr, err := svc.DeleteProductImage(inserted[1].ID, inserted[1].Path)
	require.NoError(t, err)
	require.NoError(t, storageErr)
	assert.False(t, store.has(inserted[1].Path))

	// Remaining siblings are dense again.
	var remaining []models.ProductImage
	require.NoError(t, db.Where("product_id = ?", product.ID).Order("sort_order asc").Find(&remaining).Error)
	require.Len(t, remaining, 2)
	assert.Equal(t, 0, remaining[0].SortOrder)
	assert.Equal(t, 1, remaining[1].SortOrder)
	assert.Equal(t, inserted[0].ID, remaining[0].ID)
	assert.Equal(t, inserted[2].ID, remaining[1].ID)
}

func TestDeleteProductImageSkipsExternalPath(t *testing.T) {
	db := setupTestDB(t)
	store := newFakeStore()
	svc := NewImageService(db, store)

	category := createTestCategory(t, db, "Drinks", 0)
	product := createTestProduct(t, db, category.ID, "Jallab", 0)
	image := createTestImage(t, db, product.ID, "https://images.unsplash.com/seed.jpg", 0)

	storageErr, err := svc.DeleteProductImage(image.ID, image.Path)
	require.NoError(t, err)
	require.NoError(t, storageErr)
	assert.Empty(t, store.removed, "external references must never hit storage")

	var count int64
	require.NoError(t, db.Model(&models.ProductImage{}).Where("id = ?", image.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteProductImageStorageFailureKeepsRowDeleted(t *testing.T) {
	db := setupTestDB(t)
	store := newFakeStore()
	svc := NewImageService(db, store)

	category := createTestCategory(t, db, "Mezze", 0)
	product := createTestProduct(t, db, category.ID, "Fattoush", 0)
	image := createTestImage(t, db, product.ID, "products/x/a.jpg", 0)

	store.failRemove = true
	storageErr, err := svc.DeleteProductImage(image.ID, image.Path)
	require.NoError(t, err)
	require.Error(t, storageErr)

	var storErr *apperrors.StorageError
	assert.ErrorAs(t, storageErr, &storErr)

	// The row is gone even though the object removal failed.
	var count int64
	require.NoError(t, db.Model(&models.ProductImage{}).Where("id = ?", image.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteProductImageNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewImageService(db, newFakeStore())

	_, err := svc.DeleteProductImage(uuid.New(), "products/x/a.jpg")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReorderProductImagesPersistsOnlyChanged(t *testing.T) {
	db := setupTestDB(t)
	svc := NewImageService(db, newFakeStore())

	category := createTestCategory(t, db, "Mezze", 0)
	product := createTestProduct(t, db, category.ID, "Hummus", 0)
	a := createTestImage(t, db, product.ID, "products/p/a.jpg", 0)
	b := createTestImage(t, db, product.ID, "products/p/b.jpg", 1)
	c := createTestImage(t, db, product.ID, "products/p/c.jpg", 2)

	require.NoError(t, svc.ReorderProductImages(product.ID, []uuid.UUID{c.ID, a.ID, b.ID}))

	var images []models.ProductImage
	require.NoError(t, db.Where("product_id = ?", product.ID).Order("sort_order asc").Find(&images).Error)
	require.Len(t, images, 3)
	assert.Equal(t, c.ID, images[0].ID)
	assert.Equal(t, a.ID, images[1].ID)
	assert.Equal(t, b.ID, images[2].ID)
}

func TestReorderProductImagesRejectsPartialSet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewImageService(db, newFakeStore())

	category := createTestCategory(t, db, "Mezze", 0)
	product := createTestProduct(t, db, category.ID, "Hummus", 0)
	a := createTestImage(t, db, product.ID, "products/p/a.jpg", 0)
	createTestImage(t, db, product.ID, "products/p/b.jpg", 1)

	err := svc.ReorderProductImages(product.ID, []uuid.UUID{a.ID})
	require.Error(t, err)
	var valErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestReorderProductImagesRejectsForeignID(t *testing.T) {
	db := setupTestDB(t)
	svc := NewImageService(db, newFakeStore())

	category := createTestCategory(t, db, "Mezze", 0)
	product := createTestProduct(t, db, category.ID, "Hummus", 0)
	a := createTestImage(t, db, product.ID, "products/p/a.jpg", 0)

	err := svc.ReorderProductImages(product.ID, []uuid.UUID{a.ID, uuid.New()})
	require.Error(t, err)
}

func TestUploadImageStorageFailureSurfaces(t *testing.T) {
	db := setupTestDB(t)
	store := newFakeStore()
	store.failUpload = true
	svc := NewImageService(db, store)

	_, err := svc.UploadImage("settings", jpegFile("about.jpg"))
	require.Error(t, err)
	var storErr *apperrors.StorageError
	assert.True(t, errors.As(err, &storErr))
}
