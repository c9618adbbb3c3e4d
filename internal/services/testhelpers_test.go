// internal/services/testhelpers_test.go
package services

import (
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/beirutvibes/menu-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Settings{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// fakeStore is an in-memory ObjectStore that records every call and can
// be told to fail.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string

	failUpload bool
	failRemove bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Upload(path string, body io.Reader, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpload {
		return fmt.Errorf("injected upload failure")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[path] = data
	return nil
}

func (f *fakeStore) PublicURL(path string) string {
	return "https://cdn.test/" + path
}

func (f *fakeStore) Remove(paths ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRemove {
		return fmt.Errorf("injected remove failure")
	}
	for _, p := range paths {
		delete(f.objects, p)
		f.removed = append(f.removed, p)
	}
	return nil
}

func (f *fakeStore) has(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[path]
	return ok
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// jpegFile builds a minimal upload that passes the magic-byte check.
func jpegFile(name string) ImageFile {
	return ImageFile{
		Name:        name,
		ContentType: "image/jpeg",
		Data:        append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, []byte(name)...),
	}
}

func createTestCategory(t *testing.T, db *gorm.DB, name string, sortOrder int) *models.Category {
	t.Helper()
	category := &models.Category{
		Name:      name,
		SortOrder: sortOrder,
		IsActive:  true,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createTestProduct(t *testing.T, db *gorm.DB, categoryID uuid.UUID, name string, sortOrder int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:  categoryID,
		Name:        name,
		Price:       9.5,
		IsAvailable: true,
		SortOrder:   sortOrder,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func createTestImage(t *testing.T, db *gorm.DB, productID uuid.UUID, path string, sortOrder int) *models.ProductImage {
	t.Helper()
	image := &models.ProductImage{
		ProductID: productID,
		URL:       "https://cdn.test/" + path,
		Path:      path,
		SortOrder: sortOrder,
	}
	require.NoError(t, db.Create(image).Error)
	return image
}
