// internal/services/settings_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beirutvibes/menu-backend/internal/config"
	"github.com/beirutvibes/menu-backend/internal/models"
)

func testBrand() config.BrandConfig {
	return config.BrandConfig{
		Name:       "Beirut Vibes",
		Tagline:    "Mezze • Manakish • Charcoal Grill",
		Currency:   "USD",
		Address:    "Hamra • Beirut, Lebanon",
		Phone:      "+961 01 234 567",
		Hours:      "Daily • 11:00 – 23:00",
		AboutTitle: "Our Story",
	}
}

func newSettingsService(t *testing.T) (*SettingsService, *fakeStore) {
	t.Helper()
	db := setupTestDB(t)
	store := newFakeStore()
	return NewSettingsService(db, NewImageService(db, store), testBrand()), store
}

func TestGetSettingsFallsBackToBrandDefaults(t *testing.T) {
	svc, _ := newSettingsService(t)

	settings, err := svc.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, "Beirut Vibes", settings.Name)
	assert.Equal(t, "USD", settings.Currency)
	assert.Equal(t, models.SettingsID, settings.ID)
}

func TestUpdateSettingsUpsertsSingleton(t *testing.T) {
	svc, _ := newSettingsService(t)

	name := "Beirut Vibes Downtown"
	tagline := "Same fire, new corner"
	first, err := svc.UpdateSettings(&UpdateSettingsRequest{Name: name, Tagline: &tagline})
	require.NoError(t, err)
	assert.Equal(t, name, first.Name)
	assert.Equal(t, tagline, first.Tagline)

	phone := "+961 03 987 654"
	second, err := svc.UpdateSettings(&UpdateSettingsRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, second.Phone)
	assert.Equal(t, name, second.Name, "second save keeps earlier fields")

	// Still a single row.
	stored, err := svc.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, models.SettingsID, stored.ID)
	assert.Equal(t, phone, stored.Phone)
}

func TestPublicSettingsMergesDefaultsOverEmptyFields(t *testing.T) {
	svc, _ := newSettingsService(t)

	name := "Beirut Vibes Downtown"
	_, err := svc.UpdateSettings(&UpdateSettingsRequest{Name: name})
	require.NoError(t, err)

	merged, err := svc.PublicSettings()
	require.NoError(t, err)
	assert.Equal(t, name, merged.Name)
	assert.Equal(t, "USD", merged.Currency, "empty stored field falls back to brand default")
	assert.Equal(t, "Our Story", merged.AboutTitle)
}

func TestUpdateSettingsAboutImageLifecycle(t *testing.T) {
	svc, store := newSettingsService(t)

	img := jpegFile("about.jpg")
	first, err := svc.UpdateSettings(&UpdateSettingsRequest{AboutImage: &img})
	require.NoError(t, err)
	require.NotEmpty(t, first.AboutImagePath)
	assert.True(t, store.has(first.AboutImagePath))

	// Replacing uploads the new object and removes the old one.
	next := jpegFile("about-v2.jpg")
	second, err := svc.UpdateSettings(&UpdateSettingsRequest{AboutImage: &next})
	require.NoError(t, err)
	assert.NotEqual(t, first.AboutImagePath, second.AboutImagePath)
	assert.True(t, store.has(second.AboutImagePath))
	assert.False(t, store.has(first.AboutImagePath))

	// Removing clears the row fields and the object.
	third, err := svc.UpdateSettings(&UpdateSettingsRequest{RemoveAboutImage: true})
	require.NoError(t, err)
	assert.Empty(t, third.AboutImagePath)
	assert.Empty(t, third.AboutImageURL)
	assert.Zero(t, store.count())
}

func TestUpdateSettingsValidatesURLs(t *testing.T) {
	svc, _ := newSettingsService(t)

	bad := "not-a-url"
	_, err := svc.UpdateSettings(&UpdateSettingsRequest{SocialURL: &bad})
	require.Error(t, err)
}
