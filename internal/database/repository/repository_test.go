package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oikia/backend-go/internal/database/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Email{}, &models.User{},
		&models.Token{}, &models.TokenBlacklist{}, &models.Refresh{},
		&models.Session{}, &models.Client{}, &models.ApiKey{},
		&models.Language{}, &models.Currency{}, &models.Continent{},
		&models.Country{}, &models.AdministrativeLevelOne{},
		&models.AdministrativeLevelTwo{}, &models.City{}, &models.CityData{},
		&models.StreetType{}, &models.Street{}, &models.Address{},
		&models.GeoData{}, &models.Permission{}, &models.Intent{},
	)
	require.NoError(t, err)

	return db
}

func seedUser(t *testing.T, repo UserRepository) *models.User {
	t.Helper()

	user := &models.User{
		Username:     "tester",
		EmailAddress: "tester@example.com",
		Password:     "irrelevant",
		IsActive:     true,
	}
	require.NoError(t, repo.CreateWithEmail(user))
	return user
}

func TestUserRepository_CreateWithEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	user := seedUser(t, repo)
	assert.NotEqual(t, uuid.Nil, user.ID)

	err := repo.CreateWithEmail(&models.User{Username: "other", EmailAddress: "tester@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	err = repo.CreateWithEmail(&models.User{Username: "tester", EmailAddress: "fresh@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	found, err := repo.FindByEmail("tester@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_UsernameConflictLeavesNoEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	seedUser(t, repo)

	// The transaction must roll the email row back when the user insert fails.
	err := repo.CreateWithEmail(&models.User{Username: "tester", EmailAddress: "rollback@example.com", Password: "x"})
	require.ErrorIs(t, err, ErrUsernameTaken)

	var count int64
	db.Model(&models.Email{}).Where("address = ?", "rollback@example.com").Count(&count)
	assert.Zero(t, count)
}

func TestTokenRepository_BlacklistIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewTokenRepository(db)

	require.NoError(t, repo.Blacklist("some-token"))
	require.NoError(t, repo.Blacklist("some-token"))

	blacklisted, err := repo.IsBlacklisted("some-token")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	blacklisted, err = repo.IsBlacklisted("other-token")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	var count int64
	db.Model(&models.TokenBlacklist{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestTokenRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	userRepo := NewUserRepository(db)
	repo := NewTokenRepository(db)
	user := seedUser(t, userRepo)

	require.NoError(t, repo.Create(&models.Token{Token: "t1", UserID: user.ID}))

	found, err := repo.FindByUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "t1", found.Token)

	require.NoError(t, repo.Delete("t1"))
	_, err = repo.FindByUser(user.ID)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRefreshRepository_DeleteExpired(t *testing.T) {
	db := newTestDB(t)
	userRepo := NewUserRepository(db)
	repo := NewRefreshRepository(db)
	user := seedUser(t, userRepo)

	require.NoError(t, repo.Create(&models.Refresh{Token: "live", UserID: user.ID, ExpireAt: time.Now().Add(time.Hour)}))
	require.NoError(t, repo.Create(&models.Refresh{Token: "stale", UserID: user.ID, ExpireAt: time.Now().Add(-time.Hour)}))

	require.NoError(t, repo.DeleteExpired())

	_, err := repo.FindByToken("live")
	assert.NoError(t, err)
	_, err = repo.FindByToken("stale")
	assert.ErrorIs(t, err, ErrRefreshNotFound)
}

func TestGeoRepository_BulkInsertTolerantOfConflicts(t *testing.T) {
	db := newTestDB(t)
	repo := NewGeoRepository(db)

	first := []*models.City{
		{Name: "Paris", CodeInsee: "75056"},
		{Name: "Lyon", CodeInsee: "69123"},
	}
	require.NoError(t, repo.BulkInsertCities(first))

	// Re-inserting the same INSEE codes must neither fail nor duplicate.
	again := []*models.City{
		{Name: "Paris bis", CodeInsee: "75056"},
		{Name: "Marseille", CodeInsee: "13055"},
	}
	require.NoError(t, repo.BulkInsertCities(again))

	cities, err := repo.AllCities()
	require.NoError(t, err)
	assert.Len(t, cities, 3)

	// First insert wins.
	paris, err := repo.FindCityByInsee("75056")
	require.NoError(t, err)
	assert.Equal(t, "Paris", paris.Name)
}

func TestGeoRepository_GetOrCreateAdminOne(t *testing.T) {
	db := newTestDB(t)
	repo := NewGeoRepository(db)
	seedCountry(t, db)

	created, wasCreated, err := repo.GetOrCreateAdminOne(&models.AdministrativeLevelOne{
		Code: "11", Name: "Île-de-France", CountryCode: "FR",
	})
	require.NoError(t, err)
	assert.True(t, wasCreated)

	same, wasCreated, err := repo.GetOrCreateAdminOne(&models.AdministrativeLevelOne{
		Code: "11", Name: "renamed", CountryCode: "FR",
	})
	require.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, created.Name, same.Name)
}

func TestGeoRepository_GetOrCreateAdminOneMatchesByInsee(t *testing.T) {
	db := newTestDB(t)
	repo := NewGeoRepository(db)
	seedCountry(t, db)

	insee := "11"
	require.NoError(t, db.Create(&models.AdministrativeLevelOne{
		Code: "IDF", Name: "Île-de-France", CodeInsee: &insee, CountryCode: "FR",
	}).Error)

	found, wasCreated, err := repo.GetOrCreateAdminOne(&models.AdministrativeLevelOne{
		Code: "11", Name: "Île-de-France", CodeInsee: &insee, CountryCode: "FR",
	})
	require.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, "IDF", found.Code)

	var count int64
	db.Model(&models.AdministrativeLevelOne{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGeoRepository_UpsertGeoData(t *testing.T) {
	db := newTestDB(t)
	repo := NewGeoRepository(db)

	gd, err := models.NewGeoData(models.OwnerContinent("EU"), json.RawMessage(`{"type":"Polygon"}`))
	require.NoError(t, err)
	require.NoError(t, repo.UpsertGeoData(gd))

	replacement, err := models.NewGeoData(models.OwnerContinent("EU"), json.RawMessage(`{"type":"MultiPolygon"}`))
	require.NoError(t, err)
	require.NoError(t, repo.UpsertGeoData(replacement))

	var rows []models.GeoData
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.JSONEq(t, `{"type":"MultiPolygon"}`, string(rows[0].GeoJSON))

	// The payload column is named geojson in the schema; keep the model
	// mapped to it.
	var payload string
	require.NoError(t, db.Raw("SELECT geojson FROM geo_data").Scan(&payload).Error)
	assert.JSONEq(t, `{"type":"MultiPolygon"}`, payload)
}

func TestGeoRepository_UpsertGeoDataRejectsInvalidOwner(t *testing.T) {
	repo := NewGeoRepository(newTestDB(t))

	err := repo.UpsertGeoData(&models.GeoData{GeoJSON: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, models.ErrGeoDataOwner)
}

func TestGeoRepository_ListContinents(t *testing.T) {
	db := newTestDB(t)
	repo := NewGeoRepository(db)

	require.NoError(t, db.Create(&models.Continent{Code: "EU", Name: "Europe"}).Error)
	require.NoError(t, db.Create(&models.Continent{Code: "AF", Name: "Africa"}).Error)
	require.NoError(t, db.Create(&models.Continent{Code: "AS", Name: "Asia"}).Error)

	page, count, err := repo.ListContinents(0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	require.Len(t, page, 2)
	assert.Equal(t, "AF", page[0].Code)

	rest, _, err := repo.ListContinents(2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "EU", rest[0].Code)

	_, err = repo.FindContinent("XX")
	assert.ErrorIs(t, err, ErrGeoEntityNotFound)
}

func TestIntentRepository_MarkProcessed(t *testing.T) {
	repo := NewIntentRepository(newTestDB(t))

	intent := &models.Intent{RawInput: "two bedroom near Lyon"}
	require.NoError(t, repo.Create(intent))
	assert.False(t, intent.Processed)

	require.NoError(t, repo.MarkProcessed(intent.ID))

	found, err := repo.FindByID(intent.ID)
	require.NoError(t, err)
	assert.True(t, found.Processed)

	err = repo.MarkProcessed(uuid.New())
	assert.ErrorIs(t, err, ErrIntentNotFound)
}

func TestPermissionRepository_GetOrCreate(t *testing.T) {
	repo := NewPermissionRepository(newTestDB(t))

	created, err := repo.GetOrCreate("city:read")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.GetOrCreate("city:read")
	require.NoError(t, err)
	assert.False(t, created)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func seedCountry(t *testing.T, db *gorm.DB) {
	t.Helper()

	require.NoError(t, db.Create(&models.Language{Code: "fr", Name: "French"}).Error)
	require.NoError(t, db.Create(&models.Currency{Code: "EUR", CodeNumeric: "978", Name: "Euro", MinorUnit: 2}).Error)
	require.NoError(t, db.Create(&models.Continent{Code: "EU", Name: "Europe"}).Error)
	require.NoError(t, db.Create(&models.Country{
		CodeISO2: "FR", CodeISO3: "FRA", ONUCode: "250", Name: "France",
		LanguageOfficialCode: "fr", CurrencyCode: "EUR", ContinentCode: "EU",
	}).Error)
}
