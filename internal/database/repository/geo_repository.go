package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oikia/backend-go/internal/database/models"
)

const bulkBatchSize = 500

// GeoRepository defines the interface for geographic reference data. The
// All* methods exist so the loaders can build in-memory lookup maps instead
// of querying per row; the BulkInsert* methods silently discard rows that
// collide with existing unique constraints.
type GeoRepository interface {
	AllAdminOnes() ([]models.AdministrativeLevelOne, error)
	AllAdminTwos() ([]models.AdministrativeLevelTwo, error)
	AllCities() ([]models.City, error)
	AllStreetTypes() ([]models.StreetType, error)
	AllStreets() ([]models.Street, error)

	BulkInsertCities(cities []*models.City) error
	BulkInsertCityData(data []*models.CityData) error
	BulkInsertStreetTypes(types []*models.StreetType) error
	BulkInsertStreets(streets []*models.Street) error
	BulkInsertAddresses(addresses []*models.Address) error

	GetOrCreateAdminOne(adminOne *models.AdministrativeLevelOne) (*models.AdministrativeLevelOne, bool, error)
	UpsertGeoData(gd *models.GeoData) error

	FindContinent(code string) (*models.Continent, error)
	FindCountry(codeISO2 string) (*models.Country, error)
	FindCityByInsee(codeInsee string) (*models.City, error)
	ListContinents(offset, limit int) ([]models.Continent, int64, error)
	ListCountries(offset, limit int) ([]models.Country, int64, error)
	ListCities(offset, limit int) ([]models.City, int64, error)
}

type geoRepository struct {
	db *gorm.DB
}

// NewGeoRepository creates a new geographic data repository instance
func NewGeoRepository(db *gorm.DB) GeoRepository {
	return &geoRepository{db: db}
}

func (r *geoRepository) AllAdminOnes() ([]models.AdministrativeLevelOne, error) {
	var out []models.AdministrativeLevelOne
	return out, r.db.Find(&out).Error
}

func (r *geoRepository) AllAdminTwos() ([]models.AdministrativeLevelTwo, error) {
	var out []models.AdministrativeLevelTwo
	return out, r.db.Find(&out).Error
}

func (r *geoRepository) AllCities() ([]models.City, error) {
	var out []models.City
	return out, r.db.Find(&out).Error
}

func (r *geoRepository) AllStreetTypes() ([]models.StreetType, error) {
	var out []models.StreetType
	return out, r.db.Find(&out).Error
}

func (r *geoRepository) AllStreets() ([]models.Street, error) {
	var out []models.Street
	return out, r.db.Find(&out).Error
}

func (r *geoRepository) BulkInsertCities(cities []*models.City) error {
	if len(cities) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(cities, bulkBatchSize).Error
}

func (r *geoRepository) BulkInsertCityData(data []*models.CityData) error {
	if len(data) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(data, bulkBatchSize).Error
}

func (r *geoRepository) BulkInsertStreetTypes(types []*models.StreetType) error {
	if len(types) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(types, bulkBatchSize).Error
}

func (r *geoRepository) BulkInsertStreets(streets []*models.Street) error {
	if len(streets) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(streets, bulkBatchSize).Error
}

func (r *geoRepository) BulkInsertAddresses(addresses []*models.Address) error {
	if len(addresses) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(addresses, bulkBatchSize).Error
}

// GetOrCreateAdminOne returns the existing admin-level-one matching the
// given row's INSEE code (falling back to its code) or creates it. Seeded
// regions carry ISO-style codes with the INSEE code alongside, so the INSEE
// key is checked first. The bool reports whether a row was created.
func (r *geoRepository) GetOrCreateAdminOne(adminOne *models.AdministrativeLevelOne) (*models.AdministrativeLevelOne, bool, error) {
	var existing models.AdministrativeLevelOne
	if adminOne.CodeInsee != nil {
		err := r.db.Where("code_insee = ?", *adminOne.CodeInsee).First(&existing).Error
		if err == nil {
			return &existing, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
	}

	err := r.db.Where("code = ?", adminOne.Code).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if err := r.db.Create(adminOne).Error; err != nil {
		return nil, false, err
	}
	return adminOne, true, nil
}

// UpsertGeoData validates the owner invariant and then inserts or refreshes
// the payload for that owner.
func (r *geoRepository) UpsertGeoData(gd *models.GeoData) error {
	if err := gd.Validate(); err != nil {
		return err
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_kind"}, {Name: "owner_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"geojson", "updated_at"}),
	}).Create(gd).Error
}

func (r *geoRepository) FindContinent(code string) (*models.Continent, error) {
	var continent models.Continent
	err := r.db.Where("code = ?", code).First(&continent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGeoEntityNotFound
		}
		return nil, err
	}
	return &continent, nil
}

func (r *geoRepository) FindCountry(codeISO2 string) (*models.Country, error) {
	var country models.Country
	err := r.db.Where("code_iso2 = ?", codeISO2).First(&country).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGeoEntityNotFound
		}
		return nil, err
	}
	return &country, nil
}

func (r *geoRepository) FindCityByInsee(codeInsee string) (*models.City, error) {
	var city models.City
	err := r.db.Where("code_insee = ?", codeInsee).First(&city).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGeoEntityNotFound
		}
		return nil, err
	}
	return &city, nil
}

func (r *geoRepository) ListContinents(offset, limit int) ([]models.Continent, int64, error) {
	var count int64
	if err := r.db.Model(&models.Continent{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	var continents []models.Continent
	err := r.db.Order("code").Offset(offset).Limit(limit).Find(&continents).Error
	return continents, count, err
}

func (r *geoRepository) ListCountries(offset, limit int) ([]models.Country, int64, error) {
	var count int64
	if err := r.db.Model(&models.Country{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	var countries []models.Country
	err := r.db.Order("code_iso2").Offset(offset).Limit(limit).Find(&countries).Error
	return countries, count, err
}

func (r *geoRepository) ListCities(offset, limit int) ([]models.City, int64, error) {
	var count int64
	if err := r.db.Model(&models.City{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	var cities []models.City
	err := r.db.Order("code_insee").Offset(offset).Limit(limit).Find(&cities).Error
	return cities, count, err
}

// Repository errors
var (
	ErrGeoEntityNotFound = errors.New("geographic entity not found")
)
