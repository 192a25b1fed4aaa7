package models

// Language is an ISO language code entry seeded from fixtures.
type Language struct {
	Code string `gorm:"primarykey;size:4" json:"code"`
	Name string `gorm:"uniqueIndex;not null;size:50" json:"name"`
}

// TableName overrides the table name
func (Language) TableName() string {
	return "languages"
}

// Currency is an ISO 4217 currency entry seeded from fixtures.
type Currency struct {
	Code        string  `gorm:"primarykey;size:3" json:"code"`
	CodeNumeric string  `gorm:"uniqueIndex;not null;size:3" json:"code_numeric"`
	Name        string  `gorm:"uniqueIndex;not null;size:50" json:"name"`
	Symbol      *string `gorm:"size:5" json:"symbol,omitempty"`
	MinorUnit   int     `gorm:"not null" json:"minor_unit"`
}

// TableName overrides the table name
func (Currency) TableName() string {
	return "currencies"
}

// Continent is the root of the geographic hierarchy.
type Continent struct {
	Code string `gorm:"primarykey;size:2" json:"code"`
	Name string `gorm:"uniqueIndex;not null;size:50" json:"name"`
}

// TableName overrides the table name
func (Continent) TableName() string {
	return "continents"
}

// Country keys on its ISO alpha-2 code.
type Country struct {
	CodeISO2 string `gorm:"column:code_iso2;primarykey;size:2" json:"code_iso2"`
	CodeISO3 string `gorm:"column:code_iso3;uniqueIndex;not null;size:3" json:"code_iso3"`
	ONUCode  string `gorm:"column:onu_code;uniqueIndex;not null;size:3" json:"onu_code"`
	Name     string `gorm:"uniqueIndex;not null;size:100" json:"name"`

	LanguageOfficialCode string    `gorm:"not null" json:"language_official"`
	LanguageOfficial     Language  `gorm:"foreignKey:LanguageOfficialCode" json:"-"`
	CurrencyCode         string    `gorm:"not null" json:"currency"`
	Currency             Currency  `gorm:"foreignKey:CurrencyCode" json:"-"`
	ContinentCode        string    `gorm:"not null" json:"continent"`
	Continent            Continent `gorm:"foreignKey:ContinentCode" json:"-"`
}

// TableName overrides the table name
func (Country) TableName() string {
	return "countries"
}

// AdministrativeLevelOne is a first-level subdivision (region).
type AdministrativeLevelOne struct {
	Code      string  `gorm:"primarykey;size:8" json:"code"`
	Name      string  `gorm:"uniqueIndex;not null;size:50" json:"name"`
	CodeInsee *string `gorm:"size:10" json:"code_insee,omitempty"` // INSEE code for France, may differ or be absent elsewhere

	CountryCode string  `gorm:"not null" json:"country"`
	Country     Country `gorm:"foreignKey:CountryCode" json:"-"`
}

// TableName overrides the table name
func (AdministrativeLevelOne) TableName() string {
	return "administrative_level_ones"
}

// AdministrativeLevelTwo is a second-level subdivision (department).
type AdministrativeLevelTwo struct {
	Code        string `gorm:"primarykey;size:8" json:"code"`
	NumericCode *int   `json:"numeric_code,omitempty"`
	Name        string `gorm:"uniqueIndex;not null;size:50" json:"name"`

	AdministrativeLevelOneCode string                 `gorm:"not null" json:"administrative_level_one"`
	AdministrativeLevelOne     AdministrativeLevelOne `gorm:"foreignKey:AdministrativeLevelOneCode" json:"-"`
}

// TableName overrides the table name
func (AdministrativeLevelTwo) TableName() string {
	return "administrative_level_twos"
}

// City must reference at least one admin level; rows with neither are dropped
// during load.
type City struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	Name       string  `gorm:"not null;size:50;index:idx_cities_name_admins,priority:1" json:"name"`
	CodePostal *string `gorm:"size:10" json:"code_postal,omitempty"`
	CodeInsee  string  `gorm:"uniqueIndex;not null;size:10" json:"code_insee"`

	AdministrativeLevelOneCode *string                 `gorm:"index:idx_cities_name_admins,priority:2" json:"administrative_level_one,omitempty"`
	AdministrativeLevelOne     *AdministrativeLevelOne `gorm:"foreignKey:AdministrativeLevelOneCode" json:"-"`
	AdministrativeLevelTwoCode *string                 `gorm:"index:idx_cities_name_admins,priority:3" json:"administrative_level_two,omitempty"`
	AdministrativeLevelTwo     *AdministrativeLevelTwo `gorm:"foreignKey:AdministrativeLevelTwoCode" json:"-"`
}

// TableName overrides the table name
func (City) TableName() string {
	return "cities"
}

// CityData holds per-city statistics. PopulationDensity is computed by
// PopulationDensity before persistence, never by a save hook.
type CityData struct {
	ID                uint     `gorm:"primarykey" json:"id"`
	Population        *int64   `json:"population,omitempty"`
	Area              *float64 `json:"area,omitempty"`
	PopulationDensity *float64 `json:"population_density,omitempty"`
	MedianIncome      *float64 `json:"median_income,omitempty"`

	CityID uint `gorm:"uniqueIndex;not null" json:"city_id"`
	City   City `gorm:"foreignKey:CityID" json:"-"`
}

// TableName overrides the table name
func (CityData) TableName() string {
	return "city_data"
}

// PopulationDensity derives inhabitants per unit area. Returns nil when
// either input is missing or the area is zero.
func PopulationDensity(population *int64, area *float64) *float64 {
	if population == nil || area == nil || *area == 0 {
		return nil
	}
	density := float64(*population) / *area
	return &density
}

// StreetType is a thoroughfare kind (rue, avenue, boulevard, ...).
type StreetType struct {
	Code      string  `gorm:"primarykey;size:10" json:"code"`
	Name      string  `gorm:"not null;size:50" json:"name"`
	ShortName *string `gorm:"size:10" json:"short_name,omitempty"`
}

// TableName overrides the table name
func (StreetType) TableName() string {
	return "street_types"
}

// Street is unique per (name, type, city). The type may be unset when no
// default street type row exists at load time.
type Street struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"not null;size:100;uniqueIndex:idx_streets_name_type_city,priority:1" json:"name"`

	StreetTypeCode *string     `gorm:"uniqueIndex:idx_streets_name_type_city,priority:2" json:"street_type,omitempty"`
	StreetType     *StreetType `gorm:"foreignKey:StreetTypeCode" json:"-"`
	CityID         uint        `gorm:"not null;uniqueIndex:idx_streets_name_type_city,priority:3;index" json:"city_id"`
	City           City        `gorm:"foreignKey:CityID" json:"-"`
}

// TableName overrides the table name
func (Street) TableName() string {
	return "streets"
}

// Address is unique per (street, number, postal code).
type Address struct {
	ID              uint     `gorm:"primarykey" json:"id"`
	Number          string   `gorm:"not null;size:10;uniqueIndex:idx_addresses_street_number_postal,priority:2" json:"number"`
	NumberExtension *string  `gorm:"size:10" json:"number_extension,omitempty"`
	Complement      *string  `gorm:"size:50" json:"complement,omitempty"`
	CodePostal      string   `gorm:"not null;size:10;uniqueIndex:idx_addresses_street_number_postal,priority:3" json:"code_postal"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`

	StreetID uint   `gorm:"not null;uniqueIndex:idx_addresses_street_number_postal,priority:1" json:"street_id"`
	Street   Street `gorm:"foreignKey:StreetID" json:"-"`
}

// TableName overrides the table name
func (Address) TableName() string {
	return "addresses"
}
