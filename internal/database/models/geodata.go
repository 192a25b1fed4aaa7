package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// GeoOwnerKind names the single entity kind a GeoData row annotates.
type GeoOwnerKind string

const (
	GeoOwnerContinent GeoOwnerKind = "continent"
	GeoOwnerCountry   GeoOwnerKind = "country"
	GeoOwnerAdminOne  GeoOwnerKind = "administrative_level_one"
	GeoOwnerAdminTwo  GeoOwnerKind = "administrative_level_two"
	GeoOwnerCity      GeoOwnerKind = "city"
	GeoOwnerStreet    GeoOwnerKind = "street"
)

var geoOwnerKinds = map[GeoOwnerKind]struct{}{
	GeoOwnerContinent: {},
	GeoOwnerCountry:   {},
	GeoOwnerAdminOne:  {},
	GeoOwnerAdminTwo:  {},
	GeoOwnerCity:      {},
	GeoOwnerStreet:    {},
}

// ErrGeoDataOwner is returned when a GeoData row is not linked to exactly
// one entity.
var ErrGeoDataOwner = errors.New("geo data must be linked to exactly one entity")

// GeoOwnerRef is the tagged reference a GeoData row carries instead of six
// nullable foreign keys.
type GeoOwnerRef struct {
	Kind GeoOwnerKind
	Key  string
}

func OwnerContinent(code string) GeoOwnerRef {
	return GeoOwnerRef{Kind: GeoOwnerContinent, Key: code}
}

func OwnerCountry(codeISO2 string) GeoOwnerRef {
	return GeoOwnerRef{Kind: GeoOwnerCountry, Key: codeISO2}
}

func OwnerAdminOne(code string) GeoOwnerRef {
	return GeoOwnerRef{Kind: GeoOwnerAdminOne, Key: code}
}

func OwnerAdminTwo(code string) GeoOwnerRef {
	return GeoOwnerRef{Kind: GeoOwnerAdminTwo, Key: code}
}

func OwnerCity(id uint) GeoOwnerRef {
	return GeoOwnerRef{Kind: GeoOwnerCity, Key: fmt.Sprintf("%d", id)}
}

func OwnerStreet(id uint) GeoOwnerRef {
	return GeoOwnerRef{Kind: GeoOwnerStreet, Key: fmt.Sprintf("%d", id)}
}

// GeoData is a polymorphic annotation row carrying a GeoJSON payload for
// exactly one owning entity.
type GeoData struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	GeoJSON   json.RawMessage `gorm:"column:geojson;type:jsonb" json:"geojson,omitempty"`
	OwnerKind GeoOwnerKind    `gorm:"not null;uniqueIndex:idx_geo_data_owner,priority:1" json:"owner_kind"`
	OwnerKey  string          `gorm:"not null;uniqueIndex:idx_geo_data_owner,priority:2" json:"owner_key"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName overrides the table name
func (GeoData) TableName() string {
	return "geo_data"
}

// NewGeoData builds a GeoData row for one owner. The owner reference is
// validated before anything can be written.
func NewGeoData(owner GeoOwnerRef, geojson json.RawMessage) (*GeoData, error) {
	gd := &GeoData{
		GeoJSON:   geojson,
		OwnerKind: owner.Kind,
		OwnerKey:  owner.Key,
	}
	if err := gd.Validate(); err != nil {
		return nil, err
	}
	return gd, nil
}

// Validate enforces the exactly-one-owner invariant.
func (g *GeoData) Validate() error {
	if _, ok := geoOwnerKinds[g.OwnerKind]; !ok {
		return fmt.Errorf("%w: unknown owner kind %q", ErrGeoDataOwner, g.OwnerKind)
	}
	if g.OwnerKey == "" {
		return fmt.Errorf("%w: empty owner key", ErrGeoDataOwner)
	}
	return nil
}
