package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/oikia/backend-go/internal/database/models"
)

// featureCollection is the subset of GeoJSON the region loader needs. The
// full feature is kept raw so the stored payload is byte-faithful.
type featureCollection struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

type featureProperties struct {
	Properties struct {
		Code string `json:"code"`
		Nom  string `json:"nom"`
	} `json:"properties"`
}

// LoadGeoData ingests a GeoJSON FeatureCollection of regions. Each feature
// must carry an INSEE-style properties.code; the matching admin-level-one is
// fetched or created, then its GeoData annotation is upserted.
func (l *Loader) LoadGeoData(path, countryCode string) (*Report, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open geojson: %w", err)
	}

	var collection featureCollection
	if err := json.Unmarshal(raw, &collection); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	report := &Report{Candidates: len(collection.Features)}

	for _, feature := range collection.Features {
		var props featureProperties
		if err := json.Unmarshal(feature, &props); err != nil || props.Properties.Code == "" {
			report.Skipped++
			continue
		}

		name := props.Properties.Nom
		if name == "" {
			name = props.Properties.Code
		}
		insee := props.Properties.Code

		adminOne, created, err := l.geoRepo.GetOrCreateAdminOne(&models.AdministrativeLevelOne{
			Code:        props.Properties.Code,
			Name:        name,
			CodeInsee:   &insee,
			CountryCode: countryCode,
		})
		if err != nil {
			return nil, err
		}
		if created {
			l.logger.Debug("🆕 [Loader] Admin level one created from feature", "code", adminOne.Code)
		}

		gd, err := models.NewGeoData(models.OwnerAdminOne(adminOne.Code), json.RawMessage(feature))
		if err != nil {
			return nil, err
		}
		if err := l.geoRepo.UpsertGeoData(gd); err != nil {
			return nil, err
		}
		report.Staged++
	}

	l.logger.Info("🗺️ [Loader] Geographic data loaded",
		"candidates", report.Candidates,
		"skipped", report.Skipped,
		"staged", report.Staged,
	)
	return report, nil
}
