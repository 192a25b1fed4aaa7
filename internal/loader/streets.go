package loader

import (
	"fmt"

	"github.com/oikia/backend-go/internal/database/models"
)

var streetColumns = []string{"nom_voie", "code_insee"}

// streetKey is the composite natural key used for in-batch dedup and for
// address resolution: street name scoped to a city.
func streetKey(name string, cityID uint) string {
	return fmt.Sprintf("%s|%d", name, cityID)
}

// LoadStreets derives streets from the national address file. There is no
// per-row type extraction yet, so every street falls back to the default
// street type; when that type row is absent the street is staged without one.
func (l *Loader) LoadStreets(path string) (*Report, error) {
	cities, err := l.geoRepo.AllCities()
	if err != nil {
		return nil, err
	}
	cityByInsee := make(map[string]*models.City, len(cities))
	for i := range cities {
		cityByInsee[cities[i].CodeInsee] = &cities[i]
	}

	types, err := l.geoRepo.AllStreetTypes()
	if err != nil {
		return nil, err
	}
	var defaultType *string
	for i := range types {
		if types[i].Code == DefaultStreetTypeCode {
			code := types[i].Code
			defaultType = &code
			break
		}
	}
	if defaultType == nil {
		l.logger.Warn("⚠️ [Loader] Default street type missing, streets will have no type",
			"code", DefaultStreetTypeCode,
		)
	}

	table, err := ReadCSV(path, streetColumns)
	if err != nil {
		return nil, err
	}

	report := &Report{Candidates: len(table.Rows)}
	inBatch := make(map[string]struct{})
	streets := make([]*models.Street, 0)

	for _, row := range table.Rows {
		city, ok := cityByInsee[row["code_insee"]]
		if !ok {
			report.Skipped++
			continue
		}

		key := streetKey(row["nom_voie"], city.ID)
		if _, ok := inBatch[key]; ok {
			report.Skipped++
			continue
		}
		inBatch[key] = struct{}{}

		streets = append(streets, &models.Street{
			Name:           row["nom_voie"],
			StreetTypeCode: defaultType,
			CityID:         city.ID,
		})
	}

	if err := l.geoRepo.BulkInsertStreets(streets); err != nil {
		return nil, err
	}
	report.Staged = len(streets)

	l.logger.Info("🛤️ [Loader] Streets loaded",
		"candidates", report.Candidates,
		"skipped", report.Skipped,
		"staged", report.Staged,
	)
	return report, nil
}
