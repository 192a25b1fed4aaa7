package loader

import (
	"fmt"
	"strconv"

	"github.com/oikia/backend-go/internal/database/models"
)

var addressColumns = []string{"numero", "nom_voie", "code_insee", "code_postal"}

// LoadAddresses ingests the national address file. Each row must resolve its
// street through the composite (name, city) key; unresolvable rows are
// dropped. In-batch duplicates on (street, number, postal code) are dropped
// before the store ever sees them.
func (l *Loader) LoadAddresses(path string) (*Report, error) {
	cities, err := l.geoRepo.AllCities()
	if err != nil {
		return nil, err
	}
	cityByInsee := make(map[string]*models.City, len(cities))
	for i := range cities {
		cityByInsee[cities[i].CodeInsee] = &cities[i]
	}

	streets, err := l.geoRepo.AllStreets()
	if err != nil {
		return nil, err
	}
	streetByKey := make(map[string]*models.Street, len(streets))
	for i := range streets {
		streetByKey[streetKey(streets[i].Name, streets[i].CityID)] = &streets[i]
	}

	table, err := ReadCSV(path, addressColumns)
	if err != nil {
		return nil, err
	}

	report := &Report{Candidates: len(table.Rows)}
	inBatch := make(map[string]struct{})
	addresses := make([]*models.Address, 0)

	for _, row := range table.Rows {
		city, ok := cityByInsee[row["code_insee"]]
		if !ok {
			report.Skipped++
			continue
		}

		street, ok := streetByKey[streetKey(row["nom_voie"], city.ID)]
		if !ok {
			report.Skipped++
			continue
		}

		batchKey := fmt.Sprintf("%d|%s|%s", street.ID, row["numero"], row["code_postal"])
		if _, ok := inBatch[batchKey]; ok {
			report.Skipped++
			continue
		}
		inBatch[batchKey] = struct{}{}

		address := &models.Address{
			Number:     row["numero"],
			CodePostal: row["code_postal"],
			StreetID:   street.ID,
		}
		if rep := row["rep"]; rep != "" {
			address.NumberExtension = &rep
		}
		if lat, err := strconv.ParseFloat(row["lat"], 64); err == nil {
			address.Latitude = &lat
		}
		if lon, err := strconv.ParseFloat(row["lon"], 64); err == nil {
			address.Longitude = &lon
		}

		addresses = append(addresses, address)
	}

	if err := l.geoRepo.BulkInsertAddresses(addresses); err != nil {
		return nil, err
	}
	report.Staged = len(addresses)

	l.logger.Info("🏠 [Loader] Addresses loaded",
		"candidates", report.Candidates,
		"skipped", report.Skipped,
		"staged", report.Staged,
	)
	return report, nil
}
