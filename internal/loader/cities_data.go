package loader

import (
	"strconv"

	"github.com/oikia/backend-go/internal/database/models"
)

var cityDataColumns = []string{"code_insee", "population", "area"}

// LoadCityData ingests per-city statistics. The population density is derived
// here, explicitly, before anything is persisted.
func (l *Loader) LoadCityData(path string) (*Report, error) {
	cities, err := l.geoRepo.AllCities()
	if err != nil {
		return nil, err
	}
	cityByInsee := make(map[string]*models.City, len(cities))
	for i := range cities {
		cityByInsee[cities[i].CodeInsee] = &cities[i]
	}

	table, err := ReadCSV(path, cityDataColumns)
	if err != nil {
		return nil, err
	}

	rows, dropped := DedupeByKey(table.Rows, "code_insee")
	report := &Report{Candidates: len(table.Rows), Skipped: dropped}

	staged := make([]*models.CityData, 0, len(rows))
	for _, row := range rows {
		city, ok := cityByInsee[row["code_insee"]]
		if !ok {
			report.Skipped++
			continue
		}

		data := &models.CityData{CityID: city.ID}
		if population, err := strconv.ParseInt(row["population"], 10, 64); err == nil {
			data.Population = &population
		}
		if area, err := strconv.ParseFloat(row["area"], 64); err == nil {
			data.Area = &area
		}
		if income, err := strconv.ParseFloat(row["median_income"], 64); err == nil {
			data.MedianIncome = &income
		}
		data.PopulationDensity = models.PopulationDensity(data.Population, data.Area)

		staged = append(staged, data)
	}

	if err := l.geoRepo.BulkInsertCityData(staged); err != nil {
		return nil, err
	}
	report.Staged = len(staged)

	l.logger.Info("📊 [Loader] City data loaded",
		"candidates", report.Candidates,
		"skipped", report.Skipped,
		"staged", report.Staged,
	)
	return report, nil
}
