package loader

import (
	"fmt"

	"github.com/oikia/backend-go/internal/database/models"
)

var (
	cityColumns = []string{"code_insee", "name", "code_postal"}

	// Present in the header, but a row may leave either one empty: one
	// resolvable admin level is enough to keep the city.
	cityAdminColumns = []string{"region_code", "department_code"}
)

// LoadCities ingests the communes dataset. Rows are deduplicated on
// code_insee; a city resolving neither admin level is dropped.
func (l *Loader) LoadCities(path string) (*Report, error) {
	adminOnes, err := l.geoRepo.AllAdminOnes()
	if err != nil {
		return nil, err
	}
	adminOneByInsee := make(map[string]*models.AdministrativeLevelOne, len(adminOnes))
	for i := range adminOnes {
		if adminOnes[i].CodeInsee != nil {
			adminOneByInsee[*adminOnes[i].CodeInsee] = &adminOnes[i]
		}
	}

	adminTwos, err := l.geoRepo.AllAdminTwos()
	if err != nil {
		return nil, err
	}
	adminTwoByCode := make(map[string]*models.AdministrativeLevelTwo, len(adminTwos))
	for i := range adminTwos {
		adminTwoByCode[adminTwos[i].Code] = &adminTwos[i]
	}

	table, err := ReadCSV(path, cityColumns)
	if err != nil {
		return nil, err
	}
	for _, col := range cityAdminColumns {
		if !table.HasColumn(col) {
			return nil, fmt.Errorf("dataset is missing required column %q", col)
		}
	}

	rows, dropped := DedupeByKey(table.Rows, "code_insee")
	report := &Report{Candidates: len(table.Rows), Skipped: dropped}

	cities := make([]*models.City, 0, len(rows))
	for _, row := range rows {
		city := &models.City{
			Name:      row["name"],
			CodeInsee: row["code_insee"],
		}
		if postal := row["code_postal"]; postal != "" {
			city.CodePostal = &postal
		}

		if adminOne, ok := adminOneByInsee[row["region_code"]]; ok {
			code := adminOne.Code
			city.AdministrativeLevelOneCode = &code
		}
		if adminTwo, ok := adminTwoByCode[row["department_code"]]; ok {
			code := adminTwo.Code
			city.AdministrativeLevelTwoCode = &code
		}

		// A city must hang off the hierarchy somewhere.
		if city.AdministrativeLevelOneCode == nil && city.AdministrativeLevelTwoCode == nil {
			l.logger.Debug("🗑️ [Loader] City resolves no admin level, dropped", "code_insee", city.CodeInsee)
			report.Skipped++
			continue
		}

		cities = append(cities, city)
	}

	if err := l.geoRepo.BulkInsertCities(cities); err != nil {
		return nil, err
	}
	report.Staged = len(cities)

	l.logger.Info("🏙️ [Loader] Cities loaded",
		"candidates", report.Candidates,
		"skipped", report.Skipped,
		"staged", report.Staged,
	)
	return report, nil
}
