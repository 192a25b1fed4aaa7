package loader

import "github.com/oikia/backend-go/internal/database/models"

func strPtr(s string) *string { return &s }

// builtinStreetTypes is the seed list; DefaultStreetTypeCode must be in it
// for street loads to assign a type at all.
var builtinStreetTypes = []*models.StreetType{
	{Code: "RUE", Name: "Rue", ShortName: strPtr("r.")},
	{Code: "AV", Name: "Avenue", ShortName: strPtr("av.")},
	{Code: "BD", Name: "Boulevard", ShortName: strPtr("bd")},
	{Code: "PL", Name: "Place", ShortName: strPtr("pl.")},
	{Code: "CHE", Name: "Chemin", ShortName: strPtr("che.")},
	{Code: "IMP", Name: "Impasse", ShortName: strPtr("imp.")},
	{Code: "ALL", Name: "Allée", ShortName: strPtr("all.")},
	{Code: "QUAI", Name: "Quai"},
	{Code: "RTE", Name: "Route", ShortName: strPtr("rte")},
	{Code: "SQ", Name: "Square", ShortName: strPtr("sq.")},
}

// LoadStreetTypes seeds the thoroughfare kinds. Existing codes are left
// untouched.
func (l *Loader) LoadStreetTypes() (*Report, error) {
	if err := l.geoRepo.BulkInsertStreetTypes(builtinStreetTypes); err != nil {
		return nil, err
	}

	report := &Report{Candidates: len(builtinStreetTypes), Staged: len(builtinStreetTypes)}
	l.logger.Info("🛣️ [Loader] Street types loaded", "staged", report.Staged)
	return report, nil
}
