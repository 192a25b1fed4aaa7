package loader

import (
	"log/slog"

	"github.com/oikia/backend-go/internal/config"
	"github.com/oikia/backend-go/internal/database/repository"
)

// DefaultStreetTypeCode is applied when no per-row type can be extracted.
const DefaultStreetTypeCode = "RUE"

// Loader runs the dataset loads. Each Load* method owns one dataset and
// fails independently of the others.
type Loader struct {
	geoRepo repository.GeoRepository
	cfg     *config.Config
	logger  *slog.Logger
}

// New creates a new loader instance
func New(geoRepo repository.GeoRepository, cfg *config.Config, logger *slog.Logger) *Loader {
	return &Loader{
		geoRepo: geoRepo,
		cfg:     cfg,
		logger:  logger,
	}
}

// Report summarizes one dataset load. After a conflict-tolerant bulk insert
// no per-row success detail is retained; Staged counts rows handed to the
// store, not rows actually written.
type Report struct {
	Candidates int
	Skipped    int
	Staged     int
}
