package loader

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oikia/backend-go/internal/database/models"
)

// relationRule declares how one fixture field maps to a related entity: the
// natural key column on the related table and a constructor for a minimal
// row when the key does not resolve. This replaces runtime reflection over
// model metadata with an explicit table.
type relationRule struct {
	keyColumn  string
	newRelated func(key string) any
}

type fixtureKind struct {
	newEntity func() any
	// conflictOn is the natural key the upsert targets.
	conflictOn []string
	relations  map[string]relationRule
}

var fixtureKinds = map[string]fixtureKind{
	"core.menu": {
		newEntity:  func() any { return &models.Menu{} },
		conflictOn: []string{"name"},
	},
	"geo.language": {
		newEntity:  func() any { return &models.Language{} },
		conflictOn: []string{"code"},
	},
	"geo.currency": {
		newEntity:  func() any { return &models.Currency{} },
		conflictOn: []string{"code"},
	},
	"geo.continent": {
		newEntity:  func() any { return &models.Continent{} },
		conflictOn: []string{"code"},
	},
	"geo.country": {
		newEntity:  func() any { return &models.Country{} },
		conflictOn: []string{"code_iso2"},
		relations: map[string]relationRule{
			"language_official": {
				keyColumn:  "code",
				newRelated: func(key string) any { return &models.Language{Code: key, Name: key} },
			},
			"currency": {
				keyColumn:  "code",
				newRelated: func(key string) any { return &models.Currency{Code: key, CodeNumeric: key, Name: key} },
			},
			"continent": {
				keyColumn:  "code",
				newRelated: func(key string) any { return &models.Continent{Code: key, Name: key} },
			},
		},
	},
	"geo.administrative_level_one": {
		newEntity:  func() any { return &models.AdministrativeLevelOne{} },
		conflictOn: []string{"code"},
		relations: map[string]relationRule{
			"country": {
				keyColumn: "code_iso2",
				newRelated: func(key string) any {
					return &models.Country{CodeISO2: key, CodeISO3: key, ONUCode: key, Name: key}
				},
			},
		},
	},
	"geo.administrative_level_two": {
		newEntity:  func() any { return &models.AdministrativeLevelTwo{} },
		conflictOn: []string{"code"},
		relations: map[string]relationRule{
			"administrative_level_one": {
				keyColumn:  "code",
				newRelated: func(key string) any { return &models.AdministrativeLevelOne{Code: key, Name: key} },
			},
		},
	},
	"geo.street_type": {
		newEntity:  func() any { return &models.StreetType{} },
		conflictOn: []string{"code"},
	},
}

// FixtureLoader seeds small reference tables from JSON arrays, resolving
// declared relations before each upsert.
type FixtureLoader struct {
	db       *gorm.DB
	basePath string
	logger   *slog.Logger
}

// NewFixtureLoader creates a new fixture loader instance
func NewFixtureLoader(db *gorm.DB, basePath string, logger *slog.Logger) *FixtureLoader {
	return &FixtureLoader{
		db:       db,
		basePath: basePath,
		logger:   logger,
	}
}

// Kinds returns the fixture names this loader understands, in load order.
func Kinds() []string {
	return []string{
		"core.menu",
		"geo.language",
		"geo.currency",
		"geo.continent",
		"geo.country",
		"geo.administrative_level_one",
		"geo.administrative_level_two",
		"geo.street_type",
	}
}

// Load reads fixtures/<env>/<model>.json and upserts every entry. Relations
// declared for the kind are resolved-or-created first, so foreign keys always
// land on an existing row.
func (l *FixtureLoader) Load(name, env string) (int, error) {
	kind, ok := fixtureKinds[name]
	if !ok {
		return 0, fmt.Errorf("unknown fixture kind %q", name)
	}

	parts := strings.SplitN(name, ".", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("fixture name %q must be app.model", name)
	}
	path := filepath.Join(l.basePath, env, parts[1]+".json")

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("open fixture: %w", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		return 0, fmt.Errorf("parse fixture: %w", err)
	}

	loaded := 0
	for _, row := range rows {
		for field, rule := range kind.relations {
			value, ok := row[field]
			if !ok || value == nil {
				continue
			}
			key := fmt.Sprint(value)

			related := rule.newRelated(key)
			err := l.db.Where(rule.keyColumn+" = ?", key).FirstOrCreate(related).Error
			if err != nil {
				return loaded, fmt.Errorf("resolve relation %s=%s: %w", field, key, err)
			}
		}

		entity := kind.newEntity()
		encoded, err := json.Marshal(row)
		if err != nil {
			return loaded, err
		}
		if err := json.Unmarshal(encoded, entity); err != nil {
			return loaded, fmt.Errorf("decode fixture row: %w", err)
		}

		conflict := clause.OnConflict{UpdateAll: true}
		for _, col := range kind.conflictOn {
			conflict.Columns = append(conflict.Columns, clause.Column{Name: col})
		}

		if err := l.db.Clauses(conflict).Create(entity).Error; err != nil {
			return loaded, fmt.Errorf("upsert fixture row: %w", err)
		}
		loaded++
	}

	l.logger.Info("🌱 [Loader] Fixture loaded", "fixture", name, "rows", loaded)
	return loaded, nil
}
