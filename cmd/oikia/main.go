// Package main provides the oikia binary entry point: operational commands
// for seeding fixtures, loading reference datasets, and exercising the
// authentication flow against the configured database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oikia/backend-go/internal/config"
	"github.com/oikia/backend-go/internal/database"
	"github.com/oikia/backend-go/internal/database/repository"
	"github.com/oikia/backend-go/internal/database/service"
	"github.com/oikia/backend-go/internal/loader"
	"github.com/oikia/backend-go/internal/logger"
)

const (
	Version = "0.1.0"
	appName = "oikia"
)

// permissionEntities crossed with permissionVerbs yields the seeded
// permission set.
var (
	permissionEntities = []string{
		"user", "email", "token", "session", "client",
		"continent", "country", "administrative_level_one",
		"administrative_level_two", "city", "street", "address",
		"geo_data", "intent", "menu",
	}
	permissionVerbs = []string{"create", "read", "update", "delete"}
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Geographic catalog operations",
		Long: `Oikia is the operations companion for the catalog backend.

It seeds fixtures, ingests the national address datasets, maintains the
permission table, and exercises the authentication flow without going
through the HTTP surface.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		versionCmd(),
		authenticateCmd(),
		loadFixtureCmd(),
		loadAllFixturesCmd(),
		loadDatasetsCmd(),
		loadGeoDataCmd(),
		generatePermissionsCmd(),
		fetchDatasetsCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	}
}

// setup loads config, configures logging, and connects the database.
func setup() (*config.Config, error) {
	cfg := config.LoadConfig()
	appLogger := logger.New(cfg)

	if err := database.ConnectDatabase(cfg, appLogger); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, nil
}

func authenticateCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "authenticate",
		Short: "Exchange credentials for a token pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			db := database.GetDatabase()
			authService := service.NewAuthService(
				repository.NewUserRepository(db),
				repository.NewTokenRepository(db),
				repository.NewRefreshRepository(db),
				repository.NewSessionRepository(db),
				repository.NewClientRepository(db),
				cfg,
				logger.New(cfg),
			)

			result, err := authService.Authenticate(email, password)
			if err != nil {
				return err
			}

			fmt.Printf("token:   %s\nrefresh: %s\nsession: %s\n", result.Token, result.Refresh, result.SessionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func loadFixtureCmd() *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "load-fixture <name>",
		Short: "Load one fixture (e.g. geo.country)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			fl := loader.NewFixtureLoader(database.GetDatabase(), cfg.FixturesPath, logger.New(cfg))
			rows, err := fl.Load(args[0], env)
			if err != nil {
				return err
			}

			fmt.Printf("loaded %d rows from %s\n", rows, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&env, "env", "development", "Fixture environment directory")
	return cmd
}

func loadAllFixturesCmd() *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "load-all-fixtures",
		Short: "Load every known fixture in dependency order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			fl := loader.NewFixtureLoader(database.GetDatabase(), cfg.FixturesPath, logger.New(cfg))
			total := 0
			for _, name := range loader.Kinds() {
				rows, err := fl.Load(name, env)
				if err != nil {
					if errors.Is(err, os.ErrNotExist) {
						continue // fixture file absent for this environment
					}
					return fmt.Errorf("fixture %s: %w", name, err)
				}
				total += rows
			}

			fmt.Printf("loaded %d rows\n", total)
			return nil
		},
	}

	cmd.Flags().StringVar(&env, "env", "development", "Fixture environment directory")
	return cmd
}

func loadDatasetsCmd() *cobra.Command {
	var citiesPath, cityDataPath, streetsPath, addressesPath string

	cmd := &cobra.Command{
		Use:   "load-datasets",
		Short: "Ingest the CSV reference datasets",
		Long: `Ingests street types, then the CSV datasets in dependency order:
cities, city statistics, streets, addresses. Paths left empty are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			appLogger := logger.New(cfg)
			l := loader.New(repository.NewGeoRepository(database.GetDatabase()), cfg, appLogger)

			if _, err := l.LoadStreetTypes(); err != nil {
				return fmt.Errorf("street types: %w", err)
			}

			steps := []struct {
				name string
				path string
				load func(string) (*loader.Report, error)
			}{
				{"cities", citiesPath, l.LoadCities},
				{"city-data", cityDataPath, l.LoadCityData},
				{"streets", streetsPath, l.LoadStreets},
				{"addresses", addressesPath, l.LoadAddresses},
			}

			for _, step := range steps {
				if step.path == "" {
					continue
				}
				report, err := step.load(step.path)
				if err != nil {
					return fmt.Errorf("%s: %w", step.name, err)
				}
				fmt.Printf("%s: %d candidates, %d skipped, %d staged\n",
					step.name, report.Candidates, report.Skipped, report.Staged)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&citiesPath, "cities", "", "Cities CSV path")
	cmd.Flags().StringVar(&cityDataPath, "city-data", "", "City statistics CSV path")
	cmd.Flags().StringVar(&streetsPath, "streets", "", "Streets CSV path")
	cmd.Flags().StringVar(&addressesPath, "addresses", "", "Addresses CSV path")

	return cmd
}

func loadGeoDataCmd() *cobra.Command {
	var country string

	cmd := &cobra.Command{
		Use:   "load-geo-data <geojson-file>",
		Short: "Ingest region boundaries from a GeoJSON feature collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			l := loader.New(repository.NewGeoRepository(database.GetDatabase()), cfg, logger.New(cfg))
			report, err := l.LoadGeoData(args[0], country)
			if err != nil {
				return err
			}

			fmt.Printf("geo-data: %d candidates, %d skipped, %d staged\n",
				report.Candidates, report.Skipped, report.Staged)
			return nil
		},
	}

	cmd.Flags().StringVar(&country, "country", "FR", "ISO alpha-2 country the regions belong to")
	return cmd
}

func generatePermissionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-permissions",
		Short: "Seed the entity:verb permission cross product",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := setup(); err != nil {
				return err
			}

			permRepo := repository.NewPermissionRepository(database.GetDatabase())
			created := 0
			for _, entity := range permissionEntities {
				for _, verb := range permissionVerbs {
					wasCreated, err := permRepo.GetOrCreate(entity + ":" + verb)
					if err != nil {
						return err
					}
					if wasCreated {
						created++
					}
				}
			}

			total, err := permRepo.Count()
			if err != nil {
				return err
			}
			fmt.Printf("created %d permissions (%d total)\n", created, total)
			return nil
		},
	}
}

func fetchDatasetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-datasets",
		Short: "Download missing national address archives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			appLogger := logger.New(cfg)

			dest := filepath.Join(cfg.CSVPath, "france", "addresses")
			fetcher := loader.NewFetcher(cfg.DatasetIndexURL, dest, appLogger)

			report, err := fetcher.Fetch(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("listed %d archives, downloaded %d, %d already present\n",
				report.Listed, report.Downloaded, report.Skipped)
			return nil
		},
	}
}
