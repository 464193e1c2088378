// cmd/analytics/main.go
package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/CoderNitu/Inven-Track/internal/cache"
	"github.com/CoderNitu/Inven-Track/internal/config"
	"github.com/CoderNitu/Inven-Track/internal/metrics"
	"github.com/CoderNitu/Inven-Track/internal/repository/postgres"
	"github.com/CoderNitu/Inven-Track/internal/service"
	"github.com/CoderNitu/Inven-Track/internal/storage"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

type engine struct {
	db            *sqlx.DB
	forecasts     *service.ForecastService
	replenishment *service.ReplenishmentService
}

func newEngine(c *cli.Context) (*engine, error) {
	raw, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := raw.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := sqlx.NewDb(raw, "pgx")
	wrapped := postgres.Wrap(db)

	cfg := config.Load()
	registry := metrics.NewRegistry()
	noop := cache.NewNoopSummaryCache()

	catalogRepo := postgres.NewCatalogRepository(wrapped)
	ledgerRepo := postgres.NewLedgerRepository(wrapped)
	forecastRepo := postgres.NewForecastRepository(wrapped)
	orderRepo := postgres.NewOrderRepository(wrapped)

	return &engine{
		db:            db,
		forecasts:     service.NewForecastService(catalogRepo, ledgerRepo, forecastRepo, noop, registry, cfg.Analytics),
		replenishment: service.NewReplenishmentService(catalogRepo, ledgerRepo, orderRepo, noop, registry, cfg.Analytics),
	}, nil
}

func (e *engine) close() {
	if e.db != nil {
		e.db.Close()
	}
}

func printResults(results any) error {
	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(payload))
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "analytics",
		Usage: "Run forecasting and replenishment batches against the inventory database",
		Commands: []*cli.Command{
			{
				Name:  "demand",
				Usage: "Generate demand forecasts for all active products",
				Flags: []cli.Flag{newDBURLFlag()},
				Action: func(c *cli.Context) error {
					e, err := newEngine(c)
					if err != nil {
						return err
					}
					defer e.close()

					results, err := e.forecasts.RunDemandForecasts(c.Context)
					if err != nil {
						return err
					}
					return printResults(results)
				},
			},
			{
				Name:  "stockout",
				Usage: "Predict stockout dates for all active products",
				Flags: []cli.Flag{newDBURLFlag()},
				Action: func(c *cli.Context) error {
					e, err := newEngine(c)
					if err != nil {
						return err
					}
					defer e.close()

					results, err := e.forecasts.RunStockoutForecasts(c.Context)
					if err != nil {
						return err
					}
					return printResults(results)
				},
			},
			{
				Name:  "seasonal",
				Usage: "Rebuild seasonal demand profiles for all active products",
				Flags: []cli.Flag{newDBURLFlag()},
				Action: func(c *cli.Context) error {
					e, err := newEngine(c)
					if err != nil {
						return err
					}
					defer e.close()

					results, err := e.forecasts.RunSeasonalAnalysis(c.Context)
					if err != nil {
						return err
					}
					return printResults(results)
				},
			},
			{
				Name:  "replenish",
				Usage: "Scan reorder points and commit automated purchase orders",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "List reorder needs without creating orders",
					},
					&cli.StringFlag{
						Name:  "snapshot-dir",
						Usage: "Write a CSV snapshot of the run to this directory",
					},
					&cli.BoolFlag{
						Name:    "upload",
						Usage:   "Upload the CSV snapshot to object storage",
						EnvVars: []string{"STORAGE_ENABLED"},
					},
				},
				Action: runReplenish,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runReplenish(c *cli.Context) error {
	e, err := newEngine(c)
	if err != nil {
		return err
	}
	defer e.close()

	if c.Bool("dry-run") {
		intents, err := e.replenishment.CheckReorderNeeds(c.Context)
		if err != nil {
			return err
		}
		return printResults(intents)
	}

	results, err := e.replenishment.ProcessAutomatedOrders(c.Context)
	if err != nil {
		return err
	}

	if dir := c.String("snapshot-dir"); dir != "" || c.Bool("upload") {
		var store storage.ObjectStorage
		if c.Bool("upload") {
			cfg := config.Load()
			client, err := storage.NewMinioClient(cfg.Storage)
			if err != nil {
				return fmt.Errorf("failed to configure object storage: %w", err)
			}
			store = client
		}

		writer := storage.NewSnapshotWriter(store)
		now := time.Now()
		if dir != "" {
			path, err := writer.WriteLocal(dir, results, now)
			if err != nil {
				return err
			}
			log.Printf("Snapshot written to %s", path)
		}
		if c.Bool("upload") {
			if err := writer.Upload(c.Context, results, now); err != nil {
				return err
			}
			log.Println("Snapshot uploaded to object storage")
		}
	}

	return printResults(results)
}
