// cmd/seed/main.go
package main

import (
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/CoderNitu/Inven-Track/internal/domain"
	"github.com/CoderNitu/Inven-Track/internal/repository/postgres"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func openDB(c *cli.Context) (*sqlx.DB, error) {
	raw, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := raw.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return sqlx.NewDb(raw, "pgx"), nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Initialize the schema and load demo inventory data",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Apply the SQL migrations in order",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "migrations-dir",
						Usage:   "Directory containing .sql migration files",
						Value:   "./migrations",
						EnvVars: []string{"MIGRATIONS_DIR"},
					},
				},
				Action: runMigrate,
			},
			{
				Name:   "catalog",
				Usage:  "Seed demo suppliers, products and starting inventory",
				Flags:  []cli.Flag{newDBURLFlag()},
				Action: runCatalogSeed,
			},
			{
				Name:  "ledger",
				Usage: "Generate a synthetic sales history for all products",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{
						Name:  "days",
						Usage: "Days of history to generate",
						Value: 120,
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Random seed for the synthetic history",
						Value: 1,
					},
				},
				Action: runLedgerSeed,
			},
			{
				Name:  "all",
				Usage: "Migrate, then seed catalog and ledger",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "migrations-dir",
						Value:   "./migrations",
						EnvVars: []string{"MIGRATIONS_DIR"},
					},
					&cli.IntFlag{Name: "days", Value: 120},
					&cli.Int64Flag{Name: "seed", Value: 1},
				},
				Action: func(c *cli.Context) error {
					if err := runMigrate(c); err != nil {
						return fmt.Errorf("error applying migrations: %w", err)
					}
					if err := runCatalogSeed(c); err != nil {
						return fmt.Errorf("error seeding catalog: %w", err)
					}
					if err := runLedgerSeed(c); err != nil {
						return fmt.Errorf("error seeding ledger: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runMigrate(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	files, err := filepath.Glob(filepath.Join(c.String("migrations-dir"), "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no migration files in %s", c.String("migrations-dir"))
	}
	sort.Strings(files)

	for _, file := range files {
		payload, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		log.Printf("Applying %s", file)
		if _, err := db.ExecContext(c.Context, string(payload)); err != nil {
			return fmt.Errorf("failed to apply %s: %w", file, err)
		}
	}

	log.Println("Migrations applied")
	return nil
}

type demoProduct struct {
	sku             string
	name            string
	unit            string
	price           float64
	reorderPoint    int
	reorderQuantity int
	supplier        string
	startingStock   int
	baseDemand      int
}

var demoSuppliers = []struct {
	name         string
	email        string
	leadTimeDays int
}{
	{"Northline Distribution", "orders@northline.example", 5},
	{"Pacific Wholesale Co", "po@pacificwholesale.example", 9},
	{"Metro Supply Partners", "purchasing@metrosupply.example", 3},
}

var demoProducts = []demoProduct{
	{"SKU-1001", "Espresso Beans 1kg", "bag", 18.50, 40, 120, "Northline Distribution", 260, 14},
	{"SKU-1002", "Oat Milk 1L", "carton", 2.80, 80, 240, "Northline Distribution", 420, 30},
	{"SKU-1003", "Paper Cups 12oz", "sleeve", 6.20, 25, 100, "Pacific Wholesale Co", 180, 9},
	{"SKU-1004", "Cleaning Solution 5L", "jug", 12.00, 10, 30, "Pacific Wholesale Co", 45, 2},
	{"SKU-1005", "Thermal Receipt Rolls", "box", 9.75, 15, 60, "Metro Supply Partners", 90, 4},
	{"SKU-1006", "Vanilla Syrup 750ml", "bottle", 7.40, 20, 80, "Metro Supply Partners", 130, 6},
}

func runCatalogSeed(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := c.Context
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	log.Println("Seeding suppliers and products...")

	supplierIDs := make(map[string]int64)
	for _, s := range demoSuppliers {
		var id int64
		query := `
			INSERT INTO suppliers (name, contact_email, lead_time_days, rating, is_active)
			VALUES ($1, $2, $3, 4.0, TRUE)
			ON CONFLICT (name) DO UPDATE SET
				contact_email = EXCLUDED.contact_email,
				lead_time_days = EXCLUDED.lead_time_days
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query, s.name, s.email, s.leadTimeDays).Scan(&id); err != nil {
			return fmt.Errorf("failed to upsert supplier %s: %w", s.name, err)
		}
		supplierIDs[s.name] = id
	}

	for _, p := range demoProducts {
		supplierID, ok := supplierIDs[p.supplier]
		if !ok {
			return fmt.Errorf("unknown supplier %s for product %s", p.supplier, p.sku)
		}

		var productID int64
		query := `
			INSERT INTO products (sku, name, unit, price, reorder_point, reorder_quantity, supplier_id, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
			ON CONFLICT (sku) DO UPDATE SET
				name = EXCLUDED.name,
				price = EXCLUDED.price,
				reorder_point = EXCLUDED.reorder_point,
				reorder_quantity = EXCLUDED.reorder_quantity,
				supplier_id = EXCLUDED.supplier_id
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query,
			p.sku, p.name, p.unit, p.price, p.reorderPoint, p.reorderQuantity, supplierID,
		).Scan(&productID); err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", p.sku, err)
		}

		inventory := `
			INSERT INTO inventories (product_id, quantity_on_hand, quantity_reserved, location)
			VALUES ($1, $2, 0, 'main')
			ON CONFLICT (product_id) DO UPDATE SET quantity_on_hand = EXCLUDED.quantity_on_hand
		`
		if _, err := tx.ExecContext(ctx, inventory, productID, p.startingStock); err != nil {
			return fmt.Errorf("failed to seed inventory for %s: %w", p.sku, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Seeded %d suppliers and %d products", len(demoSuppliers), len(demoProducts))
	return nil
}

// runLedgerSeed backfills a sales history with weekly shape: weekend
// demand runs at roughly 60% of weekday demand, with random jitter.
func runLedgerSeed(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	catalog := postgres.NewCatalogRepository(postgres.Wrap(db))
	rng := rand.New(rand.NewSource(c.Int64("seed")))
	days := c.Int("days")
	ctx := c.Context

	products, err := catalog.ListActiveProducts(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return fmt.Errorf("no active products; run the catalog seed first")
	}

	base := make(map[string]int, len(demoProducts))
	for _, p := range demoProducts {
		base[p.sku] = p.baseDemand
	}

	log.Printf("Generating %d days of sales history for %d products...", days, len(products))

	now := time.Now()
	count := 0
	for _, product := range products {
		demand := base[product.SKU]
		if demand == 0 {
			demand = 5
		}

		for i := days; i >= 1; i-- {
			day := now.AddDate(0, 0, -i)
			quantity := demand + rng.Intn(demand/2+1) - demand/4
			if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
				quantity = quantity * 6 / 10
			}
			if quantity <= 0 {
				continue
			}

			err := catalog.AppendTransaction(ctx, domain.StockTransaction{
				ProductID:      product.ID,
				QuantityChange: -quantity,
				Reason:         domain.ReasonSale,
				Reference:      fmt.Sprintf("seed-%s", day.Format("20060102")),
				CreatedAt:      day,
			})
			if err != nil {
				return fmt.Errorf("failed to append transaction for %s: %w", product.SKU, err)
			}
			count++
		}
	}

	log.Printf("Generated %d ledger entries", count)
	return nil
}
