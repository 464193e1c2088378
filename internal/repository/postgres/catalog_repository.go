// internal/repository/postgres/catalog_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/CoderNitu/Inven-Track/internal/domain"
)

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, sku, name, unit, price, reorder_point, reorder_quantity, supplier_id, is_active
		FROM products
		WHERE is_active = TRUE
		ORDER BY id
	`

	var products []domain.Product
	if err := sqlx.SelectContext(ctx, r.db, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list active products: %w", err)
	}

	return products, nil
}

func (r *catalogRepository) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	query := `
		SELECT id, sku, name, unit, price, reorder_point, reorder_quantity, supplier_id, is_active
		FROM products
		WHERE id = $1
	`

	var product domain.Product
	if err := sqlx.GetContext(ctx, r.db, &product, query, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %d", domain.ErrMissingState, productID)
		}
		return nil, fmt.Errorf("failed to get product %d: %w", productID, err)
	}

	return &product, nil
}

func (r *catalogRepository) GetSupplier(ctx context.Context, supplierID int64) (*domain.Supplier, error) {
	query := `
		SELECT id, name, contact_email, phone, lead_time_days, rating, is_active
		FROM suppliers
		WHERE id = $1
	`

	var supplier domain.Supplier
	if err := sqlx.GetContext(ctx, r.db, &supplier, query, supplierID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: supplier %d", domain.ErrMissingState, supplierID)
		}
		return nil, fmt.Errorf("failed to get supplier %d: %w", supplierID, err)
	}

	return &supplier, nil
}

func (r *catalogRepository) GetInventory(ctx context.Context, productID int64) (*domain.Inventory, error) {
	query := `
		SELECT product_id, quantity_on_hand, quantity_reserved, COALESCE(location, '') AS location
		FROM inventories
		WHERE product_id = $1
	`

	var inventory domain.Inventory
	if err := sqlx.GetContext(ctx, r.db, &inventory, query, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no inventory record for product %d", domain.ErrMissingState, productID)
		}
		return nil, fmt.Errorf("failed to get inventory for product %d: %w", productID, err)
	}

	return &inventory, nil
}

func (r *catalogRepository) CountActiveProducts(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM products WHERE is_active = TRUE`
	if err := sqlx.GetContext(ctx, r.db, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count active products: %w", err)
	}
	return count, nil
}

func (r *catalogRepository) CountBelowReorderPoint(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM products p
		JOIN inventories i ON i.product_id = p.id
		WHERE p.is_active = TRUE
		  AND i.quantity_on_hand - i.quantity_reserved <= p.reorder_point
	`

	var count int
	if err := sqlx.GetContext(ctx, r.db, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count products below reorder point: %w", err)
	}
	return count, nil
}

// AppendTransaction writes one ledger entry and applies it to the
// inventory row in the same transaction. Used by the seed tool.
func (r *catalogRepository) AppendTransaction(ctx context.Context, tx domain.StockTransaction) error {
	return r.db.WithTx(ctx, func(sqlTx *sql.Tx) error {
		insert := `
			INSERT INTO stock_transactions (product_id, quantity_change, reason, reference, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := sqlTx.ExecContext(ctx, insert, tx.ProductID, tx.QuantityChange, tx.Reason, tx.Reference, tx.CreatedAt); err != nil {
			return fmt.Errorf("failed to append stock transaction: %w", err)
		}

		apply := `
			INSERT INTO inventories (product_id, quantity_on_hand, quantity_reserved)
			VALUES ($1, $2, 0)
			ON CONFLICT (product_id)
			DO UPDATE SET quantity_on_hand = inventories.quantity_on_hand + EXCLUDED.quantity_on_hand
		`
		if _, err := sqlTx.ExecContext(ctx, apply, tx.ProductID, tx.QuantityChange); err != nil {
			return fmt.Errorf("failed to apply transaction to inventory: %w", err)
		}

		return nil
	})
}

type ledgerRepository struct {
	db *DB
}

func NewLedgerRepository(db *DB) *ledgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) ListTransactions(ctx context.Context, productID int64, from, to time.Time) ([]domain.StockTransaction, error) {
	query := `
		SELECT id, product_id, quantity_change, reason, COALESCE(reference, '') AS reference, created_at
		FROM stock_transactions
		WHERE product_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at
	`

	var transactions []domain.StockTransaction
	if err := sqlx.SelectContext(ctx, r.db, &transactions, query, productID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list transactions for product %d: %w", productID, err)
	}

	return transactions, nil
}
