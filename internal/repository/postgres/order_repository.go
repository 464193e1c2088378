// internal/repository/postgres/order_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/CoderNitu/Inven-Track/internal/domain"
)

type orderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *orderRepository {
	return &orderRepository{db: db}
}

// CreateAutomatedOrder persists a replenishment intent as a purchase
// order with a generated sequential PO number and a single line item
// priced at the product's unit price. The order total is computed as
// quantity x unit price.
func (r *orderRepository) CreateAutomatedOrder(ctx context.Context, intent domain.ReplenishmentIntent, unitPrice decimal.Decimal) (*domain.PurchaseOrder, error) {
	var order domain.PurchaseOrder

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		poNumber, err := nextPONumber(ctx, tx)
		if err != nil {
			return err
		}

		total := unitPrice.Mul(decimal.NewFromInt(int64(intent.Quantity)))

		insertOrder := `
			INSERT INTO purchase_orders (
				po_number, supplier_id, status, order_date, expected_delivery_date,
				total_amount, notes, is_automated
			) VALUES ($1, $2, $3, NOW(), $4, $5, $6, TRUE)
			RETURNING id, po_number, supplier_id, status, order_date, expected_delivery_date,
				actual_delivery_date, total_amount, notes, is_automated
		`

		row := tx.QueryRowContext(ctx, insertOrder,
			poNumber,
			intent.SupplierID,
			domain.OrderStatusDraft,
			intent.ExpectedDeliveryDate,
			total,
			intent.Rationale,
		)
		if err := scanOrder(row, &order); err != nil {
			return fmt.Errorf("failed to insert purchase order: %w", err)
		}

		insertItem := `
			INSERT INTO purchase_order_items (purchase_order_id, product_id, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, insertItem, order.ID, intent.ProductID, intent.Quantity, unitPrice, total); err != nil {
			return fmt.Errorf("failed to insert purchase order item: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// nextPONumber generates the next sequential PO-%06d identifier. The
// orders table is locked for the duration of the transaction so
// concurrent runs cannot mint the same number.
func nextPONumber(ctx context.Context, tx *sql.Tx) (string, error) {
	if _, err := tx.ExecContext(ctx, `LOCK TABLE purchase_orders IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return "", fmt.Errorf("failed to lock purchase_orders: %w", err)
	}

	var last sql.NullString
	query := `SELECT po_number FROM purchase_orders ORDER BY id DESC LIMIT 1`
	if err := tx.QueryRowContext(ctx, query).Scan(&last); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to read last po number: %w", err)
	}

	seq := 0
	if last.Valid {
		if _, err := fmt.Sscanf(last.String, "PO-%06d", &seq); err != nil {
			return "", fmt.Errorf("malformed po number %q: %w", last.String, err)
		}
	}

	return fmt.Sprintf("PO-%06d", seq+1), nil
}

func (r *orderRepository) ListPendingOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	query := `
		SELECT id, po_number, supplier_id, status, order_date, expected_delivery_date,
			actual_delivery_date, total_amount, COALESCE(notes, '') AS notes, is_automated
		FROM purchase_orders
		WHERE status IN ($1, $2, $3, $4)
		ORDER BY expected_delivery_date
	`

	var orders []domain.PurchaseOrder
	err := sqlx.SelectContext(ctx, r.db, &orders, query,
		domain.OrderStatusDraft, domain.OrderStatusSent, domain.OrderStatusConfirmed, domain.OrderStatusShipped)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending orders: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) CountPendingOrders(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM purchase_orders
		WHERE status IN ($1, $2, $3, $4)
	`

	var count int
	err := sqlx.GetContext(ctx, r.db, &count, query,
		domain.OrderStatusDraft, domain.OrderStatusSent, domain.OrderStatusConfirmed, domain.OrderStatusShipped)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending orders: %w", err)
	}
	return count, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*domain.PurchaseOrder, error) {
	query := `
		UPDATE purchase_orders
		SET status = $2,
			actual_delivery_date = CASE WHEN $2 = 'received' THEN NOW() ELSE actual_delivery_date END
		WHERE id = $1
		RETURNING id, po_number, supplier_id, status, order_date, expected_delivery_date,
			actual_delivery_date, total_amount, notes, is_automated
	`

	var order domain.PurchaseOrder
	row := r.db.QueryRowContext(ctx, query, orderID, status)
	if err := scanOrder(row, &order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: purchase order %d", domain.ErrMissingState, orderID)
		}
		return nil, fmt.Errorf("failed to update order %d: %w", orderID, err)
	}

	return &order, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner, order *domain.PurchaseOrder) error {
	return row.Scan(
		&order.ID,
		&order.PONumber,
		&order.SupplierID,
		&order.Status,
		&order.OrderDate,
		&order.ExpectedDeliveryDate,
		&order.ActualDeliveryDate,
		&order.TotalAmount,
		&order.Notes,
		&order.IsAutomated,
	)
}
