package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"order-analytics-service/internal/domain"
	"order-analytics-service/internal/repository"
	"order-analytics-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresOrderRepository implements the order repository on PostgreSQL
type PostgresOrderRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository
func NewPostgresOrderRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db:  db,
		log: log,
	}
}

// DeleteAll removes every order record; lines go with their orders
func (r *PostgresOrderRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM orders`); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}
	return nil
}

// BulkInsert inserts the given orders and their lines in one transactional
// batch. A constraint rejection fails the whole batch; the caller logs it
// and moves on, there is no per-order retry.
func (r *PostgresOrderRepository) BulkInsert(ctx context.Context, orders []domain.Order) (int, error) {
	if len(orders) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orderQuery := `
		INSERT INTO orders (id, natural_id, customer_id, total_amount, order_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	lineQuery := `
		INSERT INTO order_lines (order_id, product_id, quantity, price_at_purchase)
		VALUES ($1, $2, $3, $4)
	`

	batch := &pgx.Batch{}
	queued := 0
	for _, order := range orders {
		orderID := uuid.New()
		batch.Queue(orderQuery,
			orderID,
			order.NaturalID,
			order.CustomerID,
			order.TotalAmount,
			order.OrderDate,
			order.Status,
		)
		queued++
		for _, line := range order.Lines {
			batch.Queue(lineQuery,
				orderID,
				line.ProductID,
				line.Quantity,
				line.PriceAtPurchase,
			)
			queued++
		}
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < queued; i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
				return 0, domain.NewValidationError("order", "", "batch", pgErr.Message)
			}
			return 0, fmt.Errorf("failed to insert orders: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit orders: %w", err)
	}

	r.log.Debug("Inserted %d orders", len(orders))
	return len(orders), nil
}

// CustomerSpending aggregates completed orders of one customer. A customer
// with no completed orders yields the zero result, not an error.
func (r *PostgresOrderRepository) CustomerSpending(ctx context.Context, customerID string) (domain.CustomerSpending, error) {
	id, err := uuid.Parse(customerID)
	if err != nil {
		return domain.CustomerSpending{}, repository.ErrInvalidData
	}

	query := `
		SELECT COALESCE(SUM(total_amount), 0)::float8,
		       COALESCE(AVG(total_amount), 0)::float8,
		       MAX(order_date)
		FROM orders
		WHERE customer_id = $1 AND status = 'completed'
	`

	spending := domain.CustomerSpending{CustomerID: customerID}
	err = r.db.QueryRow(ctx, query, id).Scan(
		&spending.TotalSpent,
		&spending.AverageOrderValue,
		&spending.LastOrderDate,
	)
	if err != nil {
		return domain.CustomerSpending{}, fmt.Errorf("failed to aggregate customer spending: %w", err)
	}

	return spending, nil
}

// TopSellingProducts ranks products by total quantity sold across all
// orders regardless of status. The order among products with equal totals
// is unspecified.
func (r *PostgresOrderRepository) TopSellingProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	query := `
		SELECT ol.product_id::text, p.name, SUM(ol.quantity)::bigint AS total_sold
		FROM order_lines ol
		JOIN products p ON p.id = ol.product_id
		GROUP BY ol.product_id, p.name
		ORDER BY total_sold DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top selling products: %w", err)
	}
	defer rows.Close()

	products := []domain.TopProduct{}
	for rows.Next() {
		var product domain.TopProduct
		if err := rows.Scan(&product.ProductID, &product.Name, &product.TotalSold); err != nil {
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top products: %w", err)
	}

	return products, nil
}

// SalesAnalytics aggregates completed orders inside the inclusive date
// range. Both facet branches share the filter but aggregate different
// quantities: order-level totals and line-level quantity × price at
// purchase. They run in one batch round-trip.
func (r *PostgresOrderRepository) SalesAnalytics(ctx context.Context, start, end time.Time) (domain.SalesAnalytics, error) {
	totalQuery := `
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0)::float8
		FROM orders
		WHERE status = 'completed' AND order_date >= $1 AND order_date <= $2
	`
	breakdownQuery := `
		SELECT p.category, SUM(ol.quantity * ol.price_at_purchase)::float8 AS revenue
		FROM orders o
		JOIN order_lines ol ON ol.order_id = o.id
		JOIN products p ON p.id = ol.product_id
		WHERE o.status = 'completed' AND o.order_date >= $1 AND o.order_date <= $2
		GROUP BY p.category
	`

	batch := &pgx.Batch{}
	batch.Queue(totalQuery, start, end)
	batch.Queue(breakdownQuery, start, end)

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	analytics := domain.SalesAnalytics{CategoryBreakdown: []domain.CategoryRevenue{}}

	err := results.QueryRow().Scan(&analytics.CompletedOrders, &analytics.TotalRevenue)
	if err != nil {
		return domain.SalesAnalytics{}, fmt.Errorf("failed to aggregate sales totals: %w", err)
	}

	rows, err := results.Query()
	if err != nil {
		return domain.SalesAnalytics{}, fmt.Errorf("failed to query category breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry domain.CategoryRevenue
		if err := rows.Scan(&entry.Category, &entry.Revenue); err != nil {
			return domain.SalesAnalytics{}, fmt.Errorf("failed to scan category revenue: %w", err)
		}
		analytics.CategoryBreakdown = append(analytics.CategoryBreakdown, entry)
	}
	if err := rows.Err(); err != nil {
		return domain.SalesAnalytics{}, fmt.Errorf("error iterating category breakdown: %w", err)
	}

	return analytics, nil
}
