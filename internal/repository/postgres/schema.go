package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements creates the entity tables if they do not exist yet.
// The orders table deliberately carries no "at least one line" constraint:
// the pipeline inserts orders that lost every line during reconciliation
// as-is, matching the source system.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id         UUID PRIMARY KEY,
		natural_id TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		age        INTEGER NOT NULL CHECK (age > 0),
		location   TEXT NOT NULL,
		gender     TEXT NOT NULL CHECK (gender IN ('Male', 'Female', 'Other'))
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id         UUID PRIMARY KEY,
		natural_id TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		category   TEXT NOT NULL,
		price      NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
		stock      INTEGER NOT NULL CHECK (stock >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id           UUID PRIMARY KEY,
		natural_id   TEXT NOT NULL,
		customer_id  UUID NOT NULL REFERENCES customers (id),
		total_amount NUMERIC(12, 2) NOT NULL CHECK (total_amount >= 0),
		order_date   TIMESTAMPTZ NOT NULL,
		status       TEXT NOT NULL CHECK (status IN ('pending', 'completed', 'canceled'))
	)`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		order_id          UUID NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
		product_id        UUID NOT NULL REFERENCES products (id),
		quantity          INTEGER NOT NULL CHECK (quantity >= 1),
		price_at_purchase NUMERIC(12, 2) NOT NULL CHECK (price_at_purchase >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer_status ON orders (customer_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status_date ON orders (status, order_date)`,
	`CREATE INDEX IF NOT EXISTS idx_order_lines_product ON order_lines (product_id)`,
}

// EnsureSchema applies the required database schema
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
