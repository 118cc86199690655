// Package repository defines the store-facing interfaces of the service.
// The entity store must support full clears, bulk inserts that hand back
// store-assigned internal identifiers, natural-key lookups and the
// aggregate read queries the analytics engine is built on.
package repository

import (
	"context"
	"time"

	"order-analytics-service/internal/domain"
)

// CustomerRepository persists customer records
type CustomerRepository interface {
	// DeleteAll removes every customer record
	DeleteAll(ctx context.Context) error

	// BulkInsert inserts the given customers in one batch and returns them
	// with their store-assigned internal identifiers
	BulkInsert(ctx context.Context, customers []domain.Customer) ([]domain.Customer, error)

	// GetByNaturalID returns the customer with the given natural id
	GetByNaturalID(ctx context.Context, naturalID string) (domain.Customer, error)
}

// ProductRepository persists product records
type ProductRepository interface {
	// DeleteAll removes every product record
	DeleteAll(ctx context.Context) error

	// BulkInsert inserts the given products in one batch and returns them
	// with their store-assigned internal identifiers
	BulkInsert(ctx context.Context, products []domain.Product) ([]domain.Product, error)

	// GetByNaturalID returns the product with the given natural id
	GetByNaturalID(ctx context.Context, naturalID string) (domain.Product, error)
}

// OrderRepository persists order records and serves the aggregate read
// queries of the analytics engine
type OrderRepository interface {
	// DeleteAll removes every order record
	DeleteAll(ctx context.Context) error

	// BulkInsert inserts the given orders and their lines in one batch and
	// returns the number of orders inserted
	BulkInsert(ctx context.Context, orders []domain.Order) (int, error)

	// CustomerSpending aggregates completed orders of one customer
	CustomerSpending(ctx context.Context, customerID string) (domain.CustomerSpending, error)

	// TopSellingProducts ranks products by total quantity sold across all
	// orders regardless of status
	TopSellingProducts(ctx context.Context, limit int) ([]domain.TopProduct, error)

	// SalesAnalytics aggregates completed orders inside the inclusive date
	// range
	SalesAnalytics(ctx context.Context, start, end time.Time) (domain.SalesAnalytics, error)
}
