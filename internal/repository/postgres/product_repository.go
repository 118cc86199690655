package postgres

import (
	"context"
	"errors"
	"fmt"

	"order-analytics-service/internal/domain"
	"order-analytics-service/internal/repository"
	"order-analytics-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresProductRepository implements the product repository on PostgreSQL
type PostgresProductRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresProductRepository creates a new PostgreSQL product repository
func NewPostgresProductRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresProductRepository {
	return &PostgresProductRepository{
		db:  db,
		log: log,
	}
}

// DeleteAll removes every product record
func (r *PostgresProductRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}
	return nil
}

// BulkInsert inserts the given products in one batch and returns them with
// their assigned internal identifiers
func (r *PostgresProductRepository) BulkInsert(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	if len(products) == 0 {
		return nil, nil
	}

	query := `
		INSERT INTO products (id, natural_id, name, category, price, stock)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	inserted := make([]domain.Product, len(products))
	batch := &pgx.Batch{}
	for i, product := range products {
		product.ID = uuid.New()
		inserted[i] = product
		batch.Queue(query,
			product.ID,
			product.NaturalID,
			product.Name,
			product.Category,
			product.Price,
			product.Stock,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range products {
		if _, err := results.Exec(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return nil, repository.ErrDuplicate
			}
			return nil, fmt.Errorf("failed to insert products: %w", err)
		}
	}

	r.log.Debug("Inserted %d products", len(inserted))
	return inserted, nil
}

// GetByNaturalID returns the product with the given natural id
func (r *PostgresProductRepository) GetByNaturalID(ctx context.Context, naturalID string) (domain.Product, error) {
	query := `
		SELECT id, natural_id, name, category, price, stock
		FROM products
		WHERE natural_id = $1
	`

	var product domain.Product
	err := r.db.QueryRow(ctx, query, naturalID).Scan(
		&product.ID,
		&product.NaturalID,
		&product.Name,
		&product.Category,
		&product.Price,
		&product.Stock,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, repository.ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}
