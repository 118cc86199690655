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

// PostgresCustomerRepository implements the customer repository on
// PostgreSQL
type PostgresCustomerRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresCustomerRepository creates a new PostgreSQL customer
// repository
func NewPostgresCustomerRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		db:  db,
		log: log,
	}
}

// DeleteAll removes every customer record
func (r *PostgresCustomerRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM customers`); err != nil {
		return fmt.Errorf("failed to clear customers: %w", err)
	}
	return nil
}

// BulkInsert inserts the given customers in one batch. Internal
// identifiers are assigned here, at insert time, and returned with the
// records.
func (r *PostgresCustomerRepository) BulkInsert(ctx context.Context, customers []domain.Customer) ([]domain.Customer, error) {
	if len(customers) == 0 {
		return nil, nil
	}

	query := `
		INSERT INTO customers (id, natural_id, name, email, age, location, gender)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	inserted := make([]domain.Customer, len(customers))
	batch := &pgx.Batch{}
	for i, customer := range customers {
		customer.ID = uuid.New()
		inserted[i] = customer
		batch.Queue(query,
			customer.ID,
			customer.NaturalID,
			customer.Name,
			customer.Email,
			customer.Age,
			customer.Location,
			customer.Gender,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range customers {
		if _, err := results.Exec(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return nil, repository.ErrDuplicate
			}
			return nil, fmt.Errorf("failed to insert customers: %w", err)
		}
	}

	r.log.Debug("Inserted %d customers", len(inserted))
	return inserted, nil
}

// GetByNaturalID returns the customer with the given natural id
func (r *PostgresCustomerRepository) GetByNaturalID(ctx context.Context, naturalID string) (domain.Customer, error) {
	query := `
		SELECT id, natural_id, name, email, age, location, gender
		FROM customers
		WHERE natural_id = $1
	`

	var customer domain.Customer
	err := r.db.QueryRow(ctx, query, naturalID).Scan(
		&customer.ID,
		&customer.NaturalID,
		&customer.Name,
		&customer.Email,
		&customer.Age,
		&customer.Location,
		&customer.Gender,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, repository.ErrNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}
