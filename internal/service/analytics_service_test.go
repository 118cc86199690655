package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"order-analytics-service/internal/domain"
	"order-analytics-service/internal/metrics"
	"order-analytics-service/internal/repository"
	"order-analytics-service/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubOrderRepo serves canned aggregate results
type stubOrderRepo struct {
	spending     domain.CustomerSpending
	spendingErr  error
	top          []domain.TopProduct
	topErr       error
	analytics    domain.SalesAnalytics
	analyticsErr error
	gotLimit     int
}

func (r *stubOrderRepo) DeleteAll(ctx context.Context) error { return nil }

func (r *stubOrderRepo) BulkInsert(ctx context.Context, orders []domain.Order) (int, error) {
	return 0, nil
}

func (r *stubOrderRepo) CustomerSpending(ctx context.Context, customerID string) (domain.CustomerSpending, error) {
	return r.spending, r.spendingErr
}

func (r *stubOrderRepo) TopSellingProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	r.gotLimit = limit
	return r.top, r.topErr
}

func (r *stubOrderRepo) SalesAnalytics(ctx context.Context, start, end time.Time) (domain.SalesAnalytics, error) {
	return r.analytics, r.analyticsErr
}

func newTestService(repo *stubOrderRepo) AnalyticsService {
	log := logger.New(logger.ERROR)
	log.SetOutput(io.Discard)
	return NewAnalyticsService(repo, metrics.NewQueryMetrics(prometheus.NewRegistry(), log), log)
}

func TestGetCustomerSpendingZeroDefaults(t *testing.T) {
	repo := &stubOrderRepo{
		spending: domain.CustomerSpending{CustomerID: "abc"},
	}
	svc := newTestService(repo)

	spending, err := svc.GetCustomerSpending(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, "abc", spending.CustomerID)
	assert.Zero(t, spending.TotalSpent)
	assert.Zero(t, spending.AverageOrderValue)
	assert.Nil(t, spending.LastOrderDate)
}

func TestGetCustomerSpendingPassesThrough(t *testing.T) {
	last := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := &stubOrderRepo{
		spending: domain.CustomerSpending{
			CustomerID:        "abc",
			TotalSpent:        300,
			AverageOrderValue: 150,
			LastOrderDate:     &last,
		},
	}
	svc := newTestService(repo)

	spending, err := svc.GetCustomerSpending(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, 300.0, spending.TotalSpent)
	assert.Equal(t, 150.0, spending.AverageOrderValue)
	require.NotNil(t, spending.LastOrderDate)
	assert.True(t, last.Equal(*spending.LastOrderDate))
}

func TestGetTopSellingProductsOrdering(t *testing.T) {
	// Quantities 10, 7 for products a and c; the repo returns them already
	// ranked and the service passes the ranking through untouched
	repo := &stubOrderRepo{
		top: []domain.TopProduct{
			{ProductID: "a", Name: "A", TotalSold: 10},
			{ProductID: "c", Name: "C", TotalSold: 7},
		},
	}
	svc := newTestService(repo)

	products, err := svc.GetTopSellingProducts(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "a", products[0].ProductID)
	assert.Equal(t, "c", products[1].ProductID)
	assert.Equal(t, 2, repo.gotLimit)
}

func TestGetTopSellingProductsRejectsBadLimit(t *testing.T) {
	svc := newTestService(&stubOrderRepo{})

	_, err := svc.GetTopSellingProducts(context.Background(), 0)
	assert.ErrorIs(t, err, repository.ErrInvalidData)

	_, err = svc.GetTopSellingProducts(context.Background(), -3)
	assert.ErrorIs(t, err, repository.ErrInvalidData)
}

func TestGetTopSellingProductsEmptyIsNotAnError(t *testing.T) {
	svc := newTestService(&stubOrderRepo{})

	products, err := svc.GetTopSellingProducts(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestGetSalesAnalyticsEmptyRange(t *testing.T) {
	svc := newTestService(&stubOrderRepo{})

	analytics, err := svc.GetSalesAnalytics(context.Background(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	assert.Zero(t, analytics.TotalRevenue)
	assert.Zero(t, analytics.CompletedOrders)
	assert.NotNil(t, analytics.CategoryBreakdown)
	assert.Empty(t, analytics.CategoryBreakdown)
}

func TestGetSalesAnalyticsIndependentAggregates(t *testing.T) {
	// Order-level revenue (100) and line-level category revenue (64.90) are
	// different quantities and are reported side by side, unreconciled
	repo := &stubOrderRepo{
		analytics: domain.SalesAnalytics{
			TotalRevenue:    100,
			CompletedOrders: 1,
			CategoryBreakdown: []domain.CategoryRevenue{
				{Category: "electronics", Revenue: 49.90},
				{Category: "home", Revenue: 15.00},
			},
		},
	}
	svc := newTestService(repo)

	analytics, err := svc.GetSalesAnalytics(context.Background(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	assert.Equal(t, 100.0, analytics.TotalRevenue)
	assert.Equal(t, int64(1), analytics.CompletedOrders)

	var lineRevenue float64
	for _, entry := range analytics.CategoryBreakdown {
		lineRevenue += entry.Revenue
	}
	assert.InDelta(t, 64.90, lineRevenue, 0.001)
}

func TestQueryErrorsPropagate(t *testing.T) {
	repoErr := errors.New("boom")
	repo := &stubOrderRepo{spendingErr: repoErr, topErr: repoErr, analyticsErr: repoErr}
	svc := newTestService(repo)

	_, err := svc.GetCustomerSpending(context.Background(), "abc")
	assert.ErrorIs(t, err, repoErr)

	_, err = svc.GetTopSellingProducts(context.Background(), 1)
	assert.ErrorIs(t, err, repoErr)

	_, err = svc.GetSalesAnalytics(context.Background(), time.Now(), time.Now())
	assert.ErrorIs(t, err, repoErr)
}
