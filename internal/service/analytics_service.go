// Package service hosts the aggregation engine: three stateless read-only
// queries over the linked dataset. Every call recomputes from the full
// dataset; there is no caching layer.
package service

import (
	"context"
	"fmt"
	"time"

	"order-analytics-service/internal/domain"
	"order-analytics-service/internal/metrics"
	"order-analytics-service/internal/repository"
	"order-analytics-service/pkg/logger"
)

// AnalyticsService is the aggregation engine interface
type AnalyticsService interface {
	// GetCustomerSpending aggregates a customer's completed orders. A
	// customer with no completed orders yields the zero result.
	GetCustomerSpending(ctx context.Context, customerID string) (domain.CustomerSpending, error)

	// GetTopSellingProducts ranks products by total quantity sold across
	// all orders regardless of status
	GetTopSellingProducts(ctx context.Context, limit int) ([]domain.TopProduct, error)

	// GetSalesAnalytics aggregates completed orders inside the inclusive
	// date range
	GetSalesAnalytics(ctx context.Context, start, end time.Time) (domain.SalesAnalytics, error)
}

type analyticsService struct {
	orders  repository.OrderRepository
	metrics metrics.QueryMetrics
	log     *logger.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(orders repository.OrderRepository, queryMetrics metrics.QueryMetrics, log *logger.Logger) AnalyticsService {
	return &analyticsService{
		orders:  orders,
		metrics: queryMetrics,
		log:     log,
	}
}

// GetCustomerSpending returns total, average and recency of a customer's
// completed orders
func (s *analyticsService) GetCustomerSpending(ctx context.Context, customerID string) (domain.CustomerSpending, error) {
	start := time.Now()
	spending, err := s.orders.CustomerSpending(ctx, customerID)
	if err != nil {
		s.metrics.IncQueryErrors("customer_spending")
		return domain.CustomerSpending{}, fmt.Errorf("customer spending query failed: %w", err)
	}
	s.metrics.ObserveQueryDuration("customer_spending", time.Since(start).Seconds())

	return spending, nil
}

// GetTopSellingProducts returns the first limit products by summed
// quantity, descending. The order among tied products is unspecified.
func (s *analyticsService) GetTopSellingProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	if limit <= 0 {
		return nil, repository.ErrInvalidData
	}

	start := time.Now()
	products, err := s.orders.TopSellingProducts(ctx, limit)
	if err != nil {
		s.metrics.IncQueryErrors("top_selling_products")
		return nil, fmt.Errorf("top selling products query failed: %w", err)
	}
	s.metrics.ObserveQueryDuration("top_selling_products", time.Since(start).Seconds())

	if products == nil {
		products = []domain.TopProduct{}
	}
	return products, nil
}

// GetSalesAnalytics returns order-level revenue and line-level category
// revenue over the same filtered set of completed orders
func (s *analyticsService) GetSalesAnalytics(ctx context.Context, startDate, endDate time.Time) (domain.SalesAnalytics, error) {
	start := time.Now()
	analytics, err := s.orders.SalesAnalytics(ctx, startDate, endDate)
	if err != nil {
		s.metrics.IncQueryErrors("sales_analytics")
		return domain.SalesAnalytics{}, fmt.Errorf("sales analytics query failed: %w", err)
	}
	s.metrics.ObserveQueryDuration("sales_analytics", time.Since(start).Seconds())

	if analytics.CategoryBreakdown == nil {
		analytics.CategoryBreakdown = []domain.CategoryRevenue{}
	}
	return analytics, nil
}
