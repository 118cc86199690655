package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"order-analytics-service/internal/domain"
	"order-analytics-service/internal/repository"
	"order-analytics-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyticsService struct {
	spending     domain.CustomerSpending
	spendingErr  error
	top          []domain.TopProduct
	topErr       error
	analytics    domain.SalesAnalytics
	analyticsErr error
	gotStart     time.Time
	gotEnd       time.Time
}

func (s *stubAnalyticsService) GetCustomerSpending(ctx context.Context, customerID string) (domain.CustomerSpending, error) {
	return s.spending, s.spendingErr
}

func (s *stubAnalyticsService) GetTopSellingProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	if s.topErr != nil {
		return nil, s.topErr
	}
	if limit < len(s.top) {
		return s.top[:limit], nil
	}
	return s.top, nil
}

func (s *stubAnalyticsService) GetSalesAnalytics(ctx context.Context, start, end time.Time) (domain.SalesAnalytics, error) {
	s.gotStart = start
	s.gotEnd = end
	return s.analytics, s.analyticsErr
}

func newTestRouter(svc *stubAnalyticsService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	log := logger.New(logger.ERROR)
	log.SetOutput(io.Discard)

	handler := NewAnalyticsHandler(svc, log)

	r := gin.New()
	r.GET("/api/v1/analytics/customers/:id/spending", handler.GetCustomerSpending)
	r.GET("/api/v1/analytics/products/top", handler.GetTopSellingProducts)
	r.GET("/api/v1/analytics/sales", handler.GetSalesAnalytics)
	return r
}

func TestGetCustomerSpendingOK(t *testing.T) {
	last := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := &stubAnalyticsService{
		spending: domain.CustomerSpending{
			CustomerID:        "11111111-1111-1111-1111-111111111111",
			TotalSpent:        200,
			AverageOrderValue: 100,
			LastOrderDate:     &last,
		},
	}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/customers/11111111-1111-1111-1111-111111111111/spending", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 200.0, body["totalSpent"])
	assert.Equal(t, 100.0, body["averageOrderValue"])
	assert.NotNil(t, body["lastOrderDate"])
}

func TestGetCustomerSpendingZeroResult(t *testing.T) {
	svc := &stubAnalyticsService{
		spending: domain.CustomerSpending{CustomerID: "abc"},
	}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/customers/abc/spending", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0.0, body["totalSpent"])
	assert.Equal(t, 0.0, body["averageOrderValue"])
	assert.Nil(t, body["lastOrderDate"])
}

func TestGetCustomerSpendingInvalidID(t *testing.T) {
	svc := &stubAnalyticsService{spendingErr: repository.ErrInvalidData}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/customers/not-a-uuid/spending", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCustomerSpendingStoreFailure(t *testing.T) {
	svc := &stubAnalyticsService{spendingErr: errors.New("boom")}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/customers/abc/spending", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetTopSellingProductsLimit(t *testing.T) {
	svc := &stubAnalyticsService{
		top: []domain.TopProduct{
			{ProductID: "a", Name: "A", TotalSold: 10},
			{ProductID: "c", Name: "C", TotalSold: 7},
			{ProductID: "b", Name: "B", TotalSold: 5},
		},
	}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/products/top?limit=2", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body []domain.TopProduct
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "a", body[0].ProductID)
	assert.Equal(t, "c", body[1].ProductID)
}

func TestGetTopSellingProductsBadLimit(t *testing.T) {
	router := newTestRouter(&stubAnalyticsService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/products/top?limit=abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSalesAnalyticsDateParsing(t *testing.T) {
	svc := &stubAnalyticsService{
		analytics: domain.SalesAnalytics{CategoryBreakdown: []domain.CategoryRevenue{}},
	}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/sales?start=2024-01-01&end=2024-12-31", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2024, svc.gotStart.Year())
	assert.Equal(t, time.December, svc.gotEnd.Month())
}

func TestGetSalesAnalyticsMissingDates(t *testing.T) {
	router := newTestRouter(&stubAnalyticsService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/sales?start=2024-01-01", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSalesAnalyticsEmptyRange(t *testing.T) {
	svc := &stubAnalyticsService{
		analytics: domain.SalesAnalytics{CategoryBreakdown: []domain.CategoryRevenue{}},
	}
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/sales?start=2030-01-01&end=2030-01-02", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0.0, body["totalRevenue"])
	assert.Equal(t, 0.0, body["completedOrders"])
	assert.Equal(t, []interface{}{}, body["categoryBreakdown"])
}
