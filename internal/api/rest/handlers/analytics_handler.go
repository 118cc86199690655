package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"order-analytics-service/internal/repository"
	"order-analytics-service/internal/service"
	"order-analytics-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

const defaultTopLimit = 10

// AnalyticsHandler serves the three aggregation queries
type AnalyticsHandler struct {
	service service.AnalyticsService
	log     *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(svc service.AnalyticsService, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: svc,
		log:     log,
	}
}

// GetCustomerSpending returns spend aggregates for one customer
func (h *AnalyticsHandler) GetCustomerSpending(c *gin.Context) {
	customerID := c.Param("id")

	spending, err := h.service.GetCustomerSpending(c.Request.Context(), customerID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidData) {
			h.log.Warn("Invalid customer ID format: %s", customerID)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID format"})
			return
		}

		h.log.Error("Failed to get customer spending: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get customer spending"})
		return
	}

	c.JSON(http.StatusOK, spending)
}

// GetTopSellingProducts returns the best selling products ranking
func (h *AnalyticsHandler) GetTopSellingProducts(c *gin.Context) {
	limitParam := c.DefaultQuery("limit", strconv.Itoa(defaultTopLimit))
	limit, err := strconv.Atoi(limitParam)
	if err != nil {
		h.log.Warn("Invalid limit: %s", limitParam)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Limit must be an integer"})
		return
	}

	products, err := h.service.GetTopSellingProducts(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidData) {
			h.log.Warn("Invalid limit: %d", limit)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Limit must be positive"})
			return
		}

		h.log.Error("Failed to get top selling products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get top selling products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetSalesAnalytics returns revenue aggregates over a date range
func (h *AnalyticsHandler) GetSalesAnalytics(c *gin.Context) {
	start, err := parseDateParam(c.Query("start"))
	if err != nil {
		h.log.Warn("Invalid start date: %s", c.Query("start"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be an RFC3339 timestamp or YYYY-MM-DD date"})
		return
	}

	end, err := parseDateParam(c.Query("end"))
	if err != nil {
		h.log.Warn("Invalid end date: %s", c.Query("end"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be an RFC3339 timestamp or YYYY-MM-DD date"})
		return
	}

	analytics, err := h.service.GetSalesAnalytics(c.Request.Context(), start, end)
	if err != nil {
		h.log.Error("Failed to get sales analytics: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get sales analytics"})
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// parseDateParam accepts RFC3339 timestamps and plain dates
func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
