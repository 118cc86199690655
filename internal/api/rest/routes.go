package rest

import (
	"order-analytics-service/internal/api/rest/handlers"
	"order-analytics-service/internal/api/rest/middleware"
	"order-analytics-service/internal/service"
	"order-analytics-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures the Gin router with routes and middleware
func SetupRouter(svc service.AnalyticsService, registry *prometheus.Registry, log *logger.Logger) *gin.Engine {
	r := gin.New()

	r.Use(middleware.LoggerMiddleware(log))
	r.Use(gin.Recovery())

	r.GET("/health", handlers.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	analyticsHandler := handlers.NewAnalyticsHandler(svc, log)

	v1 := r.Group("/api/v1")
	{
		analytics := v1.Group("/analytics")
		{
			analytics.GET("/customers/:id/spending", analyticsHandler.GetCustomerSpending)
			analytics.GET("/products/top", analyticsHandler.GetTopSellingProducts)
			analytics.GET("/sales", analyticsHandler.GetSalesAnalytics)
		}
	}

	return r
}
