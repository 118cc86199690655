package middleware

import (
	"time"

	"order-analytics-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// LoggerMiddleware creates a middleware that logs every request
func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		status := c.Writer.Status()

		log.Infow("Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", latency,
			"clientIP", c.ClientIP(),
		)
	}
}
