// File: internal/handler/http/middleware/metrics.go
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RayanDZ04/area-rattrapage/internal/utils/metrics"
)

// MetricsMiddleware records request counters and latency.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.RequestsTotal.Inc()
		start := time.Now()

		c.Next()

		metrics.ResponsesTotal.WithLabelValues(strconv.Itoa(c.Writer.Status())).Inc()
		metrics.RequestDuration.Observe(time.Since(start).Seconds())
	}
}
