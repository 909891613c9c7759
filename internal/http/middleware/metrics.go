package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/usr-annotation-backend/internal/observability"
)

// Metrics records request counts and latency per route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		observability.ObserveAPIRequest(c.Request.Method+" "+route, c.Writer.Status(), time.Since(start).Seconds())
	}
}
