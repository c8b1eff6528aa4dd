// README: HTTP metrics middleware keyed by the matched route template.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"charter/internal/metrics"
)

func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(route, c.Writer.Status(), time.Since(start))
	}
}
