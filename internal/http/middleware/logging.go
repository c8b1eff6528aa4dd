// README: Access log middleware.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"charter/internal/logger"
)

func Logging(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", GetRequestID(c),
		}
		if c.Writer.Status() >= 500 {
			log.Warn("request", kv...)
			return
		}
		log.Info("request", kv...)
	}
}
