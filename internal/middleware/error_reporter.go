package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-api/internal/monitoring"
)

// ErrorReporter forwards errors attached to a 5xx response to Sentry.
func ErrorReporter() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 500 {
			return
		}
		for _, e := range c.Errors {
			monitoring.CaptureError(e.Err, map[string]interface{}{
				"request_id": c.GetString(ContextRequestID),
				"method":     c.Request.Method,
				"path":       c.FullPath(),
			})
		}
	}
}
