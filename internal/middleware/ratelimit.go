package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/booking-api/internal/httperr"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit throttles per authenticated user, or per client IP before auth.
// Limiter failures let the request through.
func RateLimit(limiter Limiter, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := "ip:" + c.ClientIP()
		if p, ok := PrincipalFrom(c); ok {
			key = fmt.Sprintf("user:%d", p.UserID)
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.WithError(err).WithField("key", key).Warn("rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			httperr.Write(c, http.StatusTooManyRequests, "rate_limited", "Too many requests.")
			c.Abort()
			return
		}

		c.Next()
	}
}
