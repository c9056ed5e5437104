package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-api/internal/domain/identity"
	"github.com/BruksfildServices01/booking-api/internal/httperr"
	"github.com/BruksfildServices01/booking-api/internal/middleware"
)

// Wall-clock layouts accepted when the client omits an offset; they are read
// in the business location.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// parseInstant reads an RFC3339 instant, or a local date-time in loc.
func parseInstant(raw string, loc *time.Location) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseDate(raw string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02", raw, loc)
	return t, err == nil
}

func idParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		httperr.Respond(c, httperr.ErrField("invalid_id", name, "must be a positive integer"))
		return 0, false
	}
	return uint(n), true
}

// principal aborts with 401 when the auth middleware did not run.
func principal(c *gin.Context) (identity.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		httperr.Unauthorized(c, "unauthenticated", "Authentication required.")
		c.Abort()
	}
	return p, ok
}
