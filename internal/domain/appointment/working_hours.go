package appointment

import (
	"time"

	"github.com/BruksfildServices01/booking-api/internal/httperr"
)

const clockLayout = "15:04"

// Window is a weekly working window of an employer.
type Window struct {
	DayOfWeek int
	StartTime string
	EndTime   string
	Available bool
}

// ParseClock parses an HH:MM value.
func ParseClock(hm string) (time.Time, error) {
	return time.Parse(clockLayout, hm)
}

// ValidateWindow checks day range, clock format and ordering.
func ValidateWindow(w Window) error {
	fields := map[string]string{}

	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		fields["day_of_week"] = "must be between 0 and 6"
	}

	start, errStart := ParseClock(w.StartTime)
	if errStart != nil {
		fields["start_time"] = "must be HH:MM"
	}
	end, errEnd := ParseClock(w.EndTime)
	if errEnd != nil {
		fields["end_time"] = "must be HH:MM"
	}
	if errStart == nil && errEnd == nil && !start.Before(end) {
		fields["end_time"] = "must be after start_time"
	}

	if len(fields) > 0 {
		return httperr.ErrValidation("invalid_availability", fields)
	}
	return nil
}

// IsWithinWindows reports whether at (already in the business location)
// falls inside any available window for its weekday. Start is inclusive,
// end exclusive.
func IsWithinWindows(windows []Window, at time.Time) bool {
	weekday := int(at.Weekday())
	loc := at.Location()

	parseHM := func(hm string) (time.Time, bool) {
		t, err := ParseClock(hm)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(
			at.Year(), at.Month(), at.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		), true
	}

	for _, w := range windows {
		if !w.Available || w.DayOfWeek != weekday {
			continue
		}

		workStart, ok1 := parseHM(w.StartTime)
		workEnd, ok2 := parseHM(w.EndTime)
		if !ok1 || !ok2 {
			continue
		}

		if !at.Before(workStart) && at.Before(workEnd) {
			return true
		}
	}

	return false
}

// NormalizeSlot puts a requested date on the slot grid used for collision
// detection: UTC, minute precision.
func NormalizeSlot(at time.Time) time.Time {
	return at.UTC().Truncate(time.Minute)
}
