package schedule

import (
	"fmt"
	"strings"
	"time"

	"barber-booking-server/internal/timegrid"
)

// DateLayout is the calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD calendar date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return d, nil
}

// FormatDate renders the calendar date of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WallClock splits an instant into the calendar date and time of day seen in
// loc.
func WallClock(now time.Time, loc *time.Location) (string, timegrid.TimeOfDay) {
	local := now.In(loc)
	return FormatDate(local), timegrid.TimeOfDay(local.Hour()*60 + local.Minute())
}

// StartOfWeek returns the Sunday on or before now in loc.
func StartOfWeek(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}
