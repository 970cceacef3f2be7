package timegrid

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedTime is returned when a label cannot be read as a clock time.
var ErrMalformedTime = errors.New("malformed time")

// MinutesPerDay is the number of minutes in a calendar day.
const MinutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
// Labels ("9:30 AM") only exist at the boundaries; every comparison inside
// the service uses the integer.
type TimeOfDay int

var timePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?\s*(am|pm)?$`)

// New builds a TimeOfDay from a 24-hour clock reading.
func New(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d", ErrMalformedTime, hour, minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// Parse reads admin or client input such as "13:00", "1:00 PM", "1:00pm",
// "1:00 p.m." or "13:00:00". Input without a meridiem is read as 24-hour time.
func Parse(s string) (TimeOfDay, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, ".", "")
	norm = strings.Join(strings.Fields(norm), " ")

	m := timePattern.FindStringSubmatch(norm)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if m[3] != "" && m[3] != "00" {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}

	switch m[4] {
	case "am", "pm":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
		}
		if hour == 12 {
			hour = 0
		}
		if m[4] == "pm" {
			hour += 12
		}
	}

	t, err := New(hour, minute)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	return t, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) TimeOfDay {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Hour returns the 24-hour clock hour.
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute within the hour.
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int { return int(t) }

// Valid reports whether t lies inside a single day.
func (t TimeOfDay) Valid() bool { return t >= 0 && int(t) < MinutesPerDay }

// Add returns t shifted by the given number of minutes.
func (t TimeOfDay) Add(minutes int) TimeOfDay { return t + TimeOfDay(minutes) }

// Before reports whether t is earlier than u.
func (t TimeOfDay) Before(u TimeOfDay) bool { return t < u }

// After reports whether t is later than u.
func (t TimeOfDay) After(u TimeOfDay) bool { return t > u }

// String formats t as "h:mm AM".
func (t TimeOfDay) String() string {
	h := t.Hour()
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, t.Minute(), suffix)
}

// Clock formats t as 24-hour "15:04".
func (t TimeOfDay) Clock() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: expected a string label", ErrMalformedTime)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value stores t as minutes since midnight.
func (t TimeOfDay) Value() (driver.Value, error) {
	return int64(t), nil
}

// Scan reads minutes since midnight, or a text label written by older rows.
func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*t = TimeOfDay(v)
		return nil
	case []byte:
		return t.scanText(string(v))
	case string:
		return t.scanText(v)
	case nil:
		*t = 0
		return nil
	}
	return fmt.Errorf("timegrid: cannot scan %T into TimeOfDay", src)
}

func (t *TimeOfDay) scanText(s string) error {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		*t = TimeOfDay(n)
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
