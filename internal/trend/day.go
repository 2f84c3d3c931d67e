package trend

import (
	"strconv"
	"strings"
	"time"
)

// Day is a calendar date as days since the Unix epoch.
type Day int64

var dayLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseDay parses the date formats the dashboards emit into an epoch day.
func ParseDay(s string) (Day, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, layout := range dayLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		utc := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return Day(utc.Unix() / 86400), true
	}
	return 0, false
}

// Time returns the UTC midnight of the day.
func (d Day) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

// String formats the day as YYYY-MM-DD.
func (d Day) String() string {
	return d.Time().Format("2006-01-02")
}

// DateKey joins series on the parsed day, falling back to the literal
// string when the date cannot be parsed.
type DateKey struct {
	Day   Day
	Raw   string
	Valid bool
}

// KeyOf builds the join key for a display date.
func KeyOf(date string) DateKey {
	if d, ok := ParseDay(date); ok {
		return DateKey{Day: d, Raw: date, Valid: true}
	}
	return DateKey{Raw: date}
}

// ID is the map key form of the date key.
func (k DateKey) ID() string {
	if k.Valid {
		return "d" + strconv.FormatInt(int64(k.Day), 10)
	}
	return "s" + k.Raw
}
