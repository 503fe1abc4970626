package models

import (
	"fmt"
	"time"
)

// DayHours holds the shop's opening window for one weekday.
// Open and Close are minutes from midnight (e.g. 540 for 9:00 AM).
// Closed overrides Open/Close entirely.
type DayHours struct {
	Weekday time.Weekday `bson:"weekday" json:"weekday"`
	Open    int          `bson:"open" json:"open"`
	Close   int          `bson:"close" json:"close"`
	Closed  bool         `bson:"closed" json:"closed"`
}

// MinutesToClock renders minutes from midnight as "HH:MM".
func MinutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ClockToMinutes parses "HH:MM" into minutes from midnight. The hour must be
// zero-padded; time.Parse alone would accept "9:00".
func ClockToMinutes(s string) (int, error) {
	if len(s) != 5 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ParseDate parses a "2006-01-02" date string.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return d, nil
}
