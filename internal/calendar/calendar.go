// Package calendar holds the day and timezone arithmetic shared by the
// reminder dispatcher and the statistics engine.
package calendar

import (
	"fmt"
	"time"
)

// DayLayout is the calendar-date key format used for day buckets.
const DayLayout = "2006-01-02"

// ResolveZone loads an IANA zone. An empty name resolves to UTC; an unknown
// name also resolves to UTC with ok=false so callers can log it.
func ResolveZone(name string) (loc *time.Location, ok bool) {
	if name == "" {
		return time.UTC, true
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, false
	}
	return loc, true
}

// LocalHour projects now into loc and returns the hour of day (0..23).
func LocalHour(now time.Time, loc *time.Location) int {
	return now.In(loc).Hour()
}

// InQuietHours reports whether hour falls inside [start, end). A window with
// start > end spans midnight, e.g. 22→8 covers 22..23 and 0..7.
func InQuietHours(hour, start, end int) bool {
	if start > end {
		return hour >= start || hour < end
	}
	return hour >= start && hour < end
}

// StartOfDay returns local midnight of the day containing t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// DaysBefore returns midnight n calendar days before the day containing t.
// Uses AddDate so DST transitions never shift the bucket boundary.
func DaysBefore(t time.Time, n int, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, -n)
}

// DayKey returns the calendar date of t in loc as YYYY-MM-DD.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// ShortWeekday returns a three-letter weekday label ("Mon", "Tue", ...).
func ShortWeekday(t time.Time) string {
	return t.Weekday().String()[:3]
}

// ParseDay parses a YYYY-MM-DD date as midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DayLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return d, nil
}

// DayRange returns the half-open interval [day 00:00, next day 00:00).
func DayRange(day time.Time, loc *time.Location) (from, to time.Time) {
	from = StartOfDay(day, loc)
	return from, from.AddDate(0, 0, 1)
}
