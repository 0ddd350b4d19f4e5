// Package timeutil holds calendar-day helpers. All day boundaries are taken in
// an explicit location so "today" means the student's local calendar day.
package timeutil

import "time"

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}

// DaysBetween counts calendar days from `from` to `to` in loc. Time of day is
// ignored, so 23:59 today to 00:01 tomorrow is one day.
func DaysBetween(from, to time.Time, loc *time.Location) int {
	a := StartOfDay(from, loc)
	b := StartOfDay(to, loc)
	// Rebuild as UTC dates so DST shifts cannot produce 23h or 25h days.
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// At returns the given clock time on t's calendar day in loc.
func At(t time.Time, hour, minute int, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

// AddDays moves t by n calendar days, keeping the wall clock.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}
