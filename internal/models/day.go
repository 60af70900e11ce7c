package models

import "time"

// DayOf returns the calendar day of t as observed in loc, expressed as
// midnight UTC. Day keys compare and store as plain SQL DATE values.
func DayOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonthClamped moves t forward one calendar month keeping the day of
// month, or the target month's last day when it is shorter.
func AddMonthClamped(t time.Time) time.Time {
	y, m, d := t.Date()
	firstOfNext := time.Date(y, m+1, 1, 0, 0, 0, 0, t.Location())
	last := daysIn(firstOfNext.Year(), firstOfNext.Month())
	if d > last {
		d = last
	}
	h, min, sec := t.Clock()
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), d, h, min, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
