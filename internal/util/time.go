package util

import "time"

// NextMidnight returns 00:00 of the following day in t's location.
func NextMidnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}

// DayKey formats a time as a calendar-date key.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
