package slot

import "time"

// ShouldResetDaily reports whether an account whose last reset happened at
// lastReset is due for a fresh daily allowance at now. The comparison is
// calendar-date based (not a rolling 24h window) in the given location, so
// a second check on the same day is always false — the reset is idempotent
// within a day.
func ShouldResetDaily(lastReset, now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	return calendarDate(now, loc).After(calendarDate(lastReset, loc))
}

// calendarDate truncates a time to midnight of its calendar day.
func calendarDate(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
