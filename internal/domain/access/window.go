package access

import "time"

const (
	DateLayout = "2006-01-02"

	FreeHistoryDays = 7
	ProHistoryDays  = 365
	// Entries older than this many months are read-only for every tier.
	EditableMonths = 1
)

// Day truncates t to midnight of its civil date in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayIn re-anchors t's civil date at midnight in loc. Dates scanned from a
// date column come back in UTC and must be moved before comparison.
func DayIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParseDay parses YYYY-MM-DD as a civil date in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// Cutoff is the earliest date the tier may read or write (inclusive).
// Calendar arithmetic, so month lengths matter at month edges.
func Cutoff(hasElevatedAccess bool, now time.Time) time.Time {
	days := FreeHistoryDays
	if hasElevatedAccess {
		days = ProHistoryDays
	}
	return Day(now).AddDate(0, 0, -days)
}

// EditCutoff is the earliest date anyone may still modify (inclusive).
func EditCutoff(now time.Time) time.Time {
	return Day(now).AddDate(0, -EditableMonths, 0)
}
