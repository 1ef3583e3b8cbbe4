package access

import (
	"time"
)

type Keyword string

const (
	ThisWeek  Keyword = "thisWeek"
	ThisMonth Keyword = "thisMonth"
	Last30    Keyword = "last30"
	Last90    Keyword = "last90"
	All       Keyword = "all"
)

// ParseKeyword maps a query value onto a Keyword. Unknown values are All.
func ParseKeyword(s string) Keyword {
	switch k := Keyword(s); k {
	case ThisWeek, ThisMonth, Last30, Last90, All:
		return k
	default:
		return All
	}
}

// LowerBound returns the start date the keyword implies, if any.
func (k Keyword) LowerBound(now time.Time) (time.Time, bool) {
	today := Day(now)
	switch k {
	case ThisWeek:
		return today.AddDate(0, 0, -int(today.Weekday())), true
	case ThisMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()), true
	case Last30:
		return today.AddDate(0, 0, -30), true
	case Last90:
		return today.AddDate(0, 0, -90), true
	default:
		return time.Time{}, false
	}
}

// DateFilter is the inclusive lower bound applied to plan_date.
// A nil LowerBound means no restriction.
type DateFilter struct {
	LowerBound   *time.Time
	LimitApplied bool
}

// BuildDateFilter combines the keyword bound with the tier cutoff. The later
// of the two wins, so the tier gate always dominates the keyword. Pro users
// are bounded at their own cutoff, which keeps list views consistent with
// what a single-date read would allow.
func BuildDateFilter(k Keyword, hasElevatedAccess bool, now time.Time) DateFilter {
	bound, hasBound := k.LowerBound(now)

	cutoff := Cutoff(hasElevatedAccess, now)
	if !hasBound || cutoff.After(bound) {
		return DateFilter{LowerBound: &cutoff, LimitApplied: true}
	}
	return DateFilter{LowerBound: &bound}
}

// Predicate is one parameterized condition, e.g. plan_date >= ?.
type Predicate struct {
	Column string
	Op     string
	Value  any
}

// Predicates scopes a query to the owner and, when set, the lower bound.
// Bound values are civil-date strings so the database compares dates.
func (f DateFilter) Predicates(userID uint) []Predicate {
	preds := []Predicate{{Column: "user_id", Op: "=", Value: userID}}
	if f.LowerBound != nil {
		preds = append(preds, Predicate{
			Column: "plan_date",
			Op:     ">=",
			Value:  f.LowerBound.Format(DateLayout),
		})
	}
	return preds
}
