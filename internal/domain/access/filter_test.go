package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyword(t *testing.T) {
	assert.Equal(t, ThisWeek, ParseKeyword("thisWeek"))
	assert.Equal(t, ThisMonth, ParseKeyword("thisMonth"))
	assert.Equal(t, Last30, ParseKeyword("last30"))
	assert.Equal(t, Last90, ParseKeyword("last90"))
	assert.Equal(t, All, ParseKeyword("all"))
	assert.Equal(t, All, ParseKeyword(""))
	assert.Equal(t, All, ParseKeyword("lastYear"))
	assert.Equal(t, All, ParseKeyword("THISWEEK"))
}

func TestKeywordLowerBound(t *testing.T) {
	now := time.Date(2026, 1, 10, 20, 0, 0, 0, time.UTC) // Saturday

	tests := []struct {
		k    Keyword
		want time.Time
		ok   bool
	}{
		{ThisWeek, date(2026, 1, 4), true},
		{ThisMonth, date(2026, 1, 1), true},
		{Last30, date(2025, 12, 11), true},
		{Last90, date(2025, 10, 12), true},
		{All, time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.k), func(t *testing.T) {
			got, ok := tt.k.LowerBound(now)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeywordLowerBound_SundayIsItsOwnWeekStart(t *testing.T) {
	got, ok := ThisWeek.LowerBound(time.Date(2026, 1, 4, 8, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, date(2026, 1, 4), got)
}

func TestBuildDateFilter(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		k         Keyword
		elevated  bool
		wantBound *time.Time
		wantLimit bool
	}{
		{name: "pro all capped at year", k: All, elevated: true, wantBound: ptrTime(date(2025, 1, 10)), wantLimit: true},
		{name: "pro thisWeek", k: ThisWeek, elevated: true, wantBound: ptrTime(date(2026, 1, 4))},
		{name: "pro last90", k: Last90, elevated: true, wantBound: ptrTime(date(2025, 10, 12))},
		{name: "free all capped at cutoff", k: All, wantBound: ptrTime(date(2026, 1, 3)), wantLimit: true},
		{name: "free last30 capped", k: Last30, wantBound: ptrTime(date(2026, 1, 3)), wantLimit: true},
		{name: "free thisMonth capped", k: ThisMonth, wantBound: ptrTime(date(2026, 1, 3)), wantLimit: true},
		{name: "free thisWeek narrower than cutoff", k: ThisWeek, wantBound: ptrTime(date(2026, 1, 4))},
		{name: "free unknown keyword behaves like all", k: ParseKeyword("bogus"), wantBound: ptrTime(date(2026, 1, 3)), wantLimit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildDateFilter(tt.k, tt.elevated, now)
			assert.Equal(t, tt.wantLimit, got.LimitApplied)
			if tt.wantBound == nil {
				assert.Nil(t, got.LowerBound)
				return
			}
			require.NotNil(t, got.LowerBound)
			assert.Equal(t, *tt.wantBound, *got.LowerBound)
		})
	}
}

func TestBuildDateFilter_AllForFreeEqualsCutoff(t *testing.T) {
	for _, now := range []time.Time{date(2026, 3, 3), date(2024, 3, 3), date(2026, 1, 1), testNow} {
		f := BuildDateFilter(All, false, now)
		require.NotNil(t, f.LowerBound)
		assert.Equal(t, Cutoff(false, now), *f.LowerBound)
	}
}

func TestBuildDateFilter_NeverBeforeTierCutoff(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	for _, k := range []Keyword{ThisWeek, ThisMonth, Last30, Last90, All} {
		for _, elevated := range []bool{true, false} {
			f := BuildDateFilter(k, elevated, now)
			require.NotNil(t, f.LowerBound)
			assert.False(t, f.LowerBound.Before(Cutoff(elevated, now)), "k=%s elevated=%v", k, elevated)
		}
	}
}

func TestBuildDateFilter_ThisWeekNeverBeforeSunday(t *testing.T) {
	start := date(2026, 1, 1)
	for i := 0; i < 60; i++ {
		now := start.AddDate(0, 0, i)
		for _, elevated := range []bool{true, false} {
			f := BuildDateFilter(ThisWeek, elevated, now)
			require.NotNil(t, f.LowerBound)
			sunday := Day(now).AddDate(0, 0, -int(now.Weekday()))
			assert.False(t, f.LowerBound.Before(sunday), "now=%s elevated=%v", now, elevated)
		}
	}
}

func TestBuildDateFilter_ProThisMonthKeepsWholeMonth(t *testing.T) {
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)

	f := BuildDateFilter(ThisMonth, true, now)
	require.NotNil(t, f.LowerBound)
	assert.Equal(t, date(2025, 6, 1), *f.LowerBound)
	assert.False(t, f.LimitApplied)
}

func TestDateFilterPredicates(t *testing.T) {
	bound := date(2026, 1, 3)

	preds := DateFilter{LowerBound: &bound}.Predicates(42)
	assert.Equal(t, []Predicate{
		{Column: "user_id", Op: "=", Value: uint(42)},
		{Column: "plan_date", Op: ">=", Value: "2026-01-03"},
	}, preds)

	preds = DateFilter{}.Predicates(42)
	assert.Equal(t, []Predicate{{Column: "user_id", Op: "=", Value: uint(42)}}, preds)
}
