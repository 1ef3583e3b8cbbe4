package database

import (
	"strings"
	"testing"
	"time"

	"planner-app/internal/domain/access"
	"planner-app/internal/domain/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB builds SQL without ever opening a connection.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=planner dbname=planner sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestZoneItemsQuery_FreeUserBound(t *testing.T) {
	db := dryRunDB(t)
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	f := access.BuildDateFilter(access.All, false, now)

	q, err := zoneItemsQuery(db, planner.ZoneQuickWins, f.Predicates(7))
	require.NoError(t, err)

	var items []planner.Item
	stmt := q.Find(&items).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, `FROM "quick_wins"`)
	assert.Contains(t, sql, "user_id = $1")
	assert.Contains(t, sql, "plan_date >= $2")
	assert.Contains(t, sql, "ORDER BY plan_date DESC")
	assert.Equal(t, []interface{}{uint(7), "2026-01-03"}, stmt.Vars)
}

func TestZoneItemsQuery_NoBound(t *testing.T) {
	db := dryRunDB(t)
	q, err := zoneItemsQuery(db, planner.ZoneCoreMemories, access.DateFilter{}.Predicates(3))
	require.NoError(t, err)

	var items []planner.Item
	stmt := q.Find(&items).Statement

	assert.Contains(t, stmt.SQL.String(), `FROM "core_memories"`)
	assert.NotContains(t, stmt.SQL.String(), "plan_date >=")
	assert.Equal(t, []interface{}{uint(3)}, stmt.Vars)
}

func TestApplyPredicates_RejectsUnknownColumnOrOp(t *testing.T) {
	db := dryRunDB(t)

	_, err := applyPredicates(db, []access.Predicate{{Column: "title; DROP TABLE users", Op: "=", Value: 1}})
	assert.Error(t, err)

	_, err = applyPredicates(db, []access.Predicate{{Column: "plan_date", Op: "LIKE", Value: "x"}})
	assert.Error(t, err)
}

func TestDayItemsQuery(t *testing.T) {
	db := dryRunDB(t)
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	var items []planner.Item
	stmt := dayItemsQuery(db, planner.ZoneDeepWork, 2, day).Find(&items).Statement

	assert.Contains(t, stmt.SQL.String(), `FROM "deep_work_items"`)
	assert.Equal(t, []interface{}{uint(2), "2026-01-05"}, stmt.Vars)
}

func TestPlanDatesSQL(t *testing.T) {
	sql, n := planDatesSQL()
	assert.Equal(t, len(planner.Zones)+1, n)
	assert.Equal(t, n, strings.Count(sql, "?"))
	assert.True(t, strings.HasSuffix(sql, "ORDER BY plan_date DESC"))
	for _, z := range planner.Zones {
		assert.Contains(t, sql, "FROM "+z.Table()+" ")
	}
}

func TestOwnerDateIndexSQL(t *testing.T) {
	assert.Equal(t,
		"CREATE INDEX IF NOT EXISTS idx_quick_wins_owner_date ON quick_wins (user_id, plan_date)",
		ownerDateIndexSQL("quick_wins"),
	)
}

func TestSubscriptionQuery_SelectsOnlySubscriptionColumns(t *testing.T) {
	db := dryRunDB(t)

	row := map[string]interface{}{}
	stmt := subscriptionQuery(db, 11).Take(&row).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, `FROM "users"`)
	assert.Contains(t, sql, `"subscription_tier"`)
	assert.Contains(t, sql, `"subscription_status"`)
	assert.Contains(t, sql, `"subscription_end_date"`)
	assert.NotContains(t, sql, "password")
	assert.Contains(t, sql, "id = $1")
	assert.Equal(t, uint(11), stmt.Vars[0])
}
