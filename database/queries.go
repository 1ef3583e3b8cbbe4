package database

import (
	"fmt"
	"strings"
	"time"

	"planner-app/internal/domain/access"
	"planner-app/internal/domain/planner"
	"planner-app/internal/domain/users"

	"gorm.io/gorm"
)

var (
	allowedColumns = map[string]bool{"user_id": true, "plan_date": true}
	allowedOps     = map[string]bool{"=": true, ">=": true, "<=": true, ">": true, "<": true}
)

// applyPredicates turns predicates into one parameterized WHERE chain.
// Column and operator come from code, never from the request, and are
// still checked against an allow-list.
func applyPredicates(db *gorm.DB, preds []access.Predicate) (*gorm.DB, error) {
	for _, p := range preds {
		if !allowedColumns[p.Column] || !allowedOps[p.Op] {
			return nil, fmt.Errorf("unsupported predicate %s %s", p.Column, p.Op)
		}
		db = db.Where(fmt.Sprintf("%s %s ?", p.Column, p.Op), p.Value)
	}
	return db, nil
}

func zoneItemsQuery(db *gorm.DB, zone planner.Zone, preds []access.Predicate) (*gorm.DB, error) {
	q, err := applyPredicates(db.Table(zone.Table()), preds)
	if err != nil {
		return nil, err
	}
	return q.Order("plan_date DESC").Order("sort_index ASC").Order("created_at ASC"), nil
}

func subscriptionQuery(db *gorm.DB, userID uint) *gorm.DB {
	return db.Model(&users.User{}).
		Select("subscription_tier", "subscription_status", "subscription_end_date").
		Where("id = ?", userID)
}

func dayItemsQuery(db *gorm.DB, zone planner.Zone, userID uint, day time.Time) *gorm.DB {
	return db.Table(zone.Table()).
		Where("user_id = ? AND plan_date = ?", userID, day.Format(access.DateLayout)).
		Order("sort_index ASC").
		Order("created_at ASC")
}

// planDatesSQL selects every distinct date the user has written anything on.
func planDatesSQL() (string, int) {
	parts := []string{"SELECT plan_date FROM daily_plans WHERE user_id = ?"}
	for _, z := range planner.Zones {
		parts = append(parts, fmt.Sprintf("SELECT plan_date FROM %s WHERE user_id = ?", z.Table()))
	}
	return strings.Join(parts, " UNION ") + " ORDER BY plan_date DESC", len(parts)
}
