package planner

import (
	"time"

	"gorm.io/datatypes"
)

// DailyPlan is the per-day header: one row per user and date.
type DailyPlan struct {
	ID       uint           `gorm:"primaryKey"`
	UserID   uint           `gorm:"not null;uniqueIndex:idx_daily_plans_owner_date,priority:1"`
	PlanDate datatypes.Date `gorm:"type:date;not null;uniqueIndex:idx_daily_plans_owner_date,priority:2"`

	Intention string `gorm:"type:text"`
	Mood      int    `gorm:"not null;default:0"` // 0 = unset, 1..5
	Notes     string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

const MaxMood = 5

func (p DailyPlan) Date() time.Time {
	return time.Time(p.PlanDate)
}
