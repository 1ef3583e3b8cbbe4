package planner

import (
	"context"
	"time"

	"planner-app/internal/domain/access"
	"planner-app/internal/domain/planner"
)

type Store interface {
	GetPlan(ctx context.Context, userID uint, day time.Time) (planner.DailyPlan, error)
	UpsertPlan(ctx context.Context, p *planner.DailyPlan) error

	ListDayItems(ctx context.Context, zone planner.Zone, userID uint, day time.Time) ([]planner.Item, error)
	ListItems(ctx context.Context, zone planner.Zone, preds []access.Predicate) ([]planner.Item, error)
	GetItem(ctx context.Context, zone planner.Zone, userID uint, id string) (planner.Item, error)
	CreateItem(ctx context.Context, zone planner.Zone, it *planner.Item) error
	UpdateItem(ctx context.Context, zone planner.Zone, it *planner.Item) error
	DeleteItem(ctx context.Context, zone planner.Zone, userID uint, id string) error

	ListPlanDates(ctx context.Context, userID uint) ([]time.Time, error)
}
