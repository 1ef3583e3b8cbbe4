package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"planner-app/internal/domain/access"
	"planner-app/internal/domain/planner"
	"planner-app/internal/domain/users"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

// Store is the gorm-backed persistence used by every handler.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

/* ---------------- users ---------------- */

func (s *Store) GetUserByEmail(ctx context.Context, email string) (users.User, error) {
	const op = "database.GetUserByEmail"
	var u users.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return users.User{}, fmt.Errorf("%s: %w", op, notFound(err))
	}
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (users.User, error) {
	const op = "database.GetUserByID"
	var u users.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return users.User{}, fmt.Errorf("%s: %w", op, notFound(err))
	}
	return u, nil
}

func (s *Store) GetUserByGoogleSub(ctx context.Context, sub string) (users.User, error) {
	const op = "database.GetUserByGoogleSub"
	var u users.User
	if err := s.db.WithContext(ctx).Where("google_sub = ?", sub).First(&u).Error; err != nil {
		return users.User{}, fmt.Errorf("%s: %w", op, notFound(err))
	}
	return u, nil
}

func (s *Store) GetUserByStripeSubscription(ctx context.Context, subscriptionID string) (users.User, error) {
	const op = "database.GetUserByStripeSubscription"
	var u users.User
	if err := s.db.WithContext(ctx).Where("stripe_subscription_id = ?", subscriptionID).First(&u).Error; err != nil {
		return users.User{}, fmt.Errorf("%s: %w", op, notFound(err))
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *users.User) error {
	const op = "database.CreateUser"
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) error {
	const op = "database.UpdateUser"
	res := s.db.WithContext(ctx).Model(&users.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return s.UpdateUser(ctx, id, map[string]interface{}{"password": hash})
}

func (s *Store) ListUsers(ctx context.Context) ([]users.User, error) {
	const op = "database.ListUsers"
	var out []users.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// GetUserSubscription reads only the subscription columns. The row is
// scanned loosely and normalized, so a NULL or odd value fails closed.
func (s *Store) GetUserSubscription(ctx context.Context, userID uint) (access.Snapshot, error) {
	const op = "database.GetUserSubscription"
	row := map[string]interface{}{}
	if err := subscriptionQuery(s.db.WithContext(ctx), userID).Take(&row).Error; err != nil {
		return access.Snapshot{}, fmt.Errorf("%s: %w", op, notFound(err))
	}
	return access.SnapshotFromFields(row), nil
}

/* ---------------- daily plans ---------------- */

func (s *Store) GetPlan(ctx context.Context, userID uint, day time.Time) (planner.DailyPlan, error) {
	const op = "database.GetPlan"
	var p planner.DailyPlan
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND plan_date = ?", userID, day.Format(access.DateLayout)).
		First(&p).Error
	if err != nil {
		return planner.DailyPlan{}, fmt.Errorf("%s: %w", op, notFound(err))
	}
	return p, nil
}

// UpsertPlan writes the header for (user, date); last write wins.
func (s *Store) UpsertPlan(ctx context.Context, p *planner.DailyPlan) error {
	const op = "database.UpsertPlan"
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "plan_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"intention", "mood", "notes", "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

/* ---------------- zone items ---------------- */

func (s *Store) ListDayItems(ctx context.Context, zone planner.Zone, userID uint, day time.Time) ([]planner.Item, error) {
	const op = "database.ListDayItems"
	var items []planner.Item
	if err := dayItemsQuery(s.db.WithContext(ctx), zone, userID, day).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, zone, err)
	}
	return items, nil
}

func (s *Store) ListItems(ctx context.Context, zone planner.Zone, preds []access.Predicate) ([]planner.Item, error) {
	const op = "database.ListItems"
	q, err := zoneItemsQuery(s.db.WithContext(ctx), zone, preds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var items []planner.Item
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, zone, err)
	}
	return items, nil
}

func (s *Store) GetItem(ctx context.Context, zone planner.Zone, userID uint, id string) (planner.Item, error) {
	const op = "database.GetItem"
	var it planner.Item
	err := s.db.WithContext(ctx).Table(zone.Table()).
		Where("user_id = ? AND id = ?", userID, id).
		First(&it).Error
	if err != nil {
		return planner.Item{}, fmt.Errorf("%s: %w", op, notFound(err))
	}
	return it, nil
}

func (s *Store) CreateItem(ctx context.Context, zone planner.Zone, it *planner.Item) error {
	const op = "database.CreateItem"
	if err := s.db.WithContext(ctx).Table(zone.Table()).Create(it).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) UpdateItem(ctx context.Context, zone planner.Zone, it *planner.Item) error {
	const op = "database.UpdateItem"
	res := s.db.WithContext(ctx).Table(zone.Table()).
		Where("user_id = ? AND id = ?", it.UserID, it.ID).
		Updates(map[string]interface{}{
			"title":      it.Title,
			"notes":      it.Notes,
			"completed":  it.Completed,
			"minutes":    it.Minutes,
			"project":    it.Project,
			"sort_index": it.SortIndex,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, zone planner.Zone, userID uint, id string) error {
	const op = "database.DeleteItem"
	res := s.db.WithContext(ctx).Table(zone.Table()).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&planner.Item{})
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ListPlanDates returns every date the user has a plan or zone entry on,
// newest first.
func (s *Store) ListPlanDates(ctx context.Context, userID uint) ([]time.Time, error) {
	const op = "database.ListPlanDates"

	query, n := planDatesSQL()
	args := make([]interface{}, n)
	for i := range args {
		args[i] = userID
	}

	rows, err := s.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var d datatypes.Date
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, time.Time(d))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
