package database

import (
	"fmt"
	"log/slog"

	"planner-app/internal/domain/planner"
	"planner-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB connects to Postgres and migrates every table the planner owns.
func InitDB(dsn string, log *slog.Logger) (*gorm.DB, error) {
	const op = "database.InitDB"

	if dsn == "" {
		return nil, fmt.Errorf("%s: DB_URL not set", op)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: connect: %w", op, err)
	}

	if err := db.AutoMigrate(
		&users.User{},
		&planner.DailyPlan{},
	); err != nil {
		return nil, fmt.Errorf("%s: auto-migrate: %w", op, err)
	}

	// Zone items share one struct; each zone gets its own table.
	for _, z := range planner.Zones {
		if err := db.Table(z.Table()).AutoMigrate(&planner.Item{}); err != nil {
			return nil, fmt.Errorf("%s: auto-migrate %s: %w", op, z.Table(), err)
		}
		if err := db.Exec(ownerDateIndexSQL(z.Table())).Error; err != nil {
			return nil, fmt.Errorf("%s: index %s: %w", op, z.Table(), err)
		}
	}

	log.Info("connected and migrated", slog.Int("zone_tables", len(planner.Zones)))
	return db, nil
}

func ownerDateIndexSQL(table string) string {
	return fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS idx_%s_owner_date ON %s (user_id, plan_date)`,
		table, table,
	)
}
