package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/studypup/studypup/internal/infrastructure/config"
)

// NewConnection opens the configured database. SQLite is the default local
// cache; postgres is available for shared deployments.
func NewConnection(cfg *config.Config) (*gorm.DB, func(), error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "", "sqlite":
		dialector = sqlite.Open(cfg.Database.Path)
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL())
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("unwrap database: %w", err)
	}
	cleanup := func() { _ = sqlDB.Close() }

	if err := sqlDB.Ping(); err != nil {
		return nil, cleanup, fmt.Errorf("ping database: %w", err)
	}
	return db, cleanup, nil
}
