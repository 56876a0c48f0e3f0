package db

import (
	"fmt"

	"artfolio/internal/domain/entities"
	_ "artfolio/migrations"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date. Postgres runs the versioned goose
// migrations; mysql falls back to gorm's AutoMigrate.
func Migrate(database *gorm.DB, driver string) error {
	if driver != "postgres" {
		return AutoMigrate(database)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("sql.DB: %w", err)
	}
	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(sqlDB, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func AutoMigrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&entities.Portfolio{},
		&entities.Work{},
	)
}
