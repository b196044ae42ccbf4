package database

import (
	"embed"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every pending migration.
func Migrate(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB")
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "goose dialect")
	}
	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}

// MigrationVersion reports the version currently applied.
func MigrationVersion(db *gorm.DB) (int64, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, errors.Wrap(err, "get sql.DB")
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return 0, errors.Wrap(err, "goose dialect")
	}
	return goose.GetDBVersion(sqlDB)
}
