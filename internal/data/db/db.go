package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects using the named driver and migrates the schema.
func Open(driver string, log *logger.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverPostgres:
		var svc *PostgresService
		if svc, err = NewPostgresService(log); err == nil {
			db = svc.DB()
		}
	case DriverSQLite:
		var svc *SQLiteService
		if svc, err = NewSQLiteService(log); err == nil {
			db = svc.DB()
		}
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := AutoMigrateAll(db); err != nil {
		return nil, err
	}
	return db, nil
}
