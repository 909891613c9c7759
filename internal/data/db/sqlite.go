package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

// NewSQLiteService opens a file-backed SQLite database for local runs and tests.
// SQLite allows a single writer, so the pool is pinned to one connection and
// transactions queue behind each other instead of failing with SQLITE_BUSY.
func NewSQLiteService(logg *logger.Logger, path string) (*Service, error) {
	serviceLog := logg.With("service", "SQLiteService")
	if strings.TrimSpace(path) == "" {
		path = "usr_annotation.db"
	}
	db, err := gorm.Open(sqlite.Open(SQLiteDSN(path)), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	serviceLog.Info("Opened sqlite database", "path", path)
	return &Service{db: db, log: serviceLog, driver: DriverSQLite}, nil
}

func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_busy_timeout=5000&_journal_mode=WAL"
}
