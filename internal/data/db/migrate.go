package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/usr-annotation-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}

// EnsureIndexes creates the partial unique indexes gorm tags cannot express.
// Both statements are valid for Postgres and SQLite.
func EnsureIndexes(db *gorm.DB) error {
	// Email is unique among live users; soft-deleted users keep their history.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_user_email_live
		ON "user" (email)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_user_email_live: %w", err)
	}

	// At most one open USR revision per segment.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_usr_segment_live
		ON usr (segment_id)
		WHERE superseded_at IS NULL AND status <> 'Reviewed';
	`).Error; err != nil {
		return fmt.Errorf("create idx_usr_segment_live: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_assignment_annotator_status
		ON assignment (annotator_id, annotation_status);
	`).Error; err != nil {
		return fmt.Errorf("create idx_assignment_annotator_status: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_assignment_reviewer_status
		ON assignment (reviewer_id, annotation_status);
	`).Error; err != nil {
		return fmt.Errorf("create idx_assignment_reviewer_status: %w", err)
	}
	return nil
}

func Migrate(db *gorm.DB) error {
	if err := AutoMigrateAll(db); err != nil {
		return err
	}
	return EnsureIndexes(db)
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...", "driver", s.driver)
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureIndexes(s.db); err != nil {
		s.log.Error("Index migration failed", "error", err)
		return err
	}
	return nil
}
