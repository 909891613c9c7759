package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation recognises duplicate-key failures from either driver,
// whether or not gorm translated them.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsSerializationFailure reports Postgres serialization/deadlock aborts.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// TranslateError maps storage conflicts onto the domain taxonomy. Anything
// else is returned unchanged.
func TranslateError(err error, reason string) error {
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) || IsSerializationFailure(err) {
		ce := apperrors.NewConflict(reason)
		ce.Err = err
		return ce
	}
	return err
}
