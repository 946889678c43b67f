package gormrepo

import (
	"errors"

	"hrflow-backend/internal/domain/apperr"

	"gorm.io/gorm"
)

// notFound maps gorm's missing-row error onto the domain sentinel.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(format, args...)
	}
	return err
}

// duplicate needs gorm.Config.TranslateError so drivers report gorm.ErrDuplicatedKey.
func duplicate(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict(format, args...)
	}
	return err
}
