package gormrepo

import (
	"hrflow-backend/internal/domain/attendance"
	"hrflow-backend/internal/domain/document"
	"hrflow-backend/internal/domain/request"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables this service owns. The users table
// belongs to the HR directory and is left alone.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&request.Request{},
		&document.Request{},
		&attendance.Punch{},
		&attendance.Device{},
	)
}
