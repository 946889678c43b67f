package gormrepo

import (
	"context"
	"time"

	"hrflow-backend/internal/domain/apperr"
	domain "hrflow-backend/internal/domain/attendance"

	"gorm.io/gorm"
)

type PunchRepository struct{ db *gorm.DB }

func NewPunchRepository(db *gorm.DB) *PunchRepository { return &PunchRepository{db: db} }

func (r *PunchRepository) HasLabelBetween(ctx context.Context, employeeID uint64, from, to time.Time, label domain.Label) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Punch{}).
		Where("employee_id = ? AND log_time >= ? AND log_time < ? AND status = ?", employeeID, from.UTC(), to.UTC(), label).
		Count(&n).Error
	return n > 0, err
}

func (r *PunchRepository) Exists(ctx context.Context, employeeID uint64, at time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Punch{}).
		Where("employee_id = ? AND log_time = ?", employeeID, at.UTC()).
		Count(&n).Error
	return n > 0, err
}

func (r *PunchRepository) Create(ctx context.Context, p *domain.Punch) error {
	p.PunchedAt = p.PunchedAt.UTC()
	return duplicate(r.db.WithContext(ctx).Create(p).Error, "punch %d at %s already stored", p.EmployeeID, p.PunchedAt.Format(time.RFC3339))
}

func (r *PunchRepository) ListBetween(ctx context.Context, employeeID uint64, from, to time.Time) ([]domain.Punch, error) {
	var out []domain.Punch
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND log_time >= ? AND log_time < ?", employeeID, from.UTC(), to.UTC()).
		Order("log_time, id").
		Find(&out).Error
	return out, err
}

func (r *PunchRepository) ListFiltered(ctx context.Context, f domain.PunchFilter) ([]domain.Punch, error) {
	q := r.db.WithContext(ctx).Model(&domain.Punch{}).Select("pointing.*")
	if f.PlantManagerID != 0 {
		q = q.Joins("JOIN users ON users.id = pointing.employee_id").
			Where("users.plant_manager_id = ?", f.PlantManagerID)
	}
	if f.EmployeeID != 0 {
		q = q.Where("pointing.employee_id = ?", f.EmployeeID)
	}
	if f.DeviceID != 0 {
		q = q.Where("pointing.device_id = ?", f.DeviceID)
	}
	if !f.From.IsZero() {
		q = q.Where("pointing.log_time >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("pointing.log_time < ?", f.To.UTC())
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []domain.Punch
	err := q.Order("pointing.log_time, pointing.id").Find(&out).Error
	return out, err
}

func (r *PunchRepository) SetLabel(ctx context.Context, id uint64, label domain.Label) error {
	return r.db.WithContext(ctx).Model(&domain.Punch{}).Where("id = ?", id).Update("status", label).Error
}

type DeviceRepository struct{ db *gorm.DB }

func NewDeviceRepository(db *gorm.DB) *DeviceRepository { return &DeviceRepository{db: db} }

func (r *DeviceRepository) Create(ctx context.Context, d *domain.Device) error {
	return duplicate(r.db.WithContext(ctx).Create(d).Error, "device %s already registered", d.Address)
}

func (r *DeviceRepository) GetByID(ctx context.Context, id uint64) (*domain.Device, error) {
	var out domain.Device
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, notFound(err, "device %d", id)
	}
	return &out, nil
}

func (r *DeviceRepository) List(ctx context.Context) ([]domain.Device, error) {
	var out []domain.Device
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

// Update looks the row up first: MySQL reports zero affected rows when
// nothing changed.
func (r *DeviceRepository) Update(ctx context.Context, d *domain.Device) error {
	db := r.db.WithContext(ctx)
	if err := db.Select("id").First(&domain.Device{}, d.ID).Error; err != nil {
		return notFound(err, "device %d", d.ID)
	}
	err := db.Model(&domain.Device{}).Where("id = ?", d.ID).
		Updates(map[string]any{"name": d.Name, "address": d.Address, "plant": d.Plant}).Error
	return duplicate(err, "device %s already registered", d.Address)
}

// Delete keeps the device's punches; their device_id dangles.
func (r *DeviceRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Device{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("device %d", id)
	}
	return nil
}
