package attendance

import (
	"context"
	"time"
)

// PunchFilter narrows a punch listing. Zero fields do not filter.
type PunchFilter struct {
	EmployeeID uint64
	DeviceID   uint64
	// PlantManagerID keeps punches of employees reporting to that plant manager.
	PlantManagerID uint64
	From, To       time.Time
	Limit          int
}

type PunchRepository interface {
	// HasLabelBetween reports whether a punch with label exists in [from, to).
	HasLabelBetween(ctx context.Context, employeeID uint64, from, to time.Time, label Label) (bool, error)
	Exists(ctx context.Context, employeeID uint64, at time.Time) (bool, error)
	// Create returns apperr.ErrConflict on a duplicate (employee, instant).
	Create(ctx context.Context, p *Punch) error
	// ListBetween returns punches in [from, to) ordered by time.
	ListBetween(ctx context.Context, employeeID uint64, from, to time.Time) ([]Punch, error)
	// ListFiltered returns punches matching f in [From, To) ordered by time.
	ListFiltered(ctx context.Context, f PunchFilter) ([]Punch, error)
	SetLabel(ctx context.Context, id uint64, label Label) error
}

type DeviceRepository interface {
	Create(ctx context.Context, d *Device) error
	GetByID(ctx context.Context, id uint64) (*Device, error)
	List(ctx context.Context) ([]Device, error)
	// Update rewrites name, address and plant. apperr.ErrNotFound when d.ID is unknown.
	Update(ctx context.Context, d *Device) error
	Delete(ctx context.Context, id uint64) error
}
