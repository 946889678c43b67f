package attendancemock

import (
	"context"
	"sort"
	"sync"
	"time"

	"hrflow-backend/internal/domain/apperr"
	domain "hrflow-backend/internal/domain/attendance"
)

var (
	_ domain.PunchRepository  = (*Punches)(nil)
	_ domain.DeviceRepository = (*Devices)(nil)
)

// Punches is an in-memory punch table enforcing the (employee, instant) unique key.
type Punches struct {
	mu     sync.Mutex
	rows   []domain.Punch
	nextID uint64

	// CreateErr, when set, is returned by Create instead of inserting.
	CreateErr error
	// Managers maps employee id to plant manager id for ListFiltered.
	Managers map[uint64]uint64
}

func (s *Punches) HasLabelBetween(_ context.Context, employeeID uint64, from, to time.Time, label domain.Label) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.rows {
		if p.EmployeeID == employeeID && p.Label == label && !p.PunchedAt.Before(from) && p.PunchedAt.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Punches) Exists(_ context.Context, employeeID uint64, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.rows {
		if p.EmployeeID == employeeID && p.PunchedAt.Equal(at) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Punches) Create(_ context.Context, p *domain.Punch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	for _, q := range s.rows {
		if q.EmployeeID == p.EmployeeID && q.PunchedAt.Equal(p.PunchedAt) {
			return apperr.Conflict("punch %d@%s", p.EmployeeID, p.PunchedAt)
		}
	}
	s.nextID++
	p.ID = s.nextID
	s.rows = append(s.rows, *p)
	return nil
}

func (s *Punches) ListBetween(_ context.Context, employeeID uint64, from, to time.Time) ([]domain.Punch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Punch
	for _, p := range s.rows {
		if p.EmployeeID == employeeID && !p.PunchedAt.Before(from) && p.PunchedAt.Before(to) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PunchedAt.Before(out[j].PunchedAt) })
	return out, nil
}

// ListFiltered ignores PlantManagerID unless Managers maps the employee.
func (s *Punches) ListFiltered(_ context.Context, f domain.PunchFilter) ([]domain.Punch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Punch
	for _, p := range s.rows {
		switch {
		case f.EmployeeID != 0 && p.EmployeeID != f.EmployeeID:
		case f.DeviceID != 0 && (p.DeviceID == nil || *p.DeviceID != f.DeviceID):
		case f.PlantManagerID != 0 && s.Managers != nil && s.Managers[p.EmployeeID] != f.PlantManagerID:
		case !f.From.IsZero() && p.PunchedAt.Before(f.From):
		case !f.To.IsZero() && !p.PunchedAt.Before(f.To):
		default:
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PunchedAt.Before(out[j].PunchedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Punches) SetLabel(_ context.Context, id uint64, label domain.Label) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].Label = label
			return nil
		}
	}
	return apperr.NotFound("punch %d", id)
}

// All returns a copy of every stored punch in insertion order.
func (s *Punches) All() []domain.Punch {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Punch, len(s.rows))
	copy(out, s.rows)
	return out
}

// Devices is an in-memory device registry.
type Devices struct {
	mu   sync.Mutex
	rows []domain.Device
}

func (s *Devices) Create(_ context.Context, d *domain.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = uint64(len(s.rows) + 1)
	s.rows = append(s.rows, *d)
	return nil
}

func (s *Devices) GetByID(_ context.Context, id uint64) (*domain.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.rows {
		if d.ID == id {
			d := d
			return &d, nil
		}
	}
	return nil, apperr.NotFound("device %d", id)
}

func (s *Devices) List(context.Context) ([]domain.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Device, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *Devices) Update(_ context.Context, d *domain.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID != d.ID {
			continue
		}
		s.rows[i].Name, s.rows[i].Address, s.rows[i].Plant = d.Name, d.Address, d.Plant
		return nil
	}
	return apperr.NotFound("device %d", d.ID)
}

func (s *Devices) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("device %d", id)
}

// Client is a function-backed DeviceClient.
type Client struct {
	FetchFn func(ctx context.Context, address string) ([]domain.RawPunch, error)
}

func (c *Client) FetchRawPunches(ctx context.Context, address string) ([]domain.RawPunch, error) {
	if c.FetchFn != nil {
		return c.FetchFn(ctx, address)
	}
	return nil, context.Canceled
}
