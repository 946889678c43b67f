package employeemock

import (
	"context"
	"sort"
	"sync/atomic"

	"hrflow-backend/internal/domain/apperr"
	domain "hrflow-backend/internal/domain/employee"
)

var _ domain.Repository = (*Repo)(nil)

// Repo serves employees from a map unless a func field overrides it.
type Repo struct {
	Employees      map[uint64]domain.Employee
	GetByIDFn      func(ctx context.Context, id uint64) (*domain.Employee, error)
	ListByPlantFn  func(ctx context.Context, plant string) ([]domain.Employee, error)
	ListByDeviceFn func(ctx context.Context, deviceID uint64) ([]domain.Employee, error)

	getByIDCalls atomic.Int64
}

func New(emps ...domain.Employee) *Repo {
	m := &Repo{Employees: map[uint64]domain.Employee{}}
	for _, e := range emps {
		m.Employees[e.ID] = e
	}
	return m
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Employee, error) {
	m.getByIDCalls.Add(1)
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	e, ok := m.Employees[id]
	if !ok {
		return nil, apperr.NotFound("employee %d", id)
	}
	return &e, nil
}

// GetByIDCalls counts lookups, including failed ones.
func (m *Repo) GetByIDCalls() int { return int(m.getByIDCalls.Load()) }

func (m *Repo) ListByPlant(ctx context.Context, plant string) ([]domain.Employee, error) {
	if m.ListByPlantFn != nil {
		return m.ListByPlantFn(ctx, plant)
	}
	var out []domain.Employee
	for _, e := range m.Employees {
		if e.Plant == plant {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *Repo) ListByDevice(ctx context.Context, deviceID uint64) ([]domain.Employee, error) {
	if m.ListByDeviceFn != nil {
		return m.ListByDeviceFn(ctx, deviceID)
	}
	var out []domain.Employee
	for _, e := range m.Employees {
		if e.DeviceID != nil && *e.DeviceID == deviceID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
