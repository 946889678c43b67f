package requestmock

import (
	"context"
	"time"

	domain "hrflow-backend/internal/domain/request"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to success, reads default to context.Canceled.
type Repo struct {
	CreateFn               func(ctx context.Context, r *domain.Request) error
	GetByRequestIDFn       func(ctx context.Context, requestID string) (*domain.Request, error)
	UpdateDecisionFn       func(ctx context.Context, r *domain.Request, expectedVersion uint64) error
	ListForApproverFn      func(ctx context.Context, kind domain.Kind, approverID uint64) ([]domain.Request, error)
	ListByEmployeeFn       func(ctx context.Context, kind domain.Kind, employeeID uint64) ([]domain.Request, error)
	ListByPlantFn          func(ctx context.Context, kind domain.Kind, plant string) ([]domain.Request, error)
	CountPerEmployeeFn     func(ctx context.Context, plant string) ([]domain.EmployeeRequestCount, error)
	ListApprovedCoveringFn func(ctx context.Context, kind domain.Kind, plant string, day time.Time) ([]domain.Request, error)
	DeleteFn               func(ctx context.Context, requestID string, deletedBy uint64) error
}

func (m *Repo) Create(ctx context.Context, r *domain.Request) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByRequestID(ctx context.Context, requestID string) (*domain.Request, error) {
	if m.GetByRequestIDFn != nil {
		return m.GetByRequestIDFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) UpdateDecision(ctx context.Context, r *domain.Request, expectedVersion uint64) error {
	if m.UpdateDecisionFn != nil {
		return m.UpdateDecisionFn(ctx, r, expectedVersion)
	}
	r.Version = expectedVersion + 1
	return nil
}

func (m *Repo) ListForApprover(ctx context.Context, kind domain.Kind, approverID uint64) ([]domain.Request, error) {
	if m.ListForApproverFn != nil {
		return m.ListForApproverFn(ctx, kind, approverID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByEmployee(ctx context.Context, kind domain.Kind, employeeID uint64) ([]domain.Request, error) {
	if m.ListByEmployeeFn != nil {
		return m.ListByEmployeeFn(ctx, kind, employeeID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByPlant(ctx context.Context, kind domain.Kind, plant string) ([]domain.Request, error) {
	if m.ListByPlantFn != nil {
		return m.ListByPlantFn(ctx, kind, plant)
	}
	return nil, context.Canceled
}

func (m *Repo) CountPerEmployee(ctx context.Context, plant string) ([]domain.EmployeeRequestCount, error) {
	if m.CountPerEmployeeFn != nil {
		return m.CountPerEmployeeFn(ctx, plant)
	}
	return nil, context.Canceled
}

func (m *Repo) ListApprovedCovering(ctx context.Context, kind domain.Kind, plant string, day time.Time) ([]domain.Request, error) {
	if m.ListApprovedCoveringFn != nil {
		return m.ListApprovedCoveringFn(ctx, kind, plant, day)
	}
	return nil, context.Canceled
}

func (m *Repo) Delete(ctx context.Context, requestID string, deletedBy uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, requestID, deletedBy)
	}
	return nil
}
