package documentmock

import (
	"context"

	domain "hrflow-backend/internal/domain/document"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, d *domain.Request) error
	GetByRequestIDFn          func(ctx context.Context, requestID string) (*domain.Request, error)
	GetByRequestIDForUpdateFn func(ctx context.Context, requestID string) (*domain.Request, error)
	SaveFn                    func(ctx context.Context, d *domain.Request) error
	ListForApproverFn         func(ctx context.Context, approverID uint64) ([]domain.Request, error)
	ListByEmployeeFn          func(ctx context.Context, employeeID uint64) ([]domain.Request, error)
	DeleteFn                  func(ctx context.Context, requestID string, deletedBy uint64) error
}

func (m *Repo) Create(ctx context.Context, d *domain.Request) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *Repo) GetByRequestID(ctx context.Context, requestID string) (*domain.Request, error) {
	if m.GetByRequestIDFn != nil {
		return m.GetByRequestIDFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*domain.Request, error) {
	if m.GetByRequestIDForUpdateFn != nil {
		return m.GetByRequestIDForUpdateFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, d *domain.Request) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, d)
	}
	return nil
}

func (m *Repo) ListForApprover(ctx context.Context, approverID uint64) ([]domain.Request, error) {
	if m.ListForApproverFn != nil {
		return m.ListForApproverFn(ctx, approverID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByEmployee(ctx context.Context, employeeID uint64) ([]domain.Request, error) {
	if m.ListByEmployeeFn != nil {
		return m.ListByEmployeeFn(ctx, employeeID)
	}
	return nil, context.Canceled
}

func (m *Repo) Delete(ctx context.Context, requestID string, deletedBy uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, requestID, deletedBy)
	}
	return nil
}
