package request

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, r *Request) error
	GetByRequestID(ctx context.Context, requestID string) (*Request, error)
	// UpdateDecision writes status, tier and approver fields only if the stored
	// version still equals expectedVersion; it bumps Version on success and
	// returns apperr.ErrConflict when another writer got there first.
	UpdateDecision(ctx context.Context, r *Request, expectedVersion uint64) error
	ListForApprover(ctx context.Context, kind Kind, approverID uint64) ([]Request, error)
	ListByEmployee(ctx context.Context, kind Kind, employeeID uint64) ([]Request, error)
	ListByPlant(ctx context.Context, kind Kind, plant string) ([]Request, error)
	CountPerEmployee(ctx context.Context, plant string) ([]EmployeeRequestCount, error)
	// ListApprovedCovering returns approved requests of kind whose period contains day.
	ListApprovedCovering(ctx context.Context, kind Kind, plant string, day time.Time) ([]Request, error)
	Delete(ctx context.Context, requestID string, deletedBy uint64) error
}
