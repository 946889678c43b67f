package document

import "context"

type Repository interface {
	Create(ctx context.Context, d *Request) error
	GetByRequestID(ctx context.Context, requestID string) (*Request, error)
	// GetByRequestIDForUpdate locks the row; only meaningful inside a tx.
	GetByRequestIDForUpdate(ctx context.Context, requestID string) (*Request, error)
	Save(ctx context.Context, d *Request) error
	ListForApprover(ctx context.Context, approverID uint64) ([]Request, error)
	ListByEmployee(ctx context.Context, employeeID uint64) ([]Request, error)
	Delete(ctx context.Context, requestID string, deletedBy uint64) error
}
