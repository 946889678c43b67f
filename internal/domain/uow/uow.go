package uow

import (
	"context"

	"hrflow-backend/internal/domain/attendance"
	"hrflow-backend/internal/domain/document"
	"hrflow-backend/internal/domain/request"
)

// Repos are bound to the same transaction.
type Repos struct {
	Requests  request.Repository
	Documents document.Repository
	Punches   attendance.PunchRepository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the document request row first, then pass it in
	WithinDocumentTx(ctx context.Context, requestID string, fn func(r Repos, d *document.Request) error) error
}
