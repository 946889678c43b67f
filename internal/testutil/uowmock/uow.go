package uowmock

import (
	"context"
	"errors"

	"hrflow-backend/internal/domain/document"
	"hrflow-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn         func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinDocumentTxFn func(ctx context.Context, requestID string, fn func(r uow.Repos, d *document.Request) error) error
}

// Passthrough runs every body directly against repos, with no transaction.
// The document variant loads the row through repos.Documents.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error { return fn(repos) },
		WithinDocumentTxFn: func(ctx context.Context, requestID string, fn func(uow.Repos, *document.Request) error) error {
			d, err := repos.Documents.GetByRequestIDForUpdate(ctx, requestID)
			if err != nil {
				return err
			}
			return fn(repos, d)
		},
	}
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinDocumentTx(fn func(context.Context, string, func(uow.Repos, *document.Request) error) error) *UoW {
	m.WithinDocumentTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinDocumentTx(ctx context.Context, requestID string, fn func(r uow.Repos, d *document.Request) error) error {
	if m.WithinDocumentTxFn != nil {
		return m.WithinDocumentTxFn(ctx, requestID, fn)
	}
	return errUnimplemented
}
