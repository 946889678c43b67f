package uowmock

import (
	"context"
	"errors"
	"testing"

	"hrflow-backend/internal/domain/document"
	"hrflow-backend/internal/domain/uow"
	"hrflow-backend/internal/testutil/documentmock"
	"hrflow-backend/internal/testutil/requestmock"
)

func TestUoW_WithinTx_Happy(t *testing.T) {
	ctx := context.Background()

	reqs := &requestmock.Repo{}
	docs := &documentmock.Repo{}
	repos := uow.Repos{Requests: reqs, Documents: docs}

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			if fn == nil {
				t.Fatalf("WithinTx: fn is nil")
			}
			// simulate transaction body
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.Requests != reqs || r.Documents != docs {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinTx: inner fn not called")
	}
}

func TestUoW_WithinTx_PropagatesError(t *testing.T) {
	ctx := context.Background()
	sentinel := errors.New("boom")

	m := &UoW{
		WithinTxFn: func(context.Context, func(uow.Repos) error) error {
			return sentinel
		},
	}
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx: want %v, got %v", sentinel, err)
	}
}

func TestUoW_Default_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := &UoW{} // no funcs set
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
	if err := m.WithinDocumentTx(ctx, "D-1", func(uow.Repos, *document.Request) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinDocumentTx default: want errUnimplemented, got %v", err)
	}
}

func TestPassthrough_LoadsDocument(t *testing.T) {
	ctx := context.Background()
	row := &document.Request{ID: 7, RequestID: "D-7"}
	docs := &documentmock.Repo{
		GetByRequestIDForUpdateFn: func(_ context.Context, requestID string) (*document.Request, error) {
			if requestID != "D-7" {
				t.Fatalf("requestID = %s", requestID)
			}
			return row, nil
		},
	}
	m := Passthrough(uow.Repos{Documents: docs})

	var got *document.Request
	if err := m.WithinDocumentTx(ctx, "D-7", func(_ uow.Repos, d *document.Request) error {
		got = d
		return nil
	}); err != nil {
		t.Fatalf("WithinDocumentTx: %v", err)
	}
	if got != row {
		t.Fatalf("document not forwarded: %+v", got)
	}
}

func TestPassthrough_LoadErrorSkipsBody(t *testing.T) {
	sentinel := errors.New("no rows")
	docs := &documentmock.Repo{
		GetByRequestIDForUpdateFn: func(context.Context, string) (*document.Request, error) { return nil, sentinel },
	}
	m := Passthrough(uow.Repos{Documents: docs})
	called := false
	err := m.WithinDocumentTx(context.Background(), "D-X", func(uow.Repos, *document.Request) error {
		called = true
		return nil
	})
	if !errors.Is(err, sentinel) || called {
		t.Fatalf("err=%v called=%v", err, called)
	}
}

func TestUoW_FluentSetters_And_Reset(t *testing.T) {
	m := New()
	if m.WithinTxFn != nil || m.WithinDocumentTxFn != nil {
		t.Fatalf("New should start with nil funcs")
	}

	// set via fluent setters
	m.WithWithinTx(func(context.Context, func(uow.Repos) error) error { return nil }).
		WithWithinDocumentTx(func(context.Context, string, func(uow.Repos, *document.Request) error) error { return nil })

	if m.WithinTxFn == nil || m.WithinDocumentTxFn == nil {
		t.Fatalf("fluent setters didn't assign funcs")
	}

	// reset clears funcs
	m.Reset()
	if m.WithinTxFn != nil || m.WithinDocumentTxFn != nil {
		t.Fatalf("Reset should clear function fields")
	}
}
