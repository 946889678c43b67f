package documentmock

import (
	"context"
	"sort"
	"sync"

	"hrflow-backend/internal/domain/apperr"
	domain "hrflow-backend/internal/domain/document"
)

// NewMemory returns a Repo backed by a map.
func NewMemory() *Repo {
	var mu sync.Mutex
	rows := map[string]domain.Request{}

	get := func(_ context.Context, requestID string) (*domain.Request, error) {
		mu.Lock()
		defer mu.Unlock()
		d, ok := rows[requestID]
		if !ok {
			return nil, apperr.NotFound("document request %s", requestID)
		}
		return &d, nil
	}
	save := func(_ context.Context, d *domain.Request) error {
		mu.Lock()
		defer mu.Unlock()
		rows[d.RequestID] = *d
		return nil
	}
	list := func(keep func(domain.Request) bool) []domain.Request {
		mu.Lock()
		defer mu.Unlock()
		out := []domain.Request{}
		for _, d := range rows {
			if keep(d) {
				out = append(out, d)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].RequestID < out[j].RequestID })
		return out
	}

	return &Repo{
		CreateFn:                  save,
		SaveFn:                    save,
		GetByRequestIDFn:          get,
		GetByRequestIDForUpdateFn: get,
		ListForApproverFn: func(_ context.Context, approverID uint64) ([]domain.Request, error) {
			return list(func(d domain.Request) bool {
				return d.CurrentApproverID != nil && *d.CurrentApproverID == approverID
			}), nil
		},
		ListByEmployeeFn: func(_ context.Context, employeeID uint64) ([]domain.Request, error) {
			return list(func(d domain.Request) bool { return d.EmployeeID == employeeID }), nil
		},
		DeleteFn: func(_ context.Context, requestID string, _ uint64) error {
			mu.Lock()
			defer mu.Unlock()
			if _, ok := rows[requestID]; !ok {
				return apperr.NotFound("document request %s", requestID)
			}
			delete(rows, requestID)
			return nil
		},
	}
}
