package requestmock

import (
	"context"
	"sort"
	"sync"

	"hrflow-backend/internal/domain/apperr"
	domain "hrflow-backend/internal/domain/request"
)

// NewMemory returns a Repo backed by a map, with version checks on
// UpdateDecision. Listing funcs cover approver and employee views only.
func NewMemory() *Repo {
	var mu sync.Mutex
	rows := map[string]domain.Request{}

	list := func(keep func(domain.Request) bool) []domain.Request {
		mu.Lock()
		defer mu.Unlock()
		out := []domain.Request{}
		for _, r := range rows {
			if keep(r) {
				out = append(out, r)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].RequestID < out[j].RequestID })
		return out
	}
	is := func(p *uint64, id uint64) bool { return p != nil && *p == id }

	return &Repo{
		CreateFn: func(_ context.Context, r *domain.Request) error {
			mu.Lock()
			defer mu.Unlock()
			if _, dup := rows[r.RequestID]; dup {
				return apperr.Conflict("request %s exists", r.RequestID)
			}
			rows[r.RequestID] = *r
			return nil
		},
		GetByRequestIDFn: func(_ context.Context, requestID string) (*domain.Request, error) {
			mu.Lock()
			defer mu.Unlock()
			r, ok := rows[requestID]
			if !ok {
				return nil, apperr.NotFound("request %s", requestID)
			}
			return &r, nil
		},
		UpdateDecisionFn: func(_ context.Context, r *domain.Request, expected uint64) error {
			mu.Lock()
			defer mu.Unlock()
			cur, ok := rows[r.RequestID]
			if !ok || cur.Version != expected {
				return apperr.Conflict("request %s changed", r.RequestID)
			}
			r.Version = expected + 1
			rows[r.RequestID] = *r
			return nil
		},
		ListForApproverFn: func(_ context.Context, kind domain.Kind, approverID uint64) ([]domain.Request, error) {
			return list(func(r domain.Request) bool {
				return r.Kind == kind && (is(r.CurrentApproverID, approverID) || is(r.NextApproverID, approverID))
			}), nil
		},
		ListByEmployeeFn: func(_ context.Context, kind domain.Kind, employeeID uint64) ([]domain.Request, error) {
			return list(func(r domain.Request) bool { return r.Kind == kind && r.EmployeeID == employeeID }), nil
		},
		DeleteFn: func(_ context.Context, requestID string, _ uint64) error {
			mu.Lock()
			defer mu.Unlock()
			if _, ok := rows[requestID]; !ok {
				return apperr.NotFound("request %s", requestID)
			}
			delete(rows, requestID)
			return nil
		},
	}
}
