package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"hrflow-backend/internal/domain/apperr"
	"hrflow-backend/internal/domain/request"
)

// Typed is a payload-aware front-end over the shared lifecycle.
type Typed[P request.Payload] struct{ uc *Usecase }

func NewTyped[P request.Payload](uc *Usecase) *Typed[P] { return &Typed[P]{uc: uc} }

func (t *Typed[P]) Submit(ctx context.Context, employeeID uint64, p P, escalate bool) (*request.Request, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return t.uc.Create(ctx, CreateInput{Kind: p.Kind(), EmployeeID: employeeID, Payload: raw, Escalate: escalate})
}

// Decode returns the payload of r, which must be of P's kind.
func (t *Typed[P]) Decode(r *request.Request) (P, error) {
	var p P
	if r.Kind != p.Kind() {
		return p, apperr.Validation("request %s is a %s request, not %s", r.RequestID, r.Kind, p.Kind())
	}
	if err := json.Unmarshal(r.Payload, &p); err != nil {
		return p, fmt.Errorf("decode %s payload: %w", r.Kind, err)
	}
	return p, nil
}
