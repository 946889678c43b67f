package workflow

import (
	"encoding/json"

	"hrflow-backend/internal/domain/request"
)

type CreateInput struct {
	Kind       request.Kind
	EmployeeID uint64
	Payload    json.RawMessage
	// Escalate forces the CEO tier into the chain.
	Escalate bool
}

type DecideInput struct {
	RequestID string
	Actor     Actor
	Decision  request.Decision
}
