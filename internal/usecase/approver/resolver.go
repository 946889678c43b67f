package approver

import (
	"strings"

	"hrflow-backend/internal/domain/apperr"
	"hrflow-backend/internal/domain/employee"
	"hrflow-backend/internal/domain/request"
)

// Shape names the tiers a chain is made of. The set is closed: every
// combination the directory can produce maps to exactly one shape.
type Shape string

const (
	ShapeNone            Shape = "None"
	ShapeManagerPlantCEO Shape = "Manager>PlantManager>CEO"
	ShapeManagerPlant    Shape = "Manager>PlantManager"
	ShapeManagerCEO      Shape = "Manager>CEO"
	ShapeManager         Shape = "Manager"
	ShapePlantCEO        Shape = "PlantManager>CEO"
	ShapePlant           Shape = "PlantManager"
	ShapeCEO             Shape = "CEO"
)

type Options struct {
	// Escalate appends the CEO tier even when a lower tier exists.
	Escalate bool
}

type Chain struct {
	Shape Shape
	// Steps still to be decided, in order.
	Steps []request.Step
	// SelfApproved are leading steps whose approver is the applicant.
	SelfApproved []request.Step
}

// All returns self-approved steps followed by the remaining ones.
func (c Chain) All() []request.Step {
	out := make([]request.Step, 0, len(c.SelfApproved)+len(c.Steps))
	out = append(out, c.SelfApproved...)
	return append(out, c.Steps...)
}

func (c Chain) First() (request.Step, bool) {
	if len(c.Steps) == 0 {
		return request.Step{}, false
	}
	return c.Steps[0], true
}

type Resolver struct{}

func NewResolver() *Resolver { return &Resolver{} }

// Resolve derives the ordered approval chain for an applicant.
func (r *Resolver) Resolve(e employee.Employee, opts Options) (Chain, error) {
	var steps []request.Step
	switch {
	case e.ManagerID != nil:
		steps = append(steps, request.Step{Tier: request.TierManager, ApproverID: *e.ManagerID})
	case e.Role == employee.RoleManager:
		// a manager without a manager of their own approves their own first tier
		steps = append(steps, request.Step{Tier: request.TierManager, ApproverID: e.ID})
	}
	if e.PlantManagerID != nil {
		steps = append(steps, request.Step{Tier: request.TierPlantManager, ApproverID: *e.PlantManagerID})
	}
	if (len(steps) == 0 || opts.Escalate) && e.CEOID != nil {
		steps = append(steps, request.Step{Tier: request.TierCEO, ApproverID: *e.CEOID})
	}

	var self []request.Step
	for len(steps) > 0 && steps[0].ApproverID == e.ID {
		self = append(self, steps[0])
		steps = steps[1:]
	}
	if len(steps) == 0 && len(self) > 0 && e.CEOID != nil && *e.CEOID != e.ID && !hasTier(self, request.TierCEO) {
		steps = append(steps, request.Step{Tier: request.TierCEO, ApproverID: *e.CEOID})
	}

	c := Chain{Steps: steps, SelfApproved: self}
	c.Shape = ShapeOf(c.All())
	if len(steps) == 0 {
		return Chain{Shape: ShapeNone}, apperr.Validation("employee %d has no approver to route to", e.ID)
	}
	return c, nil
}

// ShapeOf tags an ordered list of steps.
func ShapeOf(steps []request.Step) Shape {
	if len(steps) == 0 {
		return ShapeNone
	}
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, string(s.Tier))
	}
	return Shape(strings.Join(names, ">"))
}

func hasTier(steps []request.Step, t request.Tier) bool {
	for _, s := range steps {
		if s.Tier == t {
			return true
		}
	}
	return false
}
