package workflow

import (
	"time"

	"hrflow-backend/internal/domain/apperr"
	"hrflow-backend/internal/domain/employee"
	"hrflow-backend/internal/domain/request"
)

type Policy struct {
	// AllowTierSkipByHigherApprover lets a later approver in the chain decide
	// while an earlier tier is still pending; the earlier tiers become Skipped.
	AllowTierSkipByHigherApprover bool
}

type Actor struct {
	ID   uint64
	Role employee.Role
}

// Outcome describes what a decision did, for the notification step.
type Outcome struct {
	Tier     request.Tier
	Decision request.Decision
	Terminal bool
	// NextApprover is set when the request moved on to another tier.
	NextApprover *uint64
	Skipped      []request.Tier
}

func tierForRole(r employee.Role) (request.Tier, bool) {
	switch r {
	case employee.RoleManager:
		return request.TierManager, true
	case employee.RolePlantManager:
		return request.TierPlantManager, true
	case employee.RoleCEO:
		return request.TierCEO, true
	}
	return "", false
}

// Apply checks the actor's authority on snapshot r and returns the state the
// request moves to. r is not modified.
func Apply(r request.Request, actor Actor, d request.Decision, p Policy, now time.Time) (request.Request, Outcome, error) {
	if !d.Valid() {
		return r, Outcome{}, apperr.Validation("decision must be Approved or Rejected, got %q", d)
	}
	if r.Status.Terminal() {
		return r, Outcome{}, apperr.Authorization("request %s is already %s", r.RequestID, r.Status)
	}
	tier, ok := tierForRole(actor.Role)
	if !ok {
		return r, Outcome{}, apperr.Authorization("role %s cannot decide requests", actor.Role)
	}
	outstanding := r.Outstanding()
	at := r.StepOf(tier)
	switch {
	case outstanding < 0 || at < 0:
		return r, Outcome{}, apperr.Authorization("%s tier is not part of request %s", tier, r.RequestID)
	case at < outstanding:
		return r, Outcome{}, apperr.Authorization("%s tier already decided on request %s", tier, r.RequestID)
	case at > outstanding && !p.AllowTierSkipByHigherApprover:
		return r, Outcome{}, apperr.Authorization("%s review is still pending on request %s", r.Chain[outstanding].Tier, r.RequestID)
	}
	if at == outstanding {
		if r.CurrentApproverID == nil || *r.CurrentApproverID != actor.ID {
			return r, Outcome{}, apperr.Authorization("user %d is not the current approver of request %s", actor.ID, r.RequestID)
		}
	} else if r.Chain[at].ApproverID != actor.ID {
		return r, Outcome{}, apperr.Authorization("user %d is not the %s approver of request %s", actor.ID, tier, r.RequestID)
	}

	next := r
	next.Chain = append(r.Chain[:0:0], r.Chain...)
	out := Outcome{Tier: tier, Decision: d}
	for i := outstanding; i < at; i++ {
		next.SetTierStatus(r.Chain[i].Tier, request.TierSkipped)
		out.Skipped = append(out.Skipped, r.Chain[i].Tier)
	}

	if d == request.DecisionRejected {
		next.SetTierStatus(tier, request.TierRejected)
		finish(&next, request.StatusRejected, now)
		out.Terminal = true
		return next, out, nil
	}

	next.SetTierStatus(tier, request.TierApproved)
	if at+1 >= len(r.Chain) {
		finish(&next, request.StatusApproved, now)
		out.Terminal = true
		return next, out, nil
	}
	following := r.Chain[at+1]
	next.Status = request.ReviewStatus(following.Tier)
	next.CurrentApproverID = uint64Ptr(following.ApproverID)
	next.NextApproverID = nil
	if at+2 < len(r.Chain) {
		next.NextApproverID = uint64Ptr(r.Chain[at+2].ApproverID)
	}
	out.NextApprover = next.CurrentApproverID
	return next, out, nil
}

func finish(r *request.Request, s request.Status, now time.Time) {
	r.Status = s
	r.CurrentApproverID = nil
	r.NextApproverID = nil
	t := now.UTC()
	r.DecidedAt = &t
}

func uint64Ptr(v uint64) *uint64 { return &v }
