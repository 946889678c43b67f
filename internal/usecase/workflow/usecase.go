package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hrflow-backend/internal/domain/apperr"
	"hrflow-backend/internal/domain/employee"
	"hrflow-backend/internal/domain/request"
	"hrflow-backend/internal/domain/uow"
	"hrflow-backend/internal/usecase/approver"
	"hrflow-backend/internal/usecase/notification"
	"hrflow-backend/pkg/id"
	"hrflow-backend/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type Notifications interface {
	NotifyApprovalNeeded(ctx context.Context, approverID uint64, d notification.Descriptor)
	NotifyApproved(ctx context.Context, employeeID uint64, d notification.Descriptor)
	NotifyRejected(ctx context.Context, employeeID uint64, d notification.Descriptor, tier string)
}

type Config struct {
	Policy Policy
	// Missions at or above this budget also go to the CEO. Zero disables it.
	MissionCEOBudgetThreshold decimal.Decimal
}

type Usecase struct {
	requests  request.Repository
	employees employee.Repository
	uow       uow.UnitOfWork
	resolver  *approver.Resolver
	notify    Notifications
	validate  *validator.Validate
	logger    log.Logger
	cfg       Config
	now       func() time.Time
}

// NewUsecase wires the lifecycle engine shared by every request kind.
func NewUsecase(requests request.Repository, employees employee.Repository, tx uow.UnitOfWork, n Notifications, l log.Logger, cfg Config) *Usecase {
	return &Usecase{
		requests:  requests,
		employees: employees,
		uow:       tx,
		resolver:  approver.NewResolver(),
		notify:    n,
		validate:  validator.New(),
		logger:    l,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*request.Request, error) {
	p, err := u.decodePayload(in.Kind, in.Payload)
	if err != nil {
		return nil, err
	}
	start, end, err := p.Period()
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}

	emp, err := u.employees.GetByID(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}

	chain, err := u.resolver.Resolve(*emp, approver.Options{Escalate: in.Escalate || u.escalates(p)})
	if err != nil {
		return nil, err
	}

	// store the normalised payload, not whatever the client sent
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	r := &request.Request{
		RequestID:  id.NewID32(),
		Kind:       in.Kind,
		EmployeeID: emp.ID,
		Payload:    body,
		StartsOn:   start,
		EndsOn:     end,
		Chain:      chain.All(),
	}
	for _, s := range chain.SelfApproved {
		r.SetTierStatus(s.Tier, request.TierApproved)
	}
	for _, s := range chain.Steps {
		r.SetTierStatus(s.Tier, request.TierPending)
	}
	first, _ := chain.First()
	// status names the tier actually outstanding, so a chain that starts
	// above Manager opens under plant manager or CEO review
	r.Status = request.ReviewStatus(first.Tier)
	r.CurrentApproverID = uint64Ptr(first.ApproverID)
	if len(chain.Steps) > 1 {
		r.NextApproverID = uint64Ptr(chain.Steps[1].ApproverID)
	}

	if err := u.requests.Create(ctx, r); err != nil {
		return nil, err
	}
	u.logger.Info(ctx, "request created", "request_id", r.RequestID, "kind", r.Kind, "shape", chain.Shape, "employee_id", r.EmployeeID)

	u.notify.NotifyApprovalNeeded(ctx, first.ApproverID, describe(r, emp))
	return r, nil
}

// Decide records an approver's decision. The new state is computed on a
// snapshot and written with a version check, so two concurrent decisions on
// the same request cannot both succeed.
func (u *Usecase) Decide(ctx context.Context, in DecideInput) (*request.Request, error) {
	if u.uow == nil {
		return nil, fmt.Errorf("workflow: no unit of work configured")
	}
	snap, err := u.requests.GetByRequestID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	next, out, err := Apply(*snap, in.Actor, in.Decision, u.cfg.Policy, u.now())
	if err != nil {
		return nil, err
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Requests.UpdateDecision(ctx, &next, snap.Version)
	})
	if err != nil {
		return nil, err
	}
	u.logger.Info(ctx, "request decided",
		"request_id", next.RequestID, "tier", out.Tier, "decision", out.Decision, "status", next.Status, "actor_id", in.Actor.ID)

	desc := u.describeByID(ctx, &next)
	switch {
	case out.Decision == request.DecisionRejected:
		u.notify.NotifyRejected(ctx, next.EmployeeID, desc, string(out.Tier))
	case out.Terminal:
		u.notify.NotifyApproved(ctx, next.EmployeeID, desc)
	case out.NextApprover != nil:
		u.notify.NotifyApprovalNeeded(ctx, *out.NextApprover, desc)
	}
	return &next, nil
}

func (u *Usecase) Get(ctx context.Context, kind request.Kind, requestID string) (*request.Request, error) {
	r, err := u.requests.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if r.Kind != kind {
		return nil, apperr.NotFound("%s request %s", kind, requestID)
	}
	return r, nil
}

// ListForApprover returns requests where approverID is the current or next approver.
func (u *Usecase) ListForApprover(ctx context.Context, kind request.Kind, approverID uint64) ([]request.Request, error) {
	return u.requests.ListForApprover(ctx, kind, approverID)
}

func (u *Usecase) ListByEmployee(ctx context.Context, kind request.Kind, employeeID uint64) ([]request.Request, error) {
	return u.requests.ListByEmployee(ctx, kind, employeeID)
}

func (u *Usecase) ListByPlant(ctx context.Context, kind request.Kind, plant string) ([]request.Request, error) {
	if plant == "" {
		return nil, apperr.Validation("plant is required")
	}
	return u.requests.ListByPlant(ctx, kind, plant)
}

func (u *Usecase) Delete(ctx context.Context, kind request.Kind, requestID string, actor Actor) error {
	if actor.Role != employee.RoleAdmin && actor.Role != employee.RoleHRManager {
		return apperr.Authorization("role %s cannot delete requests", actor.Role)
	}
	if _, err := u.Get(ctx, kind, requestID); err != nil {
		return err
	}
	if err := u.requests.Delete(ctx, requestID, actor.ID); err != nil {
		return err
	}
	u.logger.Info(ctx, "request deleted", "request_id", requestID, "actor_id", actor.ID)
	return nil
}

func (u *Usecase) RequestsPerEmployee(ctx context.Context, plant string) ([]request.EmployeeRequestCount, error) {
	return u.requests.CountPerEmployee(ctx, plant)
}

// OnLeave lists approved leave requests covering day.
func (u *Usecase) OnLeave(ctx context.Context, plant string, day time.Time) ([]request.Request, error) {
	return u.requests.ListApprovedCovering(ctx, request.KindLeave, plant, day)
}

// Statistics is the headline block of a plant dashboard. OnLeave counts
// distinct employees on approved leave on day.
func (u *Usecase) Statistics(ctx context.Context, plant string, day time.Time) (request.PlantStatistics, error) {
	var st request.PlantStatistics
	counts, err := u.requests.CountPerEmployee(ctx, plant)
	if err != nil {
		return st, err
	}
	for _, c := range counts {
		switch c.Kind {
		case request.KindLeave:
			st.LeaveRequests += c.Total
		case request.KindMission:
			st.MissionRequests += c.Total
		case request.KindAuthorization:
			st.AuthorizationRequests += c.Total
		}
	}
	staff, err := u.employees.ListByPlant(ctx, plant)
	if err != nil {
		return st, err
	}
	st.Employees = int64(len(staff))

	away, err := u.OnLeave(ctx, plant, day)
	if err != nil {
		return st, err
	}
	seen := make(map[uint64]struct{}, len(away))
	for _, r := range away {
		seen[r.EmployeeID] = struct{}{}
	}
	st.OnLeave = int64(len(seen))
	return st, nil
}

func (u *Usecase) decodePayload(kind request.Kind, raw json.RawMessage) (request.Payload, error) {
	var p request.Payload
	switch kind {
	case request.KindLeave:
		var v request.LeavePayload
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, apperr.Validation("leave payload: %v", err)
		}
		p = v
	case request.KindMission:
		var v request.MissionPayload
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, apperr.Validation("mission payload: %v", err)
		}
		p = v
	case request.KindAuthorization:
		var v request.AuthorizationPayload
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, apperr.Validation("authorization payload: %v", err)
		}
		p = v
	default:
		return nil, apperr.Validation("unknown request kind %q", kind)
	}
	if err := u.validate.Struct(p); err != nil {
		return nil, apperr.Validation("%s payload: %v", kind, err)
	}
	return p, nil
}

func (u *Usecase) escalates(p request.Payload) bool {
	m, ok := p.(request.MissionPayload)
	if !ok || !u.cfg.MissionCEOBudgetThreshold.IsPositive() {
		return false
	}
	return m.MissionBudget.GreaterThanOrEqual(u.cfg.MissionCEOBudgetThreshold)
}

func (u *Usecase) describeByID(ctx context.Context, r *request.Request) notification.Descriptor {
	emp, err := u.employees.GetByID(ctx, r.EmployeeID)
	if err != nil {
		u.logger.Warn(ctx, "employee lookup for notification failed", "employee_id", r.EmployeeID, "error", err)
		emp = &employee.Employee{ID: r.EmployeeID, FirstName: fmt.Sprintf("employee #%d", r.EmployeeID)}
	}
	return describe(r, emp)
}

func describe(r *request.Request, emp *employee.Employee) notification.Descriptor {
	period := r.StartsOn.Format(request.DateLayout)
	if !r.EndsOn.Equal(r.StartsOn) {
		period += " to " + r.EndsOn.Format(request.DateLayout)
	}
	return notification.Descriptor{
		Kind:         string(r.Kind),
		RequestID:    r.RequestID,
		EmployeeName: emp.FullName(),
		Period:       period,
	}
}
