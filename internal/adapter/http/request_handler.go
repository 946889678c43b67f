package http

import (
	"net/http"
	"strconv"

	"hrflow-backend/internal/adapter/auth"
	"hrflow-backend/internal/domain/employee"
	"hrflow-backend/internal/domain/request"
	"hrflow-backend/internal/usecase/workflow"
	"hrflow-backend/pkg/log"

	"github.com/labstack/echo/v4"
)

// RequestHandler serves the three multi-tier request kinds behind /requests/:kind.
type RequestHandler struct {
	base
	uc            *workflow.Usecase
	leave         *workflow.Typed[request.LeavePayload]
	mission       *workflow.Typed[request.MissionPayload]
	authorization *workflow.Typed[request.AuthorizationPayload]
}

func NewRequestHandler(uc *workflow.Usecase, l log.Logger) *RequestHandler {
	return &RequestHandler{
		base:          base{logger: l},
		uc:            uc,
		leave:         workflow.NewTyped[request.LeavePayload](uc),
		mission:       workflow.NewTyped[request.MissionPayload](uc),
		authorization: workflow.NewTyped[request.AuthorizationPayload](uc),
	}
}

type requestRef struct {
	RequestID string `param:"request_id" validate:"hex32"`
}

type decideReq struct {
	Decision request.Decision `json:"decision" validate:"required,oneof=Approved Rejected"`
}

func kindParam(c echo.Context) (request.Kind, bool) {
	k := request.Kind(c.Param("kind"))
	return k, k.Valid()
}

func unknownKind(c echo.Context) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown request kind " + strconv.Quote(c.Param("kind"))})
}

func (h *RequestHandler) Create(c echo.Context) error {
	actor, _ := auth.ActorFrom(c)
	kind, ok := kindParam(c)
	if !ok {
		return unknownKind(c)
	}
	switch kind {
	case request.KindLeave:
		return submit(c, h.base, h.leave, actor)
	case request.KindMission:
		return submit(c, h.base, h.mission, actor)
	default:
		return submit(c, h.base, h.authorization, actor)
	}
}

// submit binds and validates a P payload, then files it for the caller.
// ?escalate=true forces the CEO tier.
func submit[P request.Payload](c echo.Context, b base, t *workflow.Typed[P], actor auth.Actor) error {
	var p P
	if ok, err := bindValid(c, &p); !ok {
		return err
	}
	escalate, _ := strconv.ParseBool(c.QueryParam("escalate"))
	r, err := t.Submit(c.Request().Context(), actor.ID, p, escalate)
	if err != nil {
		return b.fail(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *RequestHandler) Get(c echo.Context) error {
	kind, ok := kindParam(c)
	if !ok {
		return unknownKind(c)
	}
	ref := requestRef{RequestID: c.Param("request_id")}
	if err := c.Validate(&ref); err != nil {
		return h.fail(c, err)
	}
	r, err := h.uc.Get(c.Request().Context(), kind, ref.RequestID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *RequestHandler) Decide(c echo.Context) error {
	actor, _ := auth.ActorFrom(c)
	kind, ok := kindParam(c)
	if !ok {
		return unknownKind(c)
	}
	ref := requestRef{RequestID: c.Param("request_id")}
	if err := c.Validate(&ref); err != nil {
		return h.fail(c, err)
	}
	var req decideReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.uc.Get(ctx, kind, ref.RequestID); err != nil {
		return h.fail(c, err)
	}
	r, err := h.uc.Decide(ctx, workflow.DecideInput{
		RequestID: ref.RequestID,
		Actor:     workflow.Actor{ID: actor.ID, Role: actor.Role},
		Decision:  req.Decision,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Inbox lists what the caller has to decide now or next.
func (h *RequestHandler) Inbox(c echo.Context) error {
	actor, _ := auth.ActorFrom(c)
	kind, ok := kindParam(c)
	if !ok {
		return unknownKind(c)
	}
	rs, err := h.uc.ListForApprover(c.Request().Context(), kind, actor.ID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rs)
}

func (h *RequestHandler) ListByEmployee(c echo.Context) error {
	actor, _ := auth.ActorFrom(c)
	kind, ok := kindParam(c)
	if !ok {
		return unknownKind(c)
	}
	empID, err := employeeParam(c, actor)
	if err != nil {
		return h.fail(c, err)
	}
	rs, err := h.uc.ListByEmployee(c.Request().Context(), kind, empID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rs)
}

// ListByPlant returns the requests of the caller's plant.
func (h *RequestHandler) ListByPlant(c echo.Context) error {
	actor, _ := auth.ActorFrom(c)
	kind, ok := kindParam(c)
	if !ok {
		return unknownKind(c)
	}
	rs, err := h.uc.ListByPlant(c.Request().Context(), kind, actor.Plant)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rs)
}

func (h *RequestHandler) Delete(c echo.Context) error {
	actor, _ := auth.ActorFrom(c)
	kind, ok := kindParam(c)
	if !ok {
		return unknownKind(c)
	}
	ref := requestRef{RequestID: c.Param("request_id")}
	if err := c.Validate(&ref); err != nil {
		return h.fail(c, err)
	}
	err := h.uc.Delete(c.Request().Context(), kind, ref.RequestID, workflow.Actor{ID: actor.ID, Role: actor.Role})
	if err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// reviewers may read anyone's history; employees only their own.
var reviewers = []employee.Role{
	employee.RoleManager, employee.RolePlantManager, employee.RoleCEO, employee.RoleHRManager, employee.RoleAdmin,
}
