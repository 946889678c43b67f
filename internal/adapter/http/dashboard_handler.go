package http

import (
	"net/http"
	"time"

	"hrflow-backend/internal/adapter/auth"
	"hrflow-backend/internal/usecase/workflow"
	"hrflow-backend/pkg/log"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves plant-level read models. ?plant= defaults to the caller's plant.
type DashboardHandler struct {
	base
	uc  *workflow.Usecase
	loc *time.Location
	now func() time.Time
}

func NewDashboardHandler(uc *workflow.Usecase, loc *time.Location, l log.Logger) *DashboardHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardHandler{base: base{logger: l}, uc: uc, loc: loc, now: time.Now}
}

func plantQuery(c echo.Context) string {
	if p := c.QueryParam("plant"); p != "" {
		return p
	}
	actor, _ := auth.ActorFrom(c)
	return actor.Plant
}

func (h *DashboardHandler) RequestsPerEmployee(c echo.Context) error {
	rows, err := h.uc.RequestsPerEmployee(c.Request().Context(), plantQuery(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// OnLeave lists approved leave covering ?date= (default today).
func (h *DashboardHandler) OnLeave(c echo.Context) error {
	day, err := dateQuery(c, "date", h.loc, h.now().In(h.loc))
	if err != nil {
		return h.fail(c, err)
	}
	rs, err := h.uc.OnLeave(c.Request().Context(), plantQuery(c), day)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rs)
}

// Statistics is the headline block for ?plant=; on-leave counts ?date= (default today).
func (h *DashboardHandler) Statistics(c echo.Context) error {
	day, err := dateQuery(c, "date", h.loc, h.now().In(h.loc))
	if err != nil {
		return h.fail(c, err)
	}
	st, err := h.uc.Statistics(c.Request().Context(), plantQuery(c), day)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}
