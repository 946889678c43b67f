package http

import (
	"net/http"
	"strconv"
	"time"

	"hrflow-backend/internal/adapter/auth"
	"hrflow-backend/internal/domain/apperr"
	domain "hrflow-backend/internal/domain/attendance"
	"hrflow-backend/internal/domain/employee"
	"hrflow-backend/internal/usecase/attendance"
	"hrflow-backend/pkg/log"

	"github.com/labstack/echo/v4"
)

type AttendanceHandler struct {
	base
	rec *attendance.Reconciler
	now func() time.Time
}

func NewAttendanceHandler(rec *attendance.Reconciler, l log.Logger) *AttendanceHandler {
	return &AttendanceHandler{base: base{logger: l}, rec: rec, now: time.Now}
}

type ingestReq struct {
	DeviceID *uint64           `json:"device_id"`
	Records  []domain.RawPunch `json:"records" validate:"required,min=1"`
}

type addDeviceReq struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"required,hostname_port"`
	Plant   string `json:"plant" validate:"omitempty,max=64"`
}

// Ingest stores a pushed batch. Per-record failures are in the body, not the status.
func (h *AttendanceHandler) Ingest(c echo.Context) error {
	var req ingestReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	ctx := c.Request().Context()
	if req.DeviceID != nil {
		if _, err := h.rec.Device(ctx, *req.DeviceID); err != nil {
			return h.fail(c, err)
		}
	}
	return c.JSON(http.StatusOK, h.rec.Ingest(ctx, req.Records, req.DeviceID))
}

// Sync polls every device, or only ?device_id= when given.
func (h *AttendanceHandler) Sync(c echo.Context) error {
	ctx := c.Request().Context()
	if v := c.QueryParam("device_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "device_id must be an integer"})
		}
		d, err := h.rec.Device(ctx, id)
		if err != nil {
			return h.fail(c, err)
		}
		res := h.rec.SyncDevice(ctx, *d)
		return c.JSON(http.StatusOK, []attendance.DeviceResult{{DeviceID: d.ID, Name: d.Name, Result: res}})
	}
	out, err := h.rec.SyncAll(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AttendanceHandler) AddDevice(c echo.Context) error {
	var req addDeviceReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	d, err := h.rec.AddDevice(c.Request().Context(), req.Name, req.Address, req.Plant)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *AttendanceHandler) UpdateDevice(c echo.Context) error {
	id, err := deviceParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req addDeviceReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	d, err := h.rec.UpdateDevice(c.Request().Context(), id, req.Name, req.Address, req.Plant)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *AttendanceHandler) DeleteDevice(c echo.Context) error {
	id, err := deviceParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.rec.DeleteDevice(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AttendanceHandler) DeviceEmployees(c echo.Context) error {
	id, err := deviceParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	emps, err := h.rec.DeviceEmployees(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, emps)
}

func (h *AttendanceHandler) ListDevices(c echo.Context) error {
	ds, err := h.rec.ListDevices(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ds)
}

// Day returns ?date= (default today) for one employee.
func (h *AttendanceHandler) Day(c echo.Context) error {
	actor, _ := auth.ActorFrom(c)
	empID, err := employeeParam(c, actor)
	if err != nil {
		return h.fail(c, err)
	}
	day, err := dateQuery(c, "date", h.rec.Location(), h.now())
	if err != nil {
		return h.fail(c, err)
	}
	d, complete, err := h.rec.DailyHours(c.Request().Context(), empID, day)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"employee_id": empID, "day": d, "complete": complete})
}

// Summary totals ?start= to ?end=; ?cap=true clamps to the monthly cap.
func (h *AttendanceHandler) Summary(c echo.Context) error {
	actor, _ := auth.ActorFrom(c)
	empID, err := employeeParam(c, actor)
	if err != nil {
		return h.fail(c, err)
	}
	loc := h.rec.Location()
	start, err := dateQuery(c, "start", loc, time.Time{})
	if err != nil {
		return h.fail(c, err)
	}
	end, err := dateQuery(c, "end", loc, time.Time{})
	if err != nil {
		return h.fail(c, err)
	}
	applyCap, _ := strconv.ParseBool(c.QueryParam("cap"))
	s, err := h.rec.SummarizeRange(c.Request().Context(), empID, start, end, applyCap)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *AttendanceHandler) Relabel(c echo.Context) error {
	actor, _ := auth.ActorFrom(c)
	empID, err := employeeParam(c, actor)
	if err != nil {
		return h.fail(c, err)
	}
	day, err := dateQuery(c, "date", h.rec.Location(), time.Time{})
	if err != nil {
		return h.fail(c, err)
	}
	n, err := h.rec.RelabelDay(c.Request().Context(), empID, day)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"employee_id": empID, "date": day.Format("2006-01-02"), "changed": n})
}

// EmployeePunches lists one employee's stored punches; see punchFilter for the window.
func (h *AttendanceHandler) EmployeePunches(c echo.Context) error {
	actor, _ := auth.ActorFrom(c)
	empID, err := employeeParam(c, actor)
	if err != nil {
		return h.fail(c, err)
	}
	f, err := h.punchFilter(c)
	if err != nil {
		return h.fail(c, err)
	}
	f.EmployeeID = empID
	return h.listPunches(c, f)
}

// Punches lists punches across employees. A plant manager only sees their
// own employees.
func (h *AttendanceHandler) Punches(c echo.Context) error {
	f, err := h.punchFilter(c)
	if err != nil {
		return h.fail(c, err)
	}
	if f.EmployeeID, err = uintQuery(c, "employee_id"); err != nil {
		return h.fail(c, err)
	}
	if f.PlantManagerID, err = uintQuery(c, "plant_manager_id"); err != nil {
		return h.fail(c, err)
	}
	if actor, _ := auth.ActorFrom(c); actor.Role == employee.RolePlantManager {
		f.PlantManagerID = actor.ID
	}
	return h.listPunches(c, f)
}

func (h *AttendanceHandler) listPunches(c echo.Context, f domain.PunchFilter) error {
	ps, err := h.rec.ListPunches(c.Request().Context(), f)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ps)
}

// punchFilter reads the window and device filter. ?period=day|week|month
// picks the period around ?date= (default today); otherwise ?from= and ?to=
// are inclusive dates, each optional.
func (h *AttendanceHandler) punchFilter(c echo.Context) (domain.PunchFilter, error) {
	var f domain.PunchFilter
	var err error
	if f.DeviceID, err = uintQuery(c, "device_id"); err != nil {
		return f, err
	}
	if v := c.QueryParam("limit"); v != "" {
		if f.Limit, err = strconv.Atoi(v); err != nil || f.Limit <= 0 {
			return f, apperr.Validation("limit must be a positive integer")
		}
	}
	loc := h.rec.Location()
	if p := c.QueryParam("period"); p != "" {
		day, err := dateQuery(c, "date", loc, h.now())
		if err != nil {
			return f, err
		}
		f.From, f.To, err = h.rec.Window(attendance.Period(p), day)
		return f, err
	}
	if c.QueryParam("from") != "" {
		from, err := dateQuery(c, "from", loc, time.Time{})
		if err != nil {
			return f, err
		}
		f.From, _ = h.rec.Span(from, from)
	}
	if c.QueryParam("to") != "" {
		to, err := dateQuery(c, "to", loc, time.Time{})
		if err != nil {
			return f, err
		}
		_, f.To = h.rec.Span(to, to)
	}
	return f, nil
}
