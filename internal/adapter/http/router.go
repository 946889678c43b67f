package http

import (
	"strconv"
	"time"

	"hrflow-backend/internal/adapter/auth"
	"hrflow-backend/internal/adapter/middleware"
	"hrflow-backend/internal/domain/employee"
	"hrflow-backend/pkg/log"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Health     *Handler
	Requests   *RequestHandler
	Documents  *DocumentHandler
	Attendance *AttendanceHandler
	Dashboard  *DashboardHandler
}

type RouterConfig struct {
	JWTSecret []byte
	// Redis backs the idempotency middleware; nil disables it.
	Redis          *redis.Client
	IdempotencyTTL time.Duration
	Logger         log.Logger
}

// callerScope keys idempotency entries by the authenticated user.
func callerScope(c echo.Context) string {
	a, ok := auth.ActorFrom(c)
	if !ok {
		return ""
	}
	return strconv.FormatUint(a.ID, 10)
}

// Register mounts every route on e.
func Register(e *echo.Echo, h Handlers, cfg RouterConfig) {
	e.GET("/health", h.Health.Health)

	mw := []echo.MiddlewareFunc{auth.Middleware(cfg.JWTSecret, cfg.Logger)}
	if cfg.Redis != nil {
		mw = append(mw, middleware.Idempotency(cfg.Redis, cfg.IdempotencyTTL, callerScope, cfg.Logger))
	}
	api := e.Group("", mw...)

	hr := auth.RequireRole(employee.RoleAdmin, employee.RoleHRManager)
	plantViewers := auth.RequireRole(employee.RolePlantManager, employee.RoleCEO, employee.RoleHRManager, employee.RoleAdmin)

	rq := api.Group("/requests/:kind")
	rq.POST("", h.Requests.Create)
	rq.GET("", h.Requests.ListByPlant, plantViewers)
	rq.GET("/inbox", h.Requests.Inbox)
	rq.GET("/employee/:employee_id", h.Requests.ListByEmployee)
	rq.GET("/:request_id", h.Requests.Get)
	rq.PUT("/:request_id/decision", h.Requests.Decide)
	rq.DELETE("/:request_id", h.Requests.Delete, hr)

	doc := api.Group("/documents")
	doc.POST("", h.Documents.Create)
	doc.GET("/inbox", h.Documents.Inbox)
	doc.GET("/employee/:employee_id", h.Documents.ListByEmployee)
	doc.PUT("/:request_id/fulfil", h.Documents.Fulfil)
	doc.PUT("/:request_id/reject", h.Documents.Reject)
	doc.DELETE("/:request_id", h.Documents.Delete, hr)

	att := api.Group("/attendance")
	att.POST("/ingest", h.Attendance.Ingest, hr)
	att.POST("/sync", h.Attendance.Sync, hr)
	att.POST("/devices", h.Attendance.AddDevice, hr)
	att.GET("/devices", h.Attendance.ListDevices, hr)
	att.PUT("/devices/:device_id", h.Attendance.UpdateDevice, hr)
	att.DELETE("/devices/:device_id", h.Attendance.DeleteDevice, hr)
	att.GET("/devices/:device_id/employees", h.Attendance.DeviceEmployees, hr)
	att.GET("/punches", h.Attendance.Punches, plantViewers)
	att.GET("/:employee_id/punches", h.Attendance.EmployeePunches)
	att.GET("/:employee_id/day", h.Attendance.Day)
	att.GET("/:employee_id/summary", h.Attendance.Summary)
	att.POST("/:employee_id/relabel", h.Attendance.Relabel, hr)

	dash := api.Group("/dashboard", plantViewers)
	dash.GET("/requests-per-employee", h.Dashboard.RequestsPerEmployee)
	dash.GET("/on-leave", h.Dashboard.OnLeave)
	dash.GET("/statistics", h.Dashboard.Statistics)
}
