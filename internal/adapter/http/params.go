package http

import (
	"slices"
	"strconv"
	"time"

	"hrflow-backend/internal/adapter/auth"
	"hrflow-backend/internal/domain/apperr"

	"github.com/labstack/echo/v4"
)

// employeeParam reads :employee_id; only reviewers may look past themselves.
func employeeParam(c echo.Context, actor auth.Actor) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("employee_id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("employee_id must be a positive integer")
	}
	if id != actor.ID && !slices.Contains(reviewers, actor.Role) {
		return 0, apperr.Authorization("employee %d cannot read records of employee %d", actor.ID, id)
	}
	return id, nil
}

// dateQuery reads a YYYY-MM-DD query param in loc. def is used when it is absent.
func dateQuery(c echo.Context, name string, loc *time.Location, def time.Time) (time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		if def.IsZero() {
			return time.Time{}, apperr.Validation("%s is required", name)
		}
		return def, nil
	}
	t, err := time.ParseInLocation("2006-01-02", v, loc)
	if err != nil {
		return time.Time{}, apperr.Validation("%s must be YYYY-MM-DD", name)
	}
	return t, nil
}

// uintQuery reads an optional positive integer query param; absent is 0.
func uintQuery(c echo.Context, name string) (uint64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil || n == 0 {
		return 0, apperr.Validation("%s must be a positive integer", name)
	}
	return n, nil
}

func deviceParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("device_id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("device_id must be a positive integer")
	}
	return id, nil
}
