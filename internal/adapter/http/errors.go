package http

import (
	"errors"
	"net/http"

	"hrflow-backend/internal/domain/apperr"
	"hrflow-backend/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Map domain errors → HTTP codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrExternalService):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

type base struct{ logger log.Logger }

func (b base) fail(c echo.Context, err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		b.logger.Error(c.Request().Context(), "request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

// bindValid binds the body into dst and validates it. It writes the error
// response itself and reports whether the handler may continue.
func bindValid(c echo.Context, dst any) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(dst); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
