package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrflow-backend/internal/domain/employee"
	"hrflow-backend/pkg/log"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var secret = []byte("test-secret")

func sign(t *testing.T, key []byte, method jwt.SigningMethod, c Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, c).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func claims(id uint64, role employee.Role, ttl time.Duration) Claims {
	return Claims{
		UserID: id,
		Role:   role,
		Plant:  "P1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
}

func setup(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	all := append([]echo.MiddlewareFunc{Middleware(secret, log.Noop())}, mw...)
	e.GET("/me", func(c echo.Context) error {
		a, ok := ActorFrom(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"id":    a.ID,
			"role":  a.Role,
			"plant": a.Plant,
			"ctx":   c.Request().Context().Value(log.ActorIDKey),
		})
	}, all...)
	return e
}

func get(e *echo.Echo, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_ValidToken(t *testing.T) {
	e := setup()
	rec := get(e, "Bearer "+sign(t, secret, jwt.SigningMethodHS256, claims(10, employee.RoleManager, time.Hour)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["id"].(float64) != 10 || body["role"] != "MANAGER" || body["plant"] != "P1" || body["ctx"] != "10" {
		t.Fatalf("body = %v", body)
	}
}

func TestMiddleware_Rejects(t *testing.T) {
	e := setup()
	noExp := claims(10, employee.RoleEmployee, time.Hour)
	noExp.ExpiresAt = nil

	cases := []struct {
		name  string
		authz string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty token", "Bearer  "},
		{"garbage", "Bearer not.a.jwt"},
		{"expired", "Bearer " + sign(t, secret, jwt.SigningMethodHS256, claims(10, employee.RoleEmployee, -time.Minute))},
		{"wrong key", "Bearer " + sign(t, []byte("other"), jwt.SigningMethodHS256, claims(10, employee.RoleEmployee, time.Hour))},
		{"other alg", "Bearer " + sign(t, secret, jwt.SigningMethodHS512, claims(10, employee.RoleEmployee, time.Hour))},
		{"no expiry", "Bearer " + sign(t, secret, jwt.SigningMethodHS256, noExp)},
		{"no user", "Bearer " + sign(t, secret, jwt.SigningMethodHS256, claims(0, employee.RoleEmployee, time.Hour))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := get(e, tc.authz); rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	e := setup(RequireRole(employee.RoleHRManager, employee.RoleAdmin))

	if rec := get(e, "Bearer "+sign(t, secret, jwt.SigningMethodHS256, claims(10, employee.RoleEmployee, time.Hour))); rec.Code != http.StatusForbidden {
		t.Fatalf("employee: status = %d, want 403", rec.Code)
	}
	if rec := get(e, "Bearer "+sign(t, secret, jwt.SigningMethodHS256, claims(40, employee.RoleHRManager, time.Hour))); rec.Code != http.StatusOK {
		t.Fatalf("hr manager: status = %d, want 200", rec.Code)
	}
}
