package auth

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"hrflow-backend/internal/domain/employee"
	"hrflow-backend/pkg/log"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Tokens are issued by the HR directory; this service only verifies them.
type Claims struct {
	UserID uint64        `json:"user_id"`
	Role   employee.Role `json:"role"`
	Plant  string        `json:"plant_connection"`
	jwt.RegisteredClaims
}

// Actor is the authenticated caller.
type Actor struct {
	ID    uint64
	Role  employee.Role
	Plant string
}

const actorKey = "auth.actor"

var errNoToken = errors.New("missing bearer token")

// Middleware verifies an HS256 bearer token and stores the Actor on the echo context.
func Middleware(secret []byte, l log.Logger) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	keyFn := func(*jwt.Token) (any, error) { return secret, nil }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
			}
			var claims Claims
			if _, err := parser.ParseWithClaims(raw, &claims, keyFn); err != nil {
				l.Debug(c.Request().Context(), "token rejected", "error", err)
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}
			if claims.UserID == 0 {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "token carries no user"})
			}

			a := Actor{ID: claims.UserID, Role: claims.Role, Plant: claims.Plant}
			c.Set(actorKey, a)
			ctx := context.WithValue(c.Request().Context(), log.ActorIDKey, strconv.FormatUint(a.ID, 10))
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func bearer(header string) (string, error) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
		return "", errNoToken
	}
	return strings.TrimSpace(tok), nil
}

func ActorFrom(c echo.Context) (Actor, bool) {
	a, ok := c.Get(actorKey).(Actor)
	return a, ok
}

// RequireRole lets through only actors holding one of roles. It must run after Middleware.
func RequireRole(roles ...employee.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			a, ok := ActorFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			}
			if !slices.Contains(roles, a.Role) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "role " + string(a.Role) + " not allowed"})
			}
			return next(c)
		}
	}
}
