package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"hrflow-backend/pkg/log"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderRequestAt = "X-Request-At"

	keyPrefix = "idemp:hr:"

	// an abandoned reservation frees itself after this long
	provisionalLockTTL = 60 * time.Second
	maxClockSkew       = 10 * time.Minute
)

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	if r.buf != nil {
		r.buf.Write(b)
	}
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

// ScopeFunc names the caller a key belongs to; "" means unauthenticated.
type ScopeFunc func(c echo.Context) string

// Idempotency replays the stored response of a mutating request whose
// X-Request-Id was already seen for the same caller and route.
// Responses of 5xx are dropped so the client can retry.
func Idempotency(rdb *redis.Client, ttl time.Duration, scope ScopeFunc, l log.Logger) echo.MiddlewareFunc {
	store := entryStore{rdb: rdb, ttl: ttl}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			method := req.Method

			switch method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			reqID := strings.ToLower(strings.TrimSpace(req.Header.Get(HeaderRequestID)))
			if reqID == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing " + HeaderRequestID})
			}
			if !validReqID(reqID) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderRequestID + " format"})
			}

			reqAt, err := parseRequestAt(req.Header.Get(HeaderRequestAt))
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			now := time.Now().UTC()
			if reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": HeaderRequestAt + " too skewed"})
			}

			caller := scope(c)
			if caller == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			}

			ctx := context.WithValue(req.Context(), log.RequestIDKey, reqID)
			req = req.WithContext(ctx)
			c.SetRequest(req)

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewBuffer(body))
			bhash := bodyHash(body)

			key := buildKey(method, c.Path(), caller, reqID)
			sctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()

			entry := idempEntry{
				BodySHA256:  bhash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   now,
			}
			ok, err := store.reserve(sctx, key, entry)
			if err != nil {
				l.Error(ctx, "idempotency store unavailable", "error", err)
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !ok {
				cur, found, errLoad := store.load(sctx, key)
				if errLoad != nil {
					l.Warn(ctx, "idempotency entry load failed", "key", key, "error", errLoad)
				}
				if !found && errLoad == nil {
					// expired or released between SETNX and GET
					return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress, retry"})
				}

				if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
					return c.JSON(http.StatusConflict, map[string]string{"error": HeaderRequestID + " reused with different body"})
				}
				if !cur.InProgress && cur.Code != 0 && len(cur.Body) > 0 {
					l.Debug(ctx, "idempotent replay", "key", key, "code", cur.Code)
					return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
				}
				return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
			}

			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			bg := context.WithoutCancel(ctx)
			if rec.code >= http.StatusInternalServerError {
				if err := store.release(bg, key); err != nil {
					l.Warn(ctx, "idempotency entry release failed", "key", key, "error", err)
				}
				return nil
			}
			entry.Code = rec.code
			entry.Body = rec.buf.Bytes()
			if err := store.complete(bg, key, entry); err != nil {
				l.Warn(ctx, "idempotency entry save failed", "key", key, "error", err)
			}
			return nil
		}
	}
}
