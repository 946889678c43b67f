package middleware

import (
	"errors"
	"strconv"
	"strings"
	"time"

	ids "hrflow-backend/pkg/id"

	"github.com/google/uuid"
)

// validReqID accepts a canonical lowercase RFC 4122 uuid (v1-v5) or 32 lowercase hex chars.
func validReqID(id string) bool {
	if id != strings.ToLower(id) {
		return false
	}
	switch len(id) {
	case 32:
		return ids.IsID32(id)
	case 36:
		u, err := uuid.Parse(id)
		if err != nil || u.Variant() != uuid.RFC4122 {
			return false
		}
		v := u.Version()
		return v >= 1 && v <= 5
	}
	return false
}

// parseRequestAt reads epoch seconds, epoch milliseconds, or RFC 3339 with an
// explicit zone. Zone-less timestamps are rejected.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New(HeaderRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")
}
