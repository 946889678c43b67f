package device

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hrflow-backend/internal/domain/attendance"
)

// Client talks to the HTTP bridge in front of a badge terminal:
// GET http://{address}/attendances → {"data":[{"user_id":..,"record_time":..}]}.
type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration, retries int, backoff time.Duration) *Client {
	return &Client{http: &http.Client{
		Timeout:   timeout,
		Transport: &RetryableTransport{Transport: http.DefaultTransport, RetryCount: retries, Backoff: backoff},
	}}
}

type attendanceLog struct {
	UserID     json.Number     `json:"user_id"`
	RecordTime string          `json:"record_time"`
	State      json.RawMessage `json:"state,omitempty"`
}

type attendancesResponse struct {
	Data []attendanceLog `json:"data"`
}

func (c *Client) FetchRawPunches(ctx context.Context, address string) ([]attendance.RawPunch, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+address+"/attendances", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("device bridge %s: status %d: %s", address, res.StatusCode, strings.TrimSpace(string(b)))
	}

	var body attendancesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("device bridge %s: decode: %w", address, err)
	}
	out := make([]attendance.RawPunch, 0, len(body.Data))
	for _, l := range body.Data {
		out = append(out, attendance.RawPunch{
			BadgeID:   l.UserID.String(),
			Timestamp: l.RecordTime,
			RawState:  strings.Trim(string(l.State), `"`),
		})
	}
	return out, nil
}
