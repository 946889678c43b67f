package device

import (
	"bytes"
	"io"
	"net/http"
	"time"
)

// RetryableTransport retries transport errors and 502/503/504 with
// exponential backoff. It stops early when the request context ends.
type RetryableTransport struct {
	Transport  http.RoundTripper
	RetryCount int
	// Backoff is the first wait; it doubles on every retry.
	Backoff time.Duration
}

func (t *RetryableTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
		body = b
	}

	var (
		resp *http.Response
		err  error
	)
	for attempt := 0; ; attempt++ {
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
		}
		resp, err = t.base().RoundTrip(req)
		if !shouldRetry(err, resp) || attempt >= t.RetryCount {
			return resp, err
		}
		// consume any response to reuse the connection.
		drainBody(resp)

		timer := time.NewTimer(t.backoff(attempt))
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		case <-timer.C:
		}
	}
}

func (t *RetryableTransport) base() http.RoundTripper {
	if t.Transport != nil {
		return t.Transport
	}
	return http.DefaultTransport
}

func (t *RetryableTransport) backoff(attempt int) time.Duration {
	b := t.Backoff
	if b <= 0 {
		b = time.Second
	}
	return b << attempt
}

func shouldRetry(err error, resp *http.Response) bool {
	if err != nil {
		return true
	}
	return resp.StatusCode == http.StatusBadGateway ||
		resp.StatusCode == http.StatusServiceUnavailable ||
		resp.StatusCode == http.StatusGatewayTimeout
}

func drainBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
