package notifiermock

import (
	"context"
	"sync"
)

type Call struct {
	UserID      uint64
	Subject     string
	Message     string
	Attachments []string
}

// Notifier records every call; NotifyFn, when set, decides the returned error.
type Notifier struct {
	NotifyFn func(ctx context.Context, userID uint64, subject, message string, attachments []string) error

	mu    sync.Mutex
	calls []Call
}

func (m *Notifier) Notify(ctx context.Context, userID uint64, subject, message string, attachments []string) error {
	m.mu.Lock()
	m.calls = append(m.calls, Call{UserID: userID, Subject: subject, Message: message, Attachments: attachments})
	m.mu.Unlock()
	if m.NotifyFn != nil {
		return m.NotifyFn(ctx, userID, subject, message, attachments)
	}
	return nil
}

func (m *Notifier) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *Notifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
