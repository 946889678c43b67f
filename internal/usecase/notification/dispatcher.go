package notification

import (
	"context"
	"sync"

	"hrflow-backend/pkg/log"
)

// Notifier delivers a message to a user; how it gets there is up to the adapter.
type Notifier interface {
	Notify(ctx context.Context, userID uint64, subject, message string, attachments []string) error
}

// Dispatcher turns lifecycle transitions into notifications. Delivery is
// asynchronous and detached from the caller's context; failures are logged
// and never reach the caller.
type Dispatcher struct {
	notifier Notifier
	logger   log.Logger
	wg       sync.WaitGroup
}

func NewDispatcher(n Notifier, l log.Logger) *Dispatcher {
	return &Dispatcher{notifier: n, logger: l}
}

func (d *Dispatcher) NotifyApprovalNeeded(ctx context.Context, approverID uint64, desc Descriptor) {
	subject, msg := approvalNeeded(desc)
	d.dispatch(ctx, approverID, subject, msg, nil)
}

func (d *Dispatcher) NotifyApproved(ctx context.Context, employeeID uint64, desc Descriptor) {
	subject, msg := approved(desc)
	d.dispatch(ctx, employeeID, subject, msg, nil)
}

func (d *Dispatcher) NotifyRejected(ctx context.Context, employeeID uint64, desc Descriptor, tier string) {
	subject, msg := rejected(desc, tier)
	d.dispatch(ctx, employeeID, subject, msg, nil)
}

func (d *Dispatcher) NotifyCompleted(ctx context.Context, employeeID uint64, desc Descriptor, attachment string) {
	subject, msg := completed(desc)
	var files []string
	if attachment != "" {
		files = []string{attachment}
	}
	d.dispatch(ctx, employeeID, subject, msg, files)
}

// Wait blocks until every in-flight notification has finished.
func (d *Dispatcher) Wait() { d.wg.Wait() }

func (d *Dispatcher) dispatch(ctx context.Context, userID uint64, subject, msg string, files []string) {
	if d == nil || d.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.notifier.Notify(ctx, userID, subject, msg, files); err != nil {
			d.logger.Warn(ctx, "notification failed", "user_id", userID, "subject", subject, "error", err)
			return
		}
		d.logger.Debug(ctx, "notification sent", "user_id", userID, "subject", subject)
	}()
}
