package attendance

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	domain "hrflow-backend/internal/domain/attendance"
	"hrflow-backend/pkg/log"

	"github.com/stretchr/testify/assert"
)

type countingSyncer struct {
	calls atomic.Int32
	err   error
}

func (c *countingSyncer) SyncAll(context.Context) ([]DeviceResult, error) {
	c.calls.Add(1)
	return []DeviceResult{{DeviceID: 1, Result: domain.IngestResult{Added: 2}}}, c.err
}

func TestSyncScheduler_RunsImmediatelyThenOnTick(t *testing.T) {
	c := &countingSyncer{}
	s := NewSyncScheduler(c, 10*time.Millisecond, log.Noop())
	s.Start(context.Background())
	s.Start(context.Background()) // second start is ignored

	assert.Eventually(t, func() bool { return c.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()
	n := c.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, c.calls.Load(), "no pass after Stop")
	s.Stop()
}

func TestSyncScheduler_DisabledAndFailures(t *testing.T) {
	c := &countingSyncer{}
	off := NewSyncScheduler(c, 0, log.Noop())
	off.Start(context.Background())
	off.Stop()
	assert.Equal(t, int32(0), c.calls.Load())

	failing := &countingSyncer{err: errors.New("db down")}
	s := NewSyncScheduler(failing, time.Hour, log.Noop())
	s.Start(context.Background())
	assert.Eventually(t, func() bool { return failing.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestSyncScheduler_StopsWithParentContext(t *testing.T) {
	c := &countingSyncer{}
	ctx, cancel := context.WithCancel(context.Background())
	s := NewSyncScheduler(c, time.Hour, log.Noop())
	s.Start(ctx)
	assert.Eventually(t, func() bool { return c.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	s.Stop()
}
