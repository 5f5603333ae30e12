package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/easyinterns/internal/logger"
	"github.com/jonesrussell/easyinterns/internal/pipeline"
	"github.com/jonesrussell/easyinterns/internal/scraper"
)

type stubRunner struct {
	calls   atomic.Int64
	block   chan struct{}
	lastCtx atomic.Value
}

func (r *stubRunner) Run(ctx context.Context, _ scraper.Query) (*pipeline.Result, error) {
	r.calls.Add(1)
	r.lastCtx.Store(ctx)
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
		}
	}
	return &pipeline.Result{RunID: "test-run", Scraped: 1, Written: 1}, nil
}

func TestStartInvalidSchedule(t *testing.T) {
	s := New(logger.NewNoOp(), &stubRunner{}, scraper.Query{}, "not a cron expr", 0)
	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse cron expression")
}

func TestTriggerNowSkipsWhileRunning(t *testing.T) {
	runner := &stubRunner{block: make(chan struct{})}
	s := New(logger.NewNoOp(), runner, scraper.Query{}, "0 6 * * *", 0)

	require.True(t, s.TriggerNow())

	// The first run is blocked; a second trigger must be refused.
	assert.Eventually(t, func() bool {
		return runner.calls.Load() == 1
	}, time.Second, 10*time.Millisecond)
	assert.False(t, s.TriggerNow())

	close(runner.block)
	s.Stop()
	assert.Equal(t, int64(1), runner.calls.Load())
}

func TestTriggerNowAfterRunCompletes(t *testing.T) {
	runner := &stubRunner{}
	s := New(logger.NewNoOp(), runner, scraper.Query{}, "0 6 * * *", time.Minute)

	require.True(t, s.TriggerNow())
	assert.Eventually(t, func() bool {
		return runner.calls.Load() == 1
	}, time.Second, 10*time.Millisecond)

	// Wait for release before triggering again.
	assert.Eventually(t, func() bool {
		return s.TriggerNow()
	}, time.Second, 10*time.Millisecond)
	s.Stop()
	assert.Equal(t, int64(2), runner.calls.Load())
}

func TestRunTimeoutIsApplied(t *testing.T) {
	runner := &stubRunner{}
	s := New(logger.NewNoOp(), runner, scraper.Query{}, "0 6 * * *", 30*time.Second)

	require.True(t, s.TriggerNow())
	assert.Eventually(t, func() bool {
		return runner.lastCtx.Load() != nil
	}, time.Second, 10*time.Millisecond)
	s.Stop()

	ctx, ok := runner.lastCtx.Load().(context.Context)
	require.True(t, ok)
	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}
