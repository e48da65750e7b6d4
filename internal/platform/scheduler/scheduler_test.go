package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/xxz807/bankcore/internal/platform/scheduler"
)

type countingRunner struct {
	calls atomic.Int64
}

func (r *countingRunner) RunInterestSweep() int {
	r.calls.Add(1)
	return 0
}

func TestSchedulerTicksUntilCancelled(t *testing.T) {
	runner := &countingRunner{}
	s := scheduler.NewInterestScheduler(runner, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	assert.Eventually(t, func() bool {
		return runner.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	after := runner.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, runner.calls.Load(), "no more sweeps after cancel")
}
