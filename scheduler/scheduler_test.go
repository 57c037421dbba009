package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEveryFiresRepeatedly(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var count int64
	s.Every("tick", 5*time.Millisecond, func() {
		atomic.AddInt64(&count, 1)
	})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&count) >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestEveryReplacesByName(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var old, replacement int64
	s.Every("job", 5*time.Millisecond, func() { atomic.AddInt64(&old, 1) })
	time.Sleep(15 * time.Millisecond)
	s.Every("job", 5*time.Millisecond, func() { atomic.AddInt64(&replacement, 1) })

	snap := atomic.LoadInt64(&old)
	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&replacement) >= 2
	}, time.Second, time.Millisecond)
	assert.Equal(t, snap, atomic.LoadInt64(&old), "replaced task must stop")
	assert.Equal(t, []string{"job"}, s.Names())
}

func TestPanickingTaskKeepsFiring(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var count int64
	s.Every("crashy", 5*time.Millisecond, func() {
		atomic.AddInt64(&count, 1)
		panic("boom")
	})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&count) >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestAfterRunsOnce(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var count int64
	s.After("later", time.Millisecond, func() {
		atomic.AddInt64(&count, 1)
	})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&count) == 1
	}, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), atomic.LoadInt64(&count))
}

func TestAfterReplaceCancelsOld(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var count int64
	s.After("d", 500*time.Millisecond, func() { atomic.AddInt64(&count, 1) })
	s.After("d", 5*time.Millisecond, func() { atomic.AddInt64(&count, 10) })

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&count) == 10
	}, time.Second, time.Millisecond)
}

func TestCancelStopsTask(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var count int64
	s.Every("tick", 5*time.Millisecond, func() {
		atomic.AddInt64(&count, 1)
	})
	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&count) >= 1
	}, time.Second, time.Millisecond)

	s.Cancel("tick")
	snap := atomic.LoadInt64(&count)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, snap, atomic.LoadInt64(&count))
	assert.Empty(t, s.Names())
}

func TestCancelUnknownNameIsNoop(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()
	assert.NotPanics(t, func() { s.Cancel("nope") })
}

func TestStopIsIdempotent(t *testing.T) {
	s := New(zap.NewNop())
	s.Stop()
	assert.NotPanics(t, s.Stop)
}
