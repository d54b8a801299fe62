package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

func TestScheduler_RunsUntilCancelled(t *testing.T) {
	var runs atomic.Int32
	s := New(logger.NewNop())
	s.Add("count", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	s.Wait()

	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestScheduler_SkipsWhileRunning(t *testing.T) {
	release := make(chan struct{})
	var runs atomic.Int32
	s := New(logger.NewNop())
	s.Add("slow", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		<-release
		return nil
	})
	j := s.jobs[0]
	ctx := context.Background()

	assert.True(t, s.trigger(ctx, j))
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)
	assert.False(t, s.trigger(ctx, j))

	close(release)
	s.Wait()

	// после завершения можно запускать снова
	assert.True(t, s.trigger(ctx, j))
	s.Wait()
	assert.Equal(t, int32(2), runs.Load())
}

func TestScheduler_ErrorDoesNotStopJob(t *testing.T) {
	var runs atomic.Int32
	s := New(logger.NewNop())
	s.Add("failing", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()
	s.Wait()
}

func TestScheduler_IgnoresNonPositiveInterval(t *testing.T) {
	s := New(logger.NewNop())
	s.Add("disabled", 0, func(ctx context.Context) error { return nil })
	assert.Empty(t, s.jobs)
}
