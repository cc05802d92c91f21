package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRun(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "later today",
			now:  time.Date(2025, 3, 10, 0, 1, 0, 0, ny),
			want: time.Date(2025, 3, 10, 0, 5, 0, 0, ny),
		},
		{
			name: "exactly at run time rolls to tomorrow",
			now:  time.Date(2025, 3, 10, 0, 5, 0, 0, ny),
			want: time.Date(2025, 3, 11, 0, 5, 0, 0, ny),
		},
		{
			name: "utc evening is still the same local day",
			now:  time.Date(2025, 3, 11, 2, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 11, 0, 5, 0, 0, ny),
		},
		{
			name: "month boundary",
			now:  time.Date(2025, 1, 31, 12, 0, 0, 0, ny),
			want: time.Date(2025, 2, 1, 0, 5, 0, 0, ny),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextRun("5 0 * * *", tc.now, ny)
			require.NoError(t, err)
			assert.True(t, got.Equal(tc.want), "got %s want %s", got, tc.want)
		})
	}
}

func TestNextRunAcrossSpringForward(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2025-03-09 is 23 hours long in New York.
	now := time.Date(2025, 3, 9, 0, 5, 0, 0, ny)
	next, err := NextRun("5 0 * * *", now, ny)
	require.NoError(t, err)
	assert.Equal(t, 23*time.Hour, next.Sub(now))
	assert.Equal(t, 10, next.Day())
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, 5, next.Minute())
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := NewScheduler(time.UTC, Job{Name: "bad", Spec: "every day", Run: func(context.Context) error { return nil }})
	assert.Error(t, s.Start(context.Background()))
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(time.UTC, Job{
		Name: "noop",
		Spec: "0 0 * * *",
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Zero(t, runs.Load())
}

func TestSchedulerRunsDueJob(t *testing.T) {
	ran := make(chan struct{}, 1)

	s := NewScheduler(time.UTC, Job{
		Name: "due",
		Spec: "@every 1s",
		Run: func(ctx context.Context) error {
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}
