package services

import (
	"context"
	"sync"
	"testing"

	"artSparkAPI/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAttemptStopsAtFreeCap(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	cid := h.today(t)

	for i := 1; i <= user.FreeMaxAttempts; i++ {
		rec, err := h.attempts.RecordAttempt(ctx, "artist", cid)
		require.NoError(t, err)
		assert.Equal(t, i, rec.AttemptsUsed)
	}

	_, err := h.attempts.RecordAttempt(ctx, "artist", cid)
	assert.ErrorIs(t, err, ErrResourceExhausted)

	status, err := h.attempts.GetAttemptStatus(ctx, "artist", cid)
	require.NoError(t, err)
	assert.Equal(t, 5, status.AttemptsUsed)
	assert.Equal(t, 0, status.Remaining)
}

func TestRecordAttemptConcurrentNeverExceedsCap(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	cid := h.today(t)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		exhausted int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.attempts.RecordAttempt(ctx, "artist", cid)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			assert.ErrorIs(t, err, ErrResourceExhausted)
			exhausted++
		}()
	}
	wg.Wait()

	assert.Equal(t, user.FreeMaxAttempts, succeeded)
	assert.Equal(t, 25-user.FreeMaxAttempts, exhausted)

	rec, err := h.store.GetAttempt(ctx, "artist", cid)
	require.NoError(t, err)
	assert.Equal(t, user.FreeMaxAttempts, rec.AttemptsUsed)
}

func TestRecordAttemptUsesPurchasedExtras(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	cid := h.today(t)

	_, err := h.users.AddExtraAttempts(ctx, "artist", 2)
	require.NoError(t, err)

	for i := 0; i < user.FreeMaxAttempts+2; i++ {
		_, err := h.attempts.RecordAttempt(ctx, "artist", cid)
		require.NoError(t, err)
	}
	_, err = h.attempts.RecordAttempt(ctx, "artist", cid)
	assert.ErrorIs(t, err, ErrResourceExhausted)

	p, err := h.users.Profile(ctx, "artist")
	require.NoError(t, err)
	assert.Equal(t, 0, p.ExtraAttempts)
}

func TestRecordAttemptProPlan(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	cid := h.today(t)

	require.NoError(t, h.users.UpdateSubscription(ctx, user.SubscriptionUpdate{UID: "pro", Plan: user.PlanPro}))

	for i := 0; i < user.ProMaxAttempts; i++ {
		_, err := h.attempts.RecordAttempt(ctx, "pro", cid)
		require.NoError(t, err)
	}
	_, err := h.attempts.RecordAttempt(ctx, "pro", cid)
	assert.ErrorIs(t, err, ErrResourceExhausted)
}

func TestRecordAttemptRejectsBeforeMutation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	cid := h.today(t)

	_, err := h.attempts.RecordAttempt(ctx, "", cid)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = h.attempts.RecordAttempt(ctx, "artist", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = h.attempts.RecordAttempt(ctx, "artist", "1999-01-01")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = h.store.GetAttempt(ctx, "artist", cid)
	assert.Error(t, err)
}
