package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"artSparkAPI/internal/notification"
	"artSparkAPI/internal/store"
	"artSparkAPI/internal/winner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingTagStore struct {
	store.Store
}

func (failingTagStore) TagWinner(ctx context.Context, submissionID, date string, at time.Time) error {
	return errors.New("tag write rejected")
}

type failingNotifier struct{}

func (failingNotifier) Notify(ctx context.Context, req *notification.CreateNotificationRequest) error {
	return errors.New("notification backend down")
}

// seedTie creates two submissions with 5 likes each on date, the first one
// hour earlier than the second.
func (h *harness) seedTie(t *testing.T, date string) (early, late string) {
	t.Helper()
	ctx := context.Background()
	cid := h.manualChallenge(t, date)

	t0 := time.Date(2025, 3, 9, 14, 0, 0, 0, time.UTC)
	h.clock.Set(t0)
	s1 := h.submit(t, "first", cid)
	h.clock.Set(t0.Add(time.Hour))
	s2 := h.submit(t, "second", cid)

	for i := 0; i < 5; i++ {
		for _, id := range []string{s2.ID, s1.ID} {
			_, err := h.engagement.ToggleLike(ctx, id, fmt.Sprintf("fan-%d", i))
			require.NoError(t, err)
		}
	}
	return s1.ID, s2.ID
}

func TestDetermineWinnerBreaksTieByEarliest(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	early, _ := h.seedTie(t, "2025-03-09")

	report, err := h.winners.DetermineWinner(ctx, "2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, winner.StatusCompleted, report.Status)
	require.NotNil(t, report.Winner)
	assert.Equal(t, early, report.Winner.SubmissionID)
	assert.Equal(t, "first", report.Winner.UserID)
	assert.Equal(t, 5, report.Winner.LikesCount)

	sub, err := h.submissions.GetSubmission(ctx, early)
	require.NoError(t, err)
	require.NotNil(t, sub.WinnerDate)
	assert.Equal(t, "2025-03-09", *sub.WinnerDate)
	assert.NotNil(t, sub.WonAt)

	assert.Len(t, h.notificationsOf(t, "first", notification.TypeWinner), 1)
}

func TestDetermineWinnerSecondRunIsGuarded(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	early, late := h.seedTie(t, "2025-03-09")

	_, err := h.winners.DetermineWinner(ctx, "2025-03-09")
	require.NoError(t, err)

	// Late submission overtakes; the settled winner must not change.
	_, err = h.engagement.ToggleLike(ctx, late, "late-fan")
	require.NoError(t, err)

	report, err := h.winners.DetermineWinner(ctx, "2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, winner.StatusAlreadyDetermined, report.Status)
	assert.Equal(t, early, report.Winner.SubmissionID)
	assert.Len(t, h.notificationsOf(t, "first", notification.TypeWinner), 1)
	assert.Empty(t, h.notificationsOf(t, "second", notification.TypeWinner))
}

func TestDetermineWinnerNoops(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	report, err := h.winners.DetermineWinner(ctx, "2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, winner.StatusNoChallenge, report.Status)

	h.manualChallenge(t, "2025-03-02")
	report, err = h.winners.DetermineWinner(ctx, "2025-03-02")
	require.NoError(t, err)
	assert.Equal(t, winner.StatusNoSubmissions, report.Status)

	_, err = h.winners.DetermineWinner(ctx, "03/02/2025")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDetermineWinnerSideEffectsAreBestEffort(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	early, _ := h.seedTie(t, "2025-03-09")

	ws := NewWinnerService(failingTagStore{Store: h.store}, failingNotifier{}, newYork)
	ws.now = h.clock.Now

	report, err := ws.DetermineWinner(ctx, "2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, winner.StatusPartial, report.Status)
	assert.NotEmpty(t, report.TagError)
	assert.NotEmpty(t, report.NotifyError)

	// The commit point survived both failures.
	w, err := h.winners.GetWinner(ctx, "2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, early, w.SubmissionID)

	sub, _ := h.submissions.GetSubmission(ctx, early)
	assert.Nil(t, sub.WinnerDate)
}

func TestRunDailyWinnerJobSettlesYesterdayInChallengeTimezone(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedTie(t, "2025-03-08")

	// 03:00 UTC on the 10th is still the evening of the 9th in New York.
	h.clock.Set(time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-03-08", h.winners.Yesterday())

	report, err := h.winners.RunDailyWinnerJob(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-08", report.Date)
	assert.Equal(t, winner.StatusCompleted, report.Status)

	recent, err := h.winners.ListRecentWinners(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "2025-03-08", recent[0].Date)
}
