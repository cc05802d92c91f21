package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"artSparkAPI/internal/achievement"
	"artSparkAPI/internal/attempt"
	"artSparkAPI/internal/store"
	"artSparkAPI/internal/submission"
	"artSparkAPI/internal/user"
	"artSparkAPI/internal/winner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func seedProfile(t *testing.T, s *Store, uid string) {
	t.Helper()
	_, err := s.EnsureProfile(context.Background(), user.NewProfile(uid, t0, 0))
	require.NoError(t, err)
}

func TestRecordAttemptConcurrentCap(t *testing.T) {
	s := New()
	seedProfile(t, s, "u1")

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, capped := 0, 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.RecordAttempt(context.Background(), "u1", "2025-03-10", attempt.Allowance{Base: 5}, t0)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, store.ErrAttemptCapReached) {
				capped++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, 15, capped)
	rec, err := s.GetAttempt(context.Background(), "u1", "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 5, rec.AttemptsUsed)
}

func TestRecordAttemptConsumesExtras(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedProfile(t, s, "u1")
	_, err := s.AddExtraAttempts(ctx, "u1", 1, t0)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := s.RecordAttempt(ctx, "u1", "c", attempt.Allowance{Base: 1}, t0)
		require.NoError(t, err)
	}
	_, err = s.RecordAttempt(ctx, "u1", "c", attempt.Allowance{Base: 1}, t0)
	assert.ErrorIs(t, err, store.ErrAttemptCapReached)

	p, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.ExtraAttempts)
}

func TestToggleLikeIsInverse(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedProfile(t, s, "owner")
	seedProfile(t, s, "fan")

	_, err := s.CreateSubmission(ctx, &submission.Submission{ID: "s1", UserID: "owner", ChallengeID: "c", CreatedAt: t0})
	require.NoError(t, err)

	res, err := s.ToggleLike(ctx, "s1", "fan", t0)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.NewCount)

	owner, _ := s.GetProfile(ctx, "owner")
	assert.Equal(t, 1, owner.TotalLikes)

	res, err = s.ToggleLike(ctx, "s1", "fan", t0)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 0, res.NewCount)

	owner, _ = s.GetProfile(ctx, "owner")
	assert.Equal(t, 0, owner.TotalLikes)

	sub, err := s.GetSubmission(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, sub.Likes)

	_, err = s.ToggleLike(ctx, "missing", "fan", t0)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateSubmissionOncePerChallenge(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedProfile(t, s, "u1")

	total, err := s.CreateSubmission(ctx, &submission.Submission{ID: "a", UserID: "u1", ChallengeID: "c", CreatedAt: t0})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, err = s.CreateSubmission(ctx, &submission.Submission{ID: "b", UserID: "u1", ChallengeID: "c", CreatedAt: t0})
	assert.ErrorIs(t, err, store.ErrAlreadySubmitted)
}

func TestTopSubmissionTieBreak(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, uid := range []string{"a", "b", "fan"} {
		seedProfile(t, s, uid)
	}
	_, err := s.CreateSubmission(ctx, &submission.Submission{ID: "late", UserID: "b", ChallengeID: "c", CreatedAt: t0.Add(time.Hour)})
	require.NoError(t, err)
	_, err = s.CreateSubmission(ctx, &submission.Submission{ID: "early", UserID: "a", ChallengeID: "c", CreatedAt: t0})
	require.NoError(t, err)

	_, err = s.ToggleLike(ctx, "late", "fan", t0)
	require.NoError(t, err)
	_, err = s.ToggleLike(ctx, "early", "fan", t0)
	require.NoError(t, err)

	top, err := s.TopSubmission(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "early", top.ID)

	_, err = s.TopSubmission(ctx, "other")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAwardAchievementOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedProfile(t, s, "u1")

	a, _ := achievement.Lookup(achievement.FirstSpark)
	ua := &achievement.UserAchievement{Achievement: a, UserID: "u1", UnlockedAt: t0}

	created, err := s.AwardAchievement(ctx, ua)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.AwardAchievement(ctx, ua)
	require.NoError(t, err)
	assert.False(t, created)

	p, _ := s.GetProfile(ctx, "u1")
	assert.Equal(t, 1, p.AchievementsCount)
}

func TestCreateDailyWinnerIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.CreateDailyWinner(ctx, &winner.DailyWinner{Date: "2025-03-09", SubmissionID: "s1"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.CreateDailyWinner(ctx, &winner.DailyWinner{Date: "2025-03-09", SubmissionID: "s2"})
	require.NoError(t, err)
	assert.False(t, created)

	w, err := s.GetDailyWinner(ctx, "2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, "s1", w.SubmissionID)
}
