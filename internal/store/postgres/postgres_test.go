package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"artSparkAPI/internal/attempt"
	"artSparkAPI/internal/store"
	"artSparkAPI/internal/submission"
	"artSparkAPI/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connectTestDB runs against TEST_DATABASE_URL and skips otherwise.
func connectTestDB(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := Connect(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestRecordAttemptCapUnderContention(t *testing.T) {
	s := connectTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	uid := "test-" + uuid.NewString()
	challengeID := "2099-01-01"
	_, err := s.EnsureProfile(ctx, user.NewProfile(uid, now, 0))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 12)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.RecordAttempt(ctx, uid, challengeID, attempt.Allowance{Base: 5}, now)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	capped := 0
	for err := range errs {
		if err != nil {
			require.ErrorIs(t, err, store.ErrAttemptCapReached)
			capped++
		}
	}
	assert.Equal(t, 7, capped)

	rec, err := s.GetAttempt(ctx, uid, challengeID)
	require.NoError(t, err)
	assert.Equal(t, 5, rec.AttemptsUsed)
}

func TestToggleLikeRoundTrip(t *testing.T) {
	s := connectTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	owner := "owner-" + uuid.NewString()
	fan := "fan-" + uuid.NewString()
	for _, uid := range []string{owner, fan} {
		_, err := s.EnsureProfile(ctx, user.NewProfile(uid, now, 0))
		require.NoError(t, err)
	}

	sub := &submission.Submission{
		ID:          uuid.NewString(),
		UserID:      owner,
		ChallengeID: "2099-01-02",
		Prompt:      "a lighthouse made of glass",
		ImageURL:    "https://example.com/a.png",
		CreatedAt:   now,
	}
	_, err := s.CreateSubmission(ctx, sub)
	require.NoError(t, err)

	_, err = s.CreateSubmission(ctx, &submission.Submission{ID: uuid.NewString(), UserID: owner, ChallengeID: sub.ChallengeID, CreatedAt: now})
	assert.ErrorIs(t, err, store.ErrAlreadySubmitted)

	res, err := s.ToggleLike(ctx, sub.ID, fan, now)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.NewCount)

	res, err = s.ToggleLike(ctx, sub.ID, fan, now)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 0, res.NewCount)

	p, err := s.GetProfile(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, p.TotalLikes)
	assert.Equal(t, 1, p.TotalSubmissions)
}
