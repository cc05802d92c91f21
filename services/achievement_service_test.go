package services

import (
	"context"
	"testing"
	"time"

	"artSparkAPI/internal/achievement"
	"artSparkAPI/internal/challenge"
	"artSparkAPI/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAndAwardIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.users.Profile(ctx, "u1")
	require.NoError(t, err)

	h.achievements.CheckAndAward(ctx, "u1", achievement.FirstSpark, nil)
	h.achievements.CheckAndAward(ctx, "u1", achievement.FirstSpark, nil)

	held, err := h.store.ListUserAchievements(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, held, 1)

	p, _ := h.users.Profile(ctx, "u1")
	assert.Equal(t, 1, p.AchievementsCount)
	assert.Len(t, h.notificationsOf(t, "u1", notification.TypeAchievement), 1)
}

func TestCheckAndAwardUnknownIsNoop(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.achievements.CheckAndAward(ctx, "u1", "moon_landing", nil)

	held, err := h.store.ListUserAchievements(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, held)
}

func TestFirstSubmissionAwardsFirstSpark(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.submit(t, "artist", h.today(t))

	list, err := h.achievements.ListAchievements(ctx, "artist")
	require.NoError(t, err)
	require.Len(t, list, len(achievement.Catalog()))

	for _, a := range list {
		if a.ID == achievement.FirstSpark {
			assert.True(t, a.Unlocked)
			assert.NotNil(t, a.UnlockedAt)
		} else {
			assert.False(t, a.Unlocked, a.ID)
		}
	}
}

func TestWeeklyStreakAfterSevenConsecutiveDays(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 1, 17, 0, 0, 0, time.UTC)
	hasStreak := func() bool {
		held, err := h.store.ListUserAchievements(ctx, "artist")
		require.NoError(t, err)
		for _, ua := range held {
			if ua.ID == achievement.WeeklyStreak {
				return true
			}
		}
		return false
	}

	for day := 0; day < achievement.WeeklyStreakDays; day++ {
		at := start.AddDate(0, 0, day)
		h.clock.Set(at)
		cid := h.manualChallenge(t, challenge.DateKey(at, newYork))
		h.submit(t, "artist", cid)

		if day < achievement.WeeklyStreakDays-1 {
			assert.False(t, hasStreak(), "day %d", day)
		}
	}
	assert.True(t, hasStreak())
}
