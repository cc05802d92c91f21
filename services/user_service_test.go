package services

import (
	"context"
	"testing"
	"time"

	"artSparkAPI/internal/leaderboard"
	"artSparkAPI/internal/store/memory"
	"artSparkAPI/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileGetOrCreateWithTrial(t *testing.T) {
	svc := NewUserService(memory.New(), 7*24*time.Hour)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	res, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, user.PlanFree, res.Profile.Plan)
	assert.Equal(t, user.PlanPro, res.EffectivePlan)
	assert.Equal(t, user.ProMaxAttempts, res.MaxAttempts)

	now = now.Add(8 * 24 * time.Hour)
	res, err = svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, user.PlanFree, res.EffectivePlan)
	assert.Equal(t, user.FreeMaxAttempts, res.MaxAttempts)

	_, err = svc.GetProfile(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUpdateSubscriptionAndIdentity(t *testing.T) {
	svc := NewUserService(memory.New(), 0)
	ctx := context.Background()

	renews := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.UpdateSubscription(ctx, user.SubscriptionUpdate{UID: "u1", Plan: user.PlanPro, RenewsAt: &renews}))
	require.NoError(t, svc.UpsertIdentity(ctx, &user.UpsertIdentityRequest{UID: "u1", DisplayName: "  Frida ", PhotoURL: "https://img/f.png"}))

	p, err := svc.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, user.PlanPro, p.Plan)
	assert.Equal(t, "Frida", p.DisplayName)
	require.NotNil(t, p.PlanRenewsAt)
	assert.True(t, renews.Equal(*p.PlanRenewsAt))

	err = svc.UpdateSubscription(ctx, user.SubscriptionUpdate{UID: "u1", Plan: "platinum"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.AddExtraAttempts(ctx, "u1", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestListLeaderboard(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	cid := h.today(t)

	a := h.submit(t, "alice", cid)
	h.submit(t, "bob", cid)
	for _, fan := range []string{"f1", "f2"} {
		_, err := h.engagement.ToggleLike(ctx, a.ID, fan)
		require.NoError(t, err)
	}

	board, err := h.users.ListLeaderboard(ctx, "", 1)
	require.NoError(t, err)
	assert.Equal(t, leaderboard.SortLikes, board.SortKey)
	require.NotEmpty(t, board.Entries)
	assert.Equal(t, "alice", board.Entries[0].UserID)
	assert.Equal(t, 2, board.Entries[0].Score)
	assert.Equal(t, 1, board.Entries[0].Rank)
	assert.Equal(t, 4, board.TotalUsers)

	board, err = h.users.ListLeaderboard(ctx, "submissions", 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", board.Entries[0].UserID)
	assert.Equal(t, "bob", board.Entries[1].UserID)

	board, err = h.users.ListLeaderboard(ctx, "submissions", 2)
	require.NoError(t, err)
	assert.Empty(t, board.Entries)

	_, err = h.users.ListLeaderboard(ctx, "karma", 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
