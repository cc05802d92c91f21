package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"artSparkAPI/internal/leaderboard"
	"artSparkAPI/internal/logger"
	"artSparkAPI/internal/store"
	"artSparkAPI/internal/user"

	"go.uber.org/zap"
)

// ProfileSource resolves a caller to their profile, creating it on first use.
type ProfileSource interface {
	Profile(ctx context.Context, uid string) (*user.Profile, error)
}

type UserService struct {
	store store.Store
	trial time.Duration
	now   func() time.Time
}

func NewUserService(st store.Store, trial time.Duration) *UserService {
	return &UserService{
		store: st,
		trial: trial,
		now:   time.Now,
	}
}

// Profile returns the stored profile for uid, writing the defaulted profile
// (free plan, trial, zero counters) the first time uid is seen.
func (s *UserService) Profile(ctx context.Context, uid string) (*user.Profile, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}

	p, err := s.store.GetProfile(ctx, uid)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, translate(err, "get profile")
	}

	p, err = s.store.EnsureProfile(ctx, user.NewProfile(uid, s.now().UTC(), s.trial))
	if err != nil {
		return nil, translate(err, "create profile")
	}
	logger.Log.Info("profile created", zap.String("user_id", uid))
	return p, nil
}

func (s *UserService) GetProfile(ctx context.Context, uid string) (*user.ProfileResponse, error) {
	p, err := s.Profile(ctx, uid)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &user.ProfileResponse{
		Profile:       p,
		EffectivePlan: p.EffectivePlan(now),
		MaxAttempts:   p.BaseMaxAttempts(now),
	}, nil
}

// UpsertIdentity mirrors identity-provider display fields onto the profile.
func (s *UserService) UpsertIdentity(ctx context.Context, req *user.UpsertIdentityRequest) error {
	if _, err := s.Profile(ctx, req.UID); err != nil {
		return err
	}
	err := s.store.UpdateIdentity(ctx, req.UID, strings.TrimSpace(req.DisplayName), req.PhotoURL, s.now().UTC())
	return translate(err, "update identity")
}

func (s *UserService) UpdateSubscription(ctx context.Context, upd user.SubscriptionUpdate) error {
	if upd.Plan != user.PlanFree && upd.Plan != user.PlanPro {
		return fmt.Errorf("%w: unknown plan %q", ErrInvalidArgument, upd.Plan)
	}
	if _, err := s.Profile(ctx, upd.UID); err != nil {
		return err
	}
	if err := s.store.UpdateSubscription(ctx, upd, s.now().UTC()); err != nil {
		return translate(err, "update subscription")
	}
	logger.Log.Info("subscription updated", zap.String("user_id", upd.UID), zap.String("plan", string(upd.Plan)))
	return nil
}

// AddExtraAttempts credits purchased attempts and returns the new balance.
func (s *UserService) AddExtraAttempts(ctx context.Context, uid string, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive", ErrInvalidArgument)
	}
	if _, err := s.Profile(ctx, uid); err != nil {
		return 0, err
	}
	balance, err := s.store.AddExtraAttempts(ctx, uid, n, s.now().UTC())
	if err != nil {
		return 0, translate(err, "add extra attempts")
	}
	logger.Log.Info("extra attempts credited", zap.String("user_id", uid), zap.Int("quantity", n), zap.Int("balance", balance))
	return balance, nil
}

func (s *UserService) ListLeaderboard(ctx context.Context, sortKey string, page int) (*leaderboard.Leaderboard, error) {
	key, err := leaderboard.ParseSortKey(sortKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if page < 1 {
		page = 1
	}

	entries, total, err := s.store.ListLeaderboard(ctx, key, leaderboard.PageSize, (page-1)*leaderboard.PageSize)
	if err != nil {
		return nil, translate(err, "leaderboard")
	}

	return &leaderboard.Leaderboard{
		SortKey:    key,
		Entries:    entries,
		Page:       page,
		PageSize:   leaderboard.PageSize,
		TotalUsers: total,
	}, nil
}
