package services

import (
	"context"
	"errors"
	"time"

	"artSparkAPI/internal/attempt"
	"artSparkAPI/internal/logger"
	"artSparkAPI/internal/store"

	"go.uber.org/zap"
)

type AttemptService struct {
	store    store.Store
	profiles ProfileSource
	now      func() time.Time
}

func NewAttemptService(st store.Store, profiles ProfileSource) *AttemptService {
	return &AttemptService{
		store:    st,
		profiles: profiles,
		now:      time.Now,
	}
}

// RecordAttempt counts one image generation against the caller's allowance
// for challengeID. The check and the increment commit together; at the cap
// the call fails with ErrResourceExhausted and nothing changes.
func (s *AttemptService) RecordAttempt(ctx context.Context, uid, challengeID string) (*attempt.Record, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	if _, err := requireChallenge(ctx, s.store, challengeID); err != nil {
		return nil, err
	}

	profile, err := s.profiles.Profile(ctx, uid)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rec, err := s.store.RecordAttempt(ctx, uid, challengeID, attempt.Allowance{Base: profile.BaseMaxAttempts(now)}, now)
	if err != nil {
		if errors.Is(err, store.ErrAttemptCapReached) {
			attemptOutcomes.WithLabelValues("exhausted").Inc()
		} else {
			attemptOutcomes.WithLabelValues("error").Inc()
		}
		return nil, translate(err, "record attempt")
	}

	attemptOutcomes.WithLabelValues("recorded").Inc()
	logger.Log.Debug("attempt recorded",
		zap.String("user_id", uid),
		zap.String("challenge_id", challengeID),
		zap.Int("attempts_used", rec.AttemptsUsed),
	)
	return rec, nil
}

func (s *AttemptService) GetAttemptStatus(ctx context.Context, uid, challengeID string) (*attempt.Status, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	if _, err := requireChallenge(ctx, s.store, challengeID); err != nil {
		return nil, err
	}

	profile, err := s.profiles.Profile(ctx, uid)
	if err != nil {
		return nil, err
	}

	status := &attempt.Status{
		ChallengeID:   challengeID,
		MaxAttempts:   profile.BaseMaxAttempts(s.now()),
		ExtraAttempts: profile.ExtraAttempts,
	}

	rec, err := s.store.GetAttempt(ctx, uid, challengeID)
	switch {
	case err == nil:
		status.AttemptsUsed = rec.AttemptsUsed
		status.HasSubmitted = rec.HasSubmitted
	case errors.Is(err, store.ErrNotFound):
	default:
		return nil, translate(err, "get attempt")
	}

	status.Remaining = status.MaxAttempts - status.AttemptsUsed
	if status.Remaining < 0 {
		status.Remaining = 0
	}
	status.Remaining += status.ExtraAttempts
	return status, nil
}
