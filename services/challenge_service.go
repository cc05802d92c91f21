package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"artSparkAPI/internal/challenge"
	"artSparkAPI/internal/logger"
	"artSparkAPI/internal/store"

	"go.uber.org/zap"
)

const (
	defaultRecentChallenges = 7
	maxRecentChallenges     = 30
)

type ChallengeService struct {
	store store.Store
	loc   *time.Location
	now   func() time.Time
}

func NewChallengeService(st store.Store, loc *time.Location) *ChallengeService {
	return &ChallengeService{
		store: st,
		loc:   loc,
		now:   time.Now,
	}
}

// Today is the current challenge id in the challenge timezone.
func (s *ChallengeService) Today() string {
	return challenge.DateKey(s.now(), s.loc)
}

// GetChallenge looks up the challenge for date, or today when date is empty.
// A missing challenge is reported through Exists rather than an error.
func (s *ChallengeService) GetChallenge(ctx context.Context, date string) (*challenge.GetChallengeResponse, error) {
	if date == "" {
		date = s.Today()
	}
	if _, err := challenge.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	ch, err := s.store.GetChallenge(ctx, date)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &challenge.GetChallengeResponse{Exists: false}, nil
		}
		return nil, translate(err, "get challenge")
	}
	return &challenge.GetChallengeResponse{Exists: true, Challenge: ch}, nil
}

// CreateChallengeForToday is idempotent: the first caller for a date stores
// the generated challenge and later callers get that stored copy back.
func (s *ChallengeService) CreateChallengeForToday(ctx context.Context, uid string) (*challenge.DailyChallenge, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	ch, _, err := s.ensureForDate(ctx, s.Today())
	return ch, err
}

// EnsureToday is the scheduled variant of CreateChallengeForToday.
func (s *ChallengeService) EnsureToday(ctx context.Context) (*challenge.DailyChallenge, bool, error) {
	return s.ensureForDate(ctx, s.Today())
}

func (s *ChallengeService) ensureForDate(ctx context.Context, date string) (*challenge.DailyChallenge, bool, error) {
	day, err := challenge.ParseDate(date)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	gen := challenge.Generate(day)
	ch, created, err := s.store.CreateChallengeIfAbsent(ctx, &challenge.DailyChallenge{
		ID:        date,
		Title:     gen.Title,
		Task:      gen.Task,
		Type:      gen.Type,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, false, translate(err, "create challenge")
	}
	if created {
		logger.Log.Info("daily challenge created",
			zap.String("challenge_id", ch.ID),
			zap.String("type", string(ch.Type)),
			zap.String("title", ch.Title),
		)
	}
	return ch, created, nil
}

// CreateManualChallenge lets an operator pin a hand-written prompt to a date
// that has no challenge yet.
func (s *ChallengeService) CreateManualChallenge(ctx context.Context, date string, req *challenge.CreateManualRequest) (*challenge.DailyChallenge, bool, error) {
	if _, err := challenge.ParseDate(date); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	title := strings.TrimSpace(req.Title)
	task := strings.TrimSpace(req.Task)
	if title == "" || task == "" {
		return nil, false, fmt.Errorf("%w: title and task are required", ErrInvalidArgument)
	}

	ch, created, err := s.store.CreateChallengeIfAbsent(ctx, &challenge.DailyChallenge{
		ID:        date,
		Title:     title,
		Task:      task,
		Type:      challenge.TypeManual,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, false, translate(err, "create manual challenge")
	}
	return ch, created, nil
}

func (s *ChallengeService) ListRecentChallenges(ctx context.Context, limit int) ([]*challenge.DailyChallenge, error) {
	switch {
	case limit <= 0:
		limit = defaultRecentChallenges
	case limit > maxRecentChallenges:
		limit = maxRecentChallenges
	}

	out, err := s.store.ListRecentChallenges(ctx, limit)
	if err != nil {
		return nil, translate(err, "list challenges")
	}
	return out, nil
}

// requireChallenge returns NotFound when challengeID has no stored challenge.
func requireChallenge(ctx context.Context, st store.Store, challengeID string) (*challenge.DailyChallenge, error) {
	if strings.TrimSpace(challengeID) == "" {
		return nil, fmt.Errorf("%w: challenge id is required", ErrInvalidArgument)
	}
	ch, err := st.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, translate(err, "challenge "+challengeID)
	}
	return ch, nil
}
