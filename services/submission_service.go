package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"artSparkAPI/internal/logger"
	"artSparkAPI/internal/store"
	"artSparkAPI/internal/submission"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxListedSubmissions = 100

type AchievementEvaluator interface {
	CheckAndAward(ctx context.Context, uid, achievementID string, metadata map[string]any)
	EvaluateSubmissionAchievements(ctx context.Context, uid string, totalSubmissions int)
}

type SubmissionService struct {
	store        store.Store
	profiles     ProfileSource
	achievements AchievementEvaluator
	now          func() time.Time
}

func NewSubmissionService(st store.Store, profiles ProfileSource, achievements AchievementEvaluator) *SubmissionService {
	return &SubmissionService{
		store:        st,
		profiles:     profiles,
		achievements: achievements,
		now:          time.Now,
	}
}

func (s *SubmissionService) CreateSubmission(ctx context.Context, uid, challengeID string, req *submission.CreateRequest) (*submission.Submission, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrInvalidArgument)
	}
	if utf8.RuneCountInString(prompt) > submission.MaxPromptLength {
		return nil, fmt.Errorf("%w: prompt exceeds %d characters", ErrInvalidArgument, submission.MaxPromptLength)
	}
	if u, err := url.Parse(req.ImageURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: a valid image url is required", ErrInvalidArgument)
	}

	if _, err := requireChallenge(ctx, s.store, challengeID); err != nil {
		return nil, err
	}
	if _, err := s.profiles.Profile(ctx, uid); err != nil {
		return nil, err
	}

	sub := &submission.Submission{
		ID:          uuid.NewString(),
		UserID:      uid,
		ChallengeID: challengeID,
		Prompt:      prompt,
		ImageURL:    req.ImageURL,
		CreatedAt:   s.now().UTC(),
	}

	total, err := s.store.CreateSubmission(ctx, sub)
	if err != nil {
		return nil, translate(err, "create submission")
	}

	logger.Log.Info("submission created",
		zap.String("user_id", uid),
		zap.String("challenge_id", challengeID),
		zap.String("submission_id", sub.ID),
	)

	if s.achievements != nil {
		s.achievements.EvaluateSubmissionAchievements(ctx, uid, total)
	}
	return sub, nil
}

func (s *SubmissionService) GetSubmission(ctx context.Context, id string) (*submission.Submission, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: submission id is required", ErrInvalidArgument)
	}
	sub, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return nil, translate(err, "submission "+id)
	}
	return sub, nil
}

// ListChallengeSubmissions ranks like the winner job: most liked first,
// earliest first on ties.
func (s *SubmissionService) ListChallengeSubmissions(ctx context.Context, challengeID string, limit int) ([]*submission.Submission, error) {
	if _, err := requireChallenge(ctx, s.store, challengeID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxListedSubmissions {
		limit = maxListedSubmissions
	}

	out, err := s.store.ListSubmissions(ctx, challengeID, limit)
	if err != nil {
		return nil, translate(err, "list submissions")
	}
	return out, nil
}
