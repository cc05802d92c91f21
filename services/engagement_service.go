package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"artSparkAPI/internal/achievement"
	"artSparkAPI/internal/logger"
	"artSparkAPI/internal/notification"
	"artSparkAPI/internal/store"
	"artSparkAPI/internal/submission"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const commentPreviewLength = 80

type EngagementService struct {
	store        store.Store
	profiles     ProfileSource
	notifier     Notifier
	achievements AchievementEvaluator
	now          func() time.Time
}

func NewEngagementService(st store.Store, profiles ProfileSource, notifier Notifier, achievements AchievementEvaluator) *EngagementService {
	return &EngagementService{
		store:        st,
		profiles:     profiles,
		notifier:     notifier,
		achievements: achievements,
		now:          time.Now,
	}
}

// ToggleLike flips uid's like on a submission. Membership and likesCount
// change in the same commit.
func (s *EngagementService) ToggleLike(ctx context.Context, submissionID, uid string) (*submission.LikeResult, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	if strings.TrimSpace(submissionID) == "" {
		return nil, fmt.Errorf("%w: submission id is required", ErrInvalidArgument)
	}

	res, err := s.store.ToggleLike(ctx, submissionID, uid, s.now().UTC())
	if err != nil {
		return nil, translate(err, "submission "+submissionID)
	}

	if !res.Liked {
		engagementEvents.WithLabelValues("unlike").Inc()
		return res, nil
	}
	engagementEvents.WithLabelValues("like").Inc()

	if uid != res.OwnerID {
		s.notify(ctx, &notification.CreateNotificationRequest{
			UserID:       res.OwnerID,
			Type:         notification.TypeLike,
			Title:        "New like",
			Message:      fmt.Sprintf("%s liked your submission", s.actorName(ctx, uid)),
			SubmissionID: submissionID,
			ActorID:      uid,
		})
	}

	// NewCount is prior+1 on this path.
	if res.NewCount >= achievement.CrowdFavoriteLikes && s.achievements != nil {
		s.achievements.CheckAndAward(ctx, res.OwnerID, achievement.CrowdFavorite, map[string]any{
			"submissionId": submissionID,
			"likesCount":   res.NewCount,
		})
	}
	return res, nil
}

// AddComment appends a comment with the author's name and photo as they are
// now. Validation happens before anything is written.
func (s *EngagementService) AddComment(ctx context.Context, submissionID, uid, text string) (*submission.Comment, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrInvalidArgument)
	}
	if utf8.RuneCountInString(text) > submission.MaxCommentLength {
		return nil, fmt.Errorf("%w: comment exceeds %d characters", ErrInvalidArgument, submission.MaxCommentLength)
	}
	if strings.TrimSpace(submissionID) == "" {
		return nil, fmt.Errorf("%w: submission id is required", ErrInvalidArgument)
	}

	author, err := s.profiles.Profile(ctx, uid)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("%w: comment id: %v", ErrInternal, err)
	}

	res, err := s.store.AddComment(ctx, &submission.Comment{
		ID:             id.String(),
		SubmissionID:   submissionID,
		UserID:         uid,
		AuthorName:     displayName(author.DisplayName),
		AuthorPhotoURL: author.PhotoURL,
		Text:           text,
		CreatedAt:      s.now().UTC(),
	})
	if err != nil {
		return nil, translate(err, "submission "+submissionID)
	}
	engagementEvents.WithLabelValues("comment").Inc()

	if uid != res.OwnerID {
		s.notify(ctx, &notification.CreateNotificationRequest{
			UserID:       res.OwnerID,
			Type:         notification.TypeComment,
			Title:        "New comment",
			Message:      fmt.Sprintf("%s commented: %s", res.Comment.AuthorName, preview(text)),
			SubmissionID: submissionID,
			ChallengeID:  res.ChallengeID,
			ActorID:      uid,
		})
	}

	if res.CommenterTotalComments >= achievement.CriticComments && s.achievements != nil {
		s.achievements.CheckAndAward(ctx, uid, achievement.Critic, map[string]any{
			"totalComments": res.CommenterTotalComments,
		})
	}
	return res.Comment, nil
}

func (s *EngagementService) notify(ctx context.Context, req *notification.CreateNotificationRequest) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, req); err != nil {
		logger.Log.Warn("failed to create notification",
			zap.String("user_id", req.UserID),
			zap.String("type", string(req.Type)),
			zap.Error(err),
		)
	}
}

func (s *EngagementService) actorName(ctx context.Context, uid string) string {
	p, err := s.profiles.Profile(ctx, uid)
	if err != nil {
		return displayName("")
	}
	return displayName(p.DisplayName)
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Someone"
	}
	return name
}

func preview(text string) string {
	r := []rune(text)
	if len(r) <= commentPreviewLength {
		return text
	}
	return string(r[:commentPreviewLength]) + "..."
}
