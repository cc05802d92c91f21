package services

import (
	"context"
	"fmt"
	"time"

	"artSparkAPI/internal/achievement"
	"artSparkAPI/internal/logger"
	"artSparkAPI/internal/notification"
	"artSparkAPI/internal/store"

	"go.uber.org/zap"
)

type AchievementService struct {
	store    store.Store
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
}

func NewAchievementService(st store.Store, notifier Notifier, loc *time.Location) *AchievementService {
	return &AchievementService{
		store:    st,
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
	}
}

// CheckAndAward grants achievementID to uid once. It never fails the caller:
// every error is logged and dropped.
func (s *AchievementService) CheckAndAward(ctx context.Context, uid, achievementID string, metadata map[string]any) {
	def, ok := achievement.Lookup(achievementID)
	if !ok || uid == "" {
		return
	}

	ua := &achievement.UserAchievement{
		Achievement: def,
		UserID:      uid,
		Metadata:    metadata,
		UnlockedAt:  s.now().UTC(),
	}

	created, err := s.store.AwardAchievement(ctx, ua)
	if err != nil {
		logger.Log.Error("failed to award achievement",
			zap.String("user_id", uid),
			zap.String("achievement", achievementID),
			zap.Error(err),
		)
		return
	}
	if !created {
		return
	}

	achievementsAwarded.WithLabelValues(achievementID).Inc()
	logger.Log.Info("achievement unlocked", zap.String("user_id", uid), zap.String("achievement", achievementID))

	if s.notifier == nil {
		return
	}
	err = s.notifier.Notify(ctx, &notification.CreateNotificationRequest{
		UserID:        uid,
		Type:          notification.TypeAchievement,
		Title:         "Achievement unlocked",
		Message:       fmt.Sprintf("%s %s: %s", def.Icon, def.Name, def.Description),
		AchievementID: def.ID,
	})
	if err != nil {
		logger.Log.Warn("failed to notify achievement",
			zap.String("user_id", uid),
			zap.String("achievement", achievementID),
			zap.Error(err),
		)
	}
}

// EvaluateSubmissionAchievements runs after a submission commits.
func (s *AchievementService) EvaluateSubmissionAchievements(ctx context.Context, uid string, totalSubmissions int) {
	if totalSubmissions >= 1 {
		s.CheckAndAward(ctx, uid, achievement.FirstSpark, map[string]any{"totalSubmissions": totalSubmissions})
	}

	dates, err := s.store.SubmissionDates(ctx, uid)
	if err != nil {
		logger.Log.Warn("failed to load submission dates", zap.String("user_id", uid), zap.Error(err))
		return
	}

	streak := achievement.ConsecutiveDays(dates, s.loc)
	if streak >= achievement.WeeklyStreakDays {
		s.CheckAndAward(ctx, uid, achievement.WeeklyStreak, map[string]any{"streakDays": streak})
	}
}

// ListAchievements returns the whole catalog with the user's unlock state.
func (s *AchievementService) ListAchievements(ctx context.Context, uid string) ([]achievement.AchievementWithStatus, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}

	held, err := s.store.ListUserAchievements(ctx, uid)
	if err != nil {
		return nil, translate(err, "list achievements")
	}
	unlocked := make(map[string]time.Time, len(held))
	for _, ua := range held {
		unlocked[ua.ID] = ua.UnlockedAt
	}

	catalog := achievement.Catalog()
	out := make([]achievement.AchievementWithStatus, 0, len(catalog))
	for _, a := range catalog {
		status := achievement.AchievementWithStatus{Achievement: a}
		if at, ok := unlocked[a.ID]; ok {
			at := at
			status.Unlocked = true
			status.UnlockedAt = &at
		}
		out = append(out, status)
	}
	return out, nil
}
