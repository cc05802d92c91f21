package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"artSparkAPI/internal/challenge"
	"artSparkAPI/internal/logger"
	"artSparkAPI/internal/notification"
	"artSparkAPI/internal/store"
	"artSparkAPI/internal/winner"

	"go.uber.org/zap"
)

const (
	defaultRecentWinners = 7
	maxRecentWinners     = 30
)

type WinnerService struct {
	store    store.Store
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
}

func NewWinnerService(st store.Store, notifier Notifier, loc *time.Location) *WinnerService {
	return &WinnerService{
		store:    st,
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
	}
}

// Yesterday is the date the nightly run settles.
func (s *WinnerService) Yesterday() string {
	return challenge.DateKey(s.now().In(s.loc).AddDate(0, 0, -1), s.loc)
}

func (s *WinnerService) RunDailyWinnerJob(ctx context.Context) (*winner.JobReport, error) {
	return s.DetermineWinner(ctx, s.Yesterday())
}

// DetermineWinner settles the challenge for date. Writing the DailyWinner
// row is the commit point; tagging the submission and notifying the winner
// afterwards are best-effort and only recorded on the report.
func (s *WinnerService) DetermineWinner(ctx context.Context, date string) (*winner.JobReport, error) {
	if _, err := challenge.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	report, err := s.determine(ctx, date)
	if err != nil {
		winnerJobRuns.WithLabelValues("error").Inc()
		logger.Log.Error("daily winner job failed", zap.String("date", date), zap.Error(err))
		return nil, err
	}

	winnerJobRuns.WithLabelValues(string(report.Status)).Inc()
	logger.Log.Info("daily winner job finished", zap.String("date", date), zap.String("status", string(report.Status)))
	return report, nil
}

func (s *WinnerService) determine(ctx context.Context, date string) (*winner.JobReport, error) {
	report := &winner.JobReport{Date: date}

	ch, err := s.store.GetChallenge(ctx, date)
	if errors.Is(err, store.ErrNotFound) {
		report.Status = winner.StatusNoChallenge
		return report, nil
	}
	if err != nil {
		return nil, translate(err, "load challenge")
	}

	top, err := s.store.TopSubmission(ctx, ch.ID)
	if errors.Is(err, store.ErrNotFound) {
		report.Status = winner.StatusNoSubmissions
		return report, nil
	}
	if err != nil {
		return nil, translate(err, "rank submissions")
	}

	determinedAt := s.now().UTC()
	w := &winner.DailyWinner{
		Date:         date,
		ChallengeID:  ch.ID,
		SubmissionID: top.ID,
		UserID:       top.UserID,
		LikesCount:   top.LikesCount,
		DeterminedAt: determinedAt,
	}

	// Commit point.
	created, err := s.store.CreateDailyWinner(ctx, w)
	if err != nil {
		return nil, translate(err, "record winner")
	}
	if !created {
		existing, err := s.store.GetDailyWinner(ctx, date)
		if err != nil {
			return nil, translate(err, "load existing winner")
		}
		report.Status = winner.StatusAlreadyDetermined
		report.Winner = existing
		return report, nil
	}
	report.Winner = w
	report.Status = winner.StatusCompleted

	if err := s.store.TagWinner(ctx, top.ID, date, determinedAt); err != nil {
		logger.Log.Warn("failed to tag winning submission",
			zap.String("date", date),
			zap.String("submission_id", top.ID),
			zap.Error(err),
		)
		report.TagError = err.Error()
		report.Status = winner.StatusPartial
	}

	if err := s.notifyWinner(ctx, w, ch); err != nil {
		logger.Log.Warn("failed to notify winner",
			zap.String("date", date),
			zap.String("user_id", w.UserID),
			zap.Error(err),
		)
		report.NotifyError = err.Error()
		report.Status = winner.StatusPartial
	}

	return report, nil
}

func (s *WinnerService) notifyWinner(ctx context.Context, w *winner.DailyWinner, ch *challenge.DailyChallenge) error {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.Notify(ctx, &notification.CreateNotificationRequest{
		UserID:       w.UserID,
		Type:         notification.TypeWinner,
		Title:        "You won the daily challenge!",
		Message:      fmt.Sprintf("Your entry for \"%s\" (%s) took first place with %d likes.", ch.Title, w.Date, w.LikesCount),
		SubmissionID: w.SubmissionID,
		ChallengeID:  ch.ID,
	})
}

func (s *WinnerService) GetWinner(ctx context.Context, date string) (*winner.DailyWinner, error) {
	if _, err := challenge.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	w, err := s.store.GetDailyWinner(ctx, date)
	if err != nil {
		return nil, translate(err, "winner for "+date)
	}
	return w, nil
}

func (s *WinnerService) ListRecentWinners(ctx context.Context, limit int) ([]*winner.DailyWinner, error) {
	switch {
	case limit <= 0:
		limit = defaultRecentWinners
	case limit > maxRecentWinners:
		limit = maxRecentWinners
	}
	out, err := s.store.ListRecentWinners(ctx, limit)
	if err != nil {
		return nil, translate(err, "list winners")
	}
	return out, nil
}
