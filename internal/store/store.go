// Package store defines the persistence contract shared by the Postgres and
// in-memory backends. Every method that mutates a counter does so atomically
// with the state it counts.
package store

import (
	"context"
	"errors"
	"time"

	"artSparkAPI/internal/achievement"
	"artSparkAPI/internal/attempt"
	"artSparkAPI/internal/challenge"
	"artSparkAPI/internal/leaderboard"
	"artSparkAPI/internal/notification"
	"artSparkAPI/internal/submission"
	"artSparkAPI/internal/user"
	"artSparkAPI/internal/winner"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrAttemptCapReached = errors.New("attempt cap reached")
	ErrAlreadySubmitted  = errors.New("already submitted for this challenge")
)

type Store interface {
	Ping(ctx context.Context) error
	Close()

	// CreateChallengeIfAbsent inserts ch unless a challenge already exists
	// for ch.ID. It returns the stored challenge and whether it was created.
	CreateChallengeIfAbsent(ctx context.Context, ch *challenge.DailyChallenge) (*challenge.DailyChallenge, bool, error)
	GetChallenge(ctx context.Context, id string) (*challenge.DailyChallenge, error)
	ListRecentChallenges(ctx context.Context, limit int) ([]*challenge.DailyChallenge, error)

	// EnsureProfile inserts p unless a profile exists for p.UID and returns
	// the stored profile.
	EnsureProfile(ctx context.Context, p *user.Profile) (*user.Profile, error)
	GetProfile(ctx context.Context, uid string) (*user.Profile, error)
	UpdateIdentity(ctx context.Context, uid, displayName, photoURL string, now time.Time) error
	// UpdateSubscription sets the plan. A nil RenewsAt keeps the stored
	// renewal date for pro and clears it otherwise.
	UpdateSubscription(ctx context.Context, upd user.SubscriptionUpdate, now time.Time) error
	AddExtraAttempts(ctx context.Context, uid string, n int, now time.Time) (int, error)
	ListLeaderboard(ctx context.Context, key leaderboard.SortKey, limit, offset int) ([]*leaderboard.LeaderboardEntry, int, error)

	// RecordAttempt increments the ledger row for (uid, challengeID). Once
	// the row is at or above allowance.Base, one purchased extra attempt is
	// consumed from the profile instead; with none left it returns
	// ErrAttemptCapReached and changes nothing.
	RecordAttempt(ctx context.Context, uid, challengeID string, allowance attempt.Allowance, now time.Time) (*attempt.Record, error)
	GetAttempt(ctx context.Context, uid, challengeID string) (*attempt.Record, error)

	// CreateSubmission inserts s, bumps the owner's totalSubmissions and
	// flags the attempt row as submitted. It returns the new total.
	CreateSubmission(ctx context.Context, s *submission.Submission) (int, error)
	GetSubmission(ctx context.Context, id string) (*submission.Submission, error)
	// ListSubmissions orders by likesCount desc, createdAt asc.
	ListSubmissions(ctx context.Context, challengeID string, limit int) ([]*submission.Submission, error)
	TopSubmission(ctx context.Context, challengeID string) (*submission.Submission, error)
	SubmissionDates(ctx context.Context, uid string) ([]time.Time, error)
	ToggleLike(ctx context.Context, submissionID, uid string, now time.Time) (*submission.LikeResult, error)
	AddComment(ctx context.Context, c *submission.Comment) (*submission.CommentResult, error)
	TagWinner(ctx context.Context, submissionID, date string, at time.Time) error

	// CreateDailyWinner inserts w unless a winner exists for w.Date.
	CreateDailyWinner(ctx context.Context, w *winner.DailyWinner) (bool, error)
	GetDailyWinner(ctx context.Context, date string) (*winner.DailyWinner, error)
	ListRecentWinners(ctx context.Context, limit int) ([]*winner.DailyWinner, error)

	// AwardAchievement inserts ua and bumps achievementsCount unless the
	// user already holds that achievement.
	AwardAchievement(ctx context.Context, ua *achievement.UserAchievement) (bool, error)
	ListUserAchievements(ctx context.Context, uid string) ([]*achievement.UserAchievement, error)

	CreateNotification(ctx context.Context, n *notification.Notification) error
	ListNotifications(ctx context.Context, uid string, limit, offset int) ([]*notification.Notification, error)
	CountNotifications(ctx context.Context, uid string) (unread int, total int, err error)
	MarkNotificationRead(ctx context.Context, uid, id string) error
	MarkAllNotificationsRead(ctx context.Context, uid string) (int, error)
	UpsertDeviceToken(ctx context.Context, uid string, token notification.DeviceToken) error
	DeviceTokens(ctx context.Context, uid string) ([]notification.DeviceToken, error)
}
