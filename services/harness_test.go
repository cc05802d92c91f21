package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"artSparkAPI/internal/challenge"
	"artSparkAPI/internal/notification"
	"artSparkAPI/internal/store/memory"

	"github.com/stretchr/testify/require"
)

var newYork = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
	return loc
}()

// clock is a settable time source shared by every service in a harness.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type harness struct {
	clock         *clock
	store         *memory.Store
	users         *UserService
	notifications *NotificationService
	achievements  *AchievementService
	challenges    *ChallengeService
	attempts      *AttemptService
	submissions   *SubmissionService
	engagement    *EngagementService
	winners       *WinnerService
	storage       *StorageService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	c := &clock{t: time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)}
	st := memory.New()

	h := &harness{clock: c, store: st}
	h.users = NewUserService(st, 0)
	h.notifications = NewNotificationService(st, nil)
	h.achievements = NewAchievementService(st, h.notifications, newYork)
	h.challenges = NewChallengeService(st, newYork)
	h.attempts = NewAttemptService(st, h.users)
	h.submissions = NewSubmissionService(st, h.users, h.achievements)
	h.engagement = NewEngagementService(st, h.users, h.notifications, h.achievements)
	h.winners = NewWinnerService(st, h.notifications, newYork)
	h.storage = NewStorageService(st, nil)

	h.users.now = c.Now
	h.notifications.now = c.Now
	h.achievements.now = c.Now
	h.challenges.now = c.Now
	h.attempts.now = c.Now
	h.submissions.now = c.Now
	h.engagement.now = c.Now
	h.winners.now = c.Now
	h.storage.now = c.Now
	return h
}

// today creates and returns today's challenge id.
func (h *harness) today(t *testing.T) string {
	t.Helper()
	ch, _, err := h.challenges.EnsureToday(context.Background())
	require.NoError(t, err)
	return ch.ID
}

func (h *harness) manualChallenge(t *testing.T, date string) string {
	t.Helper()
	ch, _, err := h.challenges.CreateManualChallenge(context.Background(), date, &challenge.CreateManualRequest{
		Title: "Test " + date,
		Task:  "Paint something for " + date,
	})
	require.NoError(t, err)
	return ch.ID
}

func (h *harness) notificationsOf(t *testing.T, uid string, typ notification.NotificationType) []*notification.Notification {
	t.Helper()
	list, err := h.store.ListNotifications(context.Background(), uid, 1000, 0)
	require.NoError(t, err)

	var out []*notification.Notification
	for _, n := range list {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}
