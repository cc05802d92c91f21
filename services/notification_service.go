package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"artSparkAPI/internal/logger"
	"artSparkAPI/internal/notification"
	"artSparkAPI/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const notificationPageSize = 20

// Notifier is what the engagement, achievement and winner flows need to
// tell a user something happened.
type Notifier interface {
	Notify(ctx context.Context, req *notification.CreateNotificationRequest) error
}

type NotificationService struct {
	store      store.Store
	dispatcher *NotificationDispatcher
	now        func() time.Time
}

// NewNotificationService persists notifications in st. dispatcher may be nil,
// in which case no push is attempted.
func NewNotificationService(st store.Store, dispatcher *NotificationDispatcher) *NotificationService {
	return &NotificationService{
		store:      st,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

func (s *NotificationService) Notify(ctx context.Context, req *notification.CreateNotificationRequest) error {
	if req.UserID == "" || req.Type == "" {
		return fmt.Errorf("%w: notification needs a user and a type", ErrInvalidArgument)
	}

	n := &notification.Notification{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		Type:          req.Type,
		Title:         req.Title,
		Message:       req.Message,
		SubmissionID:  req.SubmissionID,
		ChallengeID:   req.ChallengeID,
		AchievementID: req.AchievementID,
		ActorID:       req.ActorID,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.store.CreateNotification(ctx, n); err != nil {
		return translate(err, "create notification")
	}

	if s.dispatcher == nil {
		return nil
	}

	tokens, err := s.store.DeviceTokens(ctx, req.UserID)
	if err != nil {
		logger.Log.Warn("failed to load device tokens", zap.String("user_id", req.UserID), zap.Error(err))
		return nil
	}
	if len(tokens) > 0 {
		s.dispatcher.Dispatch(n, tokens)
	}
	return nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, uid string, page int) (*notification.NotificationListResponse, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	items, err := s.store.ListNotifications(ctx, uid, notificationPageSize, (page-1)*notificationPageSize)
	if err != nil {
		return nil, translate(err, "list notifications")
	}
	unread, total, err := s.store.CountNotifications(ctx, uid)
	if err != nil {
		return nil, translate(err, "count notifications")
	}

	return &notification.NotificationListResponse{
		Notifications: items,
		UnreadCount:   unread,
		TotalCount:    total,
		Page:          page,
		PageSize:      notificationPageSize,
	}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, uid string) (int, error) {
	if err := requireUser(uid); err != nil {
		return 0, err
	}
	unread, _, err := s.store.CountNotifications(ctx, uid)
	if err != nil {
		return 0, translate(err, "count notifications")
	}
	return unread, nil
}

func (s *NotificationService) MarkNotificationRead(ctx context.Context, uid, id string) error {
	if err := requireUser(uid); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: notification id is required", ErrInvalidArgument)
	}
	return translate(s.store.MarkNotificationRead(ctx, uid, id), "notification")
}

func (s *NotificationService) MarkAllRead(ctx context.Context, uid string) (int, error) {
	if err := requireUser(uid); err != nil {
		return 0, err
	}
	n, err := s.store.MarkAllNotificationsRead(ctx, uid)
	if err != nil {
		return 0, translate(err, "mark all read")
	}
	return n, nil
}

func (s *NotificationService) RegisterDevice(ctx context.Context, uid string, req *notification.RegisterDeviceRequest) error {
	if err := requireUser(uid); err != nil {
		return err
	}
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return fmt.Errorf("%w: device token is required", ErrInvalidArgument)
	}

	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	switch platform {
	case "":
		platform = "android"
	case "ios", "android", "web":
	default:
		return fmt.Errorf("%w: unknown platform %q", ErrInvalidArgument, req.Platform)
	}

	now := s.now().UTC()
	err := s.store.UpsertDeviceToken(ctx, uid, notification.DeviceToken{
		Token:    token,
		Platform: platform,
		AddedAt:  now,
		LastUsed: now,
	})
	return translate(err, "register device")
}
