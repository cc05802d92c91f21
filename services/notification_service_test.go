package services

import (
	"context"
	"testing"
	"time"

	"artSparkAPI/internal/notification"
	"artSparkAPI/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushCall struct {
	tokens []notification.DeviceToken
	title  string
	data   map[string]any
}

type recordingPush struct {
	calls chan pushCall
}

func (r *recordingPush) SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error {
	r.calls <- pushCall{tokens: tokens, title: title, data: data}
	return nil
}

func TestNotifyListAndMarkRead(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		require.NoError(t, h.notifications.Notify(ctx, &notification.CreateNotificationRequest{
			UserID: "u1",
			Type:   notification.TypeLike,
			Title:  title,
		}))
	}

	list, err := h.notifications.ListNotifications(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 3)
	assert.Equal(t, "three", list.Notifications[0].Title)
	assert.Equal(t, 3, list.UnreadCount)
	assert.Equal(t, 3, list.TotalCount)
	assert.Equal(t, notificationPageSize, list.PageSize)

	require.NoError(t, h.notifications.MarkNotificationRead(ctx, "u1", list.Notifications[0].ID))
	unread, err := h.notifications.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	err = h.notifications.MarkNotificationRead(ctx, "someone-else", list.Notifications[1].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := h.notifications.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = h.notifications.ListNotifications(ctx, "", 1)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestNotifyDispatchesPushToRegisteredDevices(t *testing.T) {
	st := memory.New()
	push := &recordingPush{calls: make(chan pushCall, 1)}
	dispatcher := NewNotificationDispatcher(push, 1)
	defer dispatcher.Stop()

	svc := NewNotificationService(st, dispatcher)
	ctx := context.Background()

	err := svc.RegisterDevice(ctx, "u1", &notification.RegisterDeviceRequest{Token: "tok-1", Platform: "iOS"})
	require.NoError(t, err)

	err = svc.RegisterDevice(ctx, "u1", &notification.RegisterDeviceRequest{Token: "tok-2", Platform: "fridge"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, svc.Notify(ctx, &notification.CreateNotificationRequest{
		UserID:       "u1",
		Type:         notification.TypeWinner,
		Title:        "You won",
		SubmissionID: "s1",
	}))

	select {
	case call := <-push.calls:
		require.Len(t, call.tokens, 1)
		assert.Equal(t, "ios", call.tokens[0].Platform)
		assert.Equal(t, "You won", call.title)
		assert.Equal(t, "s1", call.data["submission_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("push was not dispatched")
	}
}

func TestNotifyWithoutDevicesSkipsPush(t *testing.T) {
	st := memory.New()
	push := &recordingPush{calls: make(chan pushCall, 1)}
	dispatcher := NewNotificationDispatcher(push, 1)
	defer dispatcher.Stop()

	svc := NewNotificationService(st, dispatcher)
	require.NoError(t, svc.Notify(context.Background(), &notification.CreateNotificationRequest{
		UserID: "u1",
		Type:   notification.TypeLike,
	}))

	select {
	case <-push.calls:
		t.Fatal("push sent without a device")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSyncDispatcherSendsBeforeNotifyReturns(t *testing.T) {
	st := memory.New()
	push := &recordingPush{calls: make(chan pushCall, 1)}
	dispatcher := NewSyncNotificationDispatcher(push)
	defer dispatcher.Stop()

	svc := NewNotificationService(st, dispatcher)
	ctx := context.Background()
	require.NoError(t, svc.RegisterDevice(ctx, "u1", &notification.RegisterDeviceRequest{Token: "tok-1", Platform: "android"}))

	require.NoError(t, svc.Notify(ctx, &notification.CreateNotificationRequest{
		UserID: "u1",
		Type:   notification.TypeWinner,
		Title:  "You won",
	}))

	// No waiting: the push must already be recorded.
	require.Len(t, push.calls, 1)
	call := <-push.calls
	assert.Equal(t, "You won", call.title)
}
