package services

import (
	"context"
	"sync"
	"time"

	"artSparkAPI/internal/logger"
	"artSparkAPI/internal/notification"

	"go.uber.org/zap"
)

type PushNotificationProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

// NotificationDispatcher delivers push notifications off the request path
// through a fixed pool of workers.
type NotificationDispatcher struct {
	pushProvider PushNotificationProvider
	workers      int
	jobQueue     chan *DispatchJob
	stopChan     chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
	inline       bool
}

type DispatchJob struct {
	Notification *notification.Notification
	Tokens       []notification.DeviceToken
}

func NewNotificationDispatcher(provider PushNotificationProvider, workers int) *NotificationDispatcher {
	if workers <= 0 {
		workers = 5
	}
	d := &NotificationDispatcher{
		pushProvider: provider,
		workers:      workers,
		jobQueue:     make(chan *DispatchJob, 100),
		stopChan:     make(chan struct{}),
	}
	d.startWorkers()
	return d
}

// NewSyncNotificationDispatcher sends each push before Dispatch returns.
// Short-lived runtimes such as Lambda use it so a frozen process cannot
// strand queued pushes.
func NewSyncNotificationDispatcher(provider PushNotificationProvider) *NotificationDispatcher {
	return &NotificationDispatcher{
		pushProvider: provider,
		stopChan:     make(chan struct{}),
		inline:       true,
	}
}

func (d *NotificationDispatcher) startWorkers() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *NotificationDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case job := <-d.jobQueue:
			d.processJob(job)
		case <-d.stopChan:
			return
		}
	}
}

func (d *NotificationDispatcher) processJob(job *DispatchJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n := job.Notification
	if d.pushProvider == nil || len(job.Tokens) == 0 {
		pushDispatches.WithLabelValues("skipped").Inc()
		return
	}

	if err := d.pushProvider.SendPush(ctx, job.Tokens, n.Title, n.Message, n.Data()); err != nil {
		pushDispatches.WithLabelValues("failed").Inc()
		logger.Log.Warn("push failed",
			zap.String("user_id", n.UserID),
			zap.String("notification_id", n.ID),
			zap.Error(err),
		)
		return
	}
	pushDispatches.WithLabelValues("sent").Inc()
}

// Dispatch queues a push. A full queue drops the push after a short wait;
// the notification itself is already persisted.
func (d *NotificationDispatcher) Dispatch(n *notification.Notification, tokens []notification.DeviceToken) {
	job := &DispatchJob{Notification: n, Tokens: tokens}
	if d.inline {
		d.processJob(job)
		return
	}

	select {
	case d.jobQueue <- job:
	case <-d.stopChan:
	case <-time.After(time.Second):
		pushDispatches.WithLabelValues("dropped").Inc()
		logger.Log.Warn("push queue full, dropping", zap.String("notification_id", n.ID))
	}
}

// Stop drains the workers. Jobs still queued are discarded.
func (d *NotificationDispatcher) Stop() {
	d.stopOnce.Do(func() {
		logger.Log.Info("stopping notification dispatcher")
		close(d.stopChan)
		d.wg.Wait()
	})
}

// LogPushProvider only logs; it stands in when FCM is not configured.
type LogPushProvider struct{}

func (LogPushProvider) SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error {
	logger.Log.Debug("push (log only)",
		zap.Int("devices", len(tokens)),
		zap.String("title", title),
		zap.String("body", body),
	)
	return nil
}
