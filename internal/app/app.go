// Package app wires configuration, storage, services and HTTP routes
// together. The API server and the Lambda jobs share it.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"artSparkAPI/handlers"
	"artSparkAPI/internal/config"
	"artSparkAPI/internal/logger"
	"artSparkAPI/internal/notification"
	"artSparkAPI/internal/store"
	"artSparkAPI/internal/store/memory"
	"artSparkAPI/internal/store/postgres"
	"artSparkAPI/internal/workers"
	"artSparkAPI/middleware"
	"artSparkAPI/services"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const dispatchWorkers = 5

type App struct {
	Config   *config.Config
	Store    store.Store
	Verifier middleware.Verifier
	Registry *prometheus.Registry

	Users         *services.UserService
	Notifications *services.NotificationService
	Achievements  *services.AchievementService
	Challenges    *services.ChallengeService
	Attempts      *services.AttemptService
	Submissions   *services.SubmissionService
	Engagement    *services.EngagementService
	Winners       *services.WinnerService
	Storage       *services.StorageService

	dispatcher  *services.NotificationDispatcher
	rateLimiter *middleware.RateLimiter
}

// Deps are the outside-world adapters. Nil fields fall back to a log-only
// push provider and a disabled upload signer. SyncPush sends pushes inline
// instead of through the worker pool.
type Deps struct {
	Push      services.PushNotificationProvider
	Presigner services.ObjectPresigner
	SyncPush  bool
}

type Option func(*Deps)

// WithSyncPush is for Lambda handlers, which may be frozen as soon as they
// return.
func WithSyncPush() Option {
	return func(d *Deps) { d.SyncPush = true }
}

// New opens the configured store and external clients and builds the App.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var deps Deps

	fcm, err := notification.NewFCMService(ctx, cfg.FCM.ServiceAccountJSON, cfg.FCM.CredentialsFile)
	if err != nil {
		logger.Log.Warn("could not initialize FCM, push notifications will only be logged", zap.Error(err))
	} else {
		deps.Push = fcm
		logger.Log.Info("FCM push provider initialized")
	}

	if cfg.Storage.MinioEndpoint != "" {
		presigner, err := services.NewMinioPresigner(&cfg.Storage)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		deps.Presigner = presigner
		logger.Log.Info("object storage initialized", zap.String("bucket", cfg.Storage.MinioBucket))
	} else {
		logger.Log.Warn("MINIO_ENDPOINT not set, upload URLs are disabled")
	}

	for _, opt := range opts {
		opt(&deps)
	}

	return Build(cfg, st, deps), nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch strings.ToLower(cfg.Database.Driver) {
	case "memory":
		logger.Log.Warn("using in-memory store, data will not survive a restart")
		return memory.New(), nil
	default:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		st, err := postgres.Connect(connectCtx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		logger.Log.Info("connected to postgres")
		return st, nil
	}
}

// Build assembles services over an already opened store.
func Build(cfg *config.Config, st store.Store, deps Deps) *App {
	loc := cfg.Location()

	push := deps.Push
	if push == nil {
		push = services.LogPushProvider{}
	}
	var dispatcher *services.NotificationDispatcher
	if deps.SyncPush {
		dispatcher = services.NewSyncNotificationDispatcher(push)
	} else {
		dispatcher = services.NewNotificationDispatcher(push, dispatchWorkers)
	}

	a := &App{
		Config:      cfg,
		Store:       st,
		Verifier:    newVerifier(cfg),
		Registry:    prometheus.NewRegistry(),
		dispatcher:  dispatcher,
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	}

	a.Users = services.NewUserService(st, cfg.TrialPeriod())
	a.Notifications = services.NewNotificationService(st, dispatcher)
	a.Achievements = services.NewAchievementService(st, a.Notifications, loc)
	a.Challenges = services.NewChallengeService(st, loc)
	a.Attempts = services.NewAttemptService(st, a.Users)
	a.Submissions = services.NewSubmissionService(st, a.Users, a.Achievements)
	a.Engagement = services.NewEngagementService(st, a.Users, a.Notifications, a.Achievements)
	a.Winners = services.NewWinnerService(st, a.Notifications, loc)
	a.Storage = services.NewStorageService(st, deps.Presigner)

	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	middleware.InitPrometheus(a.Registry)
	services.InitMetrics(a.Registry)

	return a
}

func newVerifier(cfg *config.Config) middleware.Verifier {
	if strings.ToLower(cfg.Auth.Mode) == "local" {
		return middleware.LocalVerifier{Secret: []byte(cfg.Auth.LocalJWTSecret)}
	}
	clerk.SetKey(cfg.Auth.ClerkSecretKey)
	return middleware.ClerkVerifier{}
}

// Scheduler creates today's challenge at midnight and settles yesterday's
// winner five minutes later, both in the challenge timezone.
func (a *App) Scheduler() *workers.Scheduler {
	return workers.NewScheduler(a.Config.Location(),
		workers.Job{
			Name: "daily-challenge",
			Spec: "0 0 * * *",
			Run: func(ctx context.Context) error {
				_, _, err := a.Challenges.EnsureToday(ctx)
				return err
			},
		},
		workers.Job{
			Name: "daily-winner",
			Spec: "5 0 * * *",
			Run: func(ctx context.Context) error {
				_, err := a.Winners.RunDailyWinnerJob(ctx)
				return err
			},
		},
	)
}

// StartBackground runs the rate limiter janitor until ctx is done.
func (a *App) StartBackground(ctx context.Context) {
	go a.rateLimiter.Cleanup(ctx)
}

func (a *App) Close() {
	a.dispatcher.Stop()
	a.Store.Close()
}

func (a *App) Router() http.Handler {
	challengeHandler := handlers.NewChallengeHandler(a.Challenges, a.Attempts)
	submissionHandler := handlers.NewSubmissionHandler(a.Submissions, a.Engagement, a.Storage)
	userHandler := handlers.NewUserHandler(a.Users, a.Achievements)
	notificationHandler := handlers.NewNotificationHandler(a.Notifications)
	winnerHandler := handlers.NewWinnerHandler(a.Winners)
	adminHandler := handlers.NewAdminHandler(a.Challenges, a.Winners)
	webhookHandler := handlers.NewWebhookHandler(a.Users, a.Config.Webhooks.ClerkSecret, a.Config.Webhooks.StripeSecret)

	r := mux.NewRouter()
	r.Use(a.rateLimiter.Middleware)
	r.Use(middleware.MonitorMiddleware)

	metrics := promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{Registry: a.Registry})
	r.Handle("/metrics", middleware.BasicAuthMiddleware(a.Config.Metrics.User, a.Config.Metrics.Password)(metrics))

	r.HandleFunc("/health", a.health).Methods("GET")

	r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")
	r.HandleFunc("/webhooks/stripe", webhookHandler.HandleStripeWebhook).Methods("POST")

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminSecretMiddleware(a.Config.Server.AdminSecret))
	admin.HandleFunc("/jobs/daily-winner", adminHandler.RunDailyWinner).Methods("POST")
	admin.HandleFunc("/challenges/{date}", adminHandler.PutChallenge).Methods("PUT")

	api := r.PathPrefix("/api/v1").Subrouter()

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(a.Verifier))

	protected.HandleFunc("/challenges/today", challengeHandler.CreateToday).Methods("POST")
	protected.HandleFunc("/challenges/{challengeId}/attempts", challengeHandler.RecordAttempt).Methods("POST")
	protected.HandleFunc("/challenges/{challengeId}/attempts", challengeHandler.GetAttemptStatus).Methods("GET")
	protected.HandleFunc("/challenges/{challengeId}/submissions", submissionHandler.Create).Methods("POST")

	protected.HandleFunc("/submissions/upload-url", submissionHandler.CreateUploadURL).Methods("POST")
	protected.HandleFunc("/submissions/{submissionId}/like", submissionHandler.ToggleLike).Methods("POST")
	protected.HandleFunc("/submissions/{submissionId}/comments", submissionHandler.AddComment).Methods("POST")

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user", userHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/user/achievements", userHandler.GetAchievements).Methods("GET")

	protected.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
	protected.HandleFunc("/notifications/unread-count", notificationHandler.GetUnreadCount).Methods("GET")
	protected.HandleFunc("/notifications/read-all", notificationHandler.MarkAllAsRead).Methods("PUT")
	protected.HandleFunc("/notifications/{id}/read", notificationHandler.MarkAsRead).Methods("PUT")
	protected.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")

	public := api.PathPrefix("").Subrouter()
	public.HandleFunc("/challenges", challengeHandler.ListRecent).Methods("GET")
	public.HandleFunc("/challenges/today", challengeHandler.GetToday).Methods("GET")
	public.HandleFunc("/challenges/{date}", challengeHandler.GetByDate).Methods("GET")
	public.HandleFunc("/challenges/{challengeId}/submissions", submissionHandler.ListForChallenge).Methods("GET")
	public.HandleFunc("/submissions/{submissionId}", submissionHandler.Get).Methods("GET")
	public.HandleFunc("/leaderboard", userHandler.GetLeaderboard).Methods("GET")
	public.HandleFunc("/winners", winnerHandler.ListRecent).Methods("GET")
	public.HandleFunc("/winners/{date}", winnerHandler.GetByDate).Methods("GET")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Admin-Secret"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)
	return corsHandler(r)
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := a.Store.Ping(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy", "service": "art-spark-api"}`))
}
