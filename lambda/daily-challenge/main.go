package main

import (
	"context"
	"log"

	"artSparkAPI/internal/app"
	"artSparkAPI/internal/challenge"
	"artSparkAPI/internal/config"
	"artSparkAPI/internal/logger"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

type response struct {
	Created   bool                      `json:"created"`
	Challenge *challenge.DailyChallenge `json:"challenge"`
}

type handler struct {
	app *app.App
}

func (h *handler) handle(ctx context.Context, _ events.CloudWatchEvent) (*response, error) {
	ch, created, err := h.app.Challenges.EnsureToday(ctx)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("daily challenge lambda finished", zap.String("challenge_id", ch.ID), zap.Bool("created", created))
	return &response{Created: created, Challenge: ch}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	logger.Init(cfg)
	defer logger.Sync()

	a, err := app.New(context.Background(), cfg, app.WithSyncPush())
	if err != nil {
		logger.Log.Fatal("failed to initialize", zap.Error(err))
	}
	defer a.Close()

	h := &handler{app: a}
	lambda.Start(h.handle)
}
