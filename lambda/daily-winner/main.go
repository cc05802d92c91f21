package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"artSparkAPI/internal/app"
	"artSparkAPI/internal/config"
	"artSparkAPI/internal/logger"
	"artSparkAPI/internal/winner"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

// detail is the optional EventBridge payload; a scheduled rule sends none and
// the job settles yesterday.
type detail struct {
	Date string `json:"date"`
}

type handler struct {
	app *app.App
}

func (h *handler) handle(ctx context.Context, event events.CloudWatchEvent) (*winner.JobReport, error) {
	var d detail
	if len(event.Detail) > 0 {
		if err := json.Unmarshal(event.Detail, &d); err != nil {
			return nil, fmt.Errorf("invalid event detail: %w", err)
		}
	}
	if d.Date == "" {
		d.Date = h.app.Winners.Yesterday()
	}

	report, err := h.app.Winners.DetermineWinner(ctx, d.Date)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("daily winner lambda finished", zap.String("date", report.Date), zap.String("status", string(report.Status)))
	return report, nil
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
