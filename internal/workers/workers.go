package workers

import (
	"context"
	"time"

	"artSparkAPI/internal/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultJobTimeout = 5 * time.Minute

// Job runs on a standard five-field cron spec evaluated in the scheduler's
// location, e.g. "5 0 * * *" for 00:05 every day.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler fires jobs until its context is cancelled.
type Scheduler struct {
	loc     *time.Location
	jobs    []Job
	timeout time.Duration
	cron    *cron.Cron
	stopped chan struct{}
}

func NewScheduler(loc *time.Location, jobs ...Job) *Scheduler {
	log := cronLogger{logger.Log.Sugar()}
	return &Scheduler{
		loc:     loc,
		jobs:    jobs,
		timeout: defaultJobTimeout,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(log),
			cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
		),
		stopped: make(chan struct{}),
	}
}

// Start registers every job and returns immediately. Cancelling ctx stops
// the schedule; Wait then blocks until running jobs have finished.
func (s *Scheduler) Start(ctx context.Context) error {
	for _, job := range s.jobs {
		job := job
		if _, err := s.cron.AddFunc(job.Spec, func() { s.runOnce(ctx, job) }); err != nil {
			return err
		}
	}
	s.cron.Start()
	logger.Log.Info("scheduler started", zap.Int("jobs", len(s.jobs)), zap.String("timezone", s.loc.String()))

	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
		logger.Log.Info("scheduler stopped")
		close(s.stopped)
	}()
	return nil
}

// Wait blocks until the scheduler has stopped after its context ended.
func (s *Scheduler) Wait() {
	<-s.stopped
}

func (s *Scheduler) runOnce(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := job.Run(runCtx); err != nil {
		logger.Log.Error("scheduled job failed", zap.String("job", job.Name), zap.Error(err))
		return
	}
	logger.Log.Info("scheduled job finished", zap.String("job", job.Name), zap.Duration("took", time.Since(start)))
}

// NextRun is the first time strictly after now that spec fires in loc.
func NextRun(spec string, now time.Time, loc *time.Location) (time.Time, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(now.In(loc)), nil
}

// cronLogger routes cron's own messages through zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
