package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"covidstat/internal/collector"
	"covidstat/internal/export"
	"covidstat/internal/metrics"
	"covidstat/internal/model"
	"covidstat/internal/notifier"
)

// Scheduler periodically refreshes one country's history and rewrites its CSV export.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  notifier.Notifier // nil disables notifications
	Country   string
	OutputDir string
	Logger    *zap.Logger
	Ctx       context.Context

	mu      sync.Mutex
	last    *model.Dataset
	lastErr error
	lastRun time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, n notifier.Notifier, country, outputDir string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  n,
		Country:   country,
		OutputDir: outputDir,
		Logger:    logger,
		Ctx:       ctx,
	}
}

// Register adds the refresh task under a six-field (seconds first) cron spec.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.String("country", s.Country))
}

// Stop stops the cron scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RefreshNow executes the refresh task immediately (RUN_ON_START / chat command).
func (s *Scheduler) RefreshNow() {
	s.refreshTask()
}

// Last returns the most recent successful dataset, when the last refresh ran and the
// error it ended with.
func (s *Scheduler) Last() (*model.Dataset, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.lastRun, s.lastErr
}

func (s *Scheduler) refreshTask() {
	s.Logger.Info("running refresh task", zap.String("country", s.Country))
	ds, err := s.Collector.Collect(s.Ctx, s.Country)

	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastErr = err
	if err == nil {
		s.last = ds
	}
	s.mu.Unlock()

	if err != nil {
		s.Logger.Error("refresh failed", zap.String("country", s.Country), zap.Error(err))
		s.trySend(notifier.FormatFailure(s.Country, err))
		return
	}

	path, err := export.WriteFile(s.OutputDir, ds)
	if err != nil {
		s.Logger.Error("csv export failed", zap.String("dir", s.OutputDir), zap.Error(err))
	} else {
		metrics.ExportsTotal.Inc()
		s.Logger.Info("csv exported", zap.String("path", path), zap.Int("records", ds.Len()))
	}
	s.trySend(notifier.FormatSummary(ds))
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(_ context.Context, command string) string {
	switch command {
	case "/latest":
		s.refreshTask()
		return ""
	case "/status":
		ds, at, err := s.Last()
		if at.IsZero() {
			return "No refresh has run yet."
		}
		if err != nil {
			return notifier.FormatFailure(s.Country, err)
		}
		return notifier.FormatSummary(ds)
	default:
		return "Available commands:\n• /latest: refresh now\n• /status: last refresh result"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Logger.Error("send notification failed", zap.Error(err))
	}
}
