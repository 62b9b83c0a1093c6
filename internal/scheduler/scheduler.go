package scheduler

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/retailtrack/retail_mgmt_app/internal/jobs"
	"github.com/retailtrack/retail_mgmt_app/internal/platform/config"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron   *cron.Cron
	jobs   *jobs.JobRunner
	logger *slog.Logger
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(cfg *config.Config, jobRunner *jobs.JobRunner, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLocation(time.UTC))

	s := &Scheduler{
		cron:   c,
		jobs:   jobRunner,
		logger: logger,
	}

	s.registerJobs(cfg)
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs(cfg *config.Config) {
	_, err := s.cron.AddFunc(cfg.ReconcileCronSpec, s.jobs.ReconcileSaleLedger)
	if err != nil {
		s.logger.Error("Failed to register ReconcileSaleLedger job", slog.String("error", err.Error()))
	}

	_, err = s.cron.AddFunc(cfg.LowStockCronSpec, s.jobs.CheckLowStock)
	if err != nil {
		s.logger.Error("Failed to register CheckLowStock job", slog.String("error", err.Error()))
	}

	s.logger.Info("Cron jobs registered")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Cron scheduler started")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler stopped")
}
