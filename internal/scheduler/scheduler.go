package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/safecoastpro/coastwatch/internal/services"
	"go.uber.org/zap"
)

// Scheduler refreshes the forecast snapshot for the current run date on
// a cron cadence.
type Scheduler struct {
	forecasts *services.ForecastService
	logger    *zap.Logger
	spec      string
	timeout   time.Duration
	cron      *cron.Cron
}

func NewScheduler(forecasts *services.ForecastService, spec string, timeout time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		forecasts: forecasts,
		logger:    logger,
		spec:      spec,
		timeout:   timeout,
		cron:      cron.New(),
	}
}

// Start runs one refresh immediately, then schedules the recurring one.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runRefresh); err != nil {
		return err
	}

	s.logger.Info("Scheduler started", zap.String("spec", s.spec))
	go s.runRefresh()

	s.cron.Start()
	return nil
}

func (s *Scheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	runDate := time.Now().UTC().Truncate(24 * time.Hour)
	if err := s.forecasts.Refresh(ctx, runDate); err != nil {
		s.logger.Error("Scheduled forecast refresh failed",
			zap.Time("run_date", runDate),
			zap.Error(err))
	}
}

// Stop halts the cron loop and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}
