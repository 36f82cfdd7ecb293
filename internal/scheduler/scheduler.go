package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"MarketLens/internal/dashboard"
	"MarketLens/internal/logging"
	"MarketLens/internal/recorder"
)

// Dashboard is the part of the dashboard service the scheduler drives.
type Dashboard interface {
	Refresh(trigger string) dashboard.Status
	Warm(ctx context.Context) error
	Purge() int
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Dashboard Dashboard
	Ctx       context.Context
	log       *logrus.Entry
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, d Dashboard) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Dashboard: d,
		Ctx:       ctx,
		log:       logging.For("scheduler"),
	}
}

// RegisterAll registers the refresh and purge tasks.
func (s *Scheduler) RegisterAll(refreshCron, purgeCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.Cron.AddFunc(purgeCron, s.purgeTask); err != nil {
		return fmt.Errorf("register purge task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// WarmNow fills the cache immediately (for warm_on_start).
func (s *Scheduler) WarmNow() {
	s.warm()
}

func (s *Scheduler) refreshTask() {
	s.log.Info("running scheduled refresh")
	st := s.Dashboard.Refresh(recorder.TriggerScheduled)
	s.log.Infof("refresh %s done", st.RefreshID)
	s.warm()
}

func (s *Scheduler) warm() {
	if err := s.Dashboard.Warm(s.Ctx); err != nil {
		s.log.Warnf("cache warm-up: %v", err)
		return
	}
	s.log.Info("cache warmed")
}

func (s *Scheduler) purgeTask() {
	if n := s.Dashboard.Purge(); n > 0 {
		s.log.Debugf("purged %d expired cache entries", n)
	}
}
