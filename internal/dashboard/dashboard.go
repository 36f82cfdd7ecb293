// Package dashboard assembles the views served to the browser: it fetches
// through the collector, caches through the process-wide store and renders
// figures.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"MarketLens/internal/cache"
	"MarketLens/internal/collector"
	"MarketLens/internal/economic"
	"MarketLens/internal/logging"
	"MarketLens/internal/model"
	"MarketLens/internal/recorder"
	"MarketLens/internal/universe"
)

var (
	// ErrNoData means an upstream source produced nothing to show. It is
	// surfaced as a message, never as a failure.
	ErrNoData = errors.New("no data available")
	// ErrInvalidTicker rejects empty or malformed ticker input.
	ErrInvalidTicker = errors.New("invalid ticker")
	// ErrInvalidPeriod rejects history periods the provider does not support.
	ErrInvalidPeriod = errors.New("invalid period")
	// ErrUnknownUniverse rejects universe names without a provider.
	ErrUnknownUniverse = errors.New("unknown universe")
)

// detached returns a context for cache loads. A load is shared by every
// caller waiting on its key and is stored for its full TTL, so it must not
// end when the request that started it does.
func detached(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

// Config holds cache lifetimes and view parameters.
type Config struct {
	ConstituentsTTL  time.Duration
	CapsTTL          time.Duration
	PricesTTL        time.Duration
	HistoryPeriod    string
	RaceStepsPerYear int
}

func (c Config) withDefaults() Config {
	if c.ConstituentsTTL <= 0 {
		c.ConstituentsTTL = 24 * time.Hour
	}
	if c.CapsTTL <= 0 {
		c.CapsTTL = 24 * time.Hour
	}
	if c.PricesTTL <= 0 {
		c.PricesTTL = 6 * time.Hour
	}
	if c.HistoryPeriod == "" {
		c.HistoryPeriod = "1y"
	}
	if c.RaceStepsPerYear <= 0 {
		c.RaceStepsPerYear = 4
	}
	return c
}

// DebtSource supplies the federal debt figure.
type DebtSource interface {
	Latest(ctx context.Context) (*economic.Debt, error)
}

// Status describes the cache state shown in the page header and pushed to
// websocket clients.
type Status struct {
	LastRefresh  time.Time `json:"last_refresh"`
	RefreshID    string    `json:"refresh_id"`
	Trigger      string    `json:"trigger"`
	CacheEntries int       `json:"cache_entries"`
	Source       string    `json:"source"`
}

// Options wires a Service.
type Options struct {
	Collector *collector.Collector
	Universes map[string]universe.Provider
	Cache     *cache.Store
	Recorder  recorder.Recorder
	Debt      DebtSource
	Config    Config
}

// Service serves every dashboard view.
type Service struct {
	collector *collector.Collector
	universes map[string]universe.Provider
	cache     *cache.Store
	recorder  recorder.Recorder
	debt      DebtSource
	cfg       Config
	log       *logrus.Entry
	now       func() time.Time

	mu          sync.RWMutex
	inputs      model.ManualInputs
	lastRefresh time.Time
	refreshID   string
	trigger     string
	listeners   []func(Status)
}

// New creates a Service. Missing optional parts get in-memory defaults.
func New(opts Options) *Service {
	if opts.Cache == nil {
		opts.Cache = cache.New()
	}
	if opts.Recorder == nil {
		opts.Recorder = recorder.NewNoopRecorder()
	}
	if opts.Universes == nil {
		opts.Universes = map[string]universe.Provider{
			UniverseUS: universe.NewSP500Provider("", 0),
			UniverseTW: universe.TaiwanProvider{},
		}
	}
	return &Service{
		collector: opts.Collector,
		universes: opts.Universes,
		cache:     opts.Cache,
		recorder:  opts.Recorder,
		debt:      opts.Debt,
		cfg:       opts.Config.withDefaults(),
		log:       logging.For("dashboard"),
		now:       time.Now,
	}
}

// Cache exposes the store for scheduled purges.
func (s *Service) Cache() *cache.Store { return s.cache }

// Status reports the last refresh and cache size.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		LastRefresh:  s.lastRefresh,
		RefreshID:    s.refreshID,
		Trigger:      s.trigger,
		CacheEntries: s.cache.Len(),
		Source:       s.collector.Fetcher.Name(),
	}
}

// Subscribe registers fn to be called after every refresh.
func (s *Service) Subscribe(fn func(Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Refresh clears every cached value, stamps the refresh time and notifies
// subscribers.
func (s *Service) Refresh(trigger string) Status {
	cleared := s.cache.Len()
	s.cache.Clear()

	id := recorder.NewRefreshID()
	now := s.now()
	s.mu.Lock()
	s.lastRefresh = now
	s.refreshID = id
	s.trigger = trigger
	listeners := append([]func(Status){}, s.listeners...)
	s.mu.Unlock()

	s.log.Infof("cache refreshed (%s): %d entries cleared", trigger, cleared)
	if err := s.recorder.RecordRefresh(&recorder.RefreshEvent{
		ID: id, Trigger: trigger, At: now, ClearedEntries: cleared,
	}); err != nil {
		s.log.Errorf("record refresh: %v", err)
	}

	st := s.Status()
	for _, fn := range listeners {
		fn(st)
	}
	return st
}

// ManualInputs returns the figures entered by the user.
func (s *Service) ManualInputs() model.ManualInputs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputs
}

// SetManualInputs replaces the user-entered figures.
func (s *Service) SetManualInputs(in model.ManualInputs) model.ManualInputs {
	in.UpdatedAt = s.now()
	s.mu.Lock()
	s.inputs = in
	s.mu.Unlock()
	return in
}

func (s *Service) currentRefreshID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshID
}

// Warm loads the S&P 500 aggregate so the first visitor after a refresh is
// served from cache.
func (s *Service) Warm(ctx context.Context) error {
	_, err := s.Aggregate(ctx, UniverseUS)
	return err
}

// Purge drops expired cache entries.
func (s *Service) Purge() int {
	return s.cache.Purge()
}
