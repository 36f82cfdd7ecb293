package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MarketLens/internal/collector"
	"MarketLens/internal/config"
	"MarketLens/internal/dashboard"
	"MarketLens/internal/economic"
	"MarketLens/internal/logging"
	"MarketLens/internal/model"
	"MarketLens/internal/recorder"
	"MarketLens/internal/scheduler"
	"MarketLens/internal/server"
	"MarketLens/internal/universe"
)

func main() {
	log := logging.For("main")
	log.Info("MarketLens starting...")

	if err := config.LoadDotEnv(); err != nil {
		log.Warnf("load .env: %v", err)
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}
	logging.SetLevel(cfg.Log.Level)

	// Init fetcher and universes
	universes := map[string]universe.Provider{
		dashboard.UniverseTW: universe.TaiwanProvider{},
	}
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case config.ProviderMock:
		us := universe.StaticProvider{Label: "sp500-demo", List: universe.Fallback()}
		universes[dashboard.UniverseUS] = us
		fetcher = demoFetcher(us.List)
	default:
		universes[dashboard.UniverseUS] = universe.NewSP500Provider(cfg.Universe.SP500URL, cfg.DataSource.Timeout)
		fetcher = collector.NewYahooFetcher(collector.YahooConfig{
			BaseURL:           cfg.DataSource.BaseURL,
			Proxy:             cfg.DataSource.Proxy,
			Timeout:           cfg.DataSource.Timeout,
			RequestsPerSecond: cfg.DataSource.RequestsPerSecond,
			Retries:           cfg.DataSource.Retries,
			Workers:           cfg.DataSource.Workers,
		})
	}
	log.Infof("data source: %s", fetcher.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warnf("init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	svc := dashboard.New(dashboard.Options{
		Collector: collector.NewCollector(fetcher, cfg.DataSource.Workers),
		Universes: universes,
		Recorder:  rec,
		Debt:      economic.NewDebtClient(cfg.Economic.DebtURL, cfg.DataSource.Timeout),
		Config: dashboard.Config{
			ConstituentsTTL: cfg.Cache.ConstituentsTTL,
			CapsTTL:         cfg.Cache.CapsTTL,
			PricesTTL:       cfg.Cache.PricesTTL,
			HistoryPeriod:   cfg.Cache.HistoryPeriod,
		},
	})
	svc.Refresh(recorder.TriggerStartup)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, svc)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.PurgeCron); err != nil {
		log.Fatalf("register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Schedule.WarmOnStart {
		log.Info("warm_on_start enabled, loading the S&P 500 map now")
		go sched.WarmNow()
	}

	srv := server.New(svc)
	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		log.Infof("listening on %s", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	cancel()
	srv.Hub().Close()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http shutdown: %v", err)
	}
	log.Info("MarketLens stopped")
}

// demoFetcher serves generated data for the fallback universe, the Taiwan
// list and every macro and commodity symbol.
func demoFetcher(us []model.Symbol) *collector.MockFetcher {
	syms := append(append([]model.Symbol{}, us...), universe.TaiwanProvider{}.Symbols(context.Background())...)
	extra := []string{
		dashboard.SymbolVIX, dashboard.SymbolSP500, dashboard.SymbolTenYear,
		dashboard.SymbolHYG, dashboard.SymbolIEF,
	}
	for _, c := range dashboard.Commodities {
		extra = append(extra, c.Ticker)
	}
	return collector.NewDemoFetcher(syms, extra...)
}
