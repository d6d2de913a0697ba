package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ratehub/internal/adapters/cache"
	"ratehub/internal/api"
	"ratehub/internal/config"
	"ratehub/internal/domain"
	"ratehub/internal/platform/metrics"
	"ratehub/internal/rate"
	"ratehub/internal/rate/handler"

	httpserver "ratehub/internal/platform/http"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and scheduler
func Run(configPath string) error {
	appCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	setupLogger(appCfg.Logging)
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations, pings)
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	base, err := domain.ParseCurrencyCode(appCfg.Rates.BaseCurrency)
	if err != nil {
		logrus.WithError(err).Errorf("Invalid base currency %q", appCfg.Rates.BaseCurrency)
		return err
	}

	// Storage
	stores, err := openStores(startupCtx, appCfg)
	if err != nil {
		logrus.WithError(err).Errorf("Failed to open '%s' storage", appCfg.Storage.Driver)
		return err
	}
	defer stores.close()
	logrus.Infof("✅ Storage '%s' is ready", appCfg.Storage.Driver)

	// Sources, in precedence order
	httpClient := &http.Client{Timeout: appCfg.HTTPClient.Timeout()}
	sources, catalog, err := buildSources(appCfg, httpClient, base)
	if err != nil {
		logrus.WithError(err).Error("Failed to build rate sources")
		return err
	}
	registry := rate.NewSourceRegistry(sources...)
	logrus.Infof("✅ Rate sources: %s", strings.Join(registry.Names(), ", "))

	lookups, err := cache.NewResolvedRateCache(appCfg.LookupCache.MaxItems)
	if err != nil {
		return err
	}
	defer lookups.Close()

	// Metrics
	registerer := prometheus.NewRegistry()
	registerer.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	refreshMetrics := metrics.NewRefreshMetrics(registerer)

	// Core
	clock := clockwork.NewRealClock()
	ttl := appCfg.Rates.TTL()
	rateCache := rate.NewCache(stores.batches, clock)
	history := rate.NewHistory(stores.history)
	aggregator := rate.NewAggregator(registry, rateCache, history, clock, appCfg.HTTPClient.Timeout(), refreshMetrics)
	valuation := rate.NewValuationEngine(rateCache, ttl)

	scheduler := rate.NewScheduler(aggregator, clock, ttl)
	// Ensure scheduler stops before storage closes
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	// Start scheduler tied to root context
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Scheduler activation successful")

	rateService := rate.NewService(scheduler, rateCache, history, valuation, lookups, catalog, ttl)

	// Handlers and router
	rateHandler := handler.NewRateHandler(rateService)
	router := api.NewRouter(rateHandler, registerer)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

func setupLogger(cfg config.Logging) {
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(cfg.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	if strings.EqualFold(cfg.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
