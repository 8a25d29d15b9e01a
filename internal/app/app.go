package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"liquitrace/internal/adapters"
	"liquitrace/internal/adapters/cache"
	"liquitrace/internal/adapters/dexscreener"
	"liquitrace/internal/adapters/geckoterminal"
	"liquitrace/internal/adapters/llm"
	"liquitrace/internal/adapters/postgres"
	"liquitrace/internal/adapters/push"
	"liquitrace/internal/api"
	"liquitrace/internal/config"
	"liquitrace/internal/observability"
	"liquitrace/internal/platform/db"
	httpserver "liquitrace/internal/platform/http"
	"liquitrace/internal/scan"
	"liquitrace/internal/scan/handler"

	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(appCfg.Logging.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	if err = appCfg.Validate(); err != nil {
		logrus.WithError(err).Error("Config validation failed")
		return err
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations)
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// DB pool
	pool, err := db.Connect(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	if err = db.Migrate(startupCtx, pool); err != nil {
		logrus.WithError(err).Error("Failed to apply migrations")
		return err
	}
	logrus.Info("✅ Migrations applied")

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	// External clients
	screener := dexscreener.NewClient(appCfg.Scan.DexScreenerBaseURL, appCfg.Scan.ChainID, baseHTTPClient)
	trending := geckoterminal.NewClient(appCfg.Scan.GeckoTerminalBaseURL, appCfg.Scan.ChainID, baseHTTPClient)
	summaries := llm.NewOpenAISummaryGenerator(llm.Config{
		APIKey:    appCfg.OpenAI.APIKey,
		BaseURL:   appCfg.OpenAI.BaseURL,
		Model:     appCfg.OpenAI.Model,
		MaxTokens: appCfg.OpenAI.MaxTokens,
	}, baseHTTPClient)
	sender := push.NewHTTPSender(baseHTTPClient)

	var summaryCache adapters.SummaryCache
	if ttl := time.Duration(appCfg.OpenAI.SummaryCacheTTLSeconds) * time.Second; ttl > 0 {
		ristrettoCache, cacheErr := cache.NewSummaryCache(appCfg.OpenAI.SummaryCacheMaxItems, ttl)
		if cacheErr != nil {
			logrus.WithError(cacheErr).Error("Failed to create summary cache")
			return cacheErr
		}
		defer ristrettoCache.Close()
		summaryCache = ristrettoCache
		logrus.Infof("✅ Summary cache enabled (ttl %s)", ttl)
	}

	// Metrics
	metrics := observability.NewMetrics(observability.NewRegistry())

	// Scan job
	job := scan.NewJob(scan.Deps{
		Screener:     screener,
		Trending:     trending,
		Summaries:    summaries,
		SummaryCache: summaryCache,
		Signals:      postgres.NewSignalRepository(pool),
		Subscribers:  postgres.NewSubscriberRepository(pool),
		Sender:       sender,
		Metrics:      metrics,
	}, scan.Options{
		ChainID:        appCfg.Scan.ChainID,
		SearchQueries:  appCfg.Scan.SearchQueries,
		Retention:      appCfg.Scan.Retention(),
		Workers:        appCfg.Scan.Workers,
		SummaryTimeout: time.Duration(appCfg.OpenAI.TimeoutSeconds) * time.Second,
		SwapBaseURL:    appCfg.Swap.BaseURL,
		ReferralWallet: appCfg.Swap.ReferralWallet,
		SwapFeeBps:     appCfg.Swap.FeeBps,
		AppURL:         appCfg.Notifications.AppURL,
	})

	if appCfg.Scan.CronSecret == "" {
		logrus.Warn("CRON_SECRET is not set, the scan trigger is open to anyone")
	}

	if appCfg.Scheduler.Enabled {
		scheduler := scan.NewScheduler(job, appCfg.Scheduler.Cron, appCfg.Scheduler.RunOnStart, appCfg.Scan.RunTimeout())
		// Ensure scheduler stops before DB pool closes
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
		logrus.Infof("✅ Scheduler activation successful (%s)", appCfg.Scheduler.Cron)
	}

	// Handlers and router
	scanHandler := handler.NewScanHandler(job, appCfg.Scan.CronSecret, appCfg.Scan.RunTimeout())
	router := api.NewRouter(scanHandler, metrics.Handler())

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
