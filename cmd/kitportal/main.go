package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"kitportal/internal/booking"
	"kitportal/internal/checkout"
	"kitportal/internal/events"
	apphttp "kitportal/internal/http"
	"kitportal/internal/http/router"
	"kitportal/internal/kit"
	kitclient "kitportal/internal/kit/client"
	"kitportal/internal/kit/service"
	"kitportal/internal/report"
	"kitportal/internal/session"
	"kitportal/platform/config"
	"kitportal/platform/httpkit"
	"kitportal/platform/logger"
	"kitportal/platform/metrics"
	"kitportal/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "productLine", cfg.GetProductLine())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	api := httpkit.NewAPIClient(cfg.GetAPIBaseURL(), cfg.GetAPITimeout(), cfg.GetAPIRateLimit(), cfg.GetAPIRateBurst(), log)

	pricingCache, closeCache := initPricingCache(ctx, cfg, log)
	if closeCache != nil {
		defer closeCache()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	kits := kitclient.New(api, val)
	bookings := booking.NewClient(api, val)
	checkoutClient := checkout.NewClient(api)
	pricing := checkout.NewPricingService(checkoutClient, pricingCache, cfg.GetPricingCacheTTL(), log)

	reports := report.NewService(report.NewClient(api, val), cfg.GetReportLanguage(), log, appMetrics)
	reports.RegisterHandlers(eventBus)

	sessions := session.NewRegistry(func(id uuid.UUID) *service.Controller {
		return service.New(id, service.Deps{
			Kits:         kits,
			Bookings:     bookings,
			Replacements: checkoutClient,
			Pricing:      pricing,
			Bus:          eventBus,
			Metrics:      appMetrics,
			Validator:    val,
			Log:          log,
			ProductLine:  cfg.GetProductLine(),
		})
	}, appMetrics, log, reports.Forget)
	go sessions.RunEviction(ctx, time.Minute, cfg.GetSessionIdleTTL())

	kitModule := kit.NewModule(sessions, reports, val, cfg)

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Metrics:  registry,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			kitModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.GetHTTPAddr())
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initPricingCache(ctx context.Context, cfg config.PricingCacheConfig, log *logger.Logger) (checkout.PricingCache, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; upgrade pricing cached in memory")
		return checkout.NewMemoryCache(), nil
	}

	cache, err := checkout.NewRedisCache(cfg.GetRedisURL())
	if err != nil {
		log.Error("failed to initialize redis pricing cache", "error", err)
		return checkout.NewMemoryCache(), nil
	}
	if err := withRetry(ctx, log, "redis ping", 5, time.Second, func() error {
		return cache.Ping(ctx)
	}); err != nil {
		log.Error("redis unreachable; upgrade pricing cached in memory", "error", err)
		_ = cache.Close()
		return checkout.NewMemoryCache(), nil
	}

	log.Info("redis pricing cache connected")
	return cache, func() {
		_ = cache.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
