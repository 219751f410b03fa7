package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cotiza-app/quote-gateway/internal/backend"
	"github.com/cotiza-app/quote-gateway/internal/config"
	"github.com/cotiza-app/quote-gateway/internal/editor"
	"github.com/cotiza-app/quote-gateway/internal/http/handler"
	"github.com/cotiza-app/quote-gateway/internal/http/middleware"
	"github.com/cotiza-app/quote-gateway/internal/http/router"
	"github.com/cotiza-app/quote-gateway/internal/jobs"
	"github.com/cotiza-app/quote-gateway/internal/logger"
	"github.com/cotiza-app/quote-gateway/internal/notify"
	"github.com/cotiza-app/quote-gateway/internal/refdata"
	"github.com/cotiza-app/quote-gateway/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	// Backend client (the only component that talks to the cotiza API)
	backendClient, err := backend.NewClient(&cfg.Backend, log)
	if err != nil {
		return fmt.Errorf("failed to create backend client: %w", err)
	}

	presenter := notify.NewLogPresenter(log)

	// Reference data cache with the startup load. A failed load is not
	// fatal unless configured so: the gateway starts with an empty cache
	// and the UI sees load failures until a refresh succeeds.
	cache := refdata.NewCache(backendClient, log)
	{
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Refdata.RefreshTimeoutDuration())
		err := cache.Reload(ctx)
		cancel()
		if err != nil {
			if cfg.Refdata.RequireOnStartup {
				return fmt.Errorf("initial reference data load failed: %w", err)
			}
			log.Warn("initial reference data load failed, starting with empty cache", zap.Error(err))
			presenter.Present("Could not load reference data", notify.KindError)
		}
	}

	// Editing core and services
	draftManager := editor.NewManager(cache, backendClient, log)
	quotationService := service.NewQuotationService(backendClient, presenter, log)
	masterDataService := service.NewMasterDataService(backendClient, cache, presenter, log)

	// Handlers
	draftHandler := handler.NewDraftHandler(draftManager, quotationService, cache, log)
	refdataHandler := handler.NewRefdataHandler(cache, log)
	quotationHandler := handler.NewQuotationHandler(quotationService, log)
	masterDataHandler := handler.NewMasterDataHandler(masterDataService, log)

	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(
		cfg,
		log,
		cache,
		rateLimiter,
		draftHandler,
		refdataHandler,
		quotationHandler,
		masterDataHandler,
	)

	// Periodic reference data refresh
	var scheduler *jobs.Scheduler
	if cfg.Refdata.RefreshEnabled {
		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterRefdataRefreshJob(
			scheduler,
			cache,
			presenter,
			log,
			cfg.Refdata.RefreshCron,
			cfg.Refdata.RefreshTimeoutDuration(),
		); err != nil {
			log.Error("Failed to register refdata refresh job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with refdata refresh job",
				zap.String("cron_expr", cfg.Refdata.RefreshCron),
			)
		}
	} else {
		log.Info("Periodic reference data refresh disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
