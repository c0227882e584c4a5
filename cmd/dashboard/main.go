package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/wayne-enterprises/bidash/internal/app"
	dashboardhttp "github.com/wayne-enterprises/bidash/internal/dashboard/http"
	"github.com/wayne-enterprises/bidash/internal/dashboard/ui"
	"github.com/wayne-enterprises/bidash/internal/observability"
	"github.com/wayne-enterprises/bidash/internal/pageload"
	"github.com/wayne-enterprises/bidash/internal/platform/cache"
	"github.com/wayne-enterprises/bidash/internal/view"
	"github.com/wayne-enterprises/bidash/jobs"
)

func main() {
	if app.SkipRuntime(slog.Default(), "server") {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	store, closeStore, err := app.NewPageStore(ctx, cfg)
	if err != nil {
		logger.Error("open page store", slog.String("store", cfg.PageStore), slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("page store close", slog.Any("error", err))
		}
	}()

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	loader := pageload.NewLoader(app.NewFeedClient(cfg), store, logger, metrics, cfg.FetchTimeout)
	dashboardHandler := dashboardhttp.NewHandler(logger, store, loader, templates, ui.SVGCharts(), dashboardhttp.Config{
		Title:           cfg.DashboardTitle,
		Subtitle:        cfg.DashboardSubtitle,
		RenderWait:      cfg.RenderWait,
		LoadingRefresh:  cfg.LoadingRefresh,
		RateLimit:       cfg.PageLoadRateLimit,
		ShowPanelErrors: cfg.ShowPanelErrors,
	})

	var inspector jobs.QueueInspector
	if cfg.PageStore == app.StoreRedis {
		asynqInspector := asynq.NewInspector(cache.AsynqOpt(cfg.RedisAddr))
		defer func() {
			if err := asynqInspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		inspector = asynqInspector
	}
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		DashboardHandler: dashboardHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("api_base_url", cfg.APIBaseURL))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
