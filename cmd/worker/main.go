package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/wayne-enterprises/bidash/internal/app"
	"github.com/wayne-enterprises/bidash/internal/observability"
	"github.com/wayne-enterprises/bidash/internal/platform/cache"
	"github.com/wayne-enterprises/bidash/jobs"
)

func main() {
	if app.SkipRuntime(slog.Default(), "worker") {
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

	metrics := observability.NewMetrics()
	probeJob := jobs.NewUpstreamProbeJob(app.NewFeedClient(cfg), logger, metrics.Jobs(), cfg.FetchTimeout)
	probeTask, err := jobs.NewUpstreamProbeTask(jobs.UpstreamProbePayload{})
	if err != nil {
		logger.Error("build probe task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: cache.AsynqOpt(cfg.RedisAddr),
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskUpstreamProbe, Handler: probeJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.ProbeSpec, Task: probeTask, Options: []asynq.Option{asynq.Unique(cfg.FetchTimeout)}},
		},
		MetricsAddr: cfg.MetricsAddr,
		Metrics:     metrics.Handler(),
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("probe_spec", cfg.ProbeSpec), slog.String("metrics_addr", cfg.MetricsAddr))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
