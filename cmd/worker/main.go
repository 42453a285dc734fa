package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/app"
	jobmetrics "github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/jobs"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/db"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/reconciliation"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/systemlog"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, logger)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	recorder := systemlog.NewRecorder(pool)
	reconService := reconciliation.NewService(logger, reconciliation.NewRepository(pool), nil, cfg.ReconSummaryTTL, recorder)
	metrics := jobmetrics.NewMetrics(nil)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeReconSnapshot, Handler: jobs.NewReconSnapshotHandler(reconService, metrics)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "30 2 * * *", Task: jobs.NewReconSnapshotTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker starting")
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
