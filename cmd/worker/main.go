package main

import (
	"context"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"files-manager/internal/config"
	"files-manager/internal/queue"
	"files-manager/internal/repository/fileRepo"
	"files-manager/internal/repository/userRepo"
	"files-manager/internal/storage"
	"files-manager/internal/worker"
	mongodb "files-manager/pkg/database/mongo"
	"files-manager/pkg/logger"
)

func main() {
	ctx := context.Background()
	ctx, _ = logger.New(ctx)

	cfg, err := config.New()
	if err != nil {
		logger.GetLogger(ctx).Fatal("Failed to load config", zap.Error(err))
	}

	db, err := mongodb.New(ctx, cfg.Mongo)
	if err != nil {
		logger.GetLogger(ctx).Fatal("Failed to connect to mongodb", zap.Error(err))
	}

	store, err := storage.FromConfig(ctx, cfg.StorageBackend, cfg.FolderPath, cfg.MinIO)
	if err != nil {
		logger.GetLogger(ctx).Fatal("Failed to set up storage", zap.Error(err))
	}

	zl := logger.GetLogger(ctx).Zap()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Db,
		},
		asynq.Config{Concurrency: cfg.WorkerConcurrency},
	)

	mux := asynq.NewServeMux()
	mux.Handle(queue.TypeThumbnail, worker.NewThumbnailWorker(fileRepo.New(db), store, zl))
	mux.Handle(queue.TypeUserWelcome, worker.NewWelcomeWorker(userRepo.New(db), zl))

	logger.GetLogger(ctx).Info("worker started", zap.Int("concurrency", cfg.WorkerConcurrency))
	if err := srv.Run(mux); err != nil {
		logger.GetLogger(ctx).Fatal("Failed to run worker", zap.Error(err))
	}
}
