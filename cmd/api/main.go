package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"files-manager/internal/access"
	"files-manager/internal/config"
	"files-manager/internal/handler/appHandler"
	"files-manager/internal/handler/authHandler"
	"files-manager/internal/handler/fileHandler"
	"files-manager/internal/handler/userHandler"
	"files-manager/internal/queue"
	"files-manager/internal/repository/fileRepo"
	"files-manager/internal/repository/sessionRepo"
	"files-manager/internal/repository/userRepo"
	"files-manager/internal/service/authService"
	"files-manager/internal/service/fileService"
	"files-manager/internal/storage"
	mongodb "files-manager/pkg/database/mongo"
	redisdb "files-manager/pkg/database/redis"
	"files-manager/pkg/logger"
	"files-manager/pkg/middleware"
)

func main() {
	ctx := context.Background()
	ctx, _ = logger.New(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New()
	if err != nil {
		logger.GetLogger(ctx).Fatal("Failed to load config", zap.Error(err))
	}

	db, err := mongodb.New(ctx, cfg.Mongo)
	if err != nil {
		logger.GetLogger(ctx).Fatal("Failed to connect to mongodb", zap.Error(err))
	}

	redisClient := redisdb.New(cfg.Redis)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.GetLogger(ctx).Fatal("cannot connect to Redis", zap.Error(err))
	}

	store, err := storage.FromConfig(ctx, cfg.StorageBackend, cfg.FolderPath, cfg.MinIO)
	if err != nil {
		logger.GetLogger(ctx).Fatal("Failed to set up storage", zap.Error(err))
	}

	queueClient := queue.NewClient(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.Db)
	defer queueClient.Close()

	files := fileRepo.New(db)
	users := userRepo.New(db)
	sessions := sessionRepo.New(redisClient)

	ctrl := access.New(sessions)
	fileSvc := fileService.New(files, store, queueClient)
	authSvc := authService.New(users, sessions, queueClient)

	appH := appHandler.New(redisClient, db, users, files)
	authH := authHandler.New(authSvc)
	userH := userHandler.New(authSvc)
	fileH := fileHandler.New(fileSvc, ctrl)

	r := gin.Default()
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Token"}
	r.Use(cors.New(corsCfg))

	r.GET("/status", appH.Status)
	r.GET("/stats", appH.Stats)
	r.POST("/users", userH.Register)
	r.GET("/connect", authH.Connect)
	r.GET("/files/:id/data", fileH.Data)

	authorized := r.Group("/", middleware.Auth(ctrl))
	{
		authorized.GET("/disconnect", authH.Disconnect)
		authorized.GET("/users/me", userH.Me)
		authorized.POST("/files", fileH.Upload)
		authorized.GET("/files", fileH.Index)
		authorized.GET("/files/:id", fileH.Show)
		authorized.PUT("/files/:id/publish", fileH.Publish)
		authorized.PUT("/files/:id/unpublish", fileH.Unpublish)
	}

	srv := &http.Server{Addr: ":" + cfg.APIPort, Handler: r}
	go func() {
		logger.GetLogger(ctx).Info("api started", zap.String("port", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger(ctx).Fatal("Failed to serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger(ctx).Error("shutdown failed", zap.Error(err))
	}
	logger.GetLogger(ctx).Info("server stopped")
}
