// Package main runs the meeting recording dashboard API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/meetcapture/backend/config"
	"github.com/meetcapture/backend/internal/attendance"
	"github.com/meetcapture/backend/internal/auth"
	"github.com/meetcapture/backend/internal/livesession"
	"github.com/meetcapture/backend/internal/middleware"
	"github.com/meetcapture/backend/internal/participants"
	"github.com/meetcapture/backend/internal/recordings"
	"github.com/meetcapture/backend/internal/worker"
	"github.com/meetcapture/backend/pkg/database"
	"github.com/meetcapture/backend/pkg/queue"
	"github.com/meetcapture/backend/pkg/redis"
	"github.com/meetcapture/backend/pkg/response"
	"github.com/meetcapture/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			RecordingsBucket:     cfg.AWS.RecordingsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	grace := time.Duration(cfg.Attendance.GraceMinutes) * time.Minute

	// Identity
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	sessions := auth.NewSessionStore(rdb.Client, logger)
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, sessions, auth.NewGoogleVerifier(), logger)

	// Recordings (persistence gateway + list cache)
	recordingRepo := recordings.NewRepository(pool)
	listCache := recordings.NewListCache(rdb.Client, logger)
	recordingHandler := recordings.NewHandler(recordingRepo, listCache, s3Client, logger)

	// Participants and attendance
	participantRepo := participants.NewRepository(pool)
	participantHandler := participants.NewHandler(participantRepo, logger)
	attendanceHandler := attendance.NewHandler(recordingRepo, participantRepo, grace, logger)

	// Live sessions and post-processing handoff
	jobQueue := queue.NewQueue(rdb.Client, logger)
	liveManager := livesession.NewManager(jobQueue, logger)
	liveHandler := livesession.NewHandler(liveManager, recordingRepo, logger)
	processor := worker.NewProcessor(recordingRepo, participantRepo, s3Client, jobQueue, cfg.Video, grace, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/google", authHandler.FederatedLogin)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService, sessions))
	{
		api.GET("/auth/me", authHandler.Me)
		api.POST("/auth/logout", authHandler.Logout)

		api.GET("/recordings/upcoming", recordingHandler.ListUpcoming)
		api.GET("/recordings/past", recordingHandler.ListPast)
		api.POST("/recordings", recordingHandler.Schedule)
		api.GET("/recordings/:id", recordingHandler.GetByID)
		api.DELETE("/recordings/:id", recordingHandler.CancelSchedule)
		api.GET("/recordings/:id/download-url", recordingHandler.DownloadURL)

		api.GET("/recordings/:id/participants", participantHandler.List)
		api.POST("/recordings/:id/participants", participantHandler.Join)
		api.POST("/recordings/:id/participants/:pid/leave", participantHandler.Leave)

		api.GET("/recordings/:id/attendance", attendanceHandler.Get)
		api.GET("/recordings/:id/attendance/export", attendanceHandler.ExportCSV)

		api.POST("/recordings/:id/live/start", liveHandler.Start)
		api.POST("/recordings/:id/live/pause", liveHandler.Pause)
		api.POST("/recordings/:id/live/resume", liveHandler.Resume)
		api.POST("/recordings/:id/live/stop", liveHandler.Stop)
		api.GET("/recordings/:id/live", liveHandler.Elapsed)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// In-process post-processing worker
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go processor.Run(workerCtx)
	logger.Info("post-processing worker started")

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	liveManager.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
