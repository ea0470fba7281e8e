package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mytube/video-gallery-api/internal/config"
	"github.com/mytube/video-gallery-api/internal/db"
	"github.com/mytube/video-gallery-api/internal/db/repository"
	"github.com/mytube/video-gallery-api/internal/embed"
	"github.com/mytube/video-gallery-api/internal/handler"
	"github.com/mytube/video-gallery-api/internal/service"
	"github.com/mytube/video-gallery-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush on exit

	ctx := context.Background()

	pool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	logger.Log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Name),
	)

	videoRepo := repository.NewVideoRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	engagementRepo := repository.NewEngagementRepository(pool)
	playlistRepo := repository.NewPlaylistRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)

	// Engagement event publishing is optional; the service degrades to
	// logging when the broker is not configured.
	var publisher service.EventPublisher
	if cfg.RabbitMQ.Enabled {
		mp, err := service.NewMessagePublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Warn("Failed to connect to RabbitMQ, engagement events will not be published",
				zap.Error(err),
			)
		} else {
			publisher = mp
			defer mp.Close() //nolint:errcheck // best-effort close on exit
		}
	}

	fetcher := embed.NewOEmbedFetcher(embed.OEmbedConfig{
		UserAgent: cfg.OEmbed.UserAgent,
		Timeout:   cfg.OEmbed.Timeout,
	})
	engine := embed.NewEngine(fetcher)

	engagementSvc := service.NewEngagementService(engagementRepo, videoRepo, commentRepo, publisher)
	playlistSvc := service.NewPlaylistService(playlistRepo)
	videoSvc := service.NewVideoService(videoRepo, commentRepo, engine, engagementSvc, playlistSvc)
	userSvc := service.NewUserService(userRepo, sessionRepo, cfg.Admin.Username)

	if err := userSvc.EnsureAdmin(ctx, cfg.Admin.Password); err != nil {
		logger.Log.Fatal("Failed to provision admin account", zap.Error(err))
	}

	router := handler.NewRouter(handler.Handlers{
		Videos:      handler.NewVideoHandler(videoSvc, playlistSvc),
		Engagements: handler.NewEngagementHandler(engagementSvc),
		Auth:        handler.NewAuthHandler(userSvc),
		Users:       userSvc,
		Pool:        pool,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("Server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Log.Fatal("Server error", zap.Error(err))
	case sig := <-shutdown:
		logger.Log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Log.Error("Graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				logger.Log.Error("Failed to close server", zap.Error(err))
			}
			os.Exit(1)
		}

		logger.Log.Info("Server stopped gracefully")
	}
}
