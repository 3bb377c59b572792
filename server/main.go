package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"cinebook/api/routes"
	"cinebook/internal/notifications"
	"cinebook/internal/seats"
	"cinebook/internal/settings"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
	"cinebook/internal/shared/middleware"
	"cinebook/internal/storage"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"
	"cinebook/pkg/ratelimit"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)
	seats.RegisterValidators()

	conns, err := database.Init(cfg)
	if err != nil {
		appLogger.Error("Failed to connect to databases", slog.Any("error", err))
		os.Exit(1)
	}
	defer conns.Close()

	if err := database.Migrate(conns.DB); err != nil {
		appLogger.Error("Failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	cacheService := cache.NewService(conns.Redis, "cinebook")

	var rateLimiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.NewLimiter(conns.Redis, cfg.RateLimit.WindowDuration)
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	settingsService := settings.NewService(conns.DB, cfg)

	notifier, consumer := setupNotifications(cfg, settingsService, appLogger)
	defer notifier.Close()
	if consumer != nil {
		notificationCtx, notificationCancel := context.WithCancel(context.Background())
		defer notificationCancel()
		consumer.Start(notificationCtx)
		defer func() {
			appLogger.Info("Stopping notification consumer...")
			if err := consumer.Stop(); err != nil {
				appLogger.Error("Error stopping notification consumer", slog.Any("error", err))
			}
		}()
	}

	proofs, err := setupStorage(cfg)
	if err != nil {
		appLogger.Error("Failed to initialize payment proof storage", slog.Any("error", err))
		os.Exit(1)
	}

	router := setupRouter(cfg, conns, cacheService, notifier, proofs, rateLimiter, appLogger)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

// setupNotifications wires the Kafka pipeline when brokers are configured and
// SMTP credentials exist; otherwise notifications are dropped silently. The
// sender consults the settings row on every delivery.
func setupNotifications(cfg *config.Config, settingsService settings.Service, appLogger *logger.Logger) (notifications.Publisher, *notifications.Consumer) {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Email.SMTPHost == "" {
		appLogger.Info("Notifications disabled: missing Kafka brokers or SMTP configuration")
		return notifications.NewNoopPublisher(), nil
	}

	publisher, err := notifications.NewKafkaPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize Kafka producer, notifications disabled", slog.Any("error", err))
		return notifications.NewNoopPublisher(), nil
	}

	sender, err := notifications.NewSMTPSender(cfg, settingsService)
	if err != nil {
		appLogger.Error("Failed to initialize email sender, notifications disabled", slog.Any("error", err))
		return publisher, nil
	}

	consumer, err := notifications.NewConsumer(cfg, sender, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize Kafka consumer", slog.Any("error", err))
		return publisher, nil
	}
	return publisher, consumer
}

func setupStorage(cfg *config.Config) (storage.Store, error) {
	if cfg.Cloudinary.CloudName != "" && cfg.Cloudinary.APIKey != "" {
		return storage.NewCloudinaryStore(cfg)
	}
	return storage.NewLocalStore(cfg.Upload.Path)
}

func setupRouter(cfg *config.Config, conns *database.Connections, cacheService cache.Service, notifier notifications.Publisher, proofs storage.Store, rateLimiter *ratelimit.Limiter, appLogger *logger.Logger) *gin.Engine {
	engine := gin.New()

	engine.Use(middleware.RequestID(), middleware.RequestLogger(appLogger), middleware.Recovery(appLogger))

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter, cfg, appLogger))
	}

	engine.Static("/uploads", cfg.Upload.Path)

	appRouter := routes.NewRouter(cfg, conns, cacheService, notifier, proofs, appLogger)
	appRouter.SetupRoutes(engine)

	return engine
}
