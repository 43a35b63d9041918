package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tourpad/scheduler/internal/adapter/cache"
	"github.com/tourpad/scheduler/internal/adapter/handler"
	"github.com/tourpad/scheduler/internal/adapter/lock"
	"github.com/tourpad/scheduler/internal/adapter/queue"
	"github.com/tourpad/scheduler/internal/adapter/repository/memory"
	"github.com/tourpad/scheduler/internal/adapter/repository/postgres"
	"github.com/tourpad/scheduler/internal/core/domain"
	"github.com/tourpad/scheduler/internal/core/ports"
	"github.com/tourpad/scheduler/internal/core/services"
	"github.com/tourpad/scheduler/internal/platform/config"
	"github.com/tourpad/scheduler/internal/platform/database"
	"github.com/tourpad/scheduler/internal/platform/logger"
	"github.com/tourpad/scheduler/internal/platform/sweeper"
	"github.com/tourpad/scheduler/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.New(cfg.IsProduction(), cfg.LogLevel)
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		calendars ports.CalendarRepository
		profiles  ports.ProfileRepository
	)
	switch cfg.Store {
	case "memory":
		store := memory.NewStore()
		calendars, profiles = store, memory.NewProfileRepository(store)
		logger.Warn("Using in-memory store; bookings are lost on restart")
	default:
		db, err := database.NewPostgresDB(database.Config{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to connect to db after retries", zap.Error(err))
		}
		defer db.Close()

		migrator, err := database.NewMigrator(db, migrations.FS, logger)
		if err != nil {
			logger.Fatal("Failed to prepare migrations", zap.Error(err))
		}
		if err := migrator.Run(ctx); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}

		calendars, profiles = postgres.NewCalendarRepository(db), postgres.NewProfileRepository(db)
	}

	logger.Info("Connecting to Redis", zap.String("addr", cfg.RedisAddr))
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisCacheDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	var locker ports.ResourceLocker = services.NewLocalLocker()
	if cfg.Lock == "redis" {
		locker = lock.NewRedisLocker(redisClient, cfg.LockTTL, logger)
	}

	queueOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
	queueClient := asynq.NewClient(queueOpt)
	defer queueClient.Close()

	bookingService := services.NewBookingService(calendars, profiles, locker, logger,
		services.WithCache(cache.NewRedisAvailabilityCache(redisClient, cfg.CacheTTL)),
		services.WithExpiryScheduler(queue.NewExpiryScheduler(queueClient)),
		services.WithDefaultPolicy(domain.Policy{HoldTTL: cfg.HoldTTL, WaitlistMax: cfg.WaitlistMax}),
	)

	worker, mux := queue.NewServer(queueOpt, cfg.WorkerConcurrency, bookingService, logger)
	if err := worker.Start(mux); err != nil {
		logger.Fatal("Failed to start expiry worker", zap.Error(err))
	}
	defer worker.Shutdown()

	go sweeper.New(bookingService, cfg.SweepInterval, cfg.SweepBatch, logger).Run(ctx)

	bookingHandler := handler.NewBookingHandler(bookingService, logger)
	router := handler.NewRouter(bookingHandler, handler.RouterConfig{
		CORSOrigins: cfg.CORSOrigins,
		Limiter:     handler.NewRateLimiter(cfg.RateLimitPerSec, cfg.RateLimitBurst),
	}, logger)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Server exiting")
}
