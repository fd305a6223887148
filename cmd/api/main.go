package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"ozon-orders/internal/core/cache"
	"ozon-orders/internal/core/config"
	"ozon-orders/internal/core/database"
	"ozon-orders/internal/core/logger"
	"ozon-orders/internal/core/server"
	orderadapter "ozon-orders/internal/features/orders/adapters"
	"ozon-orders/internal/features/orders/domain"
	orderhandler "ozon-orders/internal/features/orders/handler"
	"ozon-orders/internal/features/orders/ports"
	"ozon-orders/internal/features/orders/scheduler"
	orderservice "ozon-orders/internal/features/orders/service"

	"go.uber.org/zap"
)

// @title Ozon Orders API
// @version 1.0
// @description Polls new Ozon FBS postings and stores them.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("window_mode", cfg.Poll.WindowMode),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		l.Fatal("Database connection failed", zap.Error(err))
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, cfg.Database.MigrationsDir); err != nil {
		l.Fatal("Migrations failed", zap.Error(err))
	}

	// Boundary store
	var boundaryCache cache.Cache
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
		if err != nil {
			l.Fatal("Redis configuration invalid", zap.Error(err))
		}
		if err := redisCache.Ping(ctx); err != nil {
			l.Fatal("Redis unreachable", zap.Error(err))
		}
		boundaryCache = redisCache
	} else {
		boundaryCache = cache.NewMemoryAdapter()
		l.Info("REDIS_URL not set, polling boundary kept in memory")
	}
	defer boundaryCache.Close()

	mode, err := domain.ParseWindowMode(cfg.Poll.WindowMode)
	if err != nil {
		l.Fatal("Invalid window mode", zap.Error(err))
	}
	loc, err := cfg.Poll.Location()
	if err != nil {
		l.Fatal("Invalid timezone", zap.Error(err))
	}

	// Initialize Ozon Adapter and run Health Check
	ozonAdapter, err := orderadapter.NewOzonAdapter(cfg.Ozon,
		orderadapter.WithLocation(loc),
		orderadapter.WithWindowMode(mode, orderadapter.NewCacheBoundaryStore(boundaryCache)),
	)
	if err != nil {
		l.Fatal("Ozon adapter configuration invalid", zap.Error(err))
	}
	if err := ozonAdapter.HealthCheck(ctx); err != nil {
		l.Warn("Ozon Health Check Failed", zap.Error(err))
	} else {
		l.Info("Ozon connection verified")
	}

	// Optional publisher
	var publisher ports.OrderPublisher
	if brokers := cfg.Kafka.BrokerList(); len(brokers) > 0 {
		kafkaPublisher := orderadapter.NewKafkaPublisher(brokers, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		l.Info("Publishing new orders", zap.Strings("brokers", brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// Initialize Order Service, Scheduler & Handler
	orderService := orderservice.NewOrderService(
		ozonAdapter,
		orderadapter.NewPostgresOrderRepository(pool),
		publisher,
		cfg.Poll.Lookback,
	)
	orderHandler := orderhandler.NewOrderHandler(orderService)

	sched := scheduler.New(cfg.Poll.Interval, orderService, l)
	if err := sched.Start(ctx); err != nil {
		l.Fatal("Scheduler failed to start", zap.Error(err))
	}

	srv := server.New(cfg)

	// Register Routes
	orderHandler.RegisterRoutes(srv.App)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		l.Error("Server failed", zap.Error(err))
	case <-ctx.Done():
		l.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := sched.Stop(shutdownCtx); err != nil {
		l.Error("Scheduler did not stop in time", zap.Error(err))
	}
	if err := srv.Shutdown(); err != nil {
		l.Error("Server shutdown failed", zap.Error(err))
	}
}
