package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "github.com/tair/techstore/docs"
	"github.com/tair/techstore/internal/audit"
	"github.com/tair/techstore/internal/config"
	"github.com/tair/techstore/internal/product"
	grpcDelivery "github.com/tair/techstore/internal/product/delivery/grpc"
	httpDelivery "github.com/tair/techstore/internal/product/delivery/http"
	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/internal/product/repository"
	"github.com/tair/techstore/internal/user"
	"github.com/tair/techstore/internal/user/usecase/command"
	"github.com/tair/techstore/kafka"
	"github.com/tair/techstore/pkg/auth"
	"github.com/tair/techstore/pkg/database"
	"github.com/tair/techstore/pkg/logger"
	"github.com/tair/techstore/pkg/ratelimit"
	"github.com/tair/techstore/pkg/tracing"
)

func main() {
	logger.Init("techstore", true)

	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.Tracing.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
		}
	}()

	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	users, err := user.InitializeModule(db, tokens, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize user module")
	}
	if _, err := users.EnsureAdmin.Handle(ctx, command.EnsureAdminCommand{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to bootstrap admin account")
	}

	events, closeEvents := setupEvents(ctx, cfg, db)
	defer closeEvents()

	catalog, err := product.InitializeModule(db, users.Gate, events, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize product module")
	}
	if cfg.SeedCatalog {
		if _, err := repository.SeedIfEmpty(ctx, catalog.Repository); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to seed catalog")
		}
	}

	if limiter := setupLoginLimiter(ctx, cfg); limiter != nil {
		users.Handler.WithLoginLimiter(func(next http.HandlerFunc) http.HandlerFunc {
			return limiter.Middleware(next).ServeHTTP
		})
	}

	router := mux.NewRouter()
	router.Use(
		httpDelivery.RecoveryMiddleware,
		httpDelivery.RequestIDMiddleware,
		httpDelivery.TracingMiddleware(cfg.Tracing.ServiceName),
		httpDelivery.LoggingMiddleware,
		httpDelivery.SecurityHeadersMiddleware,
	)
	catalog.Handler.RegisterRoutes(router)
	catalog.Handler.RegisterHealthCheck(router, sqlDB)
	catalog.Handler.RegisterIndex(router, cfg.Version)
	users.Handler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler())
	httpDelivery.RegisterSwaggerDocs(router, nil)
	router.NotFoundHandler = httpDelivery.NotFoundHandler()

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpDelivery.CORSMiddleware(cfg.CORSOrigins)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var health *grpcDelivery.HealthServer
	if cfg.GRPCPort != "" {
		health = startHealthServer(ctx, cfg.GRPCPort, sqlDB)
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("environment", cfg.Environment).
			Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down servers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if health != nil {
		health.Shutdown()
	}
}

// setupEvents returns the Kafka publisher and starts the audit consumer when
// brokers are configured
func setupEvents(ctx context.Context, cfg config.Config, db *gorm.DB) (domain.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Logger.Info().Msg("KAFKA_BROKERS not set, product change events disabled")
		return kafka.NoopPublisher{}, func() {}
	}

	publisher, err := kafka.NewPublisher(cfg.KafkaBrokers)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka publisher")
	}

	recorder := audit.NewRecorder(db)
	if err := recorder.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to migrate audit log")
	}
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaAuditGroup, []string{kafka.TopicProductChanges})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	recorder.Subscribe(consumer)
	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
	}

	return publisher, func() {
		if err := consumer.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka consumer")
		}
		if err := publisher.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka publisher")
		}
	}
}

// setupLoginLimiter returns nil when REDIS_ADDR is not set or unreachable
func setupLoginLimiter(ctx context.Context, cfg config.Config) *ratelimit.Limiter {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, login rate limiting disabled")
		return nil
	}

	logger.Logger.Info().
		Str("addr", cfg.RedisAddr).
		Int("limit", cfg.LoginRateLimit).
		Msg("Login rate limiting enabled")
	return ratelimit.NewLimiter(client, "login", cfg.LoginRateLimit, time.Minute)
}

func startHealthServer(ctx context.Context, port string, db grpcDelivery.Pinger) *grpcDelivery.HealthServer {
	health := grpcDelivery.NewHealthServer(db, prometheus.DefaultRegisterer, 10*time.Second)
	health.Check(ctx)
	go health.Watch(ctx)

	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("port", port).Msg("Failed to listen for gRPC")
	}

	go func() {
		logger.Logger.Info().Str("port", port).Msg("gRPC health server starting")
		if err := health.Server().Serve(lis); err != nil {
			logger.Logger.Error().Err(err).Msg("gRPC server stopped")
		}
	}()
	return health
}
