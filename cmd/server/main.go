package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/autofin/credit-engine/internal/application/usecase"
	"github.com/autofin/credit-engine/internal/domain/port"
	"github.com/autofin/credit-engine/internal/domain/service"
	"github.com/autofin/credit-engine/internal/infrastructure/adapter"
	"github.com/autofin/credit-engine/internal/infrastructure/cache"
	"github.com/autofin/credit-engine/internal/infrastructure/config"
	"github.com/autofin/credit-engine/internal/infrastructure/messaging"
	"github.com/autofin/credit-engine/internal/infrastructure/persistence/postgres"
	"github.com/autofin/credit-engine/internal/infrastructure/resilience"
	"github.com/autofin/credit-engine/internal/observability"
	grpcserver "github.com/autofin/credit-engine/internal/presentation/grpc"
	"github.com/autofin/credit-engine/internal/presentation/rest"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	cfg.Validate()

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	logger = logger.With("service", cfg.ServiceName)

	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DB.URL())
	if err != nil {
		logger.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("ping database", "error", err)
		os.Exit(1)
	}

	customerRepo := postgres.NewCustomerRepo(pool)
	applicationRepo := postgres.NewApplicationRepo(pool)

	publisher := messaging.NewKafkaEventPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("close kafka writer", "error", err)
		}
	}()

	// The scoring authority is external; fall back to the deterministic stub
	// when no endpoint is configured.
	var oracle port.ScoreOracle
	if cfg.Oracle.BaseURL != "" {
		oracle = adapter.NewHTTPScoreOracle(adapter.HTTPScoreOracleConfig{
			BaseURL: cfg.Oracle.BaseURL,
			APIKey:  cfg.Oracle.APIKey,
		}, &http.Client{Timeout: cfg.Oracle.CallTimeout})
	} else {
		logger.Warn("no score oracle configured, using deterministic stub")
		oracle = adapter.NewStubScoreOracle()
	}

	if cfg.Redis.Addr != "" {
		redisClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		oracle = cache.NewRedisScoreCache(oracle, redisClient, cfg.Redis.ScoreTTL, logger)
	}

	breaker := resilience.NewCircuitBreaker(resilience.Config{
		WindowSize:            cfg.Breaker.WindowSize,
		MinCalls:              cfg.Breaker.MinCalls,
		FailureRateThreshold:  cfg.Breaker.FailureRateThreshold,
		SlowCallRateThreshold: cfg.Breaker.SlowCallRateThreshold,
		SlowCallDuration:      cfg.Breaker.SlowCallDuration,
		Cooldown:              cfg.Breaker.Cooldown,
		HalfOpenMaxCalls:      cfg.Breaker.HalfOpenMaxCalls,
	})
	scoreGateway := adapter.NewResilientScoreGateway(oracle, breaker, adapter.ScoreGatewayConfig{
		CallTimeout:         cfg.Oracle.CallTimeout,
		MaxAttempts:         cfg.Oracle.MaxAttempts,
		RetryInitialBackoff: cfg.Oracle.RetryInitialBackoff,
		RetryMaxBackoff:     cfg.Oracle.RetryMaxBackoff,
		FallbackScore:       cfg.Oracle.FallbackScore,
	}, logger, metrics)

	validator := adapter.NewVehicleValidatorAdapter(adapter.NewStubVehicleAppraiser())

	processUC := usecase.NewProcessApplicationUseCase(
		customerRepo,
		applicationRepo,
		validator,
		scoreGateway,
		publisher,
		service.NewEligibilityService(),
		service.NewInterestRateService(),
		cfg.ScoreApprovalThreshold,
	)
	getUC := usecase.NewGetApplicationUseCase(applicationRepo)

	handler := grpcserver.NewCreditHandler(processUC, getUC, metrics, logger)
	grpcSrv := grpcserver.NewServer(cfg.GRPCAddr(), handler, logger)
	httpSrv := rest.NewServer(cfg.HTTPAddr(), cfg.ServiceName, pool.Ping, logger)

	errCh := make(chan error, 2)
	go func() { errCh <- grpcSrv.Start() }()
	go func() { errCh <- httpSrv.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	grpcSrv.Stop()
	if err := httpSrv.Stop(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}

	logger.Info("server stopped")
}
