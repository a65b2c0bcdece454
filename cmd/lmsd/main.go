package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/umojafin/lms/internal/application/usecase"
	"github.com/umojafin/lms/internal/domain/service"
	"github.com/umojafin/lms/internal/infrastructure/adapter"
	"github.com/umojafin/lms/internal/infrastructure/config"
	"github.com/umojafin/lms/internal/infrastructure/kafka"
	pgRepo "github.com/umojafin/lms/internal/infrastructure/postgres"
	grpcPresentation "github.com/umojafin/lms/internal/presentation/grpc"
	"github.com/umojafin/lms/internal/presentation/rest"
	pkgkafka "github.com/umojafin/lms/pkg/kafka"
	"github.com/umojafin/lms/pkg/observability"
	pkgpostgres "github.com/umojafin/lms/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	cfg.Validate()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: config.ServiceName,
	})

	logger.Info("starting lms",
		"environment", cfg.Environment,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Tracing.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: config.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(ctx) }() //nolint:errcheck // best-effort tracer shutdown
	}

	// Metrics.
	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: config.ServiceName,
		Port:        cfg.HTTPPort,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, pkgpostgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: int32(cfg.Database.MaxConns),
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if migErr := pkgpostgres.RunMigrations(cfg.Database.DSN(), "file://migrations"); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Infrastructure adapters.
	loanRepo := pgRepo.NewLoanRepository(pool)
	txRepo := pgRepo.NewTransactionRepository(pool)
	classificationRepo := pgRepo.NewClassificationRepository(pool)
	snapshotRepo := pgRepo.NewSnapshotRepository(pool)
	uow := pgRepo.NewUnitOfWork(pool)

	kafkaProducer := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	defer kafkaProducer.Close()
	publisher := kafka.NewEventPublisher(kafkaProducer, logger)

	clock := adapter.NewSystemClock()
	collateral := adapter.NewStubCollateralValuer()
	fileStore, err := adapter.NewLocalFileStore(cfg.FileStoreDir)
	if err != nil {
		logger.Error("failed to initialize file store", "error", err)
		os.Exit(1)
	}

	// Domain services.
	generator := service.NewScheduleGenerator(logger, decimal.NewFromFloat(cfg.Engine.ReconciliationTolerance))
	allocator := service.NewPaymentAllocator(decimal.NewFromFloat(cfg.Engine.PenaltyAnnualRate), cfg.Engine.AttemptWindow)
	classifier := service.NewLoanClassifier()
	aggregator := service.NewPortfolioAggregator()

	// Use cases.
	disburseUC := usecase.NewDisburseLoanUseCase(loanRepo, generator, publisher, clock, logger)
	getLoanUC := usecase.NewGetLoanUseCase(loanRepo)
	paymentUC := usecase.NewProcessPaymentUseCase(
		loanRepo, txRepo, classificationRepo,
		allocator, classifier, collateral, fileStore,
		uow, publisher, clock, logger,
		cfg.Engine.DuplicateWindow, decimal.NewFromFloat(cfg.Engine.DuplicateTolerance),
	)
	reversalUC := usecase.NewReverseTransactionUseCase(loanRepo, txRepo, uow, publisher, clock, logger)
	classifyUC := usecase.NewClassifyLoanUseCase(loanRepo, classificationRepo, classifier, collateral, clock)
	batchClassifyUC := usecase.NewBatchClassifyUseCase(loanRepo, classificationRepo, classifier, collateral, publisher, clock, logger)
	delayedDaysUC := usecase.NewUpdateDelayedDaysUseCase(loanRepo, publisher, clock, logger)
	snapshotUC := usecase.NewCreateSnapshotUseCase(loanRepo, classificationRepo, snapshotRepo, aggregator, publisher, clock, logger)

	// gRPC server.
	handler := grpcPresentation.NewLoanHandler(
		disburseUC, getLoanUC, paymentUC, reversalUC,
		classifyUC, batchClassifyUC, delayedDaysUC, snapshotUC,
	)
	grpcServer := grpcPresentation.NewServer(handler, logger)

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	rest.NewHealthHandler(pool, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("lms stopped")
}
