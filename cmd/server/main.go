package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/vietacct/ledgerkit/internal/adapter/http"
	"github.com/vietacct/ledgerkit/internal/adapter/http/handler"
	"github.com/vietacct/ledgerkit/internal/adapter/http/middleware"
	postgresRepo "github.com/vietacct/ledgerkit/internal/adapter/repository/postgres"
	redisRepo "github.com/vietacct/ledgerkit/internal/adapter/repository/redis"
	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/infrastructure/config"
	"github.com/vietacct/ledgerkit/internal/infrastructure/logger"
	"github.com/vietacct/ledgerkit/internal/infrastructure/postgres"
	"github.com/vietacct/ledgerkit/internal/infrastructure/redis"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	// Connect to PostgreSQL
	connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	pool, err := postgres.NewPool(connectCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	rules := domain.DefaultRules()
	txManager := postgresRepo.NewTxManager(pool)
	voucherRepo := postgresRepo.NewVoucherRepository(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	periodRepo := postgresRepo.NewPeriodRepository(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	rateRepo := postgresRepo.NewRateRepository(pool)
	lotRepo := postgresRepo.NewLotRepository(pool)
	provisionRepo := postgresRepo.NewProvisionRepository(pool)
	receivableRepo := postgresRepo.NewReceivableRepository(pool)
	fxRepo := postgresRepo.NewFXPositionRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	voucherUC := usecase.NewVoucherUseCase(txManager, voucherRepo, journalRepo, periodRepo, auditRepo, idGen, rules)
	periodUC := usecase.NewPeriodUseCase(txManager, periodRepo, voucherRepo, journalRepo, accountRepo, balanceRepo, auditRepo, idGen, rules)
	provisionUC := usecase.NewProvisionUseCase(txManager, receivableRepo, provisionRepo, periodRepo, auditRepo, idGen, rules)
	inventoryUC := usecase.NewInventoryUseCase(txManager, lotRepo, voucherRepo, journalRepo, periodRepo, auditRepo, idGen, rules)
	revaluationUC := usecase.NewRevaluationUseCase(txManager, fxRepo, rateRepo, voucherRepo, journalRepo, periodRepo, auditRepo, cache, idGen, rules)
	reportUC := usecase.NewReportUseCase(journalRepo, accountRepo, balanceRepo, periodRepo, cache, rules)
	auditUC := usecase.NewAuditUseCase(auditRepo)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		VoucherHandler:     handler.NewVoucherHandler(voucherUC, rules),
		PeriodHandler:      handler.NewPeriodHandler(periodUC),
		ProvisionHandler:   handler.NewProvisionHandler(provisionUC),
		InventoryHandler:   handler.NewInventoryHandler(inventoryUC, rules),
		RevaluationHandler: handler.NewRevaluationHandler(revaluationUC),
		ReportHandler:      handler.NewReportHandler(reportUC),
		AuditHandler:       handler.NewAuditHandler(auditUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:   idempotencyStore,
		LoggingMiddleware:  middleware.NewLoggingMiddleware(log),
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
