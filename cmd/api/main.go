package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ejggaming/jueteng-backend/api/routes"
	"github.com/ejggaming/jueteng-backend/internal/config"
	"github.com/ejggaming/jueteng-backend/internal/handlers"
	"github.com/ejggaming/jueteng-backend/internal/jobs"
	"github.com/ejggaming/jueteng-backend/internal/notify"
	"github.com/ejggaming/jueteng-backend/internal/services"
	"github.com/ejggaming/jueteng-backend/pkg/cache"
	"github.com/ejggaming/jueteng-backend/pkg/mq"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"

	mongorepo "github.com/ejggaming/jueteng-backend/internal/repositories/mongodb"
	"github.com/ejggaming/jueteng-backend/pkg/mongodb"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	if cfg.JWT.Secret == "" {
		slog.Error("JWT secret is not configured")
		os.Exit(1)
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI, time.Duration(cfg.MongoDB.ConnectTimeoutSeconds)*time.Second)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()
	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	drawRepo := mongorepo.NewDrawRepository(db)
	scheduleRepo := mongorepo.NewDrawScheduleRepository(db)
	betRepo := mongorepo.NewBetRepository(db)
	payoutRepo := mongorepo.NewPayoutRepository(db)
	commissionRepo := mongorepo.NewCommissionRepository(db)
	configRepo := mongorepo.NewGameConfigRepository(db)
	walletRepo := mongorepo.NewWalletRepository(db)
	transactionRepo := mongorepo.NewTransactionRepository(db)
	agentRepo := mongorepo.NewAgentRepository(db)
	auditLogRepo := mongorepo.NewAuditLogRepository(db)
	auditOutboxRepo := mongorepo.NewAuditOutboxRepository(db)
	notificationRepo := mongorepo.NewNotificationRepository(db)
	operatorRepo := mongorepo.NewOperatorRepository(db)

	// Side-effect sinks
	var invalidator *cache.Invalidator
	if cfg.Redis.Enabled {
		invalidator = cache.NewInvalidator(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}
	defer invalidator.Close()

	var producer *mq.Producer
	if cfg.Kafka.Enabled {
		producer, err = mq.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			slog.Warn("Kafka unreachable, notification publishing disabled", "error", err)
			producer = nil
		} else {
			defer producer.Close()
		}
	}

	notifier := notify.NewNotifier(notificationRepo, producer)
	hub := notify.NewHub()
	go hub.Run()

	// Services
	auditService := services.NewAuditService(auditLogRepo, auditOutboxRepo)
	walletService := services.NewWalletService(walletRepo, transactionRepo, auditService, notifier)
	settlementEngine := services.NewSettlementEngine(
		drawRepo, betRepo, payoutRepo, commissionRepo, agentRepo, walletRepo,
		notifier, hub, invalidator, auditService,
	)
	drawService := services.NewDrawService(
		drawRepo, betRepo, scheduleRepo, configRepo, settlementEngine,
		auditService, hub, invalidator,
	)
	configService := services.NewGameConfigService(configRepo, auditService)
	agentService := services.NewAgentService(agentRepo, auditService)
	payoutService := services.NewPayoutService(payoutRepo, walletRepo, walletService, auditService)
	reportService := services.NewReportService(drawRepo, commissionRepo, auditService)
	authService := services.NewAuthService(operatorRepo, cfg)

	// Background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outboxWriter := jobs.NewAuditOutboxWriter(
		auditService,
		time.Duration(cfg.Jobs.OutboxIntervalSeconds)*time.Second,
		cfg.Jobs.OutboxBatchSize,
	)
	go outboxWriter.Start(ctx)

	closureScheduler := jobs.NewClosureScheduler(
		drawRepo, scheduleRepo, drawService,
		time.Duration(cfg.Jobs.ClosureIntervalSeconds)*time.Second,
	)
	go closureScheduler.Start(ctx)

	router := routes.SetupRouter(cfg, routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Draw:       handlers.NewDrawHandler(drawService),
		Bet:        handlers.NewBetHandler(drawService),
		Payout:     handlers.NewPayoutHandler(payoutService),
		Wallet:     handlers.NewWalletHandler(walletService),
		GameConfig: handlers.NewGameConfigHandler(configService),
		Agent:      handlers.NewAgentHandler(agentService),
		Report:     handlers.NewReportHandler(reportService),
		Audit:      handlers.NewAuditHandler(auditService),
	}, hub)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	slog.Info("Server exited")
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}
