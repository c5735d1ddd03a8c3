package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	rediscache "loandesk/internal/cache/redis"
	"loandesk/internal/config"
	"loandesk/internal/email/noop"
	"loandesk/internal/email/ses"
	"loandesk/internal/handler"
	"loandesk/internal/logger"
	"loandesk/internal/port"
	"loandesk/internal/repository/postgres"
	"loandesk/internal/router"
	"loandesk/internal/service"
	redissession "loandesk/internal/session/redis"
	s3storage "loandesk/internal/storage/s3"
	"loandesk/internal/workflow"
)

// @title Loan Desk API
// @version 1.0
// @description Review workflow for health-professional micro-loan applications.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()
	handler.SetLogger(log)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Redis backs the session registry and the stats cache; both are optional.
	var (
		rdb      *goredis.Client
		sessions port.SessionRegistry
		cache    port.StatsCache
	)
	if cfg.Redis.Addr != "" {
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		sessions = redissession.NewSessionRegistry(rdb, cfg.Redis.KeyPrefix)
		cache = rediscache.NewStatsCache(rdb, cfg.Redis.KeyPrefix)
	} else {
		log.Warn("redis disabled: sessions are not revocable and stats have no cached fallback")
	}

	// Initialize repositories
	appRepo := postgres.NewApplicationRepo(db)
	docRepo := postgres.NewDocumentRepo(db)
	inspRepo := postgres.NewInspectionRepo(db)
	auditRepo := postgres.NewAuditRepo(db)
	notifRepo := postgres.NewNotificationRepo(db, cfg.Queue.ClaimTimeout)
	operatorRepo := postgres.NewOperatorRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	// Initialize storage
	storage, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize email sender
	var sender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		sender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		sender = noop.NewNoopSender(log)
	}

	// Initialize services
	policy := workflow.Policy{EnforceAmountCap: cfg.Workflow.EnforceAmountCap}
	authSvc := service.NewAuthService(operatorRepo, sessions, cfg.JWT, log)
	appSvc := service.NewApplicationService(appRepo, docRepo, inspRepo, auditRepo, notifRepo, policy, log)
	inspSvc := service.NewInspectionService(appRepo, inspRepo, auditRepo, notifRepo, cfg.Workflow.Location, log)
	statsSvc := service.NewStatsService(statsRepo, cache, cfg.Redis.StatsCacheTTL, log)
	fileSvc := service.NewDocumentFileService(docRepo, storage, cfg.S3.Bucket, log)

	// Start the notification outbox worker
	workerCtx, workerCancel := context.WithCancel(context.Background())
	worker := service.NewNotificationWorker(notifRepo, sender, service.NotificationWorkerConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
		BatchSize:    cfg.Queue.BatchSize,
	}, log)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(workerCtx)
	}()

	// Setup router
	r := router.Setup(authSvc, router.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Application: handler.NewApplicationHandler(appSvc, cfg.Workflow),
		Document:    handler.NewDocumentHandler(appSvc, fileSvc),
		Inspection:  handler.NewInspectionHandler(inspSvc),
		Stats:       handler.NewStatsHandler(statsSvc),
		Health:      handler.NewHealthHandler(db, rdb),
	}, cfg.CORS.AllowedOrigins, log)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", cfg.Server.Port), zap.String("env", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		workerCancel()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}

	workerCancel()
	<-workerDone
	log.Info("server stopped")
	return nil
}
