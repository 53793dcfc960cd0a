package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nefera/wellbeing-api/internal/crypto"
	"github.com/nefera/wellbeing-api/internal/repository"
	"github.com/nefera/wellbeing-api/internal/router"
	"github.com/nefera/wellbeing-api/internal/service"
	"github.com/nefera/wellbeing-api/pkg/cache"
	"github.com/nefera/wellbeing-api/pkg/config"
	"github.com/nefera/wellbeing-api/pkg/database"
	"github.com/nefera/wellbeing-api/pkg/jobs"
	"github.com/nefera/wellbeing-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, overview caching disabled", "error", err)
		redisClient = nil
	}

	journalCipher, err := crypto.NewJournalCipher(cfg.Journal.EncryptionKey)
	if err != nil {
		logr.Sugar().Fatalw("failed to init journal cipher", "error", err)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	safetyEventRepo := repository.NewSafetyEventRepository(db)
	riskRepo := repository.NewRiskRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()

	// The queue handler delegates through a late-bound pointer: the risk
	// service needs the queue to schedule work and the queue needs the
	// service to process it.
	var riskSvc *service.RiskService
	queue := jobs.NewQueue("risk_recompute", func(ctx context.Context, job jobs.Job) error {
		return riskSvc.RecomputeHandler()(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Risk.RecomputeWorkers,
		BufferSize: cfg.Risk.RecomputeBuffer,
		MaxRetries: cfg.Risk.RecomputeRetries,
		RetryDelay: cfg.Risk.RecomputeRetryGap,
		Logger:     logr,
	})

	riskSvc = service.NewRiskService(studentRepo, riskRepo, journalRepo, queue, metricsSvc, cfg.Risk, nil, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "wellbeing-api",
	})
	checkinSvc := service.NewCheckinService(studentRepo, journalRepo, journalCipher, riskSvc, metricsSvc, validate, nil, logr)
	assessmentSvc := service.NewAssessmentService(studentRepo, assessmentRepo, riskSvc, metricsSvc, validate, logr)
	overviewSvc := service.NewOverviewService(studentRepo, userRepo, journalRepo, assessmentRepo, safetyEventRepo, cacheRepo, cfg.Overview, nil, logr)
	exportSvc := service.NewExportService(studentRepo, safetyEventRepo, cfg.Exports, nil, logr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue.Start(ctx)
	defer queue.Stop()

	engine := router.New(router.Dependencies{
		Config:  cfg,
		Logger:  logr,
		Auth:    authSvc,
		Checkin: checkinSvc,
		Assess:  assessmentSvc,
		Risk:    riskSvc,
		Over:    overviewSvc,
		Export:  exportSvc,
		Metrics: metricsSvc,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
