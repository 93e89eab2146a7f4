package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sfk-console-api/api/swagger"
	"github.com/noah-isme/sfk-console-api/internal/handler"
	"github.com/noah-isme/sfk-console-api/internal/middleware"
	"github.com/noah-isme/sfk-console-api/internal/models"
	"github.com/noah-isme/sfk-console-api/internal/repository"
	"github.com/noah-isme/sfk-console-api/internal/service"
	"github.com/noah-isme/sfk-console-api/pkg/cache"
	"github.com/noah-isme/sfk-console-api/pkg/config"
	"github.com/noah-isme/sfk-console-api/pkg/database"
	"github.com/noah-isme/sfk-console-api/pkg/jobs"
	"github.com/noah-isme/sfk-console-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sfk-console-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sfk-console-api/pkg/middleware/requestid"
	"github.com/noah-isme/sfk-console-api/pkg/observability"
	"github.com/noah-isme/sfk-console-api/pkg/sheets"
	"github.com/noah-isme/sfk-console-api/pkg/storage"
	"github.com/noah-isme/sfk-console-api/pkg/whatsapp"
)

// @title SFK Console API
// @version 1.0.0
// @description Back office for the school's extracurricular courses, synchronized with the operations spreadsheet.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const reportCacheTTL = 10 * time.Minute

type snapshotStore interface {
	Load(ctx context.Context, name string, dest interface{}) error
	Save(ctx context.Context, name string, value interface{}) error
	Ping(ctx context.Context) error
}

type syncRunStore interface {
	Create(ctx context.Context, run *models.SyncResult) error
	ListRecent(ctx context.Context, limit int) ([]models.SyncResult, error)
}

type retentionStore interface {
	Create(ctx context.Context, action *models.RetentionAction) error
	List(ctx context.Context, studentID string) ([]models.RetentionAction, error)
	AlertIDs(ctx context.Context) (map[string]struct{}, error)
}

type purger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// purgers fans the nightly cleanup out to every store that keeps history.
type purgers []purger

func (p purgers) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64
	var errs []error
	for _, target := range p {
		n, err := target.PurgeBefore(ctx, cutoff)
		total += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	return total, errors.Join(errs...)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

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

	flush, err := observability.Init(cfg.Sentry.DSN, cfg.Env, cfg.Release)
	if err != nil {
		logr.Warn("sentry disabled", zap.Error(err))
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()
	validate := validator.New()
	reporter := service.ErrorReporter(observability.CaptureErr)
	deps := map[string]handler.Pinger{}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}
	var (
		store       snapshotStore
		reportCache service.CacheRepository
	)
	if redisClient != nil {
		defer redisClient.Close()
		store = repository.NewSnapshotRepository(redisClient, cfg.Redis.KeyPrefix, logr)
		reportCache = repository.NewCacheRepository(redisClient, cfg.Redis.KeyPrefix, logr)
		deps["redis"] = store
	} else {
		logr.Warn("redis disabled: snapshots are kept in memory and lost on restart")
		store = repository.NewMemorySnapshotRepository()
		reportCache = repository.NewMemoryCacheRepository()
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to open postgres", zap.Error(err))
	}
	var (
		runs      syncRunStore
		retention retentionStore
	)
	var cleanup purgers
	if db != nil {
		defer db.Close()
		syncRuns := repository.NewSyncRunRepository(db)
		runs = syncRuns
		cleanup = append(cleanup, syncRuns)
		retention = repository.NewRetentionRepository(db)
		deps["postgres"] = pingFunc(db.PingContext)
	} else {
		retention = repository.NewSnapshotRetentionRepository(store)
	}

	var archive interface {
		Save(original string, r io.Reader) (string, error)
	}
	if cfg.Archive.Dir != "" {
		a, err := storage.NewArchive(cfg.Archive.Dir)
		if err != nil {
			logr.Warn("workbook archive disabled", zap.Error(err))
		} else {
			archive = a
			cleanup = append(cleanup, a)
		}
	}

	data := service.NewCollections(store, metrics)
	settingsSvc := service.NewSettingsService(store, models.Settings{
		EndpointURL:      cfg.Sheets.URL,
		WebhookURL:       cfg.WhatsApp.WebhookURL,
		WebhookToken:     cfg.WhatsApp.Token,
		ReminderTemplate: service.DefaultReminderTemplate,
		FollowUpTemplate: service.DefaultFollowUpTemplate,
		AbsenceTemplate:  service.DefaultAbsenceTemplate,
		SyncSchedule:     cfg.Sync.Schedule,
	}, validate, logr)

	sheetsClient := sheets.NewClient(cfg.Sheets.Timeout)
	whatsappClient := whatsapp.NewClient(cfg.WhatsApp.Timeout)

	queue := jobs.NewQueue("outbound", jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		MaxRetries: cfg.Jobs.Retries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
		Observer:   metrics.ObserveJob,
	})
	writeBack := service.NewWriteBackService(sheetsClient, settingsSvc, queue, reporter, logr)
	notifier := service.NewNotificationService(whatsappClient, settingsSvc, queue, reporter, logr)
	queue.Handle(service.ActionSaveTrialLead, writeBack.HandleJob)
	queue.Handle(service.ActionSaveAttendance, writeBack.HandleJob)
	queue.Handle(service.JobSendMessage, notifier.HandleJob)
	queue.Start(ctx)

	seeds := make([]models.User, 0, len(cfg.Seeds))
	for _, s := range cfg.Seeds {
		seeds = append(seeds, models.User{Login: s.Login, PasswordHash: s.PasswordHash, Role: models.UserRole(s.Role), Name: s.Name, Seed: true})
	}

	authSvc := service.NewAuthService(data, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
		Seeds:             seeds,
	})
	syncSvc := service.NewSyncService(sheetsClient, data, settingsSvc, runs, metrics, logr, service.SyncServiceConfig{
		Seeds:    seeds,
		Location: cfg.Sync.Location,
		Reporter: reporter,
	})
	riskSvc := service.NewRiskService(data, retention, metrics, logr)
	cacheSvc := service.NewCacheService(reportCache, metrics, reportCacheTTL, logr)
	syncSvc.AfterSync(riskSvc.Refresh)
	syncSvc.AfterSync(func(ctx context.Context) { _ = cacheSvc.InvalidateReports(ctx) })

	attendanceSvc := service.NewAttendanceService(data, writeBack, validate, logr)
	trialSvc := service.NewTrialLeadService(data, writeBack, notifier, settingsSvc, cacheSvc, validate, logr)
	retentionSvc := service.NewRetentionService(retention, riskSvc, notifier, settingsSvc, validate, logr)
	reportSvc := service.NewReportService(data, cacheSvc, cfg.Sync.Location, logr)

	scheduler := service.NewScheduler(syncSvc, settingsSvc, cleanup, logr, service.SchedulerConfig{
		Location:  cfg.Sync.Location,
		OnStartup: cfg.Sync.OnStartup,
		Reporter:  reporter,
	})
	scheduler.Start(ctx)

	r := handler.NewEngine()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	metricsH := handler.NewMetricsHandler(metrics, deps)
	r.GET("/health", metricsH.Health)
	r.GET("/ready", metricsH.Ready)
	r.GET("/metrics", metricsH.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authH := handler.NewAuthHandler(authSvc)
	syncH := handler.NewSyncHandler(syncSvc, archive, logr)
	studentH := handler.NewStudentHandler(service.NewStudentService(data, logr))
	classH := handler.NewClassHandler(service.NewClassService(data, logr), service.NewEnrollmentService(data))
	attendanceH := handler.NewAttendanceHandler(attendanceSvc)
	trialH := handler.NewTrialLeadHandler(trialSvc)
	alertH := handler.NewAlertHandler(riskSvc, retentionSvc)
	reportH := handler.NewReportHandler(reportSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authH.Login)

	secured := api.Group("", middleware.JWT(authSvc))
	secured.GET("/auth/me", authH.Me)
	secured.GET("/sync/status", syncH.Status)
	secured.GET("/students", studentH.List)
	secured.GET("/students/:id", studentH.Get)
	secured.GET("/classes", classH.List)
	secured.GET("/classes/:id/roster", classH.Roster)
	secured.GET("/enrollments", classH.Enrollments)
	secured.GET("/attendance", attendanceH.List)
	secured.POST("/attendance", middleware.Audit(logr, "attendance.save"), attendanceH.Save)
	secured.GET("/trial-leads", trialH.List)
	secured.PUT("/trial-leads/:id", middleware.Audit(logr, "trial_lead.update"), trialH.Update)
	secured.POST("/trial-leads/:id/reminder", middleware.Audit(logr, "trial_lead.reminder"), trialH.Reminder)
	secured.GET("/alerts", alertH.List)
	secured.POST("/alerts/:id/actions", middleware.Audit(logr, "retention.record"), alertH.RecordAction)
	secured.GET("/retention/actions", alertH.History)

	manager := secured.Group("", middleware.RequireManager())
	manager.POST("/sync", middleware.Audit(logr, "sync.run"), syncH.Run)
	manager.POST("/sync/workbook", middleware.Audit(logr, "sync.workbook"), syncH.Upload)
	manager.GET("/reports/finance", reportH.Finance)
	manager.GET("/reports/trial-funnel", reportH.TrialFunnel)
	manager.GET("/settings", settingsH.Get)
	manager.PUT("/settings", middleware.Audit(logr, "settings.update"), settingsH.Update)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("http shutdown", zap.Error(err))
	}
	scheduler.Stop()
	queue.Stop()
}
