package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"hrflow-backend/internal/adapter/device"
	"hrflow-backend/internal/adapter/notify/mail"
	"hrflow-backend/internal/adapter/repository/gormrepo"
	"hrflow-backend/internal/config"
	"hrflow-backend/internal/infrastructure/cache"
	"hrflow-backend/internal/infrastructure/db"
	"hrflow-backend/internal/infrastructure/lock"
	"hrflow-backend/internal/usecase/attendance"
	"hrflow-backend/internal/usecase/document"
	"hrflow-backend/internal/usecase/notification"
	"hrflow-backend/internal/usecase/workflow"
	"hrflow-backend/pkg/log"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// app holds the process-wide dependencies shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger *log.CtxLogger
	db     *gorm.DB
	redis  *redis.Client

	dispatcher *notification.Dispatcher
	workflow   *workflow.Usecase
	documents  *document.Usecase
	reconciler *attendance.Reconciler
}

func loadConfig(cmd *cobra.Command) (*config.Config, *log.CtxLogger, error) {
	files, _ := cmd.Flags().GetStringSlice("env-file")
	envErr := config.LoadDotEnv(files...)

	cfg := config.Load()
	logger := log.NewCtxLogger(cfg.LogLevel, os.Stdout)
	if envErr != nil {
		logger.Warn(context.Background(), "could not load env file, using process environment", "error", envErr)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	return cfg, logger, nil
}

func openDB(cfg *config.Config, logger *log.CtxLogger) (*gorm.DB, error) {
	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), logger, db.LogLevel(cfg.DBLogLevel))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return gdb, nil
}

// bootstrap opens the stores and wires the usecases. withRedis is false for
// commands that never touch the idempotency store or distributed locks.
func bootstrap(ctx context.Context, cmd *cobra.Command, withRedis bool) (*app, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	gdb, err := openDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, db: gdb}

	var locker attendance.Locker = lock.NewLocal()
	if withRedis {
		a.redis, err = cache.OpenRedis(ctx, cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			a.close()
			return nil, fmt.Errorf("open redis: %w", err)
		}
		locker = lock.Multi{lock.NewLocal(), lock.NewRedis(a.redis, "hrflow:lock:", 2*time.Minute)}
	}

	employees := gormrepo.NewCachedEmployees(gormrepo.NewEmployeeRepository(gdb), cfg.EmployeeCacheTTL)
	requests := gormrepo.NewRequestRepository(gdb)
	docs := gormrepo.NewDocumentRepository(gdb)
	punches := gormrepo.NewPunchRepository(gdb)
	devices := gormrepo.NewDeviceRepository(gdb)
	tx := gormrepo.NewGormUoW(gdb)

	notifier, err := newNotifier(ctx, cfg, employees, logger)
	if err != nil {
		a.close()
		return nil, err
	}
	a.dispatcher = notification.NewDispatcher(notifier, logger)

	a.workflow = workflow.NewUsecase(requests, employees, tx, a.dispatcher, logger, workflow.Config{
		Policy:                    workflow.Policy{AllowTierSkipByHigherApprover: cfg.AllowTierSkip},
		MissionCEOBudgetThreshold: cfg.MissionCEOThreshold,
	})
	a.documents = document.NewUsecase(docs, employees, tx, a.dispatcher, logger, document.Config{HRManagerID: cfg.HRManagerID})

	loc, err := time.LoadLocation(cfg.AttendanceZone)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("attendance zone: %w", err)
	}
	a.reconciler = attendance.NewReconciler(punches, devices, employees, tx,
		device.NewClient(cfg.DeviceTimeout, cfg.DeviceRetries, 500*time.Millisecond),
		locker, logger, attendance.Config{
			Location:            loc,
			BadgeBlockThreshold: cfg.BadgeBlockThreshold,
			BadgeBlockModulo:    cfg.BadgeBlockModulo,
			LunchThreshold:      cfg.LunchThresholdHours,
			LunchDeduction:      cfg.LunchDeductionHours,
			MonthlyCap:          cfg.MonthlyCapHours,
			LateAfter:           cfg.LateAfter,
			DeviceTimeout:       cfg.DeviceTimeout,
			SyncConcurrency:     cfg.SyncConcurrency,
		})
	return a, nil
}

// newNotifier returns nil when no mailbox is configured; the dispatcher then
// drops notifications.
func newNotifier(ctx context.Context, cfg *config.Config, employees *gormrepo.CachedEmployees, logger *log.CtxLogger) (notification.Notifier, error) {
	if cfg.SMTPUser == "" {
		logger.Warn(ctx, "SMTP_USER not set, notifications disabled")
		return nil, nil
	}
	mc := mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	}
	if cfg.OAuthClientID == "" {
		d := mail.NewDialer(mc, nil)
		return mail.NewNotifier(employees, d.Dial, mc.From, logger), nil
	}
	src, err := mail.OAuthConfig{
		TenantID:     cfg.OAuthTenantID,
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		RefreshToken: cfg.OAuthRefreshToken,
		TokenURL:     cfg.OAuthTokenURL,
	}.TokenSource(context.Background())
	if err != nil {
		return nil, fmt.Errorf("mail oauth: %w", err)
	}
	d := mail.NewDialer(mc, src)
	return mail.NewNotifier(employees, d.Dial, mc.From, logger), nil
}

func (a *app) close() {
	if a.dispatcher != nil {
		a.dispatcher.Wait()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
