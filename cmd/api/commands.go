package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadp "hrflow-backend/internal/adapter/http"
	"hrflow-backend/internal/adapter/repository/gormrepo"
	"hrflow-backend/internal/usecase/attendance"

	"github.com/MakeNowJust/heredoc"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Example: heredoc.Doc(`
			$ hrflow serve
			$ hrflow serve --migrate --env-file .env,.env.local
		`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx, cmd, true)
			if err != nil {
				return err
			}
			defer a.close()
			if migrate {
				if err := gormrepo.Migrate(a.db); err != nil {
					return err
				}
			}
			return serve(ctx, a)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply schema migrations before serving")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	sched := attendance.NewSyncScheduler(a.reconciler, a.cfg.SyncInterval, a.logger)
	sched.Start(ctx)
	defer sched.Stop()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Output: a.logger.Writer()}))

	health := httpadp.NewHandler(map[string]httpadp.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := a.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error { return a.redis.Ping(ctx).Err() },
	})
	httpadp.Register(e, httpadp.Handlers{
		Health:     health,
		Requests:   httpadp.NewRequestHandler(a.workflow, a.logger),
		Documents:  httpadp.NewDocumentHandler(a.documents, a.logger),
		Attendance: httpadp.NewAttendanceHandler(a.reconciler, a.logger),
		Dashboard:  httpadp.NewDashboardHandler(a.workflow, a.reconciler.Location(), a.logger),
	}, httpadp.RouterConfig{
		JWTSecret:      []byte(a.cfg.JWTSecret),
		Redis:          a.redis,
		IdempotencyTTL: a.cfg.IdempotencyTTL(),
		Logger:         a.logger,
	})

	addr := ":" + a.cfg.AppPort
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info(ctx, "listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the service tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			gdb, err := openDB(cfg, logger)
			if err != nil {
				return err
			}
			if sqlDB, err := gdb.DB(); err == nil {
				defer sqlDB.Close()
			}
			if err := gormrepo.Migrate(gdb); err != nil {
				return err
			}
			logger.Info(cmd.Context(), "migrations applied", "driver", cfg.DBDriver)
			return nil
		},
	}
}

func syncCmd() *cobra.Command {
	var deviceID uint64
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull punches from attendance terminals once and print the result",
		Example: heredoc.Doc(`
			$ hrflow sync
			$ hrflow sync --device 3
		`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx, cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			var out interface{}
			if deviceID != 0 {
				d, err := a.reconciler.Device(ctx, deviceID)
				if err != nil {
					return err
				}
				out = a.reconciler.SyncDevice(ctx, *d)
			} else {
				res, err := a.reconciler.SyncAll(ctx)
				if err != nil {
					return err
				}
				out = res
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().Uint64Var(&deviceID, "device", 0, "sync a single device by id")
	return cmd
}
