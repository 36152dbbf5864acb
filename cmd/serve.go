package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/habitd/internal/logging"
	"github.com/manav03panchal/habitd/internal/scheduler"
	"github.com/manav03panchal/habitd/internal/server"
)

// serveCmd runs the API server and the reminder scheduler.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server and reminder scheduler",
	Long: `Run the habitd HTTP API together with the cron-driven daily
reminder pass. The process runs in the foreground until interrupted.

Examples:
  habitd serve
  HABITD_ADDR=:9000 habitd serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := ctx.Config
	if cfg.Auth.JWTSecret == "" {
		return errors.New("HABITD_JWT_SECRET must be set")
	}

	pass := scheduler.NewReminderPass(ctx.HabitRepo, ctx.Dispatcher)
	sched := scheduler.NewScheduler(pass, cfg.Scheduler.CronSpec)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	srv := server.New(ctx, Version).HTTPServer(cfg.Server.Addr)

	log := logging.With("addr", cfg.Server.Addr)

	errCh := make(chan error, 1)
	go func() {
		log.Info("api server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logging.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
