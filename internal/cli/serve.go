package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/StaryMuz/elektrina-monitor/internal/app"
	"github.com/StaryMuz/elektrina-monitor/internal/metrics"
	"github.com/StaryMuz/elektrina-monitor/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the daily schedule and answer Telegram commands",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Bool("run-on-start", false, "run the scheduled report once at startup (or RUN_ON_START=true)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log.Info("elektrina-monitor starting...")

	a, err := app.Build(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, a.Pipeline, a.Location, cfg.Schedule.DayOffset)
	if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if a.Telegram != nil && a.Telegram.CanPoll() {
		go a.Telegram.StartPolling(ctx, sched.HandleCommand)
		log.Info("Telegram polling started")
	}

	var srv *http.Server
	if cfg.Metrics.Listen != "" {
		srv = &http.Server{Addr: cfg.Metrics.Listen, Handler: newRouter(), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			log.Infof("metrics listening on %s", cfg.Metrics.Listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("metrics server: %v", err)
			}
		}()
	}

	runOnStart, _ := cmd.Flags().GetBool("run-on-start")
	if runOnStart || os.Getenv("RUN_ON_START") == "true" {
		log.Info("run on start enabled, executing daily report now")
		go sched.RunNow()
	}

	log.Info("elektrina-monitor is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	cancel()
	if srv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("metrics shutdown: %v", err)
		}
	}
	log.Info("elektrina-monitor stopped")
	return nil
}

// newRouter serves Prometheus metrics and a liveness check.
func newRouter() http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	return handlers.RecoveryHandler(handlers.RecoveryLogger(log.StandardLogger()))(r)
}
