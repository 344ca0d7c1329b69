package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/comitanigiacomo/kanso-health/internal/config"
	"github.com/comitanigiacomo/kanso-health/internal/logging"
)

func main() {
	startTime := time.Now()

	cfg, err := config.NewConfig(".env")
	if err != nil {
		logging.Setup(logging.LoggerSetupParams{}).WithError(err).Fatal("invalid configuration")
	}

	log := logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.ToStdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
		Environment:   cfg.AppEnv,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.WithField("backend", cfg.Storage.Backend).Info("opening storage")

	application, err := newApp(ctx, cfg, log, startTime)
	if err != nil {
		log.WithError(err).Fatal("failed to start")
	}
	defer application.Close()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      application.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("Kanso Health running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("critical server error")
		}
	}()

	<-ctx.Done()
	log.Info("stop signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}

	select {
	case <-application.worker.Done():
	case <-shutdownCtx.Done():
		log.Warn("reminder worker did not stop in time")
	}

	log.Info("server stopped gracefully")
}
