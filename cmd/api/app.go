package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-health/internal/adapters/defaults"
	adapterHTTP "github.com/comitanigiacomo/kanso-health/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-health/internal/adapters/notify"
	"github.com/comitanigiacomo/kanso-health/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-health/internal/config"
	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
	"github.com/comitanigiacomo/kanso-health/internal/core/workers"
)

const reminderChannel = "kanso-health:reminders"

type app struct {
	router   *gin.Engine
	store    *services.RecordStore
	worker   *workers.ReminderWorker
	backends *repository.Backends
}

func newDefaultSource(cfg *config.Config) (domain.DefaultSource, error) {
	if cfg.Defaults.URL != "" {
		src, err := defaults.NewHTTPSource(cfg.Defaults.URL, &http.Client{Timeout: 10 * time.Second})
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return defaults.NewFileSource(cfg.Defaults.Path), nil
}

// newApp wires storage, services, the reminder worker and the router.
// The worker is started on ctx and stops with it.
func newApp(ctx context.Context, cfg *config.Config, log *logrus.Logger, startTime time.Time) (*app, error) {
	backends, err := repository.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	source, err := newDefaultSource(cfg)
	if err != nil {
		backends.Close()
		return nil, fmt.Errorf("defaults source: %w", err)
	}

	store := services.NewRecordStore(backends.Storage, source, log).WithKey(cfg.Storage.Key)
	if err := store.Initialize(ctx); err != nil {
		backends.Close()
		return nil, fmt.Errorf("initialize record store: %w", err)
	}

	notifiers := notify.Multi{notify.NewLogNotifier(log)}
	if backends.Redis != nil {
		notifiers = append(notifiers, notify.NewRedisNotifier(backends.Redis, reminderChannel))
	}
	worker := workers.NewReminderWorker(notifiers, log)
	worker.Start(ctx)
	worker.Schedule(store.GetSettings(ctx))

	tokenService := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	authService := services.NewAuthService(domain.NewCredentials(store.Key(), cfg.Auth.PasscodeHash), tokenService, store)
	statsService := services.NewStatsService(store)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService, int64(cfg.Auth.TokenTTL.Seconds())),
		DocumentHandler: adapterHTTP.NewDocumentHandler(store, worker),
		EntryHandler:    adapterHTTP.NewEntryHandler(store),
		StatsHandler:    adapterHTTP.NewStatsHandler(statsService),
		ExportHandler:   adapterHTTP.NewExportHandler(store, worker),
		AuthService:     authService,
		Redis:           backends.Redis,
		RateLimit:       cfg.Redis.RateLimit,
		HealthCheck:     backends.Ping,
		DefaultsPath:    cfg.Defaults.Path,
		StartTime:       startTime,
		Logger:          log,
	})

	return &app{
		router:   router,
		store:    store,
		worker:   worker,
		backends: backends,
	}, nil
}

func (a *app) Close() error {
	return a.backends.Close()
}
