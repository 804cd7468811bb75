package app

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"ReleaseRadar/internal/config"
	"ReleaseRadar/internal/infrastructure/feed"
	"ReleaseRadar/internal/infrastructure/notify"
	"ReleaseRadar/internal/infrastructure/ota"
	"ReleaseRadar/internal/infrastructure/scheduler"
	"ReleaseRadar/internal/infrastructure/storage"
	"ReleaseRadar/internal/logging"
	"ReleaseRadar/internal/ports"
	"ReleaseRadar/internal/source"
	"ReleaseRadar/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	scheduler *usecase.Scheduler
	db        *sql.DB

	mu       sync.RWMutex
	settings config.Settings
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	a := &Application{
		cfg:      cfg,
		logger:   baseLogger,
		settings: cfg.Snapshot(),
	}

	registry := source.NewRegistry()
	registry.Register(feed.NewReleasesFetcher(nil))
	registry.Register(feed.NewReleasesPageFetcher(nil))
	registry.Register(ota.NewCatalogFetcher(nil))

	releaseSource := source.NewStrategySource(registry, cfg.Sources,
		baseLogger.With("component", "source"))
	rumorSource := feed.NewRumorFetcher(nil, baseLogger.With("component", "rumors"))

	var repository ports.ReleaseRepository
	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			baseLogger.Warn("database unavailable, running without persistence", "error", err)
		} else {
			a.db = db
			repository = storage.NewPostgresRepository(db)
		}
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = notify.NewTelegramNotifier(
			cfg.Notifications.Telegram.BotToken,
			cfg.Notifications.Telegram.ChatID)
	}

	reconciler := usecase.NewReconciler(usecase.ReconcilerDeps{
		Source:     releaseSource,
		Rumors:     rumorSource,
		RumorFeeds: cfg.RumorFeeds,
		Repository: repository,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "reconciler"),
	})

	driver := scheduler.NewIntervalScheduler(
		time.Duration(a.settings.RefreshMinutes) * time.Minute)
	a.scheduler = usecase.NewScheduler(driver, reconciler, a.currentSettings,
		baseLogger.With("component", "scheduler"))

	return a
}

// Run starts the reconciliation schedule and blocks until the context is
// cancelled. When a config file is in use, its settings section is
// hot-reloaded; the polling cadence itself is fixed at startup, so a changed
// refreshMinutes takes effect only after a restart.
func (a *Application) Run(ctx context.Context) error {
	if a.scheduler == nil {
		return nil
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}

	if path := config.Path(); path != "" {
		go func() {
			if err := config.Watch(ctx, path, a.logger.With("component", "config"), a.applyConfig); err != nil {
				a.logger.Warn("config watch disabled", "error", err)
			}
		}()
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = a.scheduler.Stop(stopCtx)

	if a.db != nil {
		_ = a.db.Close()
	}
	return nil
}

// applyConfig swaps in the settings snapshot from a reloaded config. The
// next cycle picks it up; source wiring stays fixed for the process
// lifetime.
func (a *Application) applyConfig(cfg config.Config) {
	a.mu.Lock()
	a.settings = cfg.Snapshot()
	a.mu.Unlock()
}

func (a *Application) currentSettings() config.Settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings
}
