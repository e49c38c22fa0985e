// Package app provides the shared entry point for the tripflow binary.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/tripflow/tripflow/internal/config"
	"github.com/tripflow/tripflow/internal/conversation"
	"github.com/tripflow/tripflow/internal/cron"
	"github.com/tripflow/tripflow/internal/dedup"
	"github.com/tripflow/tripflow/internal/gateway"
	"github.com/tripflow/tripflow/internal/intel"
	"github.com/tripflow/tripflow/internal/memory"
	"github.com/tripflow/tripflow/internal/proactive"
	"github.com/tripflow/tripflow/internal/provider"
	"github.com/tripflow/tripflow/internal/provider/openaicompat"
	"github.com/tripflow/tripflow/internal/ratelimit"
	"github.com/tripflow/tripflow/internal/recovery"
	"github.com/tripflow/tripflow/internal/store"
	"github.com/tripflow/tripflow/internal/store/sqlite"
	"github.com/tripflow/tripflow/internal/telemetry"
)

// shutdownTimeout bounds the graceful stop of the gateway and the trace
// exporter once a termination signal arrives.
const shutdownTimeout = 10 * time.Second

// RunParams configures the main application loop.
type RunParams struct {
	// ConfigPath is an explicit path to the YAML configuration file.
	// If empty, ResolveConfigPath is called automatically.
	ConfigPath string

	// Version, Commit, and Date are injected at build time via ldflags.
	Version string
	Commit  string
	Date    string

	// LogLevel sets the minimum log level. Defaults to slog.LevelInfo.
	LogLevel slog.Level
}

// Run loads configuration, wires the conversation engine, starts the
// background scheduler and the HTTP gateway, and blocks until SIGINT or
// SIGTERM is received.
func Run(params RunParams) error {
	cfgPath := params.ConfigPath
	if cfgPath == "" {
		resolved, err := ResolveConfigPath()
		if err != nil {
			return err
		}
		cfgPath = resolved
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: params.LogLevel,
	}))
	logger.Info("starting tripflow",
		"version", params.Version,
		"config", cfgPath,
		"storage", cfg.Storage.Driver,
	)

	shutdownTraces, err := telemetry.Setup(context.Background(), cfg.Telemetry, logger)
	if err != nil {
		return fmt.Errorf("app: setting up telemetry: %w", err)
	}

	st, closeStore, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()

	backend, err := openaicompat.New(cfg.Provider, logger)
	if err != nil {
		return fmt.Errorf("app: configuring provider: %w", err)
	}

	// Per-turn engine components. Everything is wired explicitly so the
	// dependency graph is visible in one place.
	mem := memory.New(logger)
	dd := dedup.New[provider.Response](cfg.Limits.Dedup)
	limiter := ratelimit.New(cfg.Limits.Chat)
	handler := conversation.New(st, backend, dd, conversation.Options{
		Analyzer: intel.NewKeywordAnalyzer(logger),
		Memory:   mem,
	}, logger)

	gw := gateway.New(cfg.Server, gateway.Deps{
		Handler:   handler,
		Store:     st,
		Limiter:   limiter,
		Recovery:  recovery.New(nil, logger),
		Proactive: proactive.New(),
		Health:    backend,
	}, logger)

	sched := cron.NewScheduler(logger)
	if err := sched.RegisterJob(&cron.MemorySweepJob{
		Memory:       mem,
		MaxAge:       cfg.Memory.MaxAge,
		ScheduleExpr: cfg.Memory.SweepSchedule,
		Logger:       logger,
	}); err != nil {
		return fmt.Errorf("app: registering memory sweep: %w", err)
	}
	if err := sched.RegisterJob(&cron.DedupPurgeJob{
		Dedup:        dd,
		ScheduleExpr: cfg.Memory.PurgeSchedule,
		Logger:       logger,
	}); err != nil {
		return fmt.Errorf("app: registering dedup purge: %w", err)
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("app: starting scheduler: %w", err)
	}

	if err := gw.Start(); err != nil {
		return fmt.Errorf("app: starting gateway: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	sig := <-sigCh
	logger.Info("shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := gw.Stop(ctx); err != nil {
		logger.Error("gateway shutdown", "error", err)
	}
	if err := sched.Stop(ctx); err != nil {
		logger.Error("scheduler shutdown", "error", err)
	}
	if err := shutdownTraces(ctx); err != nil {
		logger.Error("trace exporter shutdown", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// openStore builds the conversation store selected by the storage config.
// The returned func releases the underlying database, if any.
func openStore(cfg config.StorageConfig) (store.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		st, db, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("app: opening sqlite store: %w", err)
		}
		return st, func() { _ = db.Close() }, nil
	default:
		return store.NewMemStore(), func() {}, nil
	}
}

// ResolveConfigPath searches for a config file in standard locations.
// Search order: $XDG_CONFIG_HOME/tripflow/tripflow.yaml → ~/.config/tripflow/tripflow.yaml → ./tripflow.yaml
func ResolveConfigPath() (string, error) {
	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "tripflow", "tripflow.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "tripflow", "tripflow.yaml"))
	}

	candidates = append(candidates, "tripflow.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no configuration file found (searched: %v)", candidates)
}

// DefaultDataDir returns the default persistent data directory.
// Uses $XDG_DATA_HOME/tripflow if set, otherwise ~/.local/share/tripflow per the XDG spec.
func DefaultDataDir() string {
	if dir, ok := os.LookupEnv("XDG_DATA_HOME"); ok {
		return filepath.Join(dir, "tripflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "tripflow")
}
