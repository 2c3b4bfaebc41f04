package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmcdole/astrodaily/internal/adapter"
	"github.com/mmcdole/astrodaily/internal/adapter/source/apod"
	"github.com/mmcdole/astrodaily/internal/domain"
	"github.com/mmcdole/astrodaily/internal/service"
	"github.com/mmcdole/astrodaily/internal/store"
)

// app holds the wired services for one command invocation
type app struct {
	cfg      *adapter.Config
	logger   *slog.Logger
	store    *store.ContentStore
	resolver *service.ContentResolver
	images   *service.ImageResolver
	launcher *adapter.Launcher
}

// newApp loads configuration and wires the services. observer receives
// resolution events; nil discards them.
func newApp(cmd *cobra.Command, opts *rootOptions, observer domain.ResolveObserver) (*app, error) {
	cfg, err := adapter.LoadConfig(opts.configFile, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)
	logger.Info("starting astrodaily", "version", Version, "command", cmd.Name(), "config", cfg.File)

	cacheDir, err := adapter.ExpandHome(cfg.Cache.Dir)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(store.CandidateDirs(cacheDir), store.BackendType(cfg.Cache.Backend), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	if observer == nil {
		observer = domain.NoOpObserver{}
	}

	var clientOpts []apod.Option
	if cfg.Source.APIKey != "" {
		clientOpts = append(clientOpts, apod.WithAPIKey(cfg.Source.APIKey))
	}
	client := apod.NewClient(cfg.Source.URL, cfg.Source.Timeout, logger, clientOpts...)

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		resolver: service.NewContentResolver(client, st, domain.SystemClock(), logger, service.WithObserver(observer)),
		images:   service.NewImageResolver(st, cfg.Source.Timeout, logger, service.WithImageObserver(observer)),
		launcher: adapter.NewLauncher(cfg.Player, logger),
	}, nil
}

// Close releases the cache
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close cache", "error", err)
	}
}
