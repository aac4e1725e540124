// Package cli wires the scheme handlers and their collaborators for the
// command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/bnema/dumberproto/internal/cli/styles"
	"github.com/bnema/dumberproto/internal/config"
	"github.com/bnema/dumberproto/internal/domain/build"
	"github.com/bnema/dumberproto/internal/infrastructure/mimesniff"
	"github.com/bnema/dumberproto/internal/infrastructure/peimage"
	"github.com/bnema/dumberproto/internal/infrastructure/protocol"
	"github.com/bnema/dumberproto/internal/infrastructure/schemehost"
	"github.com/bnema/dumberproto/internal/infrastructure/urlcanon"
	"github.com/bnema/dumberproto/internal/logging"
)

// Options selects how the App is built.
type Options struct {
	// ConfigFile overrides the XDG config file lookup.
	ConfigFile string
	// LogLevel overrides logging.level when set.
	LogLevel string
	// LogOutput receives log lines; stderr when nil.
	LogOutput io.Writer
}

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	Searcher *peimage.Searcher
	Loader   *peimage.Loader
	Resolver *protocol.Resolver
	Registry *protocol.Registry
	Host     *schemehost.Host

	Metrics  *protocol.Metrics
	Gatherer *prometheus.Registry

	// Context with logger
	ctx context.Context
}

// NewApp creates a new CLI application with all dependencies.
func NewApp(opts Options) (*App, error) {
	mgr, cfg, err := loadConfig(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg, opts)
	if err != nil {
		return nil, err
	}
	ctx := logging.WithContext(context.Background(), logger)
	if mgr == nil {
		logger.Debug().Msg("config manager unavailable, using defaults")
	}

	return NewAppWithConfig(ctx, mgr, cfg), nil
}

// NewAppWithConfig builds the handler graph for cfg. mgr may be nil.
func NewAppWithConfig(ctx context.Context, mgr *config.Manager, cfg *config.Config) *App {
	searcher := peimage.NewSearcher(cfg.Modules.Dirs(), cfg.Modules.DefaultExtension)
	loader := peimage.NewLoader(ctx, searcher, peimage.WithMmap(cfg.Modules.UseMmap))

	gatherer := prometheus.NewRegistry()
	metrics := protocol.NewMetrics(gatherer)

	registry := protocol.NewRegistry(ctx, protocol.Deps{
		Res: protocol.ResDeps{
			Loader:        loader,
			Searcher:      searcher,
			Canonicalizer: urlcanon.New(),
			Sniffer:       mimesniff.New(),
		},
		Metrics: metrics,
	})

	host := schemehost.NewHost(ctx, registry, schemehost.WithReadChunk(cfg.Host.ReadChunk))

	logging.FromContext(ctx).Debug().
		Strs("search_path", searcher.Dirs()).
		Bool("mmap", cfg.Modules.UseMmap).
		Msg("scheme handlers ready")

	return &App{
		Config:   cfg,
		Manager:  mgr,
		Theme:    styles.NewTheme(),
		Searcher: searcher,
		Loader:   loader,
		Resolver: protocol.NewResolver(ctx, loader),
		Registry: registry,
		Host:     host,
		Metrics:  metrics,
		Gatherer: gatherer,
		ctx:      ctx,
	}
}

// Close releases all resources.
func (a *App) Close() error {
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return logging.FromContext(a.ctx)
}

// loadConfig loads configuration from the explicit file or the standard
// locations. Without an explicit file, a manager failure falls back to the
// defaults.
func loadConfig(path string) (*config.Manager, *config.Config, error) {
	mgr, err := config.NewManager(config.WithConfigFile(path))
	if err == nil {
		err = mgr.Load()
	}
	if err != nil {
		if path != "" {
			return nil, nil, fmt.Errorf("load config %s: %w", path, err)
		}
		if errors.Is(err, config.ErrInvalidConfig) {
			return nil, nil, err
		}
		// The configured logger does not exist yet.
		logger := logging.NewFromEnv()
		logger.Warn().Err(err).Msg("config unavailable, using defaults")
		return nil, config.DefaultConfig(), nil
	}
	return mgr, mgr.Get(), nil
}

func newLogger(cfg *config.Config, opts Options) (zerolog.Logger, error) {
	levelName := cfg.Logging.Level
	if opts.LogLevel != "" {
		levelName = opts.LogLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return zerolog.Nop(), err
	}

	return logging.New(logging.Config{
		Level:      level,
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
		Output:     opts.LogOutput,
	}), nil
}
