// Command lorekeeper is the campaign journal server: session notes, the NPC
// roster, and mention extraction behind one HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/questward/lorekeeper/internal/api"
	"github.com/questward/lorekeeper/internal/config"
	"github.com/questward/lorekeeper/internal/extract"
	"github.com/questward/lorekeeper/internal/health"
	"github.com/questward/lorekeeper/internal/journal"
	"github.com/questward/lorekeeper/internal/llm"
	"github.com/questward/lorekeeper/internal/observe"
	"github.com/questward/lorekeeper/internal/roster"
	"github.com/questward/lorekeeper/internal/scribe"
	"github.com/questward/lorekeeper/internal/storage/postgres"
)

const shutdownTimeout = 15 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// A .env file is a development convenience; absence is fine.
	_ = godotenv.Load()

	// Fall back to environment-only config when the default file is absent.
	path := *configPath
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "lorekeeper: config file %q not found, using environment and defaults\n", path)
		path = ""
	}

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var watcher *config.Watcher
	var cfg *config.Config
	if path != "" {
		var err error
		watcher, err = config.NewWatcher(path, func(old, new *config.Config) {
			applyReload(level, old, new)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "lorekeeper: %v\n", err)
			return 1
		}
		defer watcher.Stop()
		cfg = watcher.Current()
	} else {
		var err error
		cfg, err = config.Load("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "lorekeeper: %v\n", err)
			return 1
		}
	}
	level.Set(slogLevel(cfg.Server.LogLevel))

	slog.Info("lorekeeper starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
		"extractor", cfg.Extractor.Strategy,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "lorekeeper"})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := otelShutdown(sctx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// Storage: PostgreSQL when a DSN is configured, in-memory otherwise.
	var (
		sessions journal.Store
		npcs     roster.Store
		checkers []health.Checker
	)
	if dsn := cfg.Storage.PostgresDSN; dsn != "" {
		store, err := postgres.NewStore(ctx, dsn)
		if err != nil {
			slog.Error("failed to connect to PostgreSQL", "err", err)
			return 1
		}
		defer store.Close()
		sessions = store.Sessions()
		npcs = store.NPCs()
		checkers = append(checkers, health.Database(store))
		slog.Info("using PostgreSQL storage")
	} else {
		sessions = journal.NewMemStore()
		npcs = roster.NewMemStore()
		slog.Warn("using in-memory storage; all data is lost on restart")
	}

	extractor, err := buildExtractor(cfg.Extractor)
	if err != nil {
		slog.Error("failed to build extractor", "err", err)
		return 1
	}

	var scribeOpts []scribe.Option
	if t := cfg.Extractor.SimilarityThreshold; t > 0 {
		scribeOpts = append(scribeOpts, scribe.WithSimilarityThreshold(t))
	}
	svc := scribe.New(extractor, roster.NewRegistry(npcs), npcs, scribeOpts...)

	metrics := observe.DefaultMetrics()
	server := api.New(api.Config{
		Username:           cfg.Server.Auth.Username,
		Password:           cfg.Server.Auth.Password,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		ExtractorStrategy:  string(cfg.Extractor.Strategy),
	}, sessions, npcs, svc, metrics)

	mux := http.NewServeMux()
	mux.Handle("/api/", observe.Middleware(metrics)(server.Handler()))
	mux.Handle("/metrics", promhttp.Handler())
	health.New(checkers...).Register(mux)

	httpServer := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server ready", "addr", cfg.Server.ListenAddr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received, stopping")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// buildExtractor constructs the configured extraction strategy. The pattern
// scanner needs no configuration; the model strategy wraps an any-llm backend
// and keeps the pattern scanner as fallback.
func buildExtractor(cfg config.ExtractorConfig) (extract.Extractor, error) {
	switch cfg.Strategy {
	case config.StrategyModel:
		var opts []anyllmlib.Option
		if cfg.Model.APIKey != "" {
			opts = append(opts, anyllmlib.WithAPIKey(cfg.Model.APIKey))
		}
		if cfg.Model.BaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(cfg.Model.BaseURL))
		}
		provider, err := llm.NewAnyLLM(cfg.Model.Provider, cfg.Model.Model, opts...)
		if err != nil {
			return nil, err
		}
		return extract.NewModelExtractor(provider), nil
	default:
		return extract.NewPatternExtractor(), nil
	}
}

// applyReload applies a hot config reload: the log level changes in place,
// anything else is reported as needing a restart.
func applyReload(level *slog.LevelVar, old, new *config.Config) {
	d := config.Diff(old, new)
	if d.LogLevelChanged {
		level.Set(slogLevel(d.NewLogLevel))
		slog.Info("log level changed", "level", d.NewLogLevel)
	}
	if d.AuthChanged || d.RestartRequired {
		slog.Warn("config change requires a restart to take effect")
	}
}

func slogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
