package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/udisondev/idkfx/internal/catalog"
	"github.com/udisondev/idkfx/internal/config"
	"github.com/udisondev/idkfx/internal/db"
	"github.com/udisondev/idkfx/internal/loadout"
	"github.com/udisondev/idkfx/internal/redisstore"
	"github.com/udisondev/idkfx/internal/sim"
)

const DefaultConfigPath = "config/effectsim.yaml"

// app carries global flags and the loaded config to subcommands.
type app struct {
	configPath string
	catalogDir string
	storage    string
	cfg        config.Effectsim
}

func newRootCmd() *cobra.Command {
	a := &app{configPath: DefaultConfigPath}
	if p := os.Getenv("IDKFX_CONFIG"); p != "" {
		a.configPath = p
	}

	root := &cobra.Command{
		Use:           "effectsim",
		Short:         "Effect catalog tool and duel simulator",
		Long:          `effectsim validates YAML effect catalogs, stores character loadouts and simulates duels between them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", a.configPath, "config file (env IDKFX_CONFIG)")
	flags.StringVar(&a.catalogDir, "catalog", "", "catalog directory (overrides config)")
	flags.StringVar(&a.storage, "storage", "", "loadout storage: memory, postgres or redis (overrides config)")

	root.AddCommand(
		a.validateCmd(),
		a.migrateCmd(),
		a.loadoutCmd(),
		a.simulateCmd(),
	)
	return root
}

// setup loads the config and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.catalogDir != "" {
		cfg.CatalogDir = a.catalogDir
	}
	if a.storage != "" {
		cfg.Storage = a.storage
	}
	a.cfg = cfg

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})))
	sim.EnableDebugLogging(logLevel == slog.LevelDebug)
	return nil
}

func (a *app) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	c, err := catalog.Load(ctx, a.cfg.CatalogDir)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	if ps := c.Validate(); ps.HasErrors() {
		return nil, fmt.Errorf("catalog %s is invalid: %w", a.cfg.CatalogDir, ps.Err())
	}
	slog.Debug("catalog loaded", "dir", a.cfg.CatalogDir, "version", c.Version())
	return c, nil
}

// openRepository connects the configured storage backend. The returned
// func releases it.
func (a *app) openRepository(ctx context.Context) (loadout.Repository, func(), error) {
	switch a.cfg.Storage {
	case config.StorageMemory:
		slog.Warn("memory storage does not outlive the process")
		return loadout.NewMemoryRepository(), func() {}, nil

	case config.StoragePostgres:
		d, err := db.New(ctx, a.cfg.Database.DSN())
		if err != nil {
			return nil, nil, err
		}
		return d.Loadouts(), d.Close, nil

	case config.StorageRedis:
		client, err := redisstore.NewClient(a.cfg.Redis.Addr, &redisstore.Options{
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				slog.Warn("closing redis client", "err", err)
			}
		}
		if err := client.Ping(ctx).Err(); err != nil {
			closeClient()
			return nil, nil, fmt.Errorf("pinging redis %s: %w", a.cfg.Redis.Addr, err)
		}
		repo, err := redisstore.NewLoadoutRepository(&redisstore.RedisConfig{
			Client:    client,
			KeyPrefix: a.cfg.Redis.KeyPrefix,
		})
		if err != nil {
			closeClient()
			return nil, nil, err
		}
		return repo, closeClient, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage %q", a.cfg.Storage)
	}
}

// openService loads the catalog and the repository together.
func (a *app) openService(ctx context.Context) (*loadout.Service, *catalog.Catalog, func(), error) {
	c, err := a.loadCatalog(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	repo, closeRepo, err := a.openRepository(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return loadout.NewService(repo, c), c, closeRepo, nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
