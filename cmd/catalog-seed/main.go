// catalog-seed loads a JSON catalog file into the Redis record store.
//
// Usage:
//
//	catalog-seed -file testdata/catalog.json -batch 200 [-reindex]
//
// -reindex drops and re-declares the catalog index after the load, for
// schema changes; existing item hashes are kept.
// Connection settings come from the config file selected by ENV.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/abhichtrvd/1goli-sub001/internal/catalogfile"
	"github.com/abhichtrvd/1goli-sub001/internal/config"
	dbRedis "github.com/abhichtrvd/1goli-sub001/internal/db/redis"
	logpkg "github.com/abhichtrvd/1goli-sub001/internal/logger"
	catalogrepo "github.com/abhichtrvd/1goli-sub001/internal/repository/catalog"
	"github.com/abhichtrvd/1goli-sub001/internal/repository/media"
)

type options struct {
	file    string
	batch   int
	reindex bool
}

func parseFlags() options {
	opts := options{}
	flag.StringVar(&opts.file, "file", "testdata/catalog.json", "catalog JSON file to load")
	flag.IntVar(&opts.batch, "batch", 200, "items per HSET pipeline")
	flag.BoolVar(&opts.reindex, "reindex", false, "drop and re-create the catalog index")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	logger, err := logpkg.New(env, logpkg.Options{Level: cfg.Logging.Level, Service: "catalog-seed"})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := run(ctx, &cfg, opts, logger); err != nil {
		logger.Error("Seed failed", zap.Error(err))
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, logger *zap.Logger) error {
	start := time.Now()
	if cfg.Database.Driver != config.DriverRedis {
		return fmt.Errorf("database.driver must be %q to seed, got %q", config.DriverRedis, cfg.Database.Driver)
	}

	f, err := catalogfile.Load(opts.file, start)
	if err != nil {
		return err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Database.Addrs,
		Username:   cfg.Database.Username,
		Password:   cfg.Database.Password,
		DB:         cfg.Database.DB,
		ClientName: "catalog-seed",
	})
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	repo := catalogrepo.New(store, cfg.Storage.KeyPrefix)
	if err := repo.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure catalog index: %w", err)
	}

	batch := max(opts.batch, 1)
	for from := 0; from < len(f.Items); from += batch {
		to := min(from+batch, len(f.Items))
		if err := repo.PutItems(ctx, f.Items[from:to]); err != nil {
			return fmt.Errorf("put items %d-%d: %w", from, to, err)
		}
		logger.Debug("Batch stored", zap.Int("from", from), zap.Int("to", to))
	}

	if err := media.NewKVResolver(store, cfg.Storage.KeyPrefix).PutAll(ctx, f.Media); err != nil {
		return fmt.Errorf("put media: %w", err)
	}

	if opts.reindex {
		if err := repo.RebuildIndex(ctx); err != nil {
			return fmt.Errorf("rebuild catalog index: %w", err)
		}
		logger.Info("Catalog index rebuilt")
	}

	logger.Info("Catalog seeded",
		zap.String("file", opts.file),
		zap.Int("items", len(f.Items)),
		zap.Int("media", len(f.Media)),
		zap.Bool("reindex", opts.reindex),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
