package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/abhichtrvd/1goli-sub001/internal/catalogfile"
	"github.com/abhichtrvd/1goli-sub001/internal/config"
	dbRedis "github.com/abhichtrvd/1goli-sub001/internal/db/redis"
	logpkg "github.com/abhichtrvd/1goli-sub001/internal/logger"
	"github.com/abhichtrvd/1goli-sub001/internal/metrics"
	catalogrepo "github.com/abhichtrvd/1goli-sub001/internal/repository/catalog"
	"github.com/abhichtrvd/1goli-sub001/internal/repository/media"
	"github.com/abhichtrvd/1goli-sub001/internal/repository/memcatalog"
	chiTransport "github.com/abhichtrvd/1goli-sub001/internal/transport/chi"
	cataloguc "github.com/abhichtrvd/1goli-sub001/internal/usecase/catalog"
	healthuc "github.com/abhichtrvd/1goli-sub001/internal/usecase/health"
	"github.com/abhichtrvd/1goli-sub001/internal/version"
)

// backend is the record store chosen by database.driver.
type backend struct {
	store  cataloguc.Store
	pinger healthuc.DBPinger
	media  media.Resolver
	close  func()
}

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, logpkg.Options{Level: cfg.Logging.Level, Service: "catalogd"})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting catalog API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("media_driver", cfg.Media.Driver),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterCatalogMetrics()
	metrics.RegisterStoreMetrics()

	ctx := context.Background()
	be, err := buildBackend(ctx, &cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create record store", zap.Error(err))
	}
	defer be.close()

	mediaResolver, err := buildMediaResolver(&cfg, be.media)
	if err != nil {
		logger.Fatal("Failed to create media resolver", zap.Error(err))
	}
	guarded := media.NewGuarded(mediaResolver, breakerConfig(&cfg), logger)

	store := cataloguc.NewInstrumentedStore(be.store, cfg.Database.Driver, logger)
	catalogSvc := cataloguc.New(store, guarded, cataloguc.Config{
		MaxPageSize:      cfg.Catalog.MaxPageSize,
		MaxSearchResults: cfg.Catalog.MaxSearchResults,
		MediaConcurrency: cfg.Catalog.MediaConcurrency,
	}, logger)
	healthSvc := healthuc.New(be.pinger, guarded,
		healthuc.WithCheckTimeout(time.Duration(cfg.Health.CheckTimeoutMs)*time.Millisecond))

	server := chiTransport.NewServer(catalogSvc, healthSvc, chiTransport.Options{
		DefaultPageSize: cfg.Catalog.DefaultPageSize,
		PriceCeiling:    cfg.Catalog.PriceCeiling,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func buildBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*backend, error) {
	switch cfg.Database.Driver {
	case config.DriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Database.Addrs,
			Username:   cfg.Database.Username,
			Password:   cfg.Database.Password,
			DB:         cfg.Database.DB,
			ClientName: "catalogd",
		})
		if err != nil {
			return nil, err
		}
		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			store.Close()
			return nil, fmt.Errorf("database not ready: %w", err)
		}
		logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))

		repo := catalogrepo.New(store, cfg.Storage.KeyPrefix).WithBatchSize(cfg.Catalog.CollectBatchSize)
		if err := repo.EnsureIndex(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("ensure catalog index: %w", err)
		}
		return &backend{
			store:  repo,
			pinger: store,
			media:  media.NewKVResolver(store, cfg.Storage.KeyPrefix),
			close:  store.Close,
		}, nil

	case config.DriverMemory:
		store, err := memcatalog.New()
		if err != nil {
			return nil, err
		}
		if cfg.Catalog.SeedFile != "" {
			f, err := catalogfile.Load(cfg.Catalog.SeedFile, time.Now())
			if err != nil {
				_ = store.Close()
				return nil, err
			}
			if err := store.Put(f.Items...); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("seed memory store: %w", err)
			}
			logger.Info("Seeded memory store",
				zap.String("file", cfg.Catalog.SeedFile),
				zap.Int("items", store.Len()),
			)
		}
		return &backend{
			store:  store,
			pinger: store,
			close:  func() { _ = store.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// buildMediaResolver picks the resolver named by media.driver. kv is the
// database-backed resolver and is only available with the redis driver.
func buildMediaResolver(cfg *config.Config, kv media.Resolver) (media.Resolver, error) {
	switch cfg.Media.Driver {
	case config.MediaDriverKV:
		if kv == nil {
			return nil, fmt.Errorf("media driver %q needs a key-value store", cfg.Media.Driver)
		}
		return kv, nil
	case config.MediaDriverBaseURL:
		return media.NewBaseURLResolver(cfg.Media.BaseURL)
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.Media.Driver)
	}
}

func breakerConfig(cfg *config.Config) media.BreakerConfig {
	b := media.DefaultBreakerConfig()
	mc := cfg.Media
	b.CallTimeout = time.Duration(mc.TimeoutMs) * time.Millisecond
	if mc.Breaker.MaxRequests > 0 {
		b.MaxRequests = mc.Breaker.MaxRequests
	}
	if mc.Breaker.IntervalSec > 0 {
		b.Interval = time.Duration(mc.Breaker.IntervalSec) * time.Second
	}
	if mc.Breaker.OpenTimeoutSec > 0 {
		b.OpenTimeout = time.Duration(mc.Breaker.OpenTimeoutSec) * time.Second
	}
	if mc.Breaker.FailureThreshold > 0 {
		b.FailureThreshold = mc.Breaker.FailureThreshold
	}
	if mc.Breaker.MinRequests > 0 {
		b.MinRequests = mc.Breaker.MinRequests
	}
	return b
}
