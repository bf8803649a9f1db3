package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Clark-Hu/movie-rental/internal/config"
	httpserver "github.com/Clark-Hu/movie-rental/internal/http"
	"github.com/Clark-Hu/movie-rental/internal/metadata"
	"github.com/Clark-Hu/movie-rental/internal/metrics"
	"github.com/Clark-Hu/movie-rental/internal/repository"
	"github.com/Clark-Hu/movie-rental/internal/service"
	"github.com/Clark-Hu/movie-rental/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "[movie-rental] ", log.LstdFlags|log.Lshortfile)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	persister, health, closeStore, err := openPersister(ctx, cfg, reg, logger)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer closeStore()

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithMetrics(metrics.New(reg)),
		service.WithSnapshotNames(cfg.CatalogName, cfg.CustomersName),
	}
	if cfg.MetadataURL != "" {
		client, err := metadata.NewHTTPClient(cfg.MetadataURL, cfg.MetadataAPIKey, time.Duration(cfg.MetadataTimeoutSecs)*time.Second, logger)
		if err != nil {
			log.Fatalf("init metadata client: %v", err)
		}
		opts = append(opts, service.WithMetadata(client))
	}
	svc := service.New(repository.New(), persister, opts...)

	if cfg.LoadOnStart {
		loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := svc.Load(loadCtx)
		cancel()
		switch {
		case errors.Is(err, store.ErrNotFound):
			logger.Printf("no saved data yet, starting empty")
		case err != nil:
			// A half-saved snapshot must not be overwritten by SAVE_ON_EXIT.
			log.Fatalf("load saved data: %v", err)
		}
	}

	server := httpserver.New(cfg, svc, health, reg, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			log.Printf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("graceful shutdown error: %v", err)
	}
	if cfg.SaveOnExit {
		if err := svc.Save(shutdownCtx); err != nil {
			log.Printf("save on exit: %v", err)
		}
	}
}

// openPersister builds the store selected by STORE_DRIVER. The returned health checker is nil
// for the file store.
func openPersister(ctx context.Context, cfg config.Config, reg prometheus.Registerer, logger *log.Logger) (store.Persister, httpserver.HealthChecker, func(), error) {
	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pg, err := store.NewPostgres(dbCtx, cfg.DBURL, store.Options{
			MaxConns:               int32(cfg.DBMaxConns),
			MinConns:               int32(cfg.DBMinConns),
			MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
			MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
			ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
			StatementCacheCapacity: cfg.DBStatementCache,
			Logger:                 logger,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		if err := pg.Migrate(dbCtx); err != nil {
			pg.Close()
			return nil, nil, nil, err
		}
		metrics.RegisterPool(reg, pg.PoolStats)
		return pg, pg, pg.Close, nil

	case config.DriverRedis:
		timeout := time.Duration(cfg.RedisTimeoutSecs) * time.Second
		rs, err := store.NewRedis(dbCtx, store.RedisOptions{
			Addr:        cfg.RedisAddr,
			Password:    cfg.RedisPassword,
			DB:          cfg.RedisDB,
			MaxRetries:  3,
			DialTimeout: timeout,
			Timeout:     timeout,
			Logger:      logger,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Printf("using redis store at %s", cfg.RedisAddr)
		return rs, rs, rs.Close, nil

	default:
		fs, err := store.NewFileStore(cfg.DataDir, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Printf("using file store in %s", fs.Dir())
		return fs, nil, func() {}, nil
	}
}
