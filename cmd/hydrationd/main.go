// @title                       Hydration Service API
// @version                     1.0
// @description                 Daily water intake tracking with weather and activity driven targets.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
	"github.com/spf13/afero"
	"golang.org/x/text/language"

	"github.com/hydrowise/hydration-service/internal/api"
	"github.com/hydrowise/hydration-service/internal/api/handler"
	"github.com/hydrowise/hydration-service/internal/core/ports"
	"github.com/hydrowise/hydration-service/internal/core/service"
	"github.com/hydrowise/hydration-service/internal/infrastructure/config"
	filestore "github.com/hydrowise/hydration-service/internal/infrastructure/db/file"
	mongostore "github.com/hydrowise/hydration-service/internal/infrastructure/db/mongo"
	redisstore "github.com/hydrowise/hydration-service/internal/infrastructure/db/redis"
	"github.com/hydrowise/hydration-service/internal/infrastructure/queue"
	"github.com/hydrowise/hydration-service/internal/infrastructure/weather"
	"github.com/hydrowise/hydration-service/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// backend is the storage selected by STORAGE_DRIVER.
type backend struct {
	repo   ports.StateRepository
	audit  ports.IntakeAuditRepository
	ledger ports.BonusLedger
	close  func()
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
		File:   cfg.LogFile,
	})

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// --- Storage ---
	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.close()

	writerCtx, stopWriter := context.WithCancel(context.Background())
	defer stopWriter()

	writer := queue.NewSnapshotWriter(be.repo, queue.WriterOptions{
		RetryInterval: cfg.Storage.RetryInterval,
	}, logger.Component("writer"))
	writer.Start(writerCtx)

	store := service.NewHydrationStore(be.repo, writer, logger.Component("store"), service.StoreOptions{
		Location: loc,
		Audit:    be.audit,
	})

	ledger := be.ledger
	if ledger == nil {
		ledger = store
	}

	// --- Target policy ---
	detector := service.NewActivityDetector(service.ActivityConfig{
		GoalPoints: cfg.Activity.GoalPoints,
		Cooldown:   cfg.Activity.Cooldown,
	}, logger.Component("activity"))

	weatherClient := weather.NewClient(weather.Config{
		APIKey:   cfg.Weather.APIKey,
		BaseURL:  cfg.Weather.BaseURL,
		Language: cfg.Weather.Language,
	})
	if cfg.Weather.APIKey == "" {
		log.Warn().Msg("OPENWEATHER_API_KEY not set, weather context will report unavailable")
	}

	policy := service.NewTargetPolicy(store, weatherClient, ledger, detector, service.PolicyOptions{
		HeatOncePerDay: cfg.HeatBonusOncePerDay,
		Language:       language.Make(cfg.Weather.Language),
	}, logger.Component("policy"))

	history := service.NewHistoryAggregator(store, loc, nil)

	e := api.NewRouter(api.Deps{
		Store:     store,
		Status:    store,
		Policy:    policy,
		History:   history,
		Pingers:   map[string]handler.Pinger{cfg.Storage.Driver: be.repo},
		JWTSecret: cfg.JWTSecret,
		Log:       logger.Component("http"),
	})
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set, API runs in local mode without authentication")
	}

	var wg conc.WaitGroup

	// Requests answer 503 until the snapshot is restored.
	wg.Go(func() { loadState(ctx, store, log) })

	addr := ":" + cfg.Port
	wg.Go(func() {
		log.Info().Str("addr", addr).Str("storage", cfg.Storage.Driver).Msg("http server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	})

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	wg.Wait()

	if store.Hydrated() {
		if err := store.Flush(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("pending snapshot not flushed")
		}
	}
	stopWriter()

	log.Info().Msg("stopped")
	return nil
}

// loadState restores the persisted snapshot, retrying with backoff until it
// succeeds or ctx is cancelled.
func loadState(ctx context.Context, store *service.HydrationStore, log zerolog.Logger) {
	err := retry.Do(
		func() error { return store.Load(ctx) },
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(500*time.Millisecond),
		retry.MaxDelay(30*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Msg("hydration state load failed, retrying")
		}),
	)
	if err != nil {
		log.Error().Err(err).Msg("hydration state never loaded")
	}
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return &backend{
			repo:   redisstore.NewStateRepository(client, cfg.Storage.Key),
			ledger: redisstore.NewBonusLedger(client),
			close:  func() { _ = client.Close() },
		}, nil

	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		audit := mongostore.NewIntakeAuditRepository(db)
		if err := audit.EnsureIndexes(ctx); err != nil {
			_ = mongostore.Disconnect(client)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return &backend{
			repo:  mongostore.NewStateRepository(db, cfg.Storage.Key),
			audit: audit,
			close: func() { _ = mongostore.Disconnect(client) },
		}, nil

	default:
		repo := filestore.NewStateRepository(afero.NewOsFs(), cfg.Storage.Dir, cfg.Storage.Key)
		if err := repo.Ping(ctx); err != nil {
			return nil, fmt.Errorf("storage dir: %w", err)
		}
		return &backend{repo: repo, close: func() {}}, nil
	}
}
