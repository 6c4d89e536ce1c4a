// Package app assembles a Manager and its collaborators from config.
package app

import (
	"context"
	"strings"

	"github.com/example/clothing-store/internal/config"
	"github.com/example/clothing-store/internal/description"
	"github.com/example/clothing-store/internal/domain/catalog"
	"github.com/example/clothing-store/internal/domain/order"
	"github.com/example/clothing-store/internal/infrastructure/kafka"
	"github.com/example/clothing-store/internal/infrastructure/storage"
	"github.com/example/clothing-store/internal/state"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type App struct {
	Config    config.Config
	Logger    *logrus.Logger
	Store     *state.Manager
	Generator *description.Generator

	closers []func() error
}

// Build opens storage, the optional change feed and the description model,
// then loads the store. On error everything opened so far is closed.
func Build(ctx context.Context, cfg config.Config) (_ *App, err error) {
	a := &App{Config: cfg, Logger: cfg.NewLogger()}
	defer func() {
		if err != nil {
			a.closeAll()
		}
	}()

	st, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	opts := []state.Option{state.WithLogger(a.Logger)}

	if cfg.SeedFile != "" {
		seed, err := catalog.LoadSeed(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, state.WithSeed(seed))
	}
	if cfg.StrictLookups {
		opts = append(opts, state.WithStrictLookups())
	}
	if cfg.StrictTransitions {
		opts = append(opts, state.WithTransitionPolicy(order.Strict))
	}
	if cfg.PublishEvents() {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		a.closers = append(a.closers, producer.Close)
		opts = append(opts, state.WithPublisher(producer))
		a.Logger.WithFields(logrus.Fields{
			"brokers": cfg.KafkaBrokers,
			"topic":   cfg.KafkaTopic,
		}).Info("publishing store events")
	}

	var model description.Model
	if cfg.APIKey != "" {
		gm, err := description.NewGeminiModel(ctx, cfg.APIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		model = gm
	}
	a.Generator = description.NewGenerator(model, cfg.GenerateTimeout, a.Logger)

	a.Store = state.New(ctx, st, opts...)
	return a, nil
}

func (a *App) openStorage(ctx context.Context) (storage.Storage, error) {
	cfg := a.Config
	backend := strings.ToLower(cfg.Storage)
	a.Logger.WithField("storage", backend).Info("opening storage")

	switch backend {
	case config.StorageMemory:
		return storage.NewMemory(), nil
	case config.StorageFile:
		return storage.NewFile(cfg.DataDir)
	case config.StoragePostgres:
		db, err := storage.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		pg := storage.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return pg, nil
	case config.StorageMySQL:
		db, err := storage.ConnectMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		my := storage.NewMySQL(db)
		if err := my.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return my, nil
	case config.StorageDynamo:
		client, err := storage.NewDynamoClient(ctx, cfg.AWSRegion, cfg.DynamoEndpoint)
		if err != nil {
			return nil, err
		}
		return storage.NewDynamo(client, cfg.DynamoTable), nil
	}
	return nil, errors.Errorf("unknown storage backend %q", cfg.Storage)
}

// Close flushes the store and releases connections in reverse order.
func (a *App) Close(ctx context.Context) error {
	var first error
	if a.Store != nil {
		first = a.Store.Close(ctx)
	}
	if err := a.closeAll(); err != nil && first == nil {
		first = err
	}
	return first
}

func (a *App) closeAll() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.WithError(err).Warn("close failed")
			if first == nil {
				first = err
			}
		}
	}
	a.closers = nil
	return first
}
