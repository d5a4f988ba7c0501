package main

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/question-extractor/internal/cache"
	"github.com/SAP-F-2025/question-extractor/internal/events"
	"github.com/SAP-F-2025/question-extractor/internal/services"
	"github.com/SAP-F-2025/question-extractor/internal/validator"
	"github.com/SAP-F-2025/question-extractor/pkg"
)

// application bundles the services shared by every command.
type application struct {
	validator  *validator.Validator
	extraction services.ExtractionService
	sessions   services.SessionService
	publisher  events.EventPublisher
	closers    []func() error
}

// newApplication wires the cache, the event publisher and the services from
// the loaded config. Redis is used when reachable, otherwise classification
// results are cached in process.
func newApplication(ctx context.Context) (*application, error) {
	app := &application{validator: validator.New()}

	store := cache.NewNoopCache()
	if cfg.CacheEnabled {
		store = cache.NewMemoryCache()
		client, err := pkg.NewRedisClient(ctx, cfg)
		if err != nil {
			logger.Warn("Redis unavailable, using in-memory classification cache", "error", err)
		} else {
			store = cache.NewRedisCache(client, logger)
			app.closers = append(app.closers, client.Close)
		}
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.publisher = publisher
	app.closers = append(app.closers, publisher.Close)

	extraction, err := services.NewExtractionService(
		cfg.Classifier,
		cache.NewClassificationCache(store, cfg.CacheTTL, logger),
		publisher,
		logger,
	)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.extraction = extraction
	app.sessions = services.NewSessionService(app.validator, publisher, logger)
	return app, nil
}

func (a *application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
