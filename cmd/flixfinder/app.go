package main

import (
	"context"

	"github.com/flixfinder/flixfinder/internal/cache"
	"github.com/flixfinder/flixfinder/internal/config"
	"github.com/flixfinder/flixfinder/internal/database"
	"github.com/flixfinder/flixfinder/internal/debrid"
	"github.com/flixfinder/flixfinder/internal/handlers"
	"github.com/flixfinder/flixfinder/internal/metadata"
	"github.com/flixfinder/flixfinder/internal/pipeline"
	"github.com/flixfinder/flixfinder/internal/sources"
	"github.com/flixfinder/flixfinder/pkg/logger"
)

// app wires every component together for one process lifetime.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	db      database.Database
	cache   *cache.LRUCache
	handler *handlers.Handler
}

func newApp() (*app, error) {
	cfg := config.Load()
	log := logger.New()

	db, err := database.NewBolt(cfg.DatabasePath, cfg.CacheTTL)
	if err != nil {
		return nil, err
	}
	log.Infof("[App] metadata store opened at %s", cfg.DatabasePath)

	memCache := cache.New(cfg.CacheSize, cfg.CacheTTL)
	meta := metadata.New(memCache, db)
	aggregator := pipeline.New(sources.NewRegistry())
	engine := debrid.NewEngine()

	return &app{
		cfg:     cfg,
		log:     log,
		db:      db,
		cache:   memCache,
		handler: handlers.New(cfg, meta, aggregator, engine),
	}, nil
}

func (a *app) startCacheCleanup(ctx context.Context) {
	a.cache.StartCleanup(ctx)
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.log.Errorf("[App] failed to close database: %v", err)
	}
}
