// Package campuslist aggregates university data from trending searches.
//
// A campuslist Client ingests rising search queries, resolves each query
// to an institution through a place lookup, merges AI-sourced facts and
// a quality score into the record, and stores photos on disk. Records
// are served back through a filterable REST API.
//
// Basic usage:
//
//	client, err := campuslist.New(
//	    campuslist.WithSQLite(".campuslist/campuslist.db"),
//	    campuslist.WithDataDir(".campuslist"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Run one ingestion pass
//	summary, err := client.Pipeline.Run(ctx)
//
//	// Query records
//	universities, err := client.Universities.Find(ctx, store.WithLimit(10))
package campuslist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/campuslist/campuslist/application/service"
	"github.com/campuslist/campuslist/domain/major"
	"github.com/campuslist/campuslist/domain/media"
	"github.com/campuslist/campuslist/domain/score"
	"github.com/campuslist/campuslist/domain/university"
	"github.com/campuslist/campuslist/infrastructure/persistence"
	"github.com/campuslist/campuslist/infrastructure/provider"
	"github.com/campuslist/campuslist/internal/config"
	"github.com/campuslist/campuslist/internal/database"
	"github.com/campuslist/campuslist/internal/log"
)

// ErrNoDatabase is returned by New when no database is configured.
var ErrNoDatabase = errors.New("no database configured: use WithSQLite, WithPostgres or WithDatabaseURL")

// ErrClientClosed is returned when operations are attempted on a closed client.
var ErrClientClosed = errors.New("client is closed")

// Client is the main entry point for the campuslist library.
// The chain scheduler starts automatically on creation unless disabled.
//
// Access stores and services via struct fields:
//
//	client.Universities.Find(ctx)
//	client.Pipeline.Run(ctx)
//	client.Chain.Run(ctx)
type Client struct {
	// Stores (direct read access)
	Universities university.Store
	Majors       major.Store
	Media        media.Store
	Scores       score.Store

	// Services
	Pipeline *service.Pipeline
	FactFill *service.FactFill
	Scoring  *service.Scoring
	Chain    *service.Chain
	Library  *service.MediaLibrary

	db        database.Database
	scheduler *service.Scheduler
	cfg       config.AppConfig
	logger    *slog.Logger
	closed    atomic.Bool
	mu        sync.Mutex
}

// New creates a new Client with the given options. The chain scheduler
// is started automatically when the chain is enabled.
func New(opts ...Option) (*Client, error) {
	cc := newClientConfig()
	for _, opt := range opts {
		opt(cc)
	}
	cfg := cc.app

	if cfg.DBURL() == "" {
		return nil, ErrNoDatabase
	}

	logger := cc.logger
	if logger == nil {
		logger = log.NewLogger(cfg).Slog()
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if err := cfg.EnsureMediaDir(); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, cfg.DBURL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}
	if err := persistence.ValidateSchema(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("validate schema: %w", err), errClose)
	}

	// Stores
	universityStore := persistence.NewUniversityStore(db)
	majorStore := persistence.NewMajorStore(db)
	mediaStore := persistence.NewMediaStore(db)
	scoreStore := persistence.NewScoreStore(db)
	chainLockStore := persistence.NewChainLockStore(db)

	// Upstream providers
	trends := provider.NewTrendsClient(cfg.Trends())
	places := provider.NewPlacesClient(cfg.Places())
	ai := provider.NewAIClient(cfg.AI())

	// Application services
	normalizer := service.NewNormalizer(cfg.Pipeline())
	describer := service.NewDescriber(cfg.Pipeline())
	placeCache := service.NewPlaceCache(universityStore, normalizer, logger)
	library := service.NewMediaLibrary(mediaStore, cfg.MediaDir(), logger)

	pipeline := service.NewPipeline(cfg.Pipeline(), trends, places, universityStore, placeCache, normalizer, describer, library, logger)
	factFill := service.NewFactFill(cfg.Pipeline(), universityStore, majorStore, ai, logger)
	scoring := service.NewScoring(cfg.Pipeline(), universityStore, scoreStore, ai, logger)
	notifier := service.NewNotifier(cfg.NotifyURL(), logger)

	chainSvc := service.NewChain(cfg.Chain(), pipeline, factFill, scoring, notifier, chainLockStore, logger)
	scheduler := service.NewScheduler(cfg.Chain(), chainSvc, logger)

	client := &Client{
		Universities: universityStore,
		Majors:       majorStore,
		Media:        mediaStore,
		Scores:       scoreStore,
		Pipeline:     pipeline,
		FactFill:     factFill,
		Scoring:      scoring,
		Chain:        chainSvc,
		Library:      library,
		db:           db,
		scheduler:    scheduler,
		cfg:          cfg,
		logger:       logger,
	}

	scheduler.Start(ctx)

	return client, nil
}

// Close stops the scheduler and releases all resources.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.scheduler.Stop()

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("campuslist client closed")
	return nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Config returns the effective configuration.
func (c *Client) Config() config.AppConfig {
	return c.cfg
}

// APIKeys returns the configured API keys for the HTTP layer.
func (c *Client) APIKeys() []string {
	return c.cfg.APIKeys()
}

// MediaDir returns the directory holding stored media files.
func (c *Client) MediaDir() string {
	return c.cfg.MediaDir()
}
