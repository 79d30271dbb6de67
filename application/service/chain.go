package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/campuslist/campuslist/domain/chain"
	"github.com/campuslist/campuslist/internal/config"
)

const chainLeaseName = "enrichment-chain"

// ErrChainBusy indicates a chain run was requested while one is active.
var ErrChainBusy = errors.New("chain run already in progress")

// ErrLeaseHeld indicates another instance holds the cluster lease.
var ErrLeaseHeld = errors.New("chain lease held by another instance")

type stage struct {
	name       string
	run        func(ctx context.Context) error
	bestEffort bool
}

// Chain runs the enrichment stages in order: ingest trends, fill facts,
// score, notify downstream. A stage only runs when every stage before it
// succeeded; the notify stage is best effort and never fails the run.
type Chain struct {
	stages   []stage
	leases   chain.LeaseStore
	leaseTTL time.Duration
	holder   string
	logger   *slog.Logger

	running atomic.Bool
}

// NewChain creates a Chain over the standard stage sequence.
func NewChain(
	cfg config.ChainConfig,
	pipeline *Pipeline,
	factFill *FactFill,
	scoring *Scoring,
	notifier *Notifier,
	leases chain.LeaseStore,
	logger *slog.Logger,
) *Chain {
	c := newChain(cfg, leases, logger)
	c.stages = []stage{
		{name: "trends", run: func(ctx context.Context) error {
			_, err := pipeline.Run(ctx)
			return err
		}},
		{name: "facts", run: func(ctx context.Context) error {
			_, err := factFill.Run(ctx, 0, false)
			return err
		}},
		{name: "scores", run: func(ctx context.Context) error {
			_, err := scoring.Run(ctx, 0)
			return err
		}},
		{name: "notify", bestEffort: true, run: notifier.Notify},
	}
	return c
}

func newChain(cfg config.ChainConfig, leases chain.LeaseStore, logger *slog.Logger) *Chain {
	hostname, _ := os.Hostname()
	return &Chain{
		leases:   leases,
		leaseTTL: cfg.LeaseTTL(),
		holder:   hostname + "-" + uuid.NewString()[:8],
		logger:   logger,
	}
}

// Run executes one chain pass. It refuses to overlap with a run already
// active in this process and yields when another instance holds the
// cluster lease.
func (c *Chain) Run(ctx context.Context) (chain.RunResult, error) {
	if !c.running.CompareAndSwap(false, true) {
		return chain.RunResult{}, ErrChainBusy
	}
	defer c.running.Store(false)

	acquired, err := c.leases.Acquire(ctx, chainLeaseName, c.holder, c.leaseTTL)
	if err != nil {
		return chain.RunResult{}, fmt.Errorf("acquire chain lease: %w", err)
	}
	if !acquired {
		return chain.RunResult{}, ErrLeaseHeld
	}
	defer func() {
		if err := c.leases.Release(context.WithoutCancel(ctx), chainLeaseName, c.holder); err != nil {
			c.logger.Warn("chain lease release failed", slog.String("error", err.Error()))
		}
	}()

	result := chain.RunResult{}
	for _, s := range c.stages {
		start := time.Now()
		err := s.run(ctx)
		took := time.Since(start)

		if err != nil && s.bestEffort {
			c.logger.Warn("best-effort stage failed",
				slog.String("stage", s.name),
				slog.String("error", err.Error()),
			)
			err = nil
		}

		result.Stages = append(result.Stages, chain.StageResult{
			Stage:    s.name,
			Err:      err,
			Duration: took,
		})

		if err != nil {
			result.Failed = true
			c.logger.Error("chain stage failed",
				slog.String("stage", s.name),
				slog.String("error", err.Error()),
			)
			return result, fmt.Errorf("chain stage %s: %w", s.name, err)
		}

		c.logger.Info("chain stage finished",
			slog.String("stage", s.name),
			slog.Duration("took", took),
		)
	}

	return result, nil
}

// Scheduler triggers chain runs on a timer, restricted to a daily hour
// window in the configured timezone.
type Scheduler struct {
	chain    *Chain
	interval time.Duration
	start    int
	end      int
	location *time.Location
	enabled  bool
	logger   *slog.Logger
	now      func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewScheduler creates a Scheduler. An unknown timezone falls back to
// UTC with a warning rather than refusing to start.
func NewScheduler(cfg config.ChainConfig, c *Chain, logger *slog.Logger) *Scheduler {
	location, err := time.LoadLocation(cfg.Timezone())
	if err != nil {
		logger.Warn("unknown chain timezone, using UTC", slog.String("timezone", cfg.Timezone()))
		location = time.UTC
	}
	return &Scheduler{
		chain:    c,
		interval: cfg.Interval(),
		start:    cfg.WindowStartHour(),
		end:      cfg.WindowEndHour(),
		location: location,
		enabled:  cfg.Enabled(),
		logger:   logger,
		now:      time.Now,
	}
}

// Start begins scheduling in a background goroutine. If disabled, this
// is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.enabled {
		s.logger.Info("chain scheduler disabled")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()

	s.logger.Info("chain scheduler started",
		slog.Duration("interval", s.interval),
		slog.Int("window_start_hour", s.start),
		slog.Int("window_end_hour", s.end),
		slog.String("timezone", s.location.String()),
	)
}

// Stop cancels the background goroutine and waits for it to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	s.logger.Info("chain scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.InWindow(s.now()) {
		s.logger.Debug("outside chain window, skipping tick")
		return
	}

	if _, err := s.chain.Run(ctx); err != nil {
		switch {
		case errors.Is(err, ErrChainBusy):
			s.logger.Debug("chain still running, skipping tick")
		case errors.Is(err, ErrLeaseHeld):
			s.logger.Debug("chain lease held elsewhere, skipping tick")
		case ctx.Err() != nil:
		default:
			s.logger.Error("chain run failed", slog.String("error", err.Error()))
		}
	}
}

// InWindow reports whether t falls inside the daily run window. The end
// hour is exclusive.
func (s *Scheduler) InWindow(t time.Time) bool {
	hour := t.In(s.location).Hour()
	if s.start <= s.end {
		return hour >= s.start && hour < s.end
	}
	// Window wraps midnight.
	return hour >= s.start || hour < s.end
}
