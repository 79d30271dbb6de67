package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslist/campuslist/infrastructure/persistence"
	"github.com/campuslist/campuslist/internal/config"
	"github.com/campuslist/campuslist/internal/testdb"
)

func testChain(t *testing.T, stages []stage) *Chain {
	t.Helper()
	c := newChain(config.NewChainConfig(), persistence.NewChainLockStore(testdb.New(t)), slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.stages = stages
	return c
}

func TestChainRunsStagesInOrder(t *testing.T) {
	var order []string
	record := func(name string) stage {
		return stage{name: name, run: func(context.Context) error {
			order = append(order, name)
			return nil
		}}
	}

	c := testChain(t, []stage{record("trends"), record("facts"), record("scores")})
	result, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Failed)
	assert.Equal(t, []string{"trends", "facts", "scores"}, order)
}

func TestChainStopsAfterFailedStage(t *testing.T) {
	var ran []string
	c := testChain(t, []stage{
		{name: "trends", run: func(context.Context) error {
			ran = append(ran, "trends")
			return assert.AnError
		}},
		{name: "facts", run: func(context.Context) error {
			ran = append(ran, "facts")
			return nil
		}},
	})

	result, err := c.Run(context.Background())
	require.Error(t, err)
	assert.True(t, result.Failed)
	assert.Equal(t, []string{"trends"}, ran, "later stages never run after a failure")
}

func TestChainBestEffortStageNeverFailsRun(t *testing.T) {
	c := testChain(t, []stage{
		{name: "trends", run: func(context.Context) error { return nil }},
		{name: "notify", bestEffort: true, run: func(context.Context) error { return assert.AnError }},
	})

	result, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Failed)
	assert.Len(t, result.Stages, 2)
}

func TestChainRefusesOverlappingRuns(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	c := testChain(t, []stage{
		{name: "slow", run: func(context.Context) error {
			close(started)
			<-release
			return nil
		}},
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = c.Run(context.Background())
	}()

	<-started
	_, err := c.Run(context.Background())
	assert.ErrorIs(t, err, ErrChainBusy)

	close(release)
	wg.Wait()
}

func TestChainYieldsWhenLeaseHeld(t *testing.T) {
	db := testdb.New(t)
	leases := persistence.NewChainLockStore(db)

	ctx := context.Background()
	ok, err := leases.Acquire(ctx, chainLeaseName, "another-node", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	c := newChain(config.NewChainConfig(), leases, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.stages = []stage{{name: "trends", run: func(context.Context) error { return nil }}}

	_, err = c.Run(ctx)
	assert.ErrorIs(t, err, ErrLeaseHeld)
}

func TestChainReleasesLeaseAfterRun(t *testing.T) {
	db := testdb.New(t)
	leases := persistence.NewChainLockStore(db)

	c := newChain(config.NewChainConfig(), leases, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.stages = []stage{{name: "trends", run: func(context.Context) error { return nil }}}

	ctx := context.Background()
	_, err := c.Run(ctx)
	require.NoError(t, err)

	ok, err := leases.Acquire(ctx, chainLeaseName, "another-node", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "lease is free once the run finishes")
}

func TestSchedulerWindow(t *testing.T) {
	cfg := config.NewChainConfig().WithWindow(9, 21).WithTimezone("America/New_York")
	s := NewScheduler(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	inside := time.Date(2026, 3, 2, 12, 0, 0, 0, ny)
	assert.True(t, s.InWindow(inside))

	early := time.Date(2026, 3, 2, 8, 59, 0, 0, ny)
	assert.False(t, s.InWindow(early))

	boundary := time.Date(2026, 3, 2, 21, 0, 0, 0, ny)
	assert.False(t, s.InWindow(boundary), "end hour is exclusive")

	// The window is evaluated in the configured zone, not the host zone.
	utcEvening := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC) // 18:00 in New York
	assert.True(t, s.InWindow(utcEvening))
}

func TestSchedulerWindowWrapsMidnight(t *testing.T) {
	cfg := config.NewChainConfig().WithWindow(22, 4).WithTimezone("UTC")
	s := NewScheduler(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.True(t, s.InWindow(time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)))
	assert.True(t, s.InWindow(time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)))
	assert.False(t, s.InWindow(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)))
}

func TestSchedulerSkipsTicksOutsideWindow(t *testing.T) {
	ran := false
	c := testChain(t, []stage{{name: "trends", run: func(context.Context) error {
		ran = true
		return nil
	}}})

	cfg := config.NewChainConfig().WithWindow(9, 21).WithTimezone("UTC")
	s := NewScheduler(cfg, c, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC) }

	s.tick(context.Background())
	assert.False(t, ran)

	s.now = func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) }
	s.tick(context.Background())
	assert.True(t, ran)
}
