package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/campuslist/campuslist/infrastructure/persistence"
	"github.com/campuslist/campuslist/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainLockAcquireRelease(t *testing.T) {
	ctx := context.Background()
	s := persistence.NewChainLockStore(testdb.New(t))

	ok, err := s.Acquire(ctx, "chain", "node-a", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Acquire(ctx, "chain", "node-b", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "held lease blocks other holders")

	// The current holder may re-acquire to extend its lease.
	ok, err = s.Acquire(ctx, "chain", "node-a", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Release(ctx, "chain", "node-a"))

	ok, err = s.Acquire(ctx, "chain", "node-b", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestChainLockExpiredLeaseTakeover(t *testing.T) {
	ctx := context.Background()
	s := persistence.NewChainLockStore(testdb.New(t))

	ok, err := s.Acquire(ctx, "chain", "node-a", -time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Acquire(ctx, "chain", "node-b", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "expired lease may be taken over")
}

func TestChainLockReleaseByNonHolderIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := persistence.NewChainLockStore(testdb.New(t))

	ok, err := s.Acquire(ctx, "chain", "node-a", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.Release(ctx, "chain", "node-b"))

	ok, err = s.Acquire(ctx, "chain", "node-c", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "lease still held after foreign release")
}
