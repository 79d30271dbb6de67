// Package chain defines the scheduled stage chain vocabulary: stages,
// run outcomes, and the cluster-wide lease that keeps at most one chain
// instance active across the fleet.
package chain

import (
	"context"
	"time"
)

// Lease is a named cluster-wide mutual-exclusion record. A holder
// acquires the lease before running the chain and releases it after;
// a lease past its expiry is treated as abandoned and may be taken over.
type Lease struct {
	name       string
	holder     string
	acquiredAt time.Time
	expiresAt  time.Time
}

// Reconstruct recreates a Lease from persisted state.
func Reconstruct(name, holder string, acquiredAt, expiresAt time.Time) Lease {
	return Lease{name: name, holder: holder, acquiredAt: acquiredAt, expiresAt: expiresAt}
}

// Name returns the lease name.
func (l Lease) Name() string { return l.name }

// Holder returns the current holder identifier.
func (l Lease) Holder() string { return l.holder }

// AcquiredAt returns when the lease was taken.
func (l Lease) AcquiredAt() time.Time { return l.acquiredAt }

// ExpiresAt returns when the lease lapses.
func (l Lease) ExpiresAt() time.Time { return l.expiresAt }

// Expired reports whether the lease has lapsed at now.
func (l Lease) Expired(now time.Time) bool {
	return now.After(l.expiresAt)
}

// LeaseStore persists leases.
type LeaseStore interface {
	// Acquire attempts to take the named lease for holder with the given
	// TTL. Returns false when another holder owns an unexpired lease.
	Acquire(ctx context.Context, name, holder string, ttl time.Duration) (bool, error)

	// Release frees the named lease if held by holder.
	Release(ctx context.Context, name, holder string) error
}

// StageResult captures one stage's outcome within a chain run.
type StageResult struct {
	Stage    string
	Err      error
	Duration time.Duration
}

// RunResult captures a whole chain run.
type RunResult struct {
	Stages []StageResult
	Failed bool
}
