package university

import (
	"context"

	"github.com/campuslist/campuslist/domain/store"
)

// Store persists universities.
type Store interface {
	// Save inserts when the university has no id, updates otherwise.
	Save(ctx context.Context, u University) (University, error)

	// Find retrieves universities matching the given options.
	Find(ctx context.Context, options ...store.Option) ([]University, error)

	// FindOne retrieves a single university matching the given options.
	FindOne(ctx context.Context, options ...store.Option) (University, error)

	// Exists reports whether any university matches the given options.
	Exists(ctx context.Context, options ...store.Option) (bool, error)

	// Count returns the number of matching universities.
	Count(ctx context.Context, options ...store.Option) (int64, error)

	// DeleteBy removes universities matching the given options.
	DeleteBy(ctx context.Context, options ...store.Option) error

	// StateCounts returns distinct administrative areas with the number
	// of institutions in each, optionally restricted to a region code.
	StateCounts(ctx context.Context, regionCode string) ([]StateCount, error)
}

// StateCount is one administrative area aggregate.
type StateCount struct {
	AdministrativeArea string
	RegionCode         string
	Count              int64
}
