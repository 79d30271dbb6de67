// Package major contains the major entity and its university links.
package major

import (
	"context"
	"time"

	"github.com/campuslist/campuslist/domain/store"
	"github.com/campuslist/campuslist/domain/university"
)

// Major is a field of study, shared across universities.
type Major struct {
	id        int64
	name      string
	slug      string
	createdAt time.Time
}

// New creates an unpersisted Major.
func New(name string) Major {
	return Major{
		name: name,
		slug: university.Slugify(name),
	}
}

// Reconstruct recreates a Major from persisted state.
func Reconstruct(id int64, name, slug string, createdAt time.Time) Major {
	return Major{id: id, name: name, slug: slug, createdAt: createdAt}
}

// ID returns the persistence identifier.
func (m Major) ID() int64 { return m.id }

// Name returns the major name.
func (m Major) Name() string { return m.name }

// Slug returns the URL slug.
func (m Major) Slug() string { return m.slug }

// CreatedAt returns the creation timestamp.
func (m Major) CreatedAt() time.Time { return m.createdAt }

// Tagged is a Major together with its notable flag for one university.
type Tagged struct {
	Major   Major
	Notable bool
}

// Store persists majors and their university links.
type Store interface {
	// Save inserts or updates a major.
	Save(ctx context.Context, m Major) (Major, error)

	// Find retrieves majors matching the given options.
	Find(ctx context.Context, options ...store.Option) ([]Major, error)

	// FindOne retrieves a single major matching the given options.
	FindOne(ctx context.Context, options ...store.Option) (Major, error)

	// Sync reconciles a university's major links against facts: majors
	// are created by name when missing, new links inserted, stale links
	// removed, and notable flags updated. Idempotent.
	Sync(ctx context.Context, universityID int64, facts []university.MajorFact) error

	// ForUniversity returns a university's majors with notable flags.
	ForUniversity(ctx context.Context, universityID int64) ([]Tagged, error)

	// UniversityIDs returns ids of universities linked to the major with
	// the given slug, optionally restricted to notable links.
	UniversityIDs(ctx context.Context, slug string, notableOnly bool) ([]int64, error)

	// CountUniversities returns the number of universities per major id.
	CountUniversities(ctx context.Context, majorIDs []int64) (map[int64]int64, error)
}

// WithName filters by the "name" column.
func WithName(name string) store.Option {
	return store.WithCondition("name", name)
}

// WithSlug filters by the "slug" column.
func WithSlug(slug string) store.Option {
	return store.WithCondition("slug", slug)
}
