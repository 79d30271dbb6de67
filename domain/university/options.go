package university

import (
	"strings"

	"github.com/campuslist/campuslist/domain/store"
)

// WithQuery filters by the "query" column.
func WithQuery(query string) store.Option {
	return store.WithCondition("query", query)
}

// WithName filters by the "name" column.
func WithName(name string) store.Option {
	return store.WithCondition("name", name)
}

// WithSlug filters by the "slug" column.
func WithSlug(slug string) store.Option {
	return store.WithCondition("slug", slug)
}

// WithIDNot excludes the given id. Used by slug uniqueness probing so a
// record never collides with itself.
func WithIDNot(id int64) store.Option {
	return store.WithConditionNot("id", id)
}

// WithPlaceTitleOrName matches records whose stored place title or name
// equals title, case-insensitively. The pipeline's fallback match when
// the in-process cache misses.
func WithPlaceTitleOrName(title string) store.Option {
	lowered := strings.ToLower(title)
	return store.WithWhere("LOWER(place_title) = ? OR LOWER(name) = ?", lowered, lowered)
}

// WithPlacePayload filters records carrying a raw place payload.
func WithPlacePayload() store.Option {
	return store.WithNotNull("place_raw")
}

// WithFoundedMissing filters records not yet fact-filled.
func WithFoundedMissing() store.Option {
	return store.WithNull("founded")
}

// WithoutScore filters records that have no score row yet.
func WithoutScore() store.Option {
	return store.WithWhere("id NOT IN (SELECT university_id FROM university_scores)")
}
