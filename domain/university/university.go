// Package university contains the institution entity, its attribute
// merge semantics, and the store contract.
package university

import (
	"errors"
	"time"
)

// ErrNoName indicates a record would be created without a resolvable
// name. Records are never created nameless; callers discard the item.
var ErrNoName = errors.New("university has no resolvable name")

// University is the central entity: one institution, assembled from a
// trending query, a place lookup, and AI fact passes.
//
// Slug and meta description are preserve-once: generated when first
// empty and never overwritten by later pipeline passes.
type University struct {
	id              int64
	query           string
	name            string
	slug            string
	metaDescription string
	attrs           Attributes
	createdAt       time.Time
	updatedAt       time.Time
}

// New creates a University that has not been persisted yet.
func New(query, name string, attrs Attributes) University {
	return University{
		query: query,
		name:  name,
		attrs: attrs,
	}
}

// Reconstruct recreates a University from persisted state.
func Reconstruct(
	id int64,
	query string,
	name string,
	slug string,
	metaDescription string,
	attrs Attributes,
	createdAt time.Time,
	updatedAt time.Time,
) University {
	return University{
		id:              id,
		query:           query,
		name:            name,
		slug:            slug,
		metaDescription: metaDescription,
		attrs:           attrs,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// ID returns the persistence identifier (0 when not yet saved).
func (u University) ID() int64 { return u.id }

// Query returns the trending query that produced or last matched this
// record.
func (u University) Query() string { return u.query }

// Name returns the institution name (may be empty pending resolution).
func (u University) Name() string { return u.name }

// Slug returns the URL slug.
func (u University) Slug() string { return u.slug }

// MetaDescription returns the SEO description.
func (u University) MetaDescription() string { return u.metaDescription }

// Attributes returns the attribute bundle.
func (u University) Attributes() Attributes { return u.attrs }

// CreatedAt returns the creation timestamp.
func (u University) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt returns the last update timestamp.
func (u University) UpdatedAt() time.Time { return u.updatedAt }

// HasSlug reports whether a slug has been assigned.
func (u University) HasSlug() bool { return u.slug != "" }

// HasMetaDescription reports whether a description has been assigned.
func (u University) HasMetaDescription() bool { return u.metaDescription != "" }

// WithQuery returns a copy with the query force-set. The pipeline sets
// this on every pass so the record tracks its latest trending variant.
func (u University) WithQuery(query string) University {
	u.query = query
	return u
}

// WithName returns a copy with the name set if name is non-empty.
func (u University) WithName(name string) University {
	if name != "" {
		u.name = name
	}
	return u
}

// WithSlug returns a copy with the slug set, unless one already exists.
func (u University) WithSlug(slug string) University {
	if u.slug == "" {
		u.slug = slug
	}
	return u
}

// WithMetaDescription returns a copy with the description set, unless
// one already exists.
func (u University) WithMetaDescription(desc string) University {
	if u.metaDescription == "" {
		u.metaDescription = desc
	}
	return u
}

// MergeAttributes returns a copy with attrs merged over the existing
// bundle: non-empty incoming values replace current ones.
func (u University) MergeAttributes(attrs Attributes) University {
	u.attrs = u.attrs.Merge(attrs, true)
	return u
}

// FillAttributes returns a copy with attrs merged into the existing
// bundle, filling only fields that are currently empty.
func (u University) FillAttributes(attrs Attributes) University {
	u.attrs = u.attrs.Merge(attrs, false)
	return u
}

// ResolvedType returns the best-effort institution type, walking the
// priority chain: typed attribute, then the primary type buried in the
// raw place payload, then the fallback literal.
func (u University) ResolvedType() string {
	if t := strDeref(u.attrs.Type); t != "" {
		return t
	}
	if raw := u.attrs.PlaceRaw; raw != nil {
		if t, ok := raw["type"].(string); ok && t != "" {
			return t
		}
	}
	return "university"
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
