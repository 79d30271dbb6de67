// Package score contains the AI-derived university score entity.
package score

import (
	"context"
	"time"
)

// Score is one-to-one with a university. Scoring passes overwrite the
// whole record; there are no preserve-once fields here.
type Score struct {
	id           int64
	universityID int64
	overallGrade string
	ratings      map[string]any
	responseRaw  map[string]any
	createdAt    time.Time
	updatedAt    time.Time
}

// New creates an unpersisted Score.
func New(universityID int64, overallGrade string, ratings, responseRaw map[string]any) Score {
	return Score{
		universityID: universityID,
		overallGrade: overallGrade,
		ratings:      ratings,
		responseRaw:  responseRaw,
	}
}

// Reconstruct recreates a Score from persisted state.
func Reconstruct(id, universityID int64, overallGrade string, ratings, responseRaw map[string]any, createdAt, updatedAt time.Time) Score {
	return Score{
		id:           id,
		universityID: universityID,
		overallGrade: overallGrade,
		ratings:      ratings,
		responseRaw:  responseRaw,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the persistence identifier.
func (s Score) ID() int64 { return s.id }

// UniversityID returns the scored university id.
func (s Score) UniversityID() int64 { return s.universityID }

// OverallGrade returns the letter grade.
func (s Score) OverallGrade() string { return s.overallGrade }

// Ratings returns the per-category ratings.
func (s Score) Ratings() map[string]any { return s.ratings }

// ResponseRaw returns the raw provider response.
func (s Score) ResponseRaw() map[string]any { return s.responseRaw }

// CreatedAt returns the creation timestamp.
func (s Score) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns the last update timestamp.
func (s Score) UpdatedAt() time.Time { return s.updatedAt }

// Store persists scores.
type Store interface {
	// Upsert writes the score keyed by university id, overwriting any
	// previous score for that university.
	Upsert(ctx context.Context, s Score) (Score, error)

	// ForUniversity returns the score for a university, if any.
	ForUniversity(ctx context.Context, universityID int64) (Score, error)
}
