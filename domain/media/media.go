// Package media contains the stored-photo entity.
package media

import (
	"context"
	"time"

	"github.com/campuslist/campuslist/domain/store"
)

// Meta keys used for provider photo bookkeeping.
const (
	MetaUniversityID = "university_id"
	MetaPhotoName    = "google_photo_name"
	MetaWidthPx      = "width_px"
	MetaHeightPx     = "height_px"
	MetaAttribution  = "attribution"
)

// Media is one stored photo. Immutable once created; the meta blob
// carries the owning university id and the provider photo resource name
// used for de-duplication.
type Media struct {
	id           int64
	universityID int64
	directory    string
	fileName     string
	mimeType     string
	size         int64
	originalName string
	meta         map[string]any
	createdAt    time.Time
}

// New creates an unpersisted Media record.
func New(universityID int64, directory, fileName, mimeType string, size int64, originalName string, meta map[string]any) Media {
	return Media{
		universityID: universityID,
		directory:    directory,
		fileName:     fileName,
		mimeType:     mimeType,
		size:         size,
		originalName: originalName,
		meta:         meta,
	}
}

// Reconstruct recreates a Media from persisted state.
func Reconstruct(id, universityID int64, directory, fileName, mimeType string, size int64, originalName string, meta map[string]any, createdAt time.Time) Media {
	return Media{
		id:           id,
		universityID: universityID,
		directory:    directory,
		fileName:     fileName,
		mimeType:     mimeType,
		size:         size,
		originalName: originalName,
		meta:         meta,
		createdAt:    createdAt,
	}
}

// ID returns the persistence identifier.
func (m Media) ID() int64 { return m.id }

// UniversityID returns the owning university id.
func (m Media) UniversityID() int64 { return m.universityID }

// Directory returns the storage directory relative to the media root.
func (m Media) Directory() string { return m.directory }

// FileName returns the stored file name.
func (m Media) FileName() string { return m.fileName }

// MimeType returns the content type.
func (m Media) MimeType() string { return m.mimeType }

// Size returns the stored size in bytes.
func (m Media) Size() int64 { return m.size }

// OriginalName returns the name derived from the source.
func (m Media) OriginalName() string { return m.originalName }

// Meta returns the opaque metadata blob.
func (m Media) Meta() map[string]any { return m.meta }

// CreatedAt returns the creation timestamp.
func (m Media) CreatedAt() time.Time { return m.createdAt }

// PhotoName returns the provider photo resource name from meta.
func (m Media) PhotoName() string {
	name, _ := m.meta[MetaPhotoName].(string)
	return name
}

// Store persists media records.
type Store interface {
	// Save inserts a media record.
	Save(ctx context.Context, m Media) (Media, error)

	// Find retrieves media matching the given options.
	Find(ctx context.Context, options ...store.Option) ([]Media, error)

	// FindOne retrieves a single media record.
	FindOne(ctx context.Context, options ...store.Option) (Media, error)

	// ExistsForPhoto reports whether the provider photo has already been
	// stored for the university.
	ExistsForPhoto(ctx context.Context, universityID int64, photoName string) (bool, error)
}

// WithUniversityID filters by the owning university.
func WithUniversityID(id int64) store.Option {
	return store.WithCondition("university_id", id)
}
