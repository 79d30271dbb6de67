package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/campuslist/campuslist/domain/media"
	"github.com/campuslist/campuslist/domain/store"
	"github.com/campuslist/campuslist/internal/database"
)

// MediaStore implements media.Store on GORM.
type MediaStore struct {
	database.Repository[media.Media, MediaModel]
}

// NewMediaStore creates a MediaStore.
func NewMediaStore(db database.Database) *MediaStore {
	return &MediaStore{
		Repository: database.NewRepository(db, MediaMapper{}, "media"),
	}
}

// Save inserts a media record. Media rows are immutable, so there is no
// update path.
func (s *MediaStore) Save(ctx context.Context, m media.Media) (media.Media, error) {
	model := s.Mapper().ToModel(m)
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}
	if err := s.DB(ctx).Create(&model).Error; err != nil {
		return media.Media{}, fmt.Errorf("create media: %w", err)
	}
	return s.Mapper().ToDomain(model), nil
}

// ExistsForPhoto reports whether the provider photo has already been
// stored for the university.
func (s *MediaStore) ExistsForPhoto(ctx context.Context, universityID int64, photoName string) (bool, error) {
	return s.Exists(ctx,
		store.WithCondition("university_id", universityID),
		store.WithCondition("photo_name", photoName),
	)
}
