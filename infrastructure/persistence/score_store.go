package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campuslist/campuslist/domain/score"
	"github.com/campuslist/campuslist/domain/store"
	"github.com/campuslist/campuslist/internal/database"
	"gorm.io/gorm"
)

// ScoreStore implements score.Store on GORM.
type ScoreStore struct {
	database.Repository[score.Score, ScoreModel]
}

// NewScoreStore creates a ScoreStore.
func NewScoreStore(db database.Database) *ScoreStore {
	return &ScoreStore{
		Repository: database.NewRepository(db, ScoreMapper{}, "score"),
	}
}

// Upsert writes the score keyed by university id, overwriting any
// previous score for that university.
func (s *ScoreStore) Upsert(ctx context.Context, sc score.Score) (score.Score, error) {
	model := s.Mapper().ToModel(sc)
	now := time.Now().UTC()

	var existing ScoreModel
	err := s.DB(ctx).Where("university_id = ?", model.UniversityID).First(&existing).Error
	switch {
	case err == nil:
		model.ID = existing.ID
		model.CreatedAt = existing.CreatedAt
		model.UpdatedAt = now
		if err := s.DB(ctx).Save(&model).Error; err != nil {
			return score.Score{}, fmt.Errorf("update score: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		model.CreatedAt = now
		model.UpdatedAt = now
		if err := s.DB(ctx).Create(&model).Error; err != nil {
			return score.Score{}, fmt.Errorf("create score: %w", err)
		}
	default:
		return score.Score{}, fmt.Errorf("find score: %w", err)
	}
	return s.Mapper().ToDomain(model), nil
}

// ForUniversity returns the score for a university, if any.
func (s *ScoreStore) ForUniversity(ctx context.Context, universityID int64) (score.Score, error) {
	return s.FindOne(ctx, store.WithCondition("university_id", universityID))
}
