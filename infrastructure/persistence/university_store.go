package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/campuslist/campuslist/domain/university"
	"github.com/campuslist/campuslist/internal/database"
)

// UniversityStore implements university.Store on GORM.
type UniversityStore struct {
	database.Repository[university.University, UniversityModel]
}

// NewUniversityStore creates a UniversityStore.
func NewUniversityStore(db database.Database) *UniversityStore {
	return &UniversityStore{
		Repository: database.NewRepository(db, UniversityMapper{}, "university"),
	}
}

// Save inserts when the university has no id, updates otherwise.
func (s *UniversityStore) Save(ctx context.Context, u university.University) (university.University, error) {
	model := s.Mapper().ToModel(u)
	now := time.Now().UTC()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
	}
	model.UpdatedAt = now

	session := s.DB(ctx)
	if model.ID == 0 {
		if err := session.Create(&model).Error; err != nil {
			return university.University{}, fmt.Errorf("create university: %w", err)
		}
	} else {
		// Save writes every column so cleared optional fields persist.
		if err := session.Save(&model).Error; err != nil {
			return university.University{}, fmt.Errorf("update university: %w", err)
		}
	}
	return s.Mapper().ToDomain(model), nil
}

// StateCounts aggregates institutions per administrative area. An empty
// regionCode returns every area.
func (s *UniversityStore) StateCounts(ctx context.Context, regionCode string) ([]university.StateCount, error) {
	var rows []struct {
		AdministrativeArea string
		RegionCode         string
		Count              int64
	}

	query := s.DB(ctx).
		Model(&UniversityModel{}).
		Select("administrative_area, region_code, COUNT(*) as count").
		Where("administrative_area IS NOT NULL AND administrative_area != ''").
		Group("administrative_area, region_code").
		Order("administrative_area ASC")
	if regionCode != "" {
		query = query.Where("region_code = ?", regionCode)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("state counts: %w", err)
	}

	counts := make([]university.StateCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, university.StateCount{
			AdministrativeArea: row.AdministrativeArea,
			RegionCode:         row.RegionCode,
			Count:              row.Count,
		})
	}
	return counts, nil
}
