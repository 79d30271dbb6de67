package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/campuslist/campuslist/domain/major"
	"github.com/campuslist/campuslist/domain/university"
	"github.com/campuslist/campuslist/internal/database"
	"gorm.io/gorm"
)

// ToDomain converts a model to a domain entity.
func (MajorMapper) ToDomain(m MajorModel) major.Major {
	return major.Reconstruct(m.ID, m.Name, m.Slug, m.CreatedAt)
}

// ToModel converts a domain entity to a model.
func (MajorMapper) ToModel(d major.Major) MajorModel {
	return MajorModel{
		ID:        d.ID(),
		Name:      d.Name(),
		Slug:      d.Slug(),
		CreatedAt: d.CreatedAt(),
	}
}

// MajorStore implements major.Store on GORM.
type MajorStore struct {
	database.Repository[major.Major, MajorModel]
	db database.Database
}

// NewMajorStore creates a MajorStore.
func NewMajorStore(db database.Database) *MajorStore {
	return &MajorStore{
		Repository: database.NewRepository(db, MajorMapper{}, "major"),
		db:         db,
	}
}

// Save inserts or updates a major.
func (s *MajorStore) Save(ctx context.Context, m major.Major) (major.Major, error) {
	model := s.Mapper().ToModel(m)
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}
	session := s.DB(ctx)
	if model.ID == 0 {
		if err := session.Create(&model).Error; err != nil {
			return major.Major{}, fmt.Errorf("create major: %w", err)
		}
	} else {
		if err := session.Save(&model).Error; err != nil {
			return major.Major{}, fmt.Errorf("update major: %w", err)
		}
	}
	return s.Mapper().ToDomain(model), nil
}

// Sync reconciles a university's major links against facts. Runs in a
// transaction so a partial reconciliation never persists.
func (s *MajorStore) Sync(ctx context.Context, universityID int64, facts []university.MajorFact) error {
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		wanted := make(map[int64]bool, len(facts))
		for _, fact := range facts {
			if fact.Name == "" {
				continue
			}
			id, err := s.findOrCreateTx(tx, fact.Name)
			if err != nil {
				return err
			}
			wanted[id] = fact.Notable
		}

		var existing []UniversityMajorModel
		if err := tx.Where("university_id = ?", universityID).Find(&existing).Error; err != nil {
			return fmt.Errorf("load major links: %w", err)
		}

		current := make(map[int64]UniversityMajorModel, len(existing))
		for _, link := range existing {
			current[link.MajorID] = link
		}

		for majorID, notable := range wanted {
			link, ok := current[majorID]
			if !ok {
				link = UniversityMajorModel{
					UniversityID: universityID,
					MajorID:      majorID,
					IsNotable:    notable,
				}
				if err := tx.Create(&link).Error; err != nil {
					return fmt.Errorf("link major %d: %w", majorID, err)
				}
				continue
			}
			if link.IsNotable != notable {
				err := tx.Model(&UniversityMajorModel{}).
					Where("university_id = ? AND major_id = ?", universityID, majorID).
					Update("is_notable", notable).Error
				if err != nil {
					return fmt.Errorf("update major link %d: %w", majorID, err)
				}
			}
		}

		for majorID := range current {
			if _, ok := wanted[majorID]; ok {
				continue
			}
			err := tx.Where("university_id = ? AND major_id = ?", universityID, majorID).
				Delete(&UniversityMajorModel{}).Error
			if err != nil {
				return fmt.Errorf("unlink major %d: %w", majorID, err)
			}
		}
		return nil
	})
}

func (s *MajorStore) findOrCreateTx(tx *gorm.DB, name string) (int64, error) {
	var model MajorModel
	err := tx.Where("name = ?", name).First(&model).Error
	if err == nil {
		return model.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return 0, fmt.Errorf("find major %q: %w", name, err)
	}
	model = MajorModel{
		Name:      name,
		Slug:      university.Slugify(name),
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.Create(&model).Error; err != nil {
		return 0, fmt.Errorf("create major %q: %w", name, err)
	}
	return model.ID, nil
}

// ForUniversity returns a university's majors with notable flags.
func (s *MajorStore) ForUniversity(ctx context.Context, universityID int64) ([]major.Tagged, error) {
	var rows []struct {
		MajorModel
		IsNotable bool
	}
	err := s.db.Session(ctx).
		Table("majors").
		Select("majors.*, university_majors.is_notable").
		Joins("JOIN university_majors ON university_majors.major_id = majors.id").
		Where("university_majors.university_id = ?", universityID).
		Order("majors.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("majors for university %d: %w", universityID, err)
	}

	tagged := make([]major.Tagged, len(rows))
	for i, row := range rows {
		tagged[i] = major.Tagged{
			Major:   MajorMapper{}.ToDomain(row.MajorModel),
			Notable: row.IsNotable,
		}
	}
	return tagged, nil
}

// UniversityIDs returns ids of universities linked to the major with the
// given slug, optionally restricted to notable links.
func (s *MajorStore) UniversityIDs(ctx context.Context, slug string, notableOnly bool) ([]int64, error) {
	query := s.db.Session(ctx).
		Table("university_majors").
		Select("university_majors.university_id").
		Joins("JOIN majors ON majors.id = university_majors.major_id").
		Where("majors.slug = ?", slug)
	if notableOnly {
		query = query.Where("university_majors.is_notable = ?", true)
	}

	var ids []int64
	if err := query.Scan(&ids).Error; err != nil {
		return nil, fmt.Errorf("universities for major %q: %w", slug, err)
	}
	return ids, nil
}

// CountUniversities returns the number of universities per major id.
func (s *MajorStore) CountUniversities(ctx context.Context, majorIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(majorIDs))
	if len(majorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		MajorID int64
		Total   int64
	}
	err := s.db.Session(ctx).
		Table("university_majors").
		Select("major_id, COUNT(university_id) AS total").
		Where("major_id IN ?", majorIDs).
		Group("major_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count universities per major: %w", err)
	}

	for _, row := range rows {
		counts[row.MajorID] = row.Total
	}
	return counts, nil
}
