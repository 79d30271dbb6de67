package persistence

import (
	"fmt"

	"github.com/campuslist/campuslist/internal/database"
)

// migratedModels is the full schema, in dependency order.
func migratedModels() []any {
	return []any{
		&UniversityModel{},
		&MajorModel{},
		&UniversityMajorModel{},
		&MediaModel{},
		&ScoreModel{},
		&ChainLockModel{},
	}
}

// AutoMigrate creates or updates the schema for all persistence models.
func AutoMigrate(db database.Database) error {
	if err := db.GORM().AutoMigrate(migratedModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// ValidateSchema checks that every model's table exists. It is a cheap
// startup probe for deployments that migrate out of band.
func ValidateSchema(db database.Database) error {
	migrator := db.GORM().Migrator()
	for _, model := range migratedModels() {
		if !migrator.HasTable(model) {
			return fmt.Errorf("schema validation: missing table for %T", model)
		}
	}
	return nil
}
