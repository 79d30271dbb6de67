package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campuslist/campuslist/internal/database"
	"gorm.io/gorm"
)

// ChainLockStore implements chain.LeaseStore on a single lease row per
// lease name. A lapsed lease may be taken over by another holder; the
// takeover update is guarded by the previous holder and expiry so two
// racing takeovers cannot both win.
type ChainLockStore struct {
	db database.Database
}

// NewChainLockStore creates a ChainLockStore.
func NewChainLockStore(db database.Database) *ChainLockStore {
	return &ChainLockStore{db: db}
}

// Acquire attempts to take the named lease for holder with the given TTL.
func (s *ChainLockStore) Acquire(ctx context.Context, name, holder string, ttl time.Duration) (bool, error) {
	now := time.Now().UTC()
	row := ChainLockModel{
		Name:       name,
		Holder:     holder,
		AcquiredAt: now,
		ExpiresAt:  now.Add(ttl),
	}

	var existing ChainLockModel
	err := s.db.Session(ctx).Where("name = ?", name).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.Session(ctx).Create(&row).Error; err != nil {
			// A concurrent creator got there first.
			return false, nil
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("load lease %q: %w", name, err)
	}

	if existing.Holder != holder && existing.ExpiresAt.After(now) {
		return false, nil
	}

	result := s.db.Session(ctx).Model(&ChainLockModel{}).
		Where("name = ? AND holder = ? AND expires_at = ?", name, existing.Holder, existing.ExpiresAt).
		Updates(map[string]any{
			"holder":      holder,
			"acquired_at": row.AcquiredAt,
			"expires_at":  row.ExpiresAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("take over lease %q: %w", name, result.Error)
	}
	return result.RowsAffected == 1, nil
}

// Release frees the named lease if held by holder.
func (s *ChainLockStore) Release(ctx context.Context, name, holder string) error {
	err := s.db.Session(ctx).
		Where("name = ? AND holder = ?", name, holder).
		Delete(&ChainLockModel{}).Error
	if err != nil {
		return fmt.Errorf("release lease %q: %w", name, err)
	}
	return nil
}
