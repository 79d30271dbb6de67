package persistence_test

import (
	"context"
	"testing"

	"github.com/campuslist/campuslist/domain/media"
	"github.com/campuslist/campuslist/infrastructure/persistence"
	"github.com/campuslist/campuslist/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaStorePhotoDedup(t *testing.T) {
	ctx := context.Background()
	s := persistence.NewMediaStore(testdb.New(t))

	photoName := "places/abc/photos/xyz"
	m := media.New(42, "universities/mit/photos", "img.jpg", "image/jpeg", 1024, "img.jpg", map[string]any{
		media.MetaUniversityID: float64(42),
		media.MetaPhotoName:    photoName,
		media.MetaWidthPx:      float64(1600),
	})

	saved, err := s.Save(ctx, m)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID())
	assert.Equal(t, photoName, saved.PhotoName())

	exists, err := s.ExistsForPhoto(ctx, 42, photoName)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.ExistsForPhoto(ctx, 43, photoName)
	require.NoError(t, err)
	assert.False(t, exists, "dedup is scoped per university")

	exists, err = s.ExistsForPhoto(ctx, 42, "places/abc/photos/other")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMediaStoreFindByUniversity(t *testing.T) {
	ctx := context.Background()
	s := persistence.NewMediaStore(testdb.New(t))

	for _, name := range []string{"p1", "p2"} {
		_, err := s.Save(ctx, media.New(1, "universities/x/photos", name+".jpg", "image/jpeg", 10, name+".jpg", map[string]any{
			media.MetaPhotoName: name,
		}))
		require.NoError(t, err)
	}
	_, err := s.Save(ctx, media.New(2, "universities/y/photos", "p3.jpg", "image/jpeg", 10, "p3.jpg", nil))
	require.NoError(t, err)

	ours, err := s.Find(ctx, media.WithUniversityID(1))
	require.NoError(t, err)
	assert.Len(t, ours, 2)
}
