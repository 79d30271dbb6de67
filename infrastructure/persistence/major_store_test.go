package persistence_test

import (
	"context"
	"testing"

	"github.com/campuslist/campuslist/domain/university"
	"github.com/campuslist/campuslist/infrastructure/persistence"
	"github.com/campuslist/campuslist/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMajorStoreSyncCreatesAndLinks(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	s := persistence.NewMajorStore(db)

	facts := []university.MajorFact{
		{Name: "Computer Science", Notable: true},
		{Name: "Physics"},
	}
	require.NoError(t, s.Sync(ctx, 1, facts))

	tagged, err := s.ForUniversity(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tagged, 2)
	assert.Equal(t, "Computer Science", tagged[0].Major.Name())
	assert.True(t, tagged[0].Notable)
	assert.Equal(t, "computer-science", tagged[0].Major.Slug())
	assert.False(t, tagged[1].Notable)
}

func TestMajorStoreSyncIsIdempotentAndReconciles(t *testing.T) {
	ctx := context.Background()
	s := persistence.NewMajorStore(testdb.New(t))

	require.NoError(t, s.Sync(ctx, 7, []university.MajorFact{
		{Name: "Law", Notable: true},
		{Name: "Medicine"},
	}))
	require.NoError(t, s.Sync(ctx, 7, []university.MajorFact{
		{Name: "Law"},
		{Name: "History", Notable: true},
	}))

	tagged, err := s.ForUniversity(ctx, 7)
	require.NoError(t, err)
	require.Len(t, tagged, 2)
	assert.Equal(t, "History", tagged[0].Major.Name())
	assert.True(t, tagged[0].Notable)
	assert.Equal(t, "Law", tagged[1].Major.Name())
	assert.False(t, tagged[1].Notable, "notable flag follows the latest sync")
}

func TestMajorStoreSharesMajorsAcrossUniversities(t *testing.T) {
	ctx := context.Background()
	s := persistence.NewMajorStore(testdb.New(t))

	require.NoError(t, s.Sync(ctx, 1, []university.MajorFact{{Name: "Economics", Notable: true}}))
	require.NoError(t, s.Sync(ctx, 2, []university.MajorFact{{Name: "Economics"}}))

	ids, err := s.UniversityIDs(ctx, "economics", false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids)

	notable, err := s.UniversityIDs(ctx, "economics", true)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, notable)

	m, err := s.FindOne(ctx)
	require.NoError(t, err)
	counts, err := s.CountUniversities(ctx, []int64{m.ID()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[m.ID()])
}
