package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslist/campuslist/domain/score"
	"github.com/campuslist/campuslist/domain/university"
	"github.com/campuslist/campuslist/infrastructure/persistence"
	"github.com/campuslist/campuslist/internal/config"
	"github.com/campuslist/campuslist/internal/testdb"
)

type fakeScores struct {
	response map[string]any
	err      error
	calls    int
}

func (f *fakeScores) FetchScore(context.Context, map[string]any) (map[string]any, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeScores) RequestPause() time.Duration { return 0 }

func newScoringFixture(t *testing.T, source *fakeScores) (*Scoring, university.Store, score.Store) {
	t.Helper()
	db := testdb.New(t)
	universities := persistence.NewUniversityStore(db)
	scores := persistence.NewScoreStore(db)
	s := NewScoring(config.NewPipelineConfig(), universities, scores, source, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return s, universities, scores
}

func TestScoringGradesUnscoredRecords(t *testing.T) {
	ctx := context.Background()
	source := &fakeScores{response: map[string]any{
		"overall_grade": "A",
		"ratings":       map[string]any{"academics": 9.0, "campus": 8.5},
	}}
	s, universities, scores := newScoringFixture(t, source)

	saved, err := universities.Save(ctx, university.New("mit", "MIT", university.Attributes{
		PlaceRaw: map[string]any{"title": "MIT", "rating": 4.7},
	}))
	require.NoError(t, err)

	summary, err := s.Run(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Scored)

	sc, err := scores.ForUniversity(ctx, saved.ID())
	require.NoError(t, err)
	assert.Equal(t, "A", sc.OverallGrade())
	assert.Equal(t, 9.0, sc.Ratings()["academics"])
	assert.Equal(t, "A", sc.ResponseRaw()["overall_grade"])
}

func TestScoringSkipsRecordsWithoutPlaceOrWithScore(t *testing.T) {
	ctx := context.Background()
	source := &fakeScores{response: map[string]any{"overall_grade": "B"}}
	s, universities, scores := newScoringFixture(t, source)

	// No place payload: not a candidate.
	_, err := universities.Save(ctx, university.New("bare", "Bare Record", university.Attributes{}))
	require.NoError(t, err)

	// Already scored: not a candidate either.
	scored, err := universities.Save(ctx, university.New("mit", "MIT", university.Attributes{
		PlaceRaw: map[string]any{"title": "MIT"},
	}))
	require.NoError(t, err)
	_, err = scores.Upsert(ctx, score.New(scored.ID(), "A", nil, nil))
	require.NoError(t, err)

	summary, err := s.Run(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, summary.Candidates)
	assert.Zero(t, source.calls)
}

func TestScoringRejectsResponseWithoutGrade(t *testing.T) {
	ctx := context.Background()
	source := &fakeScores{response: map[string]any{"ratings": map[string]any{}}}
	s, universities, _ := newScoringFixture(t, source)

	_, err := universities.Save(ctx, university.New("mit", "MIT", university.Attributes{
		PlaceRaw: map[string]any{"title": "MIT"},
	}))
	require.NoError(t, err)

	summary, err := s.Run(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
}
