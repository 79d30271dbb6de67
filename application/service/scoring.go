package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campuslist/campuslist/domain/score"
	"github.com/campuslist/campuslist/domain/store"
	"github.com/campuslist/campuslist/domain/university"
	"github.com/campuslist/campuslist/internal/config"
)

// ScoreSource grades institutions from their place payload.
type ScoreSource interface {
	FetchScore(ctx context.Context, placePayload map[string]any) (map[string]any, error)
	RequestPause() time.Duration
}

// ScoringSummary counts what one scoring pass did.
type ScoringSummary struct {
	Candidates int
	Scored     int
	Failed     int
}

// Scoring grades universities with the score prompt and upserts the
// result. Rescoring overwrites the previous score entirely.
type Scoring struct {
	universities university.Store
	scores       score.Store
	source       ScoreSource
	batchLimit   int
	logger       *slog.Logger
}

// NewScoring creates a Scoring service.
func NewScoring(
	cfg config.PipelineConfig,
	universities university.Store,
	scores score.Store,
	source ScoreSource,
	logger *slog.Logger,
) *Scoring {
	return &Scoring{
		universities: universities,
		scores:       scores,
		source:       source,
		batchLimit:   cfg.ScoreBatchLimit(),
		logger:       logger,
	}
}

// Run scores up to limit universities that carry a place payload and
// have no score yet. A limit of zero uses the configured batch size.
func (s *Scoring) Run(ctx context.Context, limit int) (ScoringSummary, error) {
	if limit <= 0 {
		limit = s.batchLimit
	}

	candidates, err := s.universities.Find(ctx,
		university.WithPlacePayload(),
		university.WithoutScore(),
		store.WithOrderAsc("id"),
		store.WithLimit(limit),
	)
	if err != nil {
		return ScoringSummary{}, fmt.Errorf("find scoring candidates: %w", err)
	}

	summary := ScoringSummary{Candidates: len(candidates)}
	for i, u := range candidates {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if i > 0 {
			pause(ctx, s.source.RequestPause())
		}

		if err := s.scoreOne(ctx, u); err != nil {
			summary.Failed++
			s.logger.Warn("scoring failed",
				slog.Int64("university_id", u.ID()),
				slog.String("name", u.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}
		summary.Scored++
	}

	s.logger.Info("scoring finished",
		slog.Int("candidates", summary.Candidates),
		slog.Int("scored", summary.Scored),
		slog.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (s *Scoring) scoreOne(ctx context.Context, u university.University) error {
	payload := u.Attributes().PlaceRaw
	if len(payload) == 0 {
		return fmt.Errorf("record %d has no place payload", u.ID())
	}

	raw, err := s.source.FetchScore(ctx, payload)
	if err != nil {
		return err
	}

	grade, _ := raw["overall_grade"].(string)
	if grade == "" {
		return fmt.Errorf("score response has no overall_grade")
	}
	ratings, _ := raw["ratings"].(map[string]any)

	if _, err := s.scores.Upsert(ctx, score.New(u.ID(), grade, ratings, raw)); err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}
	return nil
}
