package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campuslist/campuslist/domain/major"
	"github.com/campuslist/campuslist/domain/store"
	"github.com/campuslist/campuslist/domain/university"
	"github.com/campuslist/campuslist/internal/config"
)

// FactSource supplies AI-derived structured facts.
type FactSource interface {
	FetchFacts(ctx context.Context, universityName string) (map[string]any, error)
	RequestPause() time.Duration
}

// FactFillSummary counts what one fact-fill pass did.
type FactFillSummary struct {
	Candidates int
	Filled     int
	Failed     int
}

// FactFill merges AI-sourced facts into university records. Non-force
// runs only fill fields that are still empty; force runs overwrite
// everything the model returns. Slug and meta description are never
// touched either way.
type FactFill struct {
	universities university.Store
	majors       major.Store
	facts        FactSource
	batchLimit   int
	logger       *slog.Logger
}

// NewFactFill creates a FactFill.
func NewFactFill(
	cfg config.PipelineConfig,
	universities university.Store,
	majors major.Store,
	facts FactSource,
	logger *slog.Logger,
) *FactFill {
	return &FactFill{
		universities: universities,
		majors:       majors,
		facts:        facts,
		batchLimit:   cfg.FactBatchLimit(),
		logger:       logger,
	}
}

// Run fills facts for up to limit candidates. A limit of zero uses the
// configured batch size. Candidates are records never fact-filled
// (founded missing); force widens that to every record.
func (f *FactFill) Run(ctx context.Context, limit int, force bool) (FactFillSummary, error) {
	if limit <= 0 {
		limit = f.batchLimit
	}

	options := []store.Option{
		store.WithOrderAsc("id"),
		store.WithLimit(limit),
	}
	if !force {
		options = append(options, university.WithFoundedMissing())
	}

	candidates, err := f.universities.Find(ctx, options...)
	if err != nil {
		return FactFillSummary{}, fmt.Errorf("find fact candidates: %w", err)
	}

	summary := FactFillSummary{Candidates: len(candidates)}
	for i, u := range candidates {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if i > 0 {
			pause(ctx, f.facts.RequestPause())
		}

		if err := f.fill(ctx, u, force); err != nil {
			summary.Failed++
			f.logger.Warn("fact fill failed",
				slog.Int64("university_id", u.ID()),
				slog.String("name", u.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}
		summary.Filled++
	}

	f.logger.Info("fact fill finished",
		slog.Int("candidates", summary.Candidates),
		slog.Int("filled", summary.Filled),
		slog.Int("failed", summary.Failed),
		slog.Bool("force", force),
	)
	return summary, nil
}

func (f *FactFill) fill(ctx context.Context, u university.University, force bool) error {
	if u.Name() == "" {
		return fmt.Errorf("record %d has no name", u.ID())
	}

	raw, err := f.facts.FetchFacts(ctx, u.Name())
	if err != nil {
		return err
	}

	facts := university.MapFacts(raw)
	for _, warning := range facts.Warnings {
		f.logger.Warn("fact dropped",
			slog.Int64("university_id", u.ID()),
			slog.String("warning", warning),
		)
	}

	if force {
		u = u.MergeAttributes(facts.Attributes)
	} else {
		u = u.FillAttributes(facts.Attributes)
	}

	saved, err := f.universities.Save(ctx, u)
	if err != nil {
		return fmt.Errorf("save facts: %w", err)
	}

	if len(facts.Majors) > 0 {
		if err := f.majors.Sync(ctx, saved.ID(), facts.Majors); err != nil {
			return fmt.Errorf("sync majors: %w", err)
		}
	}
	return nil
}

func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
