package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/campuslist/campuslist/domain/place"
	"github.com/campuslist/campuslist/domain/university"
	"github.com/campuslist/campuslist/infrastructure/provider"
	"github.com/campuslist/campuslist/internal/config"
	"github.com/campuslist/campuslist/internal/database"
)

// TrendsSource supplies rising trending queries.
type TrendsSource interface {
	RisingQueries(ctx context.Context) ([]string, error)
}

// PlaceSource resolves institutions and their photos.
type PlaceSource interface {
	SearchText(ctx context.Context, query string) ([]provider.Candidate, error)
	Details(ctx context.Context, placeID string) (place.Details, error)
	PhotoURI(ctx context.Context, photoName string) (string, error)
}

// PipelineSummary counts what one enrichment run did.
type PipelineSummary struct {
	Queries      int
	Skipped      int
	CacheHits    int
	Created      int
	Updated      int
	Discarded    int
	Failed       int
	PhotosStored int
}

// Pipeline is the trends ingestion pipeline: fetch rising queries,
// filter noise, resolve each query to an institution and upsert the
// record with place data, slug, description and photos. One query
// failing never aborts the run.
type Pipeline struct {
	trends       TrendsSource
	places       PlaceSource
	universities university.Store
	cache        *PlaceCache
	normalizer   *Normalizer
	describer    *Describer
	library      *MediaLibrary
	photoLimit   int
	logger       *slog.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(
	cfg config.PipelineConfig,
	trends TrendsSource,
	places PlaceSource,
	universities university.Store,
	cache *PlaceCache,
	normalizer *Normalizer,
	describer *Describer,
	library *MediaLibrary,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		trends:       trends,
		places:       places,
		universities: universities,
		cache:        cache,
		normalizer:   normalizer,
		describer:    describer,
		library:      library,
		photoLimit:   cfg.PhotoLimit(),
		logger:       logger,
	}
}

// Run executes one full ingestion pass. A quiet trends window (no rising
// queries) is a successful no-op.
func (p *Pipeline) Run(ctx context.Context) (PipelineSummary, error) {
	summary := PipelineSummary{}

	queries, err := p.trends.RisingQueries(ctx)
	if err != nil {
		return summary, fmt.Errorf("fetch rising queries: %w", err)
	}
	summary.Queries = len(queries)

	if len(queries) == 0 {
		p.logger.Info("no rising queries in window")
		return summary, nil
	}

	if err := p.cache.Prime(ctx); err != nil {
		return summary, err
	}

	for _, query := range queries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := p.processQuery(ctx, query, &summary); err != nil {
			summary.Failed++
			p.logger.Warn("query failed",
				slog.String("query", query),
				slog.String("error", err.Error()),
			)
		}
	}

	p.logger.Info("pipeline run finished",
		slog.Int("queries", summary.Queries),
		slog.Int("skipped", summary.Skipped),
		slog.Int("cache_hits", summary.CacheHits),
		slog.Int("created", summary.Created),
		slog.Int("updated", summary.Updated),
		slog.Int("discarded", summary.Discarded),
		slog.Int("failed", summary.Failed),
		slog.Int("photos", summary.PhotosStored),
	)
	return summary, nil
}

func (p *Pipeline) processQuery(ctx context.Context, query string, summary *PipelineSummary) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	if keyword, skip := p.normalizer.ShouldSkip(query); skip {
		summary.Skipped++
		// Noise queries also purge records a previous run created for
		// the same raw query, before the skip list caught them.
		if err := p.universities.DeleteBy(ctx, university.WithQuery(query)); err != nil {
			return fmt.Errorf("purge skipped query: %w", err)
		}
		p.logger.Debug("query skipped",
			slog.String("query", query),
			slog.String("keyword", keyword),
		)
		return nil
	}

	key := p.normalizer.NormalizeKey(query)

	details, resolved, err := p.cache.Resolve(ctx, key, query)
	if err != nil {
		return err
	}
	if resolved {
		summary.CacheHits++
		p.logger.Debug("query matched cached place", slog.String("query", query))
	} else {
		found, ok, lookupErr := p.lookupPlace(ctx, query)
		switch {
		case lookupErr != nil:
			// A resolver failure downgrades to a null place; the record
			// may still be created or updated from the query alone.
			p.logger.Warn("place resolution failed",
				slog.String("query", query),
				slog.String("error", lookupErr.Error()),
			)
		case ok:
			details = found
			resolved = true
			p.cache.Put(key, details)
		}
	}

	var attrs university.Attributes
	title := ""
	if resolved {
		attrs = university.AttributesFromPlace(details)
		if t, ok := details.Title(); ok {
			title = t
		}
	}

	existing, matched, err := p.findExisting(ctx, query, title)
	if err != nil {
		return err
	}

	var target university.University
	if matched {
		target = existing.WithQuery(query).WithName(title).MergeAttributes(attrs)
	} else {
		if title == "" {
			summary.Discarded++
			p.logger.Debug("no resolvable name for query, discarding", slog.String("query", query))
			return nil
		}
		target = university.New(query, title, attrs)
	}

	target, err = p.ensureSlug(ctx, target, target.Name(), title, query)
	if err != nil {
		return err
	}
	if !target.HasMetaDescription() {
		target = target.WithMetaDescription(p.describer.Describe(target))
	}

	saved, err := p.universities.Save(ctx, target)
	if err != nil {
		return fmt.Errorf("save university: %w", err)
	}

	if matched {
		summary.Updated++
	} else {
		summary.Created++
	}

	if resolved {
		summary.PhotosStored += p.ingestPhotos(ctx, saved, details)
	}
	return nil
}

// findExisting matches the record this query belongs to: by the exact
// query string first, then by the resolved place title against the
// stored place title and name columns.
func (p *Pipeline) findExisting(ctx context.Context, query, title string) (university.University, bool, error) {
	u, err := p.universities.FindOne(ctx, university.WithQuery(query))
	if err == nil {
		return u, true, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return university.University{}, false, fmt.Errorf("find by query: %w", err)
	}

	if title == "" {
		return university.University{}, false, nil
	}
	u, err = p.universities.FindOne(ctx, university.WithPlaceTitleOrName(title))
	if err == nil {
		return u, true, nil
	}
	if errors.Is(err, database.ErrNotFound) {
		return university.University{}, false, nil
	}
	return university.University{}, false, fmt.Errorf("find by title: %w", err)
}

// lookupPlace searches for the institution and fetches details for the
// first candidate.
func (p *Pipeline) lookupPlace(ctx context.Context, query string) (place.Details, bool, error) {
	candidates, err := p.places.SearchText(ctx, query)
	if err != nil {
		return place.Details{}, false, fmt.Errorf("search place: %w", err)
	}
	if len(candidates) == 0 {
		return place.Details{}, false, nil
	}

	details, err := p.places.Details(ctx, candidates[0].ID)
	if err != nil {
		return place.Details{}, false, fmt.Errorf("place details: %w", err)
	}
	if details.IsZero() {
		return place.Details{}, false, nil
	}
	return details, true, nil
}

// ensureSlug assigns a permanent slug when the record has none yet,
// probing for the smallest free suffix.
func (p *Pipeline) ensureSlug(ctx context.Context, u university.University, sources ...string) (university.University, error) {
	if u.HasSlug() {
		return u, nil
	}

	base := university.CandidateSlug(sources...)
	for n := 1; ; n++ {
		candidate := university.SuffixedSlug(base, n)
		taken, err := p.universities.Exists(ctx,
			university.WithSlug(candidate),
			university.WithIDNot(u.ID()),
		)
		if err != nil {
			return u, fmt.Errorf("probe slug %q: %w", candidate, err)
		}
		if !taken {
			return u.WithSlug(candidate), nil
		}
	}
}

// ingestPhotos stores up to the configured number of new photos for the
// record. Photo failures are logged and swallowed; photos are garnish,
// not the record.
func (p *Pipeline) ingestPhotos(ctx context.Context, u university.University, details place.Details) int {
	stored := 0
	for _, photo := range details.Photos() {
		if stored >= p.photoLimit {
			break
		}

		exists, err := p.library.Exists(ctx, u.ID(), photo.Name)
		if err != nil {
			p.logger.Warn("photo dedup check failed",
				slog.Int64("university_id", u.ID()),
				slog.String("error", err.Error()),
			)
			continue
		}
		if exists {
			continue
		}

		uri, err := p.places.PhotoURI(ctx, photo.Name)
		if err != nil {
			p.logger.Warn("photo uri lookup failed",
				slog.Int64("university_id", u.ID()),
				slog.String("photo", photo.Name),
				slog.String("error", err.Error()),
			)
			continue
		}

		if _, err := p.library.StoreFromURL(ctx, u.ID(), u.Slug(), uri, photo); err != nil {
			p.logger.Warn("photo store failed",
				slog.Int64("university_id", u.ID()),
				slog.String("photo", photo.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		stored++
	}
	return stored
}
