package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gocache "github.com/patrickmn/go-cache"

	"github.com/campuslist/campuslist/domain/place"
	"github.com/campuslist/campuslist/domain/university"
	"github.com/campuslist/campuslist/internal/database"
)

// PlaceCache is the run-scoped place lookup cache. It maps normalized
// keys to raw place payloads so repeated queries about the same
// institution cost one external lookup per run instead of one per
// query. Entries never expire; the cache lives only as long as the
// process.
type PlaceCache struct {
	universities university.Store
	normalizer   *Normalizer
	cache        *gocache.Cache
	logger       *slog.Logger
}

// NewPlaceCache creates a PlaceCache.
func NewPlaceCache(universities university.Store, normalizer *Normalizer, logger *slog.Logger) *PlaceCache {
	return &PlaceCache{
		universities: universities,
		normalizer:   normalizer,
		cache:        gocache.New(gocache.NoExpiration, 0),
		logger:       logger,
	}
}

// Prime loads every persisted university that carries a place payload
// and registers that payload under each derived key: the normalized
// stored query, the payload's own title, and the stored display title.
// Called once per pipeline run. Colliding keys within one pass describe
// the same institution, so last writer wins.
func (p *PlaceCache) Prime(ctx context.Context) error {
	known, err := p.universities.Find(ctx, university.WithPlacePayload())
	if err != nil {
		return fmt.Errorf("prime place cache: %w", err)
	}

	for _, u := range known {
		details := place.FromRaw(u.Attributes().PlaceRaw)
		for _, key := range p.keys(u, details) {
			p.cache.Set(key, details, gocache.NoExpiration)
		}
	}

	p.logger.Debug("place cache primed",
		slog.Int("universities", len(known)),
		slog.Int("keys", p.cache.ItemCount()),
	)
	return nil
}

// Put registers a payload under the key. Used after every successful
// external resolution so later queries in the run hit the cache.
func (p *PlaceCache) Put(key string, details place.Details) {
	if key == "" || details.IsZero() {
		return
	}
	p.cache.Set(key, details, gocache.NoExpiration)
}

// Resolve returns the place payload for the normalized key. It checks
// the in-process cache first, then falls back to the persisted record
// whose query exactly equals the original trending query, backfilling
// the cache on a hit. A miss returns ok=false with no error; the caller
// goes to the external resolver.
func (p *PlaceCache) Resolve(ctx context.Context, key, query string) (place.Details, bool, error) {
	if key != "" {
		if v, found := p.cache.Get(key); found {
			return v.(place.Details), true, nil
		}
	}

	u, err := p.universities.FindOne(ctx, university.WithQuery(query), university.WithPlacePayload())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return place.Details{}, false, nil
		}
		return place.Details{}, false, fmt.Errorf("resolve place by query: %w", err)
	}

	details := place.FromRaw(u.Attributes().PlaceRaw)
	p.Put(key, details)
	return details, true, nil
}

func (p *PlaceCache) keys(u university.University, details place.Details) []string {
	seen := map[string]bool{}
	var keys []string

	add := func(raw string) {
		key := p.normalizer.NormalizeKey(raw)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		keys = append(keys, key)
	}

	add(u.Query())
	if title, ok := details.Title(); ok {
		add(title)
	}
	if title := u.Attributes().PlaceTitle; title != nil {
		add(*title)
	}

	return keys
}
