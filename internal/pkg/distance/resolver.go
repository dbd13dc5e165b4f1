package distance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/geo"
	"golang.org/x/sync/errgroup"
)

// ResolverConfig bounds how the resolver talks to its provider
type ResolverConfig struct {
	BatchSize   int
	Concurrency int
	Timeout     time.Duration
	CacheTTL    time.Duration
}

// Resolver fans distance lookups out to a provider in bounded, time-boxed batches and
// degrades every failure to an unknown distance.
type Resolver struct {
	provider Provider
	cache    Cache
	cfg      ResolverConfig
	logger   zerolog.Logger
}

// NewResolver creates a resolver. cache may be nil.
func NewResolver(provider Provider, cache Cache, cfg ResolverConfig, logger zerolog.Logger) *Resolver {
	if cfg.BatchSize <= 0 || cfg.BatchSize > MaxDestinationsPerRequest {
		cfg.BatchSize = MaxDestinationsPerRequest
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	return &Resolver{
		provider: provider,
		cache:    cache,
		cfg:      cfg,
		logger:   logger.With().Str("component", "distance_resolver").Str("provider", provider.Name()).Logger(),
	}
}

type lookup struct {
	index int
	point geo.Point
	key   string
}

// Resolve returns one distance per destination in kilometres, nil when unknown. A nil
// origin or destination is always unknown. It never fails.
func (r *Resolver) Resolve(ctx context.Context, origin *geo.Point, destinations []*geo.Point) []*float64 {
	results := make([]*float64, len(destinations))
	if origin == nil || len(destinations) == 0 {
		return results
	}

	pending := make([]lookup, 0, len(destinations))
	for i, d := range destinations {
		if d == nil {
			continue
		}
		pending = append(pending, lookup{index: i, point: *d, key: CacheKey(r.provider.Name(), *origin, *d)})
	}

	pending = r.fromCache(ctx, pending, results)
	if len(pending) == 0 {
		return results
	}

	var (
		mu    sync.Mutex
		fresh = make(map[string]float64, len(pending))
		g     errgroup.Group
	)
	g.SetLimit(r.cfg.Concurrency)

	for _, batch := range chunk(pending, r.cfg.BatchSize) {
		g.Go(func() error {
			measured := r.measureBatch(ctx, *origin, batch)
			mu.Lock()
			defer mu.Unlock()
			for i, m := range measured {
				if !m.Known {
					continue
				}
				results[batch[i].index] = m.Ptr()
				fresh[batch[i].key] = m.Km
			}
			return nil
		})
	}
	_ = g.Wait()

	if r.cache != nil && len(fresh) > 0 {
		if err := r.cache.SetMany(ctx, fresh, r.cfg.CacheTTL); err != nil {
			r.logger.Warn().Err(err).Int("count", len(fresh)).Msg("Failed to cache distances")
		}
	}

	return results
}

// fromCache fills results from the cache and returns the lookups still missing
func (r *Resolver) fromCache(ctx context.Context, pending []lookup, results []*float64) []lookup {
	if r.cache == nil || len(pending) == 0 {
		return pending
	}

	keys := make([]string, len(pending))
	for i, p := range pending {
		keys[i] = p.key
	}

	cached, err := r.cache.GetMany(ctx, keys)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Distance cache lookup failed")
		return pending
	}

	missing := pending[:0]
	for _, p := range pending {
		if km, ok := cached[p.key]; ok {
			results[p.index] = &km
			continue
		}
		missing = append(missing, p)
	}
	return missing
}

// measureBatch calls the provider for one batch. On any failure every element is unknown.
func (r *Resolver) measureBatch(ctx context.Context, origin geo.Point, batch []lookup) []Measurement {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	points := make([]geo.Point, len(batch))
	for i, l := range batch {
		points[i] = l.point
	}

	measured, err := r.provider.Distances(ctx, origin, points)
	if err == nil && len(measured) != len(points) {
		err = fmt.Errorf("%w: got %d measurements for %d destinations", apperrors.ErrExternalService, len(measured), len(points))
	}
	if err != nil {
		r.logger.Warn().Err(err).Int("destinations", len(points)).Msg("Distance lookup failed, treating batch as unknown")
		return make([]Measurement, len(points))
	}
	return measured
}

func chunk(items []lookup, size int) [][]lookup {
	var batches [][]lookup
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end])
	}
	return batches
}
