package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ratiogrid/pkg/cache"
	"github.com/matzehuels/ratiogrid/pkg/errors"
	rgio "github.com/matzehuels/ratiogrid/pkg/io"
	"github.com/matzehuels/ratiogrid/pkg/observability"
)

// Runner encapsulates layout execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached entries. Zero uses cache.TTLBounds.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute computes the bounds table and the visible range.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	table, hit, err := r.ComputeBoundsWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	result := &Result{
		Table:       table,
		Range:       VisibleRange(table, opts.Viewport()),
		DatasetHash: cache.HashRatios(opts.Ratios),
		Stats: Stats{
			Items:      len(table.Items),
			Rows:       table.Rows,
			LayoutTime: time.Since(start),
		},
		CacheInfo: CacheInfo{BoundsHit: hit},
	}

	r.Logger.Info("computed layout",
		"items", result.Stats.Items,
		"rows", result.Stats.Rows,
		"visible", result.Range,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// ComputeBoundsWithCacheInfo returns the bounds table for opts, from the
// cache when possible, and whether it was a cache hit. Cache failures are
// logged and never fail the computation.
func (r *Runner) ComputeBoundsWithCacheInfo(ctx context.Context, opts Options) (*rgio.Table, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	key := r.Keyer.BoundsKey(cache.HashRatios(opts.Ratios), opts.BoundsKeyOpts())

	if !opts.Refresh {
		if data, hit := r.cacheGet(ctx, key); hit {
			table, err := rgio.ReadTable(bytes.NewReader(data))
			if err == nil {
				return table, true, nil
			}
			r.Logger.Debug("discarding unreadable cache entry", "key", key, "err", err)
		}
	}

	table, err := ComputeTable(opts)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := rgio.WriteTable(table, &buf); err == nil {
		r.cacheSet(ctx, key, buf.Bytes(), r.ttl())
	}
	return table, false, nil
}

// ComputeBounds is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeBounds(ctx context.Context, opts Options) (*rgio.Table, error) {
	table, _, err := r.ComputeBoundsWithCacheInfo(ctx, opts)
	return table, err
}

// StoreDataset caches a ratio sequence and returns its hash.
func (r *Runner) StoreDataset(ctx context.Context, ds *rgio.Dataset) (string, error) {
	if err := ds.Validate(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := rgio.WriteDataset(ds, &buf, rgio.FormatJSON); err != nil {
		return "", err
	}
	hash := cache.HashRatios(ds.Ratios)
	key := r.Keyer.DatasetKey(hash)
	err := cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, buf.Bytes(), r.ttl())
	})
	if err != nil {
		return "", fmt.Errorf("store dataset: %w", err)
	}
	observability.Cache().OnCacheSet(ctx, key, buf.Len())
	return hash, nil
}

// LoadDataset returns a dataset stored with StoreDataset. It returns an
// error wrapping cache.ErrNotFound when the hash is unknown.
func (r *Runner) LoadDataset(ctx context.Context, hash string) (*rgio.Dataset, error) {
	key := r.Keyer.DatasetKey(hash)
	data, hit := r.cacheGet(ctx, key)
	if !hit {
		return nil, errors.Wrap(errors.ErrCodeNotFound, cache.ErrNotFound, "dataset %s", hash)
	}
	return rgio.ReadDataset(bytes.NewReader(data), rgio.FormatJSON)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	var (
		data []byte
		hit  bool
	)
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, hit, err = r.Cache.Get(ctx, key)
		return err
	})
	if err != nil {
		r.Logger.Warn("cache get failed", "key", key, "err", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, key)
	} else {
		observability.Cache().OnCacheMiss(ctx, key)
	}
	return data, hit
}

func (r *Runner) cacheSet(ctx context.Context, key string, data []byte, ttl time.Duration) {
	err := cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, ttl)
	})
	if err != nil {
		r.Logger.Warn("cache set failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLBounds
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
