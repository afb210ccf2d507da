package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/funnel/pkg/cache"
	"github.com/matzehuels/funnel/pkg/funnel"
	"github.com/matzehuels/funnel/pkg/io"
	"github.com/matzehuels/funnel/pkg/observability"
)

// Runner executes the pipeline with caching.
//
// The Runner is stateless except for the cache and logger, so one Runner can
// serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means cache.DefaultKeyer, a nil
// cache disables caching and a nil logger means log.Default().
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute lays out doc and renders it in every requested format. When all
// formats are cached, no chart is built.
func (r *Runner) Execute(ctx context.Context, doc *io.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	effective := *doc
	if opts.Align != "" {
		effective.Config.Align = opts.Align
	}
	docHash, err := DocumentHash(&effective)
	if err != nil {
		return nil, err
	}
	result := &Result{DocHash: docHash, Stats: Stats{Segments: len(doc.Segments)}}

	if !opts.Refresh {
		if artifacts, ok := r.lookup(ctx, docHash, opts); ok {
			result.Artifacts = artifacts
			result.CacheHit = true
			r.Logger.Debug("artifacts served from cache", "formats", opts.Formats)
			return result, nil
		}
	}

	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(doc.Segments))
	c, err := funnel.New(effective.Config, effective.Segments, opts.Width, opts.Height,
		funnel.WithLogger(opts.Logger))
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Pipeline().OnLayoutComplete(ctx, len(doc.Segments), result.Stats.LayoutTime, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Stats.Misconfigured = len(c.Layout().Misconfigured)

	r.Logger.Info("computed layout",
		"segments", result.Stats.Segments,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, err := r.render(ctx, c, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	r.store(ctx, docHash, opts, artifacts)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// RenderWithCacheInfo renders a live chart, consulting the cache under
// docHash. It reports whether every artifact was a cache hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, c *funnel.Chart, docHash string, opts Options) (map[string][]byte, bool, error) {
	opts.Width, opts.Height = c.Size()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if artifacts, ok := r.lookup(ctx, docHash, opts); ok {
		return artifacts, true, nil
	}
	artifacts, err := r.render(ctx, c, opts)
	if err != nil {
		return nil, false, err
	}
	r.store(ctx, docHash, opts, artifacts)
	return artifacts, false, nil
}

func (r *Runner) render(ctx context.Context, c *funnel.Chart, opts Options) (map[string][]byte, error) {
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, err := Render(c, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

// lookup returns the cached artifacts when every format is present.
func (r *Runner) lookup(ctx context.Context, docHash string, opts Options) (map[string][]byte, bool) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, format)
			return nil, false
		}
		hooks.OnCacheHit(ctx, format)
		artifacts[format] = data
	}
	return artifacts, true
}

func (r *Runner) store(ctx context.Context, docHash string, opts Options, artifacts map[string][]byte) {
	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, format, len(data))
	}
}

// DocumentHash returns the content hash of doc.
func DocumentHash(doc *io.Document) (string, error) {
	data, err := io.Canonical(doc)
	if err != nil {
		return "", fmt.Errorf("serialize document for cache key: %w", err)
	}
	return cache.Hash(data), nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
