package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/railroad/pkg/cache"
	"github.com/matzehuels/railroad/pkg/errors"
	rio "github.com/matzehuels/railroad/pkg/io"
	"github.com/matzehuels/railroad/pkg/observability"
	"github.com/matzehuels/railroad/pkg/railroad"
	"github.com/matzehuels/railroad/pkg/render"
	"github.com/matzehuels/railroad/pkg/textwidth"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner keeps no per-render state, so one Runner can serve many
// goroutines with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Measurer, when set, replaces the measurer named in Options.
	// MeasurerID names it in cache keys and must change when it does.
	Measurer   textwidth.Measurer
	MeasurerID string

	// TTL is the cache lifetime of rendered outputs; zero uses DefaultTTL.
	TTL time.Duration

	fontOnce sync.Once
	font     textwidth.Measurer
	fontErr  error
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

// Render builds doc and renders the requested formats, reading and
// writing the cache.
func (r *Runner) Render(ctx context.Context, doc *rio.Document, opts Options) (*Result, error) {
	if doc == nil || doc.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no root node")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := doc.Name
	if name == "" {
		name = "diagram"
	}
	styleName := doc.Stylesheet
	if opts.Stylesheet != "" {
		styleName = opts.Stylesheet
	}
	style, err := railroad.ParseStylesheet(styleName)
	if err != nil {
		return nil, err
	}
	markers := doc.ShowsMarkers() && !opts.NoMarkers

	descHash, err := hashRoot(doc)
	if err != nil {
		return nil, err
	}
	measurerID := opts.Measurer
	if r.Measurer != nil {
		measurerID = "custom:" + r.MeasurerID
	}
	keyOpts := opts
	keyOpts.Measurer = measurerID
	keys := make(map[string]string, len(opts.Formats))
	for _, f := range opts.Formats {
		keys[f] = r.Keyer.ArtifactKey(descHash, keyOpts.ArtifactKeyOpts(f, styleName, markers))
	}

	result := &Result{Name: name}
	if !opts.Refresh && r.fromCache(ctx, result, keys, opts.Formats) {
		result.CacheHit = true
		r.Logger.Debug("rendered from cache", "name", name, "formats", opts.Formats)
		return result, nil
	}

	// Build
	buildStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, name)
	d, err := r.build(doc, style, markers, opts)
	result.Stats.BuildTime = time.Since(buildStart)
	if d != nil {
		result.Stats.NodeCount = countNodes(d.Root())
		result.Stats.Width, result.Stats.Height = d.Width(), d.Height()
	}
	observability.Pipeline().OnBuildComplete(ctx, name, result.Stats.NodeCount, result.Stats.BuildTime, err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("built diagram",
		"name", name,
		"nodes", result.Stats.NodeCount,
		"width", result.Stats.Width,
		"height", result.Stats.Height,
		"duration", result.Stats.BuildTime)

	// Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, name, opts.Formats)
	err = r.renderFormats(ctx, d, style, opts, result, keys)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, name, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("rendered outputs",
		"name", name,
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderAll renders docs concurrently. Results are in input order. The
// first failure cancels the remaining renders.
func (r *Runner) RenderAll(ctx context.Context, docs []*rio.Document, opts Options) ([]*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	results := make([]*Result, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, doc := range docs {
		g.Go(func() error {
			res, err := r.Render(ctx, doc, opts)
			if err != nil {
				return named(doc, i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) fromCache(ctx context.Context, result *Result, keys map[string]string, formats []string) bool {
	for _, format := range formats {
		data, hit, err := r.Cache.Get(ctx, keys[format])
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "err", err)
			observability.Cache().OnCacheMiss(ctx, format)
			return false
		}
		if !hit {
			observability.Cache().OnCacheMiss(ctx, format)
			return false
		}
		observability.Cache().OnCacheHit(ctx, format)
		result.set(format, data)
	}
	return true
}

func (r *Runner) build(doc *rio.Document, style railroad.Stylesheet, markers bool, opts Options) (*railroad.Diagram, error) {
	m, err := r.measurer(opts.Measurer)
	if err != nil {
		return nil, err
	}

	var dopts []railroad.DiagramOption
	if opts.Stylesheet != "" {
		dopts = append(dopts, railroad.WithStylesheet(style))
	}
	if !markers {
		dopts = append(dopts, railroad.WithoutImplicitMarkers())
	}
	if opts.SimpleMarkers {
		dopts = append(dopts, railroad.WithSimpleMarkers())
	}
	if opts.Debug {
		dopts = append(dopts, railroad.WithDebug())
	}
	if opts.EmbedFont {
		dopts = append(dopts, railroad.WithEmbeddedFont())
	}
	return doc.Build(m, dopts...)
}

func (r *Runner) renderFormats(ctx context.Context, d *railroad.Diagram, style railroad.Stylesheet, opts Options, result *Result, keys map[string]string) error {
	ttl := r.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := renderFormat(d, format, opts.Scale, render.PaletteFor(style))
		if err != nil {
			return err
		}
		result.set(format, data)

		if err := r.Cache.Set(ctx, keys[format], data, ttl); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, format, len(data))
	}
	return nil
}

// measurer resolves a measurer name. The font measurer is parsed once
// per runner.
func (r *Runner) measurer(name string) (textwidth.Measurer, error) {
	if r.Measurer != nil {
		return r.Measurer, nil
	}
	if name != MeasurerFont {
		return NewMeasurer(name)
	}
	r.fontOnce.Do(func() {
		r.font, r.fontErr = NewMeasurer(MeasurerFont)
	})
	return r.font, r.fontErr
}

// hashRoot hashes the canonical JSON of the node tree. Document-level
// settings enter the key through ArtifactKeyOpts instead.
func hashRoot(doc *rio.Document) (string, error) {
	data, err := json.Marshal(doc.Root)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash description")
	}
	return cache.Hash(data), nil
}

func countNodes(n railroad.Node) int {
	count := 0
	railroad.Walk(n, func(railroad.Node, int) bool {
		count++
		return true
	})
	return count
}

// named prefixes err with the document it came from, keeping its code.
func named(doc *rio.Document, i int, err error) error {
	name := fmt.Sprintf("document %d", i)
	if doc != nil && doc.Name != "" {
		name = doc.Name
	}
	code := errors.GetCode(err)
	if code == "" {
		return fmt.Errorf("%s: %w", name, err)
	}
	return errors.New(code, "%s: %s", name, errors.UserMessage(err))
}
