package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mubarakmarafa/studio-style-creator/pkg/cache"
	"github.com/mubarakmarafa/studio-style-creator/pkg/compose"
	"github.com/mubarakmarafa/studio-style-creator/pkg/observability"
	"github.com/mubarakmarafa/studio-style-creator/pkg/render"
	"github.com/mubarakmarafa/studio-style-creator/pkg/render/sink"
	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
	"github.com/mubarakmarafa/studio-style-creator/pkg/textfill"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, guard, and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Guard, when set, lets interactive callers supersede in-flight
	// runs. A nil guard means every run completes normally.
	Guard *RunGuard
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

// Execute runs the complete enumerate → text → render pipeline with
// caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: r.beginRun()}

	// Stage 1: Enumerate
	enumStart := time.Now()
	observability.Pipeline().OnEnumerateStart(ctx, len(opts.LayoutIDs), len(opts.Pool))
	sel, combos, assemblyHit, err := r.EnumerateWithCacheInfo(ctx, opts)
	observability.Pipeline().OnEnumerateComplete(ctx, len(combos), time.Since(enumStart), err)
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}
	total, err := compose.Count(sel)
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}
	result.Count = total
	result.Combinations = combos
	result.Stats.EnumerateTime = time.Since(enumStart)
	result.Stats.CombinationCount = len(combos)
	result.CacheInfo.AssemblyHit = assemblyHit

	r.Logger.Info("enumerated combinations",
		"total", total,
		"window", len(combos),
		"duration", result.Stats.EnumerateTime)

	layouts, modules := r.collectSpecs(sel, combos, opts)

	// Stage 2: Text
	textStart := time.Now()
	observability.Pipeline().OnTextStart(ctx, len(combos))
	textRes, textHit := r.TextWithCacheInfo(ctx, layouts, modules, combos, opts)
	result.Text = textRes
	result.Stats.TextTime = time.Since(textStart)
	result.CacheInfo.TextHit = textHit
	observability.Pipeline().OnTextComplete(ctx, textRes.Attempts, textRes.Fallback, result.Stats.TextTime)

	overrides := textRes.Overrides
	if r.Guard != nil && !r.Guard.Current(result.RunID) {
		// A newer run started while the request was in flight; its
		// output wins and this run keeps placeholders.
		result.Stale = true
		overrides = nil
		r.Logger.Info("discarding superseded text result", "run", result.RunID)
	}

	r.Logger.Info("filled text",
		"requests", len(overrides),
		"fallback", textRes.Fallback,
		"duration", result.Stats.TextTime)

	// Stage 3: Compose and render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layouts, modules, result.Combinations, overrides, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"pages", len(artifacts),
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) beginRun() uuid.UUID {
	if r.Guard != nil {
		return r.Guard.Begin()
	}
	return uuid.New()
}

// EnumerateWithCacheInfo builds the selection and enumerates the
// combination window with caching, returning cache hit info.
func (r *Runner) EnumerateWithCacheInfo(ctx context.Context, opts Options) (compose.Selection, []compose.Combination, bool, error) {
	if err := opts.ValidateForEnumerate(); err != nil {
		return compose.Selection{}, nil, false, err
	}

	sel, err := compose.BuildSelection(opts.LayoutIDs, opts.Source.Lookup, opts.Pool)
	if err != nil {
		return compose.Selection{}, nil, false, err
	}

	cacheKey := r.Keyer.AssemblyKey(r.selectionHash(sel, opts), cache.AssemblyKeyOpts{Cap: opts.Cap})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var combos []compose.Combination
			if err := json.Unmarshal(data, &combos); err == nil {
				return sel, combos, true, nil // Cache hit
			}
		}
	}

	combos, err := compose.Enumerate(sel, opts.Cap)
	if err != nil {
		return compose.Selection{}, nil, false, err
	}

	if data, err := json.Marshal(combos); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLAssembly)
	}

	return sel, combos, false, nil // Cache miss
}

// Enumerate is a convenience wrapper that discards the cache hit info.
func (r *Runner) Enumerate(ctx context.Context, opts Options) (compose.Selection, []compose.Combination, error) {
	sel, combos, _, err := r.EnumerateWithCacheInfo(ctx, opts)
	return sel, combos, err
}

// TextWithCacheInfo runs the text-fill protocol with caching and returns
// cache hit info. Text failures are non-fatal, so no error is returned;
// the Result says whether real copy or placeholders apply.
func (r *Runner) TextWithCacheInfo(ctx context.Context, layouts, modules map[string]spec.Spec, combos []compose.Combination, opts Options) (textfill.Result, bool) {
	if opts.SkipText || opts.TextClient == nil {
		return textfill.Result{RunID: uuid.New()}, false
	}

	reqs := textfill.BuildRequests(layouts, modules, combos)
	if len(reqs) == 0 {
		return textfill.Result{RunID: uuid.New()}, false
	}

	reqsData, _ := json.Marshal(reqs)
	cacheKey := r.Keyer.TextKey(cache.Hash(reqsData), cache.TextKeyOpts{
		Topic: opts.Topic,
		Model: opts.Model,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var overrides compose.TextOverrides
			if err := json.Unmarshal(data, &overrides); err == nil {
				return textfill.Result{RunID: uuid.New(), Overrides: overrides, Attempts: 0}, true
			}
		}
	}

	filler := textfill.Runner{Client: opts.TextClient, Logger: opts.Logger}
	res := filler.Fill(ctx, opts.Topic, reqs)

	// Fallback results are not cached: the next run should try again.
	if !res.Fallback && res.Overrides != nil {
		if data, err := json.Marshal(res.Overrides); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLText)
		}
	}
	return res, false
}

// RenderWithCacheInfo composes every combination and renders the
// requested formats with per-artifact caching. The input combinations
// get their Assembled spec filled in place.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layouts, modules map[string]spec.Spec, combos []compose.Combination, overrides compose.TextOverrides, opts Options) ([]map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	var sinkOpts []sink.SVGOption
	if opts.Background != "" {
		sinkOpts = append(sinkOpts, sink.WithBackground(opts.Background))
	}

	allCached := true
	artifacts := make([]map[string][]byte, len(combos))
	for i := range combos {
		layout, ok := layouts[combos[i].LayoutID]
		if !ok {
			return nil, false, fmt.Errorf("layout %q not resolved", combos[i].LayoutID)
		}
		combos[i].Assembled = compose.Assemble(layout, combos[i].Mapping, modules, overrides)

		pageData, err := spec.Marshal(combos[i].Assembled)
		if err != nil {
			return nil, false, fmt.Errorf("serialize page for cache key: %w", err)
		}
		pageHash := cache.Hash(pageData)

		artifacts[i] = make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(pageHash, cache.ArtifactKeyOpts{Format: format})
			if !opts.Refresh {
				if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
					artifacts[i][format] = data
					continue
				}
			}
			allCached = false

			data, err := render.Render(combos[i].Assembled, format, opts.PNGScale, sinkOpts...)
			if err != nil {
				return nil, false, fmt.Errorf("render %s: %w", format, err)
			}
			artifacts[i][format] = data
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		}
	}

	return artifacts, allCached && len(combos) > 0, nil
}

// selectionHash identifies the enumeration inputs: the selection plus
// the content of every referenced spec, so editing a layout or module
// invalidates cached windows built from it.
func (r *Runner) selectionHash(sel compose.Selection, opts Options) string {
	specs := map[string]spec.Spec{}
	for _, l := range sel.Layouts {
		if s, ok := opts.Source.Lookup(l.ID); ok {
			specs[l.ID] = s
		}
	}
	for _, id := range sel.Pool {
		if s, ok := opts.Source.Lookup(id); ok {
			specs[id] = s
		}
	}
	data, _ := json.Marshal(struct {
		Sel   compose.Selection    `json:"sel"`
		Specs map[string]spec.Spec `json:"specs"`
	}{sel, specs})
	return cache.Hash(data)
}

// collectSpecs resolves every layout and module the window references.
// Unresolvable module ids are skipped here and surface as placeholder
// slots downstream.
func (r *Runner) collectSpecs(sel compose.Selection, combos []compose.Combination, opts Options) (layouts, modules map[string]spec.Spec) {
	layouts = make(map[string]spec.Spec, len(sel.Layouts))
	for _, l := range sel.Layouts {
		if s, ok := opts.Source.Lookup(l.ID); ok {
			layouts[l.ID] = s
		}
	}
	modules = make(map[string]spec.Spec, len(sel.Pool))
	for _, id := range sel.Pool {
		if s, ok := opts.Source.Lookup(id); ok {
			modules[id] = s
		}
	}
	return layouts, modules
}
