// Package pipeline provides the core generation pipeline for the studio
// engine.
//
// This package implements the complete enumerate → text → render
// pipeline that can be used by CLI and server components. By
// centralizing this logic, we ensure consistent behavior across all
// entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Enumerate: validate the selection and derive the combination window
//  2. Text: generate copy for every distinct (slot, module) pair
//  3. Render: compose each combination into a page and emit artifacts
//
// Each stage can be run independently or as part of the complete
// pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    LayoutIDs: []string{"layout-1"},
//	    Pool:      []string{"module-a", "module-b"},
//	    Topic:     "coffee brewing",
//	    Formats:   []string{"svg"},
//	    Source:    store,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[0]["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mubarakmarafa/studio-style-creator/pkg/compose"
	"github.com/mubarakmarafa/studio-style-creator/pkg/render"
	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
	"github.com/mubarakmarafa/studio-style-creator/pkg/textfill"
)

// ====== Default Values - Single Source of Truth for CLI and Server ======

const (
	// DefaultCap is the default combination window per generation run.
	DefaultCap = compose.DefaultCap

	// DefaultPNGScale is the default raster scale for PNG output.
	DefaultPNGScale = 1.0
)

// SpecSource resolves layout and module specs by id. The store package
// provides persistent implementations; tests use a MapSource.
type SpecSource interface {
	Lookup(id string) (spec.Spec, bool)
}

// MapSource is an in-memory SpecSource.
type MapSource map[string]spec.Spec

// Lookup implements SpecSource.
func (m MapSource) Lookup(id string) (spec.Spec, bool) {
	s, ok := m[id]
	return s, ok
}

// ====== Options - Pipeline Configuration ======

// Options contains all configuration for the generation pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Selection options
	LayoutIDs []string `json:"layout_ids"`
	Pool      []string `json:"pool"`
	Cap       int      `json:"cap,omitempty"`
	Refresh   bool     `json:"refresh,omitempty"`

	// Text options
	Topic    string `json:"topic,omitempty"`
	Model    string `json:"model,omitempty"`
	SkipText bool   `json:"skip_text,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	PNGScale   float64  `json:"png_scale,omitempty"`
	Background string   `json:"background,omitempty"`

	// Runtime options (not serialized)
	Source     SpecSource      `json:"-"`
	TextClient textfill.Client `json:"-"`
	Logger     *log.Logger     `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this generation run.
	RunID uuid.UUID

	// Count is the total combination count across the selection, before
	// the cap window is applied.
	Count int64

	// Combinations holds the enumerated window with composed pages.
	Combinations []compose.Combination

	// Text is the outcome of the text-fill protocol.
	Text textfill.Result

	// Stale is true when a newer run superseded this one while text
	// generation was in flight; its overrides were discarded.
	Stale bool

	// Artifacts holds rendered outputs per combination, keyed by format.
	Artifacts []map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CombinationCount int
	EnumerateTime    time.Duration
	TextTime         time.Duration
	RenderTime       time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	AssemblyHit bool // Whether the enumerated window came from cache
	TextHit     bool // Whether generated copy came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// ====== Validation Functions ======

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !render.IsValidFormat(f) {
			return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, json)", f)
		}
	}
	return nil
}

// ====== Options Methods ======

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. This method is idempotent - calling it multiple
// times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForEnumerate(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForEnumerate checks required fields for enumeration.
func (o *Options) ValidateForEnumerate() error {
	if o.Source == nil {
		return fmt.Errorf("spec source is required")
	}
	if o.Cap == 0 {
		o.Cap = DefaultCap
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
