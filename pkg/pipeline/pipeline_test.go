package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/mubarakmarafa/studio-style-creator/pkg/cache"
	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

func testSource() MapSource {
	layout := spec.Spec{
		Version: spec.Version,
		Kind:    spec.KindLayout,
		Canvas:  spec.Canvas{W: 800, H: 800, Unit: spec.UnitPoints},
		Elements: []spec.Element{
			{ID: "bg", Type: spec.TypeContainer,
				Rect:  spec.Rect{W: 800, H: 800},
				Props: &spec.ContainerProps{Fill: "#ffffff"}},
			{ID: "s1", Type: spec.TypeSlot,
				Rect:  spec.Rect{X: 24, Y: 24, W: 752, H: 752},
				Props: &spec.SlotProps{Key: "a"}},
		},
	}
	module := spec.Spec{
		Version: spec.Version,
		Kind:    spec.KindModule,
		Canvas:  spec.Canvas{W: 400, H: 400, Unit: spec.UnitPoints},
		Elements: []spec.Element{
			{ID: "h", Type: spec.TypeHeader,
				Rect:  spec.Rect{W: 400, H: 60},
				Props: &spec.TextProps{Text: "Editor heading"}},
			{ID: "box", Type: spec.TypeContainer,
				Rect:  spec.Rect{Y: 60, W: 400, H: 340},
				Props: &spec.ContainerProps{Fill: "#eeeeee"}},
		},
	}
	return MapSource{"l1": layout, "m1": module, "m2": module}
}

// stubClient returns a fixed completion and records how often it was
// called. An optional hook runs before each completion.
type stubClient struct {
	response string
	calls    int
	hook     func()
}

func (c *stubClient) Complete(context.Context, string) (string, error) {
	c.calls++
	if c.hook != nil {
		c.hook()
	}
	return c.response, nil
}

func baseOptions(src SpecSource) Options {
	return Options{
		LayoutIDs: []string{"l1"},
		Pool:      []string{"m1", "m2"},
		Topic:     "coffee",
		Formats:   []string{"svg", "json"},
		Source:    src,
	}
}

func TestExecuteEndToEnd(t *testing.T) {
	client := &stubClient{
		response: `{"items": {"a|m1": {"headers": ["Real One"]}, "a|m2": {"headers": ["Real Two"]}}}`,
	}
	opts := baseOptions(testSource())
	opts.TextClient = client

	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Count != 2 {
		t.Errorf("count = %d, want 2", result.Count)
	}
	if len(result.Combinations) != 2 {
		t.Fatalf("window = %d, want 2", len(result.Combinations))
	}
	if client.calls != 1 {
		t.Errorf("client calls = %d, want 1", client.calls)
	}

	for i, combo := range result.Combinations {
		for _, el := range combo.Assembled.Elements {
			if el.Type == spec.TypeSlot {
				t.Errorf("combo %d still has a slot element", i)
			}
		}
	}

	if len(result.Artifacts) != 2 {
		t.Fatalf("artifact sets = %d, want 2", len(result.Artifacts))
	}
	svg := string(result.Artifacts[0]["svg"])
	if !strings.Contains(svg, "Real One") {
		t.Errorf("generated header missing from svg:\n%s", svg)
	}
	if len(result.Artifacts[0]["json"]) == 0 {
		t.Error("json artifact empty")
	}
}

func TestExecuteCacheHits(t *testing.T) {
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer fileCache.Close()

	client := &stubClient{
		response: `{"items": {"a|m1": {"headers": ["H"]}, "a|m2": {"headers": ["H"]}}}`,
	}
	runner := NewRunner(fileCache, nil, nil)

	opts := baseOptions(testSource())
	opts.TextClient = client
	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.AssemblyHit || first.CacheInfo.TextHit || first.CacheInfo.RenderHit {
		t.Errorf("cold run reported hits: %+v", first.CacheInfo)
	}

	opts = baseOptions(testSource())
	opts.TextClient = client
	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.AssemblyHit || !second.CacheInfo.TextHit || !second.CacheInfo.RenderHit {
		t.Errorf("warm run missed: %+v", second.CacheInfo)
	}
	if client.calls != 1 {
		t.Errorf("client called again despite cache: %d", client.calls)
	}

	// Refresh bypasses every stage cache.
	opts = baseOptions(testSource())
	opts.TextClient = client
	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheInfo.AssemblyHit || third.CacheInfo.TextHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh run reported hits: %+v", third.CacheInfo)
	}
	if client.calls != 2 {
		t.Errorf("refresh did not re-request text: %d", client.calls)
	}
}

func TestExecuteSkipText(t *testing.T) {
	client := &stubClient{response: "{}"}
	opts := baseOptions(testSource())
	opts.TextClient = client
	opts.SkipText = true

	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if client.calls != 0 {
		t.Errorf("client called with SkipText: %d", client.calls)
	}
	// Placeholder text applies.
	if svg := string(result.Artifacts[0]["svg"]); !strings.Contains(svg, "Sample Header") {
		t.Errorf("placeholder header missing:\n%s", svg)
	}
}

func TestExecuteInvalidFormat(t *testing.T) {
	opts := baseOptions(testSource())
	opts.Formats = []string{"bmp"}
	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts); err == nil {
		t.Fatal("invalid format accepted")
	}
}

func TestExecuteValidationErrorsPropagate(t *testing.T) {
	opts := baseOptions(testSource())
	opts.Pool = nil
	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts); err == nil {
		t.Fatal("empty pool accepted")
	}
}

func TestRunGuard(t *testing.T) {
	var g RunGuard
	first := g.Begin()
	if !g.Current(first) {
		t.Fatal("fresh run not current")
	}
	second := g.Begin()
	if g.Current(first) {
		t.Error("superseded run still current")
	}
	if !g.Current(second) {
		t.Error("latest run not current")
	}
}

func TestExecuteDiscardsSupersededText(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	runner.Guard = &RunGuard{}

	client := &stubClient{
		response: `{"items": {"a|m1": {"headers": ["Late"]}, "a|m2": {"headers": ["Late"]}}}`,
		// A newer run begins while the request is in flight.
		hook: func() { runner.Guard.Begin() },
	}
	opts := baseOptions(testSource())
	opts.TextClient = client

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.Stale {
		t.Fatal("superseded run not marked stale")
	}
	if svg := string(result.Artifacts[0]["svg"]); strings.Contains(svg, "Late") {
		t.Error("stale text applied to output")
	}
}
