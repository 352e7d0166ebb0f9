package textfill

import (
	"context"
	"strings"
	"testing"

	"github.com/mubarakmarafa/studio-style-creator/pkg/compose"
	"github.com/mubarakmarafa/studio-style-creator/pkg/errors"
	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

// moduleWithText builds a module spec with one header and one body,
// both 200pt wide, stacked in a 200x200 content box.
func moduleWithText() spec.Spec {
	return spec.Spec{
		Version: spec.Version,
		Kind:    spec.KindModule,
		Canvas:  spec.Canvas{W: 200, H: 200, Unit: spec.UnitPoints},
		Elements: []spec.Element{
			{ID: "h", Type: spec.TypeHeader, Rect: spec.Rect{X: 0, Y: 0, W: 200, H: 50},
				Props: &spec.TextProps{Text: "Heading"}},
			{ID: "b", Type: spec.TypeBodyText, Rect: spec.Rect{X: 0, Y: 50, W: 200, H: 150},
				Props: &spec.TextProps{Text: "Body"}},
		},
	}
}

func layoutOneSlot(key string, rect spec.Rect) spec.Spec {
	return spec.Spec{
		Version: spec.Version,
		Kind:    spec.KindLayout,
		Canvas:  spec.Canvas{W: 800, H: 800, Unit: spec.UnitPoints},
		Elements: []spec.Element{
			{ID: key, Type: spec.TypeSlot, Rect: rect, Props: &spec.SlotProps{Key: key}},
		},
	}
}

func TestBuildRequestsBudgets(t *testing.T) {
	// A 200x200 module in a 200x200 slot places elements 1:1, so budgets
	// follow directly from the element rects and the fixed type styles.
	layouts := map[string]spec.Spec{
		"l": layoutOneSlot("a", spec.Rect{X: 0, Y: 0, W: 200, H: 200}),
	}
	modules := map[string]spec.Spec{"m": moduleWithText()}
	combos := []compose.Combination{
		{LayoutID: "l", Mapping: compose.Mapping{"a": "m"}},
	}

	reqs := BuildRequests(layouts, modules, combos)
	if len(reqs) != 1 {
		t.Fatalf("request count = %d, want 1", len(reqs))
	}
	r := reqs[0]
	if r.Key != "a|m" {
		t.Errorf("key = %q, want %q", r.Key, "a|m")
	}
	// Header: 24pt bold. Line chars = floor(200/(24*0.55)) = 15,
	// lines = floor(50/(24*1.2)) = 1.
	if r.Headers.Count != 1 || r.Headers.LineChars != 15 || r.Headers.Lines != 1 {
		t.Errorf("header budget = %+v", r.Headers)
	}
	if r.Headers.MaxChars != 15 {
		t.Errorf("header maxChars = %d, want 15", r.Headers.MaxChars)
	}
	// Body: 12pt. Line chars = floor(200/(12*0.55)) = 30,
	// lines = floor(150/(12*1.35)) = 9.
	if r.Bodies.Count != 1 || r.Bodies.LineChars != 30 || r.Bodies.Lines != 9 {
		t.Errorf("body budget = %+v", r.Bodies)
	}
	if r.Bodies.MaxChars != 270 {
		t.Errorf("body maxChars = %d, want 270", r.Bodies.MaxChars)
	}
	if r.Titles.Count != 0 {
		t.Errorf("title count = %d, want 0", r.Titles.Count)
	}
}

func TestBuildRequestsDedupesPairs(t *testing.T) {
	// The same (slot, module) pair across many combinations yields one
	// request: the run makes a single batched call.
	layouts := map[string]spec.Spec{
		"l": layoutOneSlot("a", spec.Rect{X: 0, Y: 0, W: 200, H: 200}),
	}
	modules := map[string]spec.Spec{"m": moduleWithText()}
	combos := []compose.Combination{
		{LayoutID: "l", Mapping: compose.Mapping{"a": "m"}},
		{LayoutID: "l", Mapping: compose.Mapping{"a": "m"}},
	}
	if got := BuildRequests(layouts, modules, combos); len(got) != 1 {
		t.Fatalf("request count = %d, want 1", len(got))
	}
}

func TestBuildRequestsEmptyModuleUsesPlaceholderShape(t *testing.T) {
	// A module with no valid-area elements composes as the synthesized
	// placeholder, so its text demand is one header and one body.
	layouts := map[string]spec.Spec{
		"l": layoutOneSlot("a", spec.Rect{X: 0, Y: 0, W: 300, H: 200}),
	}
	modules := map[string]spec.Spec{"empty": {Version: spec.Version, Kind: spec.KindModule}}
	combos := []compose.Combination{
		{LayoutID: "l", Mapping: compose.Mapping{"a": "empty"}},
	}
	reqs := BuildRequests(layouts, modules, combos)
	if len(reqs) != 1 {
		t.Fatalf("request count = %d, want 1", len(reqs))
	}
	if reqs[0].Headers.Count != 1 || reqs[0].Titles.Count != 0 || reqs[0].Bodies.Count != 1 {
		t.Errorf("role counts = %+v", reqs[0])
	}
}

func TestExtractJSONTolerant(t *testing.T) {
	raw := "Sure! Here is the copy you asked for:\n```json\n" +
		`{"items": {"a|m": {"headers": ["Hi"]}}}` + "\n```\nLet me know if you need more."
	data, err := ExtractJSON(raw)
	if err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if !strings.HasPrefix(string(data), `{"items"`) || !strings.HasSuffix(string(data), "}") {
		t.Errorf("extracted %q", data)
	}
}

func TestExtractJSONNoObject(t *testing.T) {
	if _, err := ExtractJSON("no json here"); !errors.Is(err, errors.ErrCodeTextFill) {
		t.Fatalf("expected text-fill error, got %v", err)
	}
}

func TestValidateCounts(t *testing.T) {
	reqs := []SlotRequest{{Key: "a|m", Headers: RoleBudget{Count: 2}, Bodies: RoleBudget{Count: 1}}}

	ok := compose.TextOverrides{
		"a|m": {Headers: []string{"One", "Two"}, Bodies: []string{"Body"}},
	}
	if err := Validate(reqs, ok); err != nil {
		t.Fatalf("valid overrides rejected: %v", err)
	}

	short := compose.TextOverrides{
		"a|m": {Headers: []string{"One"}, Bodies: []string{"Body"}},
	}
	if err := Validate(reqs, short); !errors.Is(err, errors.ErrCodeTextFill) {
		t.Errorf("short headers: got %v", err)
	}

	blank := compose.TextOverrides{
		"a|m": {Headers: []string{"One", "  "}, Bodies: []string{"Body"}},
	}
	if err := Validate(reqs, blank); !errors.Is(err, errors.ErrCodeTextFill) {
		t.Errorf("blank header: got %v", err)
	}

	if err := Validate(reqs, compose.TextOverrides{}); !errors.Is(err, errors.ErrCodeTextFill) {
		t.Errorf("missing key: got %v", err)
	}
}

// scriptedClient returns canned responses in order.
type scriptedClient struct {
	responses []string
	errs      []error
	prompts   []string
}

func (c *scriptedClient) Complete(_ context.Context, prompt string) (string, error) {
	i := len(c.prompts)
	c.prompts = append(c.prompts, prompt)
	if i >= len(c.responses) {
		return "", errors.New(errors.ErrCodeNetwork, "no scripted response")
	}
	if c.errs != nil && c.errs[i] != nil {
		return "", c.errs[i]
	}
	return c.responses[i], nil
}

func TestFillFirstAttemptSucceeds(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"items": {"a|m": {"headers": ["Real Header"], "bodies": ["Real body."]}}}`,
	}}
	r := Runner{Client: client}
	reqs := []SlotRequest{{Key: "a|m", Headers: RoleBudget{Count: 1}, Bodies: RoleBudget{Count: 1}}}

	res := r.Fill(context.Background(), "space travel", reqs)
	if res.Fallback {
		t.Fatalf("unexpected fallback: %+v", res)
	}
	if res.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", res.Attempts)
	}
	if got := res.Overrides["a|m"].Headers[0]; got != "Real Header" {
		t.Errorf("header = %q", got)
	}
}

func TestFillRetriesOnceThenFallsBack(t *testing.T) {
	// First response is short (one header where two are expected), the
	// retry is short too: the run falls back to placeholders but is not
	// an error.
	client := &scriptedClient{responses: []string{
		`{"items": {"a|m": {"headers": ["A"]}}}`,
		`{"items": {"a|m": {"headers": ["A"]}}}`,
	}}
	r := Runner{Client: client}
	reqs := []SlotRequest{{Key: "a|m", Headers: RoleBudget{Count: 2}}}

	res := r.Fill(context.Background(), "space travel", reqs)
	if !res.Fallback {
		t.Fatalf("expected fallback: %+v", res)
	}
	if res.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", res.Attempts)
	}
	if res.Overrides != nil {
		t.Errorf("fallback result carries overrides: %v", res.Overrides)
	}
	if res.Notice == "" {
		t.Error("fallback without notice")
	}
	if len(client.prompts) != 2 {
		t.Fatalf("prompt count = %d, want 2", len(client.prompts))
	}
	if !strings.Contains(client.prompts[1], "previous response was not valid") {
		t.Error("second attempt did not use the stricter prompt")
	}
}

func TestFillRetrySucceeds(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"garbage without braces",
		`Here you go: {"items": {"a|m": {"headers": ["Fixed"]}}}`,
	}}
	r := Runner{Client: client}
	reqs := []SlotRequest{{Key: "a|m", Headers: RoleBudget{Count: 1}}}

	res := r.Fill(context.Background(), "gardening", reqs)
	if res.Fallback {
		t.Fatalf("unexpected fallback: %+v", res)
	}
	if res.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", res.Attempts)
	}
	if got := res.Overrides["a|m"].Headers[0]; got != "Fixed" {
		t.Errorf("header = %q", got)
	}
}

func TestFillNilClientSkipsGeneration(t *testing.T) {
	r := Runner{}
	res := r.Fill(context.Background(), "anything",
		[]SlotRequest{{Key: "a|m", Headers: RoleBudget{Count: 1}}})
	if res.Fallback || res.Overrides != nil || res.Attempts != 0 {
		t.Errorf("nil client result = %+v", res)
	}
	if res.RunID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("run id not assigned")
	}
}

func TestFillDistinctRunIDs(t *testing.T) {
	r := Runner{}
	a := r.Fill(context.Background(), "t", nil)
	b := r.Fill(context.Background(), "t", nil)
	if a.RunID == b.RunID {
		t.Error("two runs share an identity token")
	}
}

func TestPromptListsBudgets(t *testing.T) {
	reqs := []SlotRequest{
		{Key: "b|m2", Headers: RoleBudget{Count: 1, MaxChars: 15}},
		{Key: "a|m1", Bodies: RoleBudget{Count: 2, MaxChars: 270}},
	}
	p := BuildPrompt("coffee", reqs)
	if !strings.Contains(p, "coffee") {
		t.Error("prompt missing topic")
	}
	// Stable key order regardless of request order.
	if strings.Index(p, `"a|m1"`) > strings.Index(p, `"b|m2"`) {
		t.Error("prompt keys not in stable order")
	}
	if !strings.Contains(p, "headers=1 (max 15 chars each)") {
		t.Errorf("prompt missing header budget:\n%s", p)
	}
	if !strings.Contains(p, "bodies=2 (max 270 chars each)") {
		t.Errorf("prompt missing body budget:\n%s", p)
	}
}
