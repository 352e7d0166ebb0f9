package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mubarakmarafa/studio-style-creator/internal/config"
	"github.com/mubarakmarafa/studio-style-creator/pkg/pipeline"
	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
	"github.com/mubarakmarafa/studio-style-creator/pkg/store"
)

func testServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	cfg := config.Default()
	cfg.Text.APIKeyEnv = "" // no text client in tests
	return New(runner, st, cfg, logger), st
}

func seedSpecs(t *testing.T, st store.Store) (layoutID, moduleID string) {
	t.Helper()
	ctx := context.Background()

	layout := store.NewRecord(spec.KindLayout, "grid", "", spec.Spec{
		Version: spec.Version,
		Kind:    spec.KindLayout,
		Canvas:  spec.Canvas{W: 800, H: 800, Unit: spec.UnitPoints},
		Elements: []spec.Element{
			{ID: "s1", Type: spec.TypeSlot,
				Rect:  spec.Rect{X: 24, Y: 24, W: 752, H: 752},
				Props: &spec.SlotProps{Key: "a"}},
		},
	})
	module := store.NewRecord(spec.KindModule, "card", "", spec.Spec{
		Version: spec.Version,
		Kind:    spec.KindModule,
		Canvas:  spec.Canvas{W: 400, H: 400, Unit: spec.UnitPoints},
		Elements: []spec.Element{
			{ID: "h", Type: spec.TypeHeader,
				Rect:  spec.Rect{W: 400, H: 60},
				Props: &spec.TextProps{Text: "Heading"}},
		},
	})
	for _, rec := range []*store.Record{layout, module} {
		if err := st.Put(ctx, rec); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	return layout.ID, module.ID
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s, _ := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestSpecCRUD(t *testing.T) {
	s, _ := testServer(t)
	router := s.Router()

	w := postJSON(t, router, "/api/specs", putSpecRequest{
		Kind: spec.KindModule,
		Name: "card",
		Spec: spec.Spec{Version: spec.Version, Kind: spec.KindModule},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d: %s", w.Code, w.Body)
	}
	var created store.Record
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created record has no id")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/specs/"+created.ID, nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("get status = %d", w2.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/specs?kind=module", nil)
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req)
	var listed []store.Record
	if err := json.Unmarshal(w3.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("listed = %d, want 1", len(listed))
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/specs/"+created.ID, nil)
	w4 := httptest.NewRecorder()
	router.ServeHTTP(w4, req)
	if w4.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w4.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/specs/"+created.ID, nil)
	w5 := httptest.NewRecorder()
	router.ServeHTTP(w5, req)
	if w5.Code != http.StatusNotFound {
		t.Fatalf("get deleted status = %d", w5.Code)
	}
}

func TestSpecRejectsUnknownKind(t *testing.T) {
	s, _ := testServer(t)
	w := postJSON(t, s.Router(), "/api/specs", map[string]any{
		"kind": "poster", "name": "x", "spec": map[string]any{"version": 1},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
}

func TestCount(t *testing.T) {
	s, st := testServer(t)
	layoutID, moduleID := seedSpecs(t, st)
	router := s.Router()

	w := postJSON(t, router, "/api/count", countRequest{
		LayoutIDs: []string{layoutID},
		Pool:      []string{moduleID, "other"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var resp countResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || resp.Error != nil {
		t.Errorf("count = %+v", resp)
	}
}

func TestCountValidationIsSoft(t *testing.T) {
	s, st := testServer(t)
	layoutID, _ := seedSpecs(t, st)

	// Empty pool: count drops to zero with a structured code, not an
	// HTTP error.
	w := postJSON(t, s.Router(), "/api/count", countRequest{
		LayoutIDs: []string{layoutID},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var resp countResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 0 || resp.Error == nil || resp.Error.Code != "EMPTY_POOL" {
		t.Errorf("response = %+v", resp)
	}
}

func TestGenerate(t *testing.T) {
	s, st := testServer(t)
	layoutID, moduleID := seedSpecs(t, st)

	w := postJSON(t, s.Router(), "/api/generate", map[string]any{
		"layout_ids": []string{layoutID},
		"pool":       []string{moduleID},
		"formats":    []string{"svg"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var resp generateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || len(resp.Artifacts) != 1 {
		t.Fatalf("response = %+v", resp)
	}
	svg := string(resp.Artifacts[0]["svg"])
	if !strings.Contains(svg, "<svg") {
		t.Errorf("svg artifact malformed: %s", svg)
	}
	// No text client configured: pages carry placeholder copy.
	if !strings.Contains(svg, "Sample Header") {
		t.Errorf("placeholder header missing:\n%s", svg)
	}
}

func TestGenerateUnknownLayout(t *testing.T) {
	s, st := testServer(t)
	_, moduleID := seedSpecs(t, st)

	w := postJSON(t, s.Router(), "/api/generate", map[string]any{
		"layout_ids": []string{"missing"},
		"pool":       []string{moduleID},
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	if !strings.Contains(w.Body.String(), "LAYOUT_NOT_FOUND") {
		t.Errorf("body = %s", w.Body)
	}
}

func TestGenerateManyPagesHonorsCap(t *testing.T) {
	s, st := testServer(t)
	layoutID, moduleID := seedSpecs(t, st)

	// One slot and a pool of 60 modules: 60 combinations counted, the
	// default cap of 40 materialized.
	pool := []string{moduleID}
	ctx := context.Background()
	for i := 0; i < 59; i++ {
		rec := store.NewRecord(spec.KindModule, "card", "", spec.Spec{
			Version: spec.Version, Kind: spec.KindModule,
			Elements: []spec.Element{
				{ID: "h", Type: spec.TypeHeader,
					Rect:  spec.Rect{W: 200, H: 40},
					Props: &spec.TextProps{Text: fmt.Sprintf("Heading %d", i)}},
			},
		})
		if err := st.Put(ctx, rec); err != nil {
			t.Fatalf("Put: %v", err)
		}
		pool = append(pool, rec.ID)
	}

	w := postJSON(t, s.Router(), "/api/generate", map[string]any{
		"layout_ids": []string{layoutID},
		"pool":       pool,
		"formats":    []string{"json"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var resp generateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 60 {
		t.Errorf("count = %d, want 60", resp.Count)
	}
	if len(resp.Combinations) != 40 {
		t.Errorf("window = %d, want the default cap of 40", len(resp.Combinations))
	}
}
