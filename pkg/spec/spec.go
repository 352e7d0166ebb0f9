package spec

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
)

// =============================================================================
// Spec - Persisted Document
// =============================================================================

// Version is the only supported wire format version.
const Version = 1

// Kind discriminates between the two authored document kinds. Assembled
// pages produced by the compositor carry no kind.
type Kind string

// Document kinds.
const (
	KindLayout Kind = "layout" // slots-only grid of placeholders
	KindModule Kind = "module" // reusable content block
)

// Canvas describes the drawing surface of a Spec.
type Canvas struct {
	W    float64 `json:"w"`
	H    float64 `json:"h"`
	Unit string  `json:"unit"`
}

// UnitPoints is the canonical canvas unit.
const UnitPoints = "pt"

// ModuleAssist carries the module editor's auto-canvas alignment choices.
type ModuleAssist struct {
	AlignX string `json:"alignX,omitempty"` // "left", "center" (default), "right"
	AlignY string `json:"alignY,omitempty"` // "top", "center" (default), "bottom"
}

// LayoutAssist carries the layout editor's slot generator parameters so a
// layout can be regenerated from its own settings.
type LayoutAssist struct {
	Mode      string  `json:"mode,omitempty"` // "grid" or "flex"
	Padding   float64 `json:"padding,omitempty"`
	Gap       float64 `json:"gap,omitempty"`
	Cols      int     `json:"cols,omitempty"`
	Rows      int     `json:"rows,omitempty"`
	Count     int     `json:"count,omitempty"`
	PerLine   int     `json:"perLine,omitempty"`
	CrossSize float64 `json:"crossSize,omitempty"`
	Direction string  `json:"direction,omitempty"` // "row" or "column"
	Wrap      bool    `json:"wrap,omitempty"`
}

// Spec is one persisted document: a layout, a module, or an assembled page.
// The engine treats Specs as immutable inputs; every transform returns a
// fresh value.
type Spec struct {
	Version      int           `json:"version"`
	Canvas       Canvas        `json:"canvas"`
	Kind         Kind          `json:"kind,omitempty"`
	Elements     []Element     `json:"elements"`
	ModuleAssist *ModuleAssist `json:"moduleAssist,omitempty"`
	LayoutAssist *LayoutAssist `json:"layoutAssist,omitempty"`
}

// SlotKeys returns the layout's slot keys in first-seen element order.
// Duplicate keys are dropped (first occurrence wins) and slots without a
// key are skipped. Duplicates are a modeling smell, not an error.
func (s *Spec) SlotKeys() []string {
	var keys []string
	seen := map[string]bool{}
	for i := range s.Elements {
		el := &s.Elements[i]
		if el.Type != TypeSlot {
			continue
		}
		p, ok := el.Props.(*SlotProps)
		if !ok || p.Key == "" || seen[p.Key] {
			continue
		}
		seen[p.Key] = true
		keys = append(keys, p.Key)
	}
	return keys
}

// SlotRects returns the rect of the first slot carrying each key.
func (s *Spec) SlotRects() map[string]Rect {
	rects := map[string]Rect{}
	for i := range s.Elements {
		el := &s.Elements[i]
		if el.Type != TypeSlot {
			continue
		}
		p, ok := el.Props.(*SlotProps)
		if !ok || p.Key == "" {
			continue
		}
		if _, dup := rects[p.Key]; !dup {
			rects[p.Key] = el.Rect
		}
	}
	return rects
}

// Bounds returns the axis-aligned bounding box over all elements with
// valid rects. ok is false when no element qualifies.
func Bounds(elements []Element) (bounds Rect, ok bool) {
	minX, minY := 0.0, 0.0
	maxX, maxY := 0.0, 0.0
	for i := range elements {
		r := elements[i].Rect
		if !r.Valid() {
			continue
		}
		if !ok {
			minX, minY, maxX, maxY = r.X, r.Y, r.Right(), r.Bottom()
			ok = true
			continue
		}
		minX = min(minX, r.X)
		minY = min(minY, r.Y)
		maxX = max(maxX, r.Right())
		maxY = max(maxY, r.Bottom())
	}
	if !ok {
		return Rect{}, false
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

// SortByZ returns the elements ordered by zIndex for drawing. The sort is
// stable: ties keep their original order.
func SortByZ(elements []Element) []Element {
	out := slices.Clone(elements)
	slices.SortStableFunc(out, func(a, b Element) int {
		return a.Z - b.Z
	})
	return out
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal serializes a Spec to pretty-printed JSON.
func Marshal(s Spec) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal deserializes JSON into a Spec and checks the format version.
func Unmarshal(data []byte) (Spec, error) {
	var s Spec
	if err := json.Unmarshal(data, &s); err != nil {
		return Spec{}, fmt.Errorf("unmarshal spec: %w", err)
	}
	if s.Version != 0 && s.Version != Version {
		return Spec{}, fmt.Errorf("unsupported spec version %d", s.Version)
	}
	s.Version = Version
	return s, nil
}

// WriteFile writes a Spec to a JSON file.
func WriteFile(s Spec, path string) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Spec from a JSON file.
func ReadFile(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
