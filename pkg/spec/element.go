package spec

import (
	"encoding/json"
	"fmt"
	"math"
)

// =============================================================================
// Rect - Canvas Geometry
// =============================================================================

// Rect is an axis-aligned rectangle in canvas space (top-left origin, points).
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Valid reports whether the rect has finite coordinates and positive area.
// Degenerate rects are excluded from bounding-box computations.
func (r Rect) Valid() bool {
	for _, v := range [4]float64{r.X, r.Y, r.W, r.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.W > 0 && r.H > 0
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Contains reports whether other lies entirely within r, with a small
// tolerance for floating-point accumulation.
func (r Rect) Contains(other Rect) bool {
	const eps = 1e-6
	return other.X >= r.X-eps && other.Y >= r.Y-eps &&
		other.Right() <= r.Right()+eps && other.Bottom() <= r.Bottom()+eps
}

// =============================================================================
// Type - Element Kind Discriminator
// =============================================================================

// Type identifies the kind of a visual element and selects its props variant.
type Type string

// Element types. The set is closed: decoding an unknown type fails.
const (
	TypeBackgroundTexture Type = "BackgroundTexture"
	TypeContainer         Type = "Container"
	TypeGridLines         Type = "GridLines"
	TypePattern           Type = "Pattern"
	TypeHeader            Type = "Header"
	TypeTitle             Type = "Title"
	TypeBodyText          Type = "BodyText"
	TypeDivider           Type = "Divider"
	TypeSlot              Type = "Slot"
)

// Stackable reports whether the stack layout engine sizes and positions
// elements of this type. Everything else is legacy content that the engine
// leaves untouched.
func (t Type) Stackable() bool {
	switch t {
	case TypeHeader, TypeTitle, TypeBodyText, TypeDivider, TypePattern:
		return true
	}
	return false
}

// IsText reports whether the type carries user-visible text.
func (t Type) IsText() bool {
	return t == TypeHeader || t == TypeTitle || t == TypeBodyText
}

// Known reports whether t is one of the defined element types.
func (t Type) Known() bool {
	switch t {
	case TypeBackgroundTexture, TypeContainer, TypeGridLines, TypePattern,
		TypeHeader, TypeTitle, TypeBodyText, TypeDivider, TypeSlot:
		return true
	}
	return false
}

// =============================================================================
// Element
// =============================================================================

// Element is a single positioned visual primitive within a Spec.
//
// SlotKey is compositor provenance: when the compositor places a module's
// elements into a slot it tags every emitted element with the owning slot
// key. The field travels on the wire as a "__slotKey" entry inside props
// and renderers must ignore it.
type Element struct {
	ID      string
	Type    Type
	Rect    Rect
	Z       int
	Props   Props
	SlotKey string
}

// Preset returns the stack sizing preset carried by the element's props,
// or PresetFixed for variants that have none.
func (e *Element) Preset() SizePreset {
	switch p := e.Props.(type) {
	case *TextProps:
		return p.Preset.orFixed()
	case *DividerProps:
		return p.Preset.orFixed()
	case *PatternProps:
		return p.Preset.orFixed()
	}
	return PresetFixed
}

// wireElement is the JSON shadow of Element.
type wireElement struct {
	ID    string          `json:"id"`
	Type  Type            `json:"type"`
	Rect  Rect            `json:"rect"`
	Z     int             `json:"zIndex"`
	Props json.RawMessage `json:"props,omitempty"`
}

// slotKeyProp is the provenance key injected into the props map on the wire.
const slotKeyProp = "__slotKey"

// MarshalJSON serializes the element with its props variant flattened into
// an open props map, injecting the provenance key when set.
func (e Element) MarshalJSON() ([]byte, error) {
	props, err := marshalProps(e.Props, e.SlotKey)
	if err != nil {
		return nil, fmt.Errorf("element %s: %w", e.ID, err)
	}
	return json.Marshal(wireElement{
		ID:    e.ID,
		Type:  e.Type,
		Rect:  e.Rect,
		Z:     e.Z,
		Props: props,
	})
}

// UnmarshalJSON decodes the element, selecting the props variant from the
// element type and extracting the provenance key if present.
func (e *Element) UnmarshalJSON(data []byte) error {
	var w wireElement
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if !w.Type.Known() {
		return fmt.Errorf("element %s: unknown type %q", w.ID, w.Type)
	}
	props, slotKey, err := unmarshalProps(w.Type, w.Props)
	if err != nil {
		return fmt.Errorf("element %s: %w", w.ID, err)
	}
	*e = Element{
		ID:      w.ID,
		Type:    w.Type,
		Rect:    w.Rect,
		Z:       w.Z,
		Props:   props,
		SlotKey: slotKey,
	}
	return nil
}
