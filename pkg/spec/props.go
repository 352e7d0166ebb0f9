package spec

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// SizePreset - Stack Sizing Intent
// =============================================================================

// SizePreset declares how the stack layout engine sizes an element.
type SizePreset string

// Sizing presets. An empty preset means fixed.
const (
	PresetFixed SizePreset = "fixed" // use the element's own height
	PresetFit   SizePreset = "fit"   // use the type's intrinsic height
	PresetFill  SizePreset = "fill"  // share the remaining vertical space
)

func (p SizePreset) orFixed() SizePreset {
	if p == PresetFit || p == PresetFill {
		return p
	}
	return PresetFixed
}

// =============================================================================
// Props - Tagged Union
// =============================================================================

// Props is the per-type payload of an element. Exactly one variant exists
// per element type; consumers switch on the concrete type.
type Props interface {
	isProps()
}

// TextProps is the variant for Header, Title, and BodyText elements.
type TextProps struct {
	Text       string     `json:"text,omitempty"`
	FontSize   float64    `json:"fontSize,omitempty"`
	LineHeight float64    `json:"lineHeight,omitempty"`
	Bold       bool       `json:"bold,omitempty"`
	Color      string     `json:"color,omitempty"`
	Preset     SizePreset `json:"layoutPreset,omitempty"`
}

// DividerProps is the variant for Divider elements.
type DividerProps struct {
	Thickness float64    `json:"thickness,omitempty"`
	Color     string     `json:"color,omitempty"`
	Preset    SizePreset `json:"layoutPreset,omitempty"`
}

// PatternProps is the variant for Pattern elements.
type PatternProps struct {
	Kind    string     `json:"kind,omitempty"` // "dots" or "stripes"
	Spacing float64    `json:"spacing,omitempty"`
	Color   string     `json:"color,omitempty"`
	Preset  SizePreset `json:"layoutPreset,omitempty"`
}

// SlotProps is the variant for Slot elements.
type SlotProps struct {
	Key   string `json:"slotKey,omitempty"`
	Label string `json:"label,omitempty"`
}

// ContainerProps is the variant for Container elements.
type ContainerProps struct {
	Fill   string  `json:"fill,omitempty"`
	Stroke string  `json:"stroke,omitempty"`
	Radius float64 `json:"radius,omitempty"`
}

// GridLinesProps is the variant for GridLines elements.
type GridLinesProps struct {
	Spacing float64 `json:"spacing,omitempty"`
	Color   string  `json:"color,omitempty"`
}

// BackgroundTextureProps is the variant for BackgroundTexture elements.
type BackgroundTextureProps struct {
	Fill    string  `json:"fill,omitempty"`
	Texture string  `json:"texture,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

func (*TextProps) isProps()              {}
func (*DividerProps) isProps()           {}
func (*PatternProps) isProps()           {}
func (*SlotProps) isProps()              {}
func (*ContainerProps) isProps()         {}
func (*GridLinesProps) isProps()         {}
func (*BackgroundTextureProps) isProps() {}

// NewProps returns the zero props variant for an element type.
func NewProps(t Type) Props {
	switch t {
	case TypeHeader, TypeTitle, TypeBodyText:
		return &TextProps{}
	case TypeDivider:
		return &DividerProps{}
	case TypePattern:
		return &PatternProps{}
	case TypeSlot:
		return &SlotProps{}
	case TypeContainer:
		return &ContainerProps{}
	case TypeGridLines:
		return &GridLinesProps{}
	case TypeBackgroundTexture:
		return &BackgroundTextureProps{}
	}
	return nil
}

// marshalProps flattens a variant into a raw JSON object, injecting the
// provenance slot key when non-empty.
func marshalProps(p Props, slotKey string) (json.RawMessage, error) {
	if p == nil && slotKey == "" {
		return json.RawMessage(`{}`), nil
	}

	m := map[string]any{}
	if p != nil {
		data, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("marshal props: %w", err)
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("flatten props: %w", err)
		}
	}
	if slotKey != "" {
		m[slotKeyProp] = slotKey
	}
	return json.Marshal(m)
}

// unmarshalProps decodes the raw props object into the variant selected by
// the element type and extracts the provenance key. Unknown keys are
// ignored, matching the open props map on the wire.
func unmarshalProps(t Type, raw json.RawMessage) (Props, string, error) {
	p := NewProps(t)
	if len(raw) == 0 {
		return p, "", nil
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, "", fmt.Errorf("decode %s props: %w", t, err)
	}

	// The provenance key is not part of any variant; fish it out separately.
	var keyed struct {
		SlotKey string `json:"__slotKey"`
	}
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, "", fmt.Errorf("decode %s props: %w", t, err)
	}
	return p, keyed.SlotKey, nil
}
