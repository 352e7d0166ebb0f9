package compose

import (
	"fmt"

	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

// Placeholder slot padding bounds, in points.
const (
	placeholderPadRatio = 0.06
	placeholderPadMin   = 6.0
	placeholderPadMax   = 18.0

	placeholderDividerThickness = 2.0
)

// placeholderBody is the deterministic body copy used when no generated
// text is available.
const placeholderBody = "Body copy goes here. Replace with generated or authored content."

// PlaceholderText returns the deterministic fallback string for a text
// role. The index distinguishes repeated elements of the same role within
// one slot.
func PlaceholderText(t spec.Type, i int) string {
	suffix := ""
	if i > 0 {
		suffix = fmt.Sprintf(" %d", i+1)
	}
	switch t {
	case spec.TypeHeader:
		return "Sample Header" + suffix
	case spec.TypeTitle:
		return "Sample Title" + suffix
	default:
		return placeholderBody
	}
}

// ExpectedRoles returns how many header/title/body strings a module needs
// when placed in a slot. Modules without any valid-area element report
// the synthesized placeholder's shape: one header and one body.
func ExpectedRoles(module spec.Spec) (headers, titles, bodies int) {
	if _, ok := spec.Bounds(module.Elements); !ok {
		return 1, 0, 1
	}
	for i := range module.Elements {
		switch module.Elements[i].Type {
		case spec.TypeHeader:
			headers++
		case spec.TypeTitle:
			titles++
		case spec.TypeBodyText:
			bodies++
		}
	}
	return headers, titles, bodies
}

// placeholderElements synthesizes the minimal header/divider/body trio for
// an empty module, sized from the slot rect with proportional padding.
// Every synthesized element stays inside the slot bounds.
func placeholderElements(slotKey string, slot spec.Rect, content TextContent) []spec.Element {
	pad := clamp(min(slot.W, slot.H)*placeholderPadRatio, placeholderPadMin, placeholderPadMax)
	gap := pad / 2

	innerX := slot.X + pad
	innerW := max(1, slot.W-2*pad)
	innerTop := slot.Y + pad
	innerBottom := slot.Bottom() - pad

	headerH := min(44, max(1, (innerBottom-innerTop)*0.3))
	dividerY := innerTop + headerH + gap
	bodyY := dividerY + placeholderDividerThickness + gap
	bodyH := max(1, innerBottom-bodyY)

	var counters roleCounters
	return []spec.Element{
		{
			ID:      slotKey + "__ph_header",
			Type:    spec.TypeHeader,
			Rect:    spec.Rect{X: innerX, Y: innerTop, W: innerW, H: headerH},
			Z:       0,
			Props:   textProps(spec.TypeHeader, overrideText(spec.TypeHeader, content, &counters)),
			SlotKey: slotKey,
		},
		{
			ID:      slotKey + "__ph_divider",
			Type:    spec.TypeDivider,
			Rect:    spec.Rect{X: innerX, Y: dividerY, W: innerW, H: placeholderDividerThickness},
			Z:       1,
			Props:   &spec.DividerProps{Thickness: placeholderDividerThickness},
			SlotKey: slotKey,
		},
		{
			ID:      slotKey + "__ph_body",
			Type:    spec.TypeBodyText,
			Rect:    spec.Rect{X: innerX, Y: bodyY, W: innerW, H: bodyH},
			Z:       2,
			Props:   textProps(spec.TypeBodyText, overrideText(spec.TypeBodyText, content, &counters)),
			SlotKey: slotKey,
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return min(max(v, lo), hi)
}
