package compose

import (
	"fmt"

	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

// TextContent carries generated strings for one (slot, module) pair,
// consumed in element order per role.
type TextContent struct {
	Headers []string `json:"headers"`
	Titles  []string `json:"titles"`
	Bodies  []string `json:"bodies"`
}

// TextOverrides maps "{slotKey}|{moduleId}" to generated text. A nil or
// partial map falls back to deterministic placeholders per element.
type TextOverrides map[string]TextContent

// Key builds the override map key for a (slot, module) pair.
func Key(slotKey, moduleID string) string {
	return slotKey + "|" + moduleID
}

// defaultSlotFill is the container fill used when a BackgroundTexture
// carries no color of its own.
const defaultSlotFill = "#f0f0f0"

// Assemble composes one page: the layout's non-Slot elements pass through
// unchanged (same zIndex), followed by, for each mapped slot in the
// layout's slot order, the destination module's elements remapped into
// the slot rectangle. Every emitted element gets a fresh id prefixed with
// its owning slot key and a provenance tag, so slots sharing a module
// never collide.
//
// Assemble is deterministic given its inputs; text overrides are the only
// externally variable part.
func Assemble(layout spec.Spec, mapping Mapping, modules map[string]spec.Spec, text TextOverrides) spec.Spec {
	out := spec.Spec{
		Version: spec.Version,
		Canvas:  layout.Canvas,
	}
	for i := range layout.Elements {
		if layout.Elements[i].Type != spec.TypeSlot {
			out.Elements = append(out.Elements, layout.Elements[i])
		}
	}

	rects := layout.SlotRects()
	for _, slotKey := range layout.SlotKeys() {
		moduleID, ok := mapping[slotKey]
		if !ok {
			continue
		}
		rect := rects[slotKey]
		content := text[Key(slotKey, moduleID)]
		out.Elements = append(out.Elements, Place(slotKey, modules[moduleID], rect, content)...)
	}
	return out
}

// Place remaps a module's elements into the slot rect. Modules without
// any valid-area element get the synthesized placeholder instead, so
// every slot always renders something. The text-fill protocol also uses
// Place to learn the composed text geometry its character budgets are
// derived from.
func Place(slotKey string, module spec.Spec, slot spec.Rect, content TextContent) []spec.Element {
	bounds, ok := spec.Bounds(module.Elements)
	if !ok {
		return placeholderElements(slotKey, slot, content)
	}

	// Uniform scale from the module's content bounds, never its canvas:
	// editor-only empty margin must not affect composition. min() keeps
	// the aspect ratio; content is centered in the slot.
	scale := min(slot.W/bounds.W, slot.H/bounds.H)
	baseX := slot.X + (slot.W-bounds.W*scale)/2 - bounds.X*scale
	baseY := slot.Y + (slot.H-bounds.H*scale)/2 - bounds.Y*scale

	var counters roleCounters
	out := make([]spec.Element, 0, len(module.Elements))
	for i := range module.Elements {
		el := module.Elements[i]
		el.Rect = spec.Rect{
			X: baseX + el.Rect.X*scale,
			Y: baseY + el.Rect.Y*scale,
			W: el.Rect.W * scale,
			H: el.Rect.H * scale,
		}
		out = append(out, remapElement(el, slotKey, content, &counters))
	}
	return out
}

// roleCounters tracks how many elements of each text role have been
// emitted for one slot, so override strings are consumed in order.
type roleCounters struct {
	headers, titles, bodies int
}

// remapElement applies the per-type composition rules and stamps identity
// and provenance.
func remapElement(el spec.Element, slotKey string, content TextContent, counters *roleCounters) spec.Element {
	switch el.Type {
	case spec.TypeBackgroundTexture:
		// A texture must not tile across the whole page; demote it to a
		// container filling just the slot.
		fill := defaultSlotFill
		if p, ok := el.Props.(*spec.BackgroundTextureProps); ok && p.Fill != "" {
			fill = p.Fill
		}
		el.Type = spec.TypeContainer
		el.Props = &spec.ContainerProps{Fill: fill}

	case spec.TypeHeader, spec.TypeTitle, spec.TypeBodyText:
		el.Props = textProps(el.Type, overrideText(el.Type, content, counters))
	}

	el.ID = fmt.Sprintf("%s__%s", slotKey, el.ID)
	el.SlotKey = slotKey
	return el
}

// textProps builds the fixed composed typography for a text role,
// overriding whatever the module editor had.
func textProps(t spec.Type, text string) *spec.TextProps {
	style := spec.StyleFor(t)
	return &spec.TextProps{
		Text:       text,
		FontSize:   style.FontSize,
		LineHeight: style.LineHeight,
		Bold:       style.Bold,
	}
}

// overrideText consumes the next override string for the role, falling
// back to the deterministic placeholder when the override is missing or
// empty.
func overrideText(t spec.Type, content TextContent, counters *roleCounters) string {
	var (
		pool []string
		idx  *int
	)
	switch t {
	case spec.TypeHeader:
		pool, idx = content.Headers, &counters.headers
	case spec.TypeTitle:
		pool, idx = content.Titles, &counters.titles
	default:
		pool, idx = content.Bodies, &counters.bodies
	}
	i := *idx
	*idx = i + 1
	if i < len(pool) && pool[i] != "" {
		return pool[i]
	}
	return PlaceholderText(t, i)
}
