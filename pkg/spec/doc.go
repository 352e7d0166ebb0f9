// Package spec defines the canonical data model for the studio engine:
// positioned visual elements, the Spec document that contains them, and
// the shared typography defaults consulted by both editing defaults and
// the compositor.
//
// A Spec is either a layout (slots-only grid of placeholders), a module
// (a reusable content block), or an assembled page produced by the
// compositor. All three share one wire format:
//
//	{
//	  "version": 1,
//	  "canvas": {"w": 800, "h": 800, "unit": "pt"},
//	  "kind": "layout",
//	  "elements": [{"id": "...", "type": "Slot", "rect": {...}, "zIndex": 0, "props": {...}}]
//	}
//
// Element props are modeled as a tagged union: one variant struct per
// element type, selected by the element's Type during JSON decoding.
// Consumers switch exhaustively on the variant instead of probing
// optional fields.
//
// Coordinates are canvas-space with a top-left origin, in points.
// Elements with non-finite or non-positive dimensions are degenerate:
// they are excluded from bounding-box math but never rejected, since
// malformed legacy data must not block rendering of everything else.
package spec
