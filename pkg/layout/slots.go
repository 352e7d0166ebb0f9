package layout

import (
	"fmt"

	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

// Slot generator bounds. Out-of-range inputs are silently clamped, never
// rejected.
const (
	maxGridDim  = 64
	maxFlowItem = 5000
)

// DefaultSlotBase is the slot key base used when none is given.
const DefaultSlotBase = "slot"

// GridOptions configures a rows×cols slot grid.
type GridOptions struct {
	Padding float64
	Gap     float64
	Cols    int
	Rows    int
	Base    string // slot key base, DefaultSlotBase when empty
}

// FlowOptions configures a wrapping flow ("flex") of equally sized slots.
type FlowOptions struct {
	Padding   float64
	Gap       float64
	Count     int
	PerLine   int     // items per line; ignored (Count is used) when Wrap is false
	CrossSize float64 // item size on the cross axis
	Direction string  // "row" (default) or "column"
	Wrap      bool
	Base      string
}

// GridSlots produces a fresh row-major grid of Slot elements inside the
// canvas. Slot keys are "{base}_{i}" with a 1-based index and zIndex equals
// emission order.
func GridSlots(canvas spec.Canvas, opts GridOptions) []spec.Element {
	cols := clampInt(opts.Cols, 1, maxGridDim)
	rows := clampInt(opts.Rows, 1, maxGridDim)
	padding := max(0, opts.Padding)
	gap := max(0, opts.Gap)

	cellW := max(1, canvas.W-2*padding-gap*float64(cols-1)) / float64(cols)
	cellH := max(1, canvas.H-2*padding-gap*float64(rows-1)) / float64(rows)

	slots := make([]spec.Element, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			slots = append(slots, slotElement(base(opts.Base), len(slots), spec.Rect{
				X: padding + float64(c)*(cellW+gap),
				Y: padding + float64(r)*(cellH+gap),
				W: cellW,
				H: cellH,
			}))
		}
	}
	return slots
}

// FlowSlots produces a fresh flow arrangement of Slot elements. For row
// direction, items advance left-to-right and wrap to new lines; column
// direction swaps the roles of the two axes symmetrically.
func FlowSlots(canvas spec.Canvas, opts FlowOptions) []spec.Element {
	count := clampInt(opts.Count, 1, maxFlowItem)
	perLine := clampInt(opts.PerLine, 1, maxFlowItem)
	if !opts.Wrap {
		perLine = count
	}
	cross := clampFloat(opts.CrossSize, 1, maxFlowItem)
	padding := max(0, opts.Padding)
	gap := max(0, opts.Gap)

	mainSpan := canvas.W
	if opts.Direction == "column" {
		mainSpan = canvas.H
	}
	itemMain := max(1, mainSpan-2*padding-gap*float64(perLine-1)) / float64(perLine)

	slots := make([]spec.Element, 0, count)
	for i := 0; i < count; i++ {
		line := i / perLine
		col := i % perLine
		along := padding + float64(col)*(itemMain+gap)
		across := padding + float64(line)*(cross+gap)

		rect := spec.Rect{X: along, Y: across, W: itemMain, H: cross}
		if opts.Direction == "column" {
			rect = spec.Rect{X: across, Y: along, W: cross, H: itemMain}
		}
		slots = append(slots, slotElement(base(opts.Base), i, rect))
	}
	return slots
}

// ApplySlots returns a copy of s whose slots are replaced by the given
// list. For layouts all prior elements are discarded (layouts are
// slots-only); for modules the non-slot elements are preserved ahead of
// the new slots.
func ApplySlots(s spec.Spec, slots []spec.Element) spec.Spec {
	out := s
	out.Elements = nil
	if s.Kind == spec.KindModule {
		for i := range s.Elements {
			if s.Elements[i].Type != spec.TypeSlot {
				out.Elements = append(out.Elements, s.Elements[i])
			}
		}
	}
	out.Elements = append(out.Elements, slots...)
	return out
}

func slotElement(base string, idx int, rect spec.Rect) spec.Element {
	key := fmt.Sprintf("%s_%d", base, idx+1)
	return spec.Element{
		ID:    key,
		Type:  spec.TypeSlot,
		Rect:  rect,
		Z:     idx,
		Props: &spec.SlotProps{Key: key},
	}
}

func base(b string) string {
	if b == "" {
		return DefaultSlotBase
	}
	return b
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func clampFloat(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
