package layout

import (
	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

// Stack layout constants, in points.
const (
	// StackPadding is the fixed padding on all four sides of the canvas.
	StackPadding = 24.0

	// StackGap is the fixed vertical gap between stacked elements.
	StackGap = 12.0

	// defaultFixedHeight is used for fixed-preset elements with a
	// degenerate stored height.
	defaultFixedHeight = 40.0
)

// Intrinsic heights for the fit preset.
const (
	fitHeaderHeight = 44.0
	fitTitleHeight  = 36.0
	fitTextHeight   = 72.0
)

// Stack lays out a spec's stackable elements (Header, Title, BodyText,
// Divider, Pattern) as a single top-down column inside the canvas, using
// the per-element sizing preset from props. Non-stackable elements pass
// through untouched. The result is sorted by zIndex (stable ties) and the
// input is never modified.
//
// Heights never go below 1, even when the column is over-constrained.
// Stack is idempotent: rerunning it on its own output with unchanged
// presets reproduces identical rectangles.
func Stack(elements []spec.Element, canvas spec.Canvas) []spec.Element {
	out := spec.SortByZ(elements)

	innerW := max(1, canvas.W-2*StackPadding)
	innerH := max(1, canvas.H-2*StackPadding)

	// First pass: resolve fixed and fit heights, count fill elements.
	type slot struct {
		idx    int
		height float64
		fill   bool
	}
	var stack []slot
	fixedSum := 0.0
	fillCount := 0
	for i := range out {
		el := &out[i]
		if !el.Type.Stackable() {
			continue
		}
		s := slot{idx: i}
		switch el.Preset() {
		case spec.PresetFill:
			s.fill = true
			fillCount++
		case spec.PresetFit:
			s.height = fitHeight(el, innerH)
			fixedSum += s.height
		default:
			s.height = fixedHeight(el)
			fixedSum += s.height
		}
		stack = append(stack, s)
	}
	if len(stack) == 0 {
		return out
	}

	// Second pass: distribute the remaining space across fill elements.
	gaps := StackGap * float64(len(stack)-1)
	if fillCount > 0 {
		fillH := max(1, (innerH-gaps-fixedSum)/float64(fillCount))
		for i := range stack {
			if stack[i].fill {
				stack[i].height = fillH
			}
		}
	}

	// Third pass: place top-down.
	y := StackPadding
	for _, s := range stack {
		out[s.idx].Rect = spec.Rect{
			X: StackPadding,
			Y: y,
			W: innerW,
			H: s.height,
		}
		y += s.height + StackGap
	}
	return out
}

// fixedHeight resolves the fixed preset: dividers use their thickness,
// everything else its stored height, floored at 1 with a default for
// degenerate values.
func fixedHeight(el *spec.Element) float64 {
	if d, ok := el.Props.(*spec.DividerProps); ok {
		return max(1, d.Thickness)
	}
	if el.Rect.H >= 1 {
		return el.Rect.H
	}
	return defaultFixedHeight
}

// fitHeight resolves the fit preset to a type-specific intrinsic height.
func fitHeight(el *spec.Element, innerH float64) float64 {
	switch el.Type {
	case spec.TypeDivider:
		if d, ok := el.Props.(*spec.DividerProps); ok {
			return max(1, d.Thickness)
		}
		return 1
	case spec.TypePattern:
		spacing := 0.0
		if p, ok := el.Props.(*spec.PatternProps); ok {
			spacing = p.Spacing
		}
		return clamp(spacing*6, 24, innerH)
	case spec.TypeHeader:
		return fitHeaderHeight
	case spec.TypeTitle:
		return fitTitleHeight
	default:
		return fitTextHeight
	}
}

// clamp limits v to [lo, hi]. When hi < lo the lower bound wins.
func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return min(max(v, lo), hi)
}
