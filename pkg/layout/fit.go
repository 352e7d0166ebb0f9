package layout

import (
	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

// Auto-canvas constants, in points.
const (
	// FitMinSize is the smallest square canvas the fitter returns.
	FitMinSize = 520.0

	// FitPad is the guaranteed margin around content on the tightest axis.
	FitPad = 48.0
)

// FitResult describes a square virtual canvas and the translation to apply
// to every element so that content sits inside it. The fitter never moves
// elements itself; renderers apply DX/DY as an affine offset.
type FitResult struct {
	W  float64 `json:"w"`
	H  float64 `json:"h"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Fit computes the square bounding canvas for a module's elements and the
// centering (or edge-aligning, per assist) offset. Elements with degenerate
// rects are excluded from the bounding box. When nothing qualifies, the
// canvas falls back to max(FitMinSize, defaultW) with fixed padding offsets.
func Fit(elements []spec.Element, defaultW float64, assist *spec.ModuleAssist) FitResult {
	bounds, ok := spec.Bounds(elements)
	if !ok {
		size := max(FitMinSize, defaultW)
		return FitResult{W: size, H: size, DX: FitPad, DY: FitPad}
	}

	size := max(FitMinSize, bounds.W+2*FitPad, bounds.H+2*FitPad)

	alignX, alignY := "center", "center"
	if assist != nil {
		if assist.AlignX != "" {
			alignX = assist.AlignX
		}
		if assist.AlignY != "" {
			alignY = assist.AlignY
		}
	}

	return FitResult{
		W:  size,
		H:  size,
		DX: alignOffset(alignX, "left", "right", bounds.X, bounds.W, size),
		DY: alignOffset(alignY, "top", "bottom", bounds.Y, bounds.H, size),
	}
}

// alignOffset computes the translation that anchors a bbox span of length
// extent (starting at origin) inside size: near edge at FitPad, far edge at
// size-FitPad, or centered.
func alignOffset(mode, near, far string, origin, extent, size float64) float64 {
	switch mode {
	case near:
		return FitPad - origin
	case far:
		return size - FitPad - extent - origin
	default: // center
		return (size-extent)/2 - origin
	}
}
