package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

// Default palette. Element props override these where they carry colors.
const (
	defaultTextColor    = "#111827"
	defaultDividerColor = "#111827"
	defaultGridColor    = "#e5e7eb"
	defaultPatternColor = "#d1d5db"
	slotOutlineColor    = "#9ca3af"
	slotLabelColor      = "#6b7280"

	fontFamily = "Helvetica, Arial, sans-serif"
)

// SVGOption configures the SVG renderer.
type SVGOption func(*svgRenderer)

// WithBackground fills the whole canvas with a color before any
// elements are drawn.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithoutSlotOutlines suppresses slot placeholder outlines. Composed
// pages have no slots left, but layout previews use the outlines.
func WithoutSlotOutlines() SVGOption {
	return func(r *svgRenderer) { r.hideSlots = true }
}

type svgRenderer struct {
	background string
	hideSlots  bool
}

// RenderSVG renders a page spec to SVG. Elements are drawn in ascending
// zIndex order; the input is not modified.
func RenderSVG(page spec.Spec, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		page.Canvas.W, page.Canvas.H, page.Canvas.W, page.Canvas.H)

	if r.background != "" {
		fmt.Fprintf(&buf, `<rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			page.Canvas.W, page.Canvas.H, escape(r.background))
	}

	for _, el := range spec.SortByZ(page.Elements) {
		if !el.Rect.Valid() {
			continue
		}
		r.renderElement(&buf, el)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderElement(buf *bytes.Buffer, el spec.Element) {
	switch el.Type {
	case spec.TypeContainer:
		renderContainer(buf, el)
	case spec.TypeBackgroundTexture:
		renderBackground(buf, el)
	case spec.TypeGridLines:
		renderGridLines(buf, el)
	case spec.TypePattern:
		renderPattern(buf, el)
	case spec.TypeHeader, spec.TypeTitle, spec.TypeBodyText:
		renderText(buf, el)
	case spec.TypeDivider:
		renderDivider(buf, el)
	case spec.TypeSlot:
		if !r.hideSlots {
			renderSlot(buf, el)
		}
	}
}

func renderContainer(buf *bytes.Buffer, el spec.Element) {
	fill, stroke, radius := "none", "", 0.0
	if p, ok := el.Props.(*spec.ContainerProps); ok {
		if p.Fill != "" {
			fill = p.Fill
		}
		stroke = p.Stroke
		radius = p.Radius
	}
	fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s"`,
		el.Rect.X, el.Rect.Y, el.Rect.W, el.Rect.H, radius, escape(fill))
	if stroke != "" {
		fmt.Fprintf(buf, ` stroke="%s" stroke-width="1"`, escape(stroke))
	}
	buf.WriteString("/>\n")
}

func renderBackground(buf *bytes.Buffer, el spec.Element) {
	fill := "#f0f0f0"
	if p, ok := el.Props.(*spec.BackgroundTextureProps); ok && p.Fill != "" {
		fill = p.Fill
	}
	fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		el.Rect.X, el.Rect.Y, el.Rect.W, el.Rect.H, escape(fill))
}

func renderGridLines(buf *bytes.Buffer, el spec.Element) {
	spacing, color := 24.0, defaultGridColor
	if p, ok := el.Props.(*spec.GridLinesProps); ok {
		if p.Spacing > 0 {
			spacing = p.Spacing
		}
		if p.Color != "" {
			color = p.Color
		}
	}
	fmt.Fprintf(buf, `<g stroke="%s" stroke-width="1">`+"\n", escape(color))
	for x := el.Rect.X + spacing; x < el.Rect.Right(); x += spacing {
		fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
			x, el.Rect.Y, x, el.Rect.Bottom())
	}
	for y := el.Rect.Y + spacing; y < el.Rect.Bottom(); y += spacing {
		fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
			el.Rect.X, y, el.Rect.Right(), y)
	}
	buf.WriteString("</g>\n")
}

func renderPattern(buf *bytes.Buffer, el spec.Element) {
	kind, spacing, color := "dots", 12.0, defaultPatternColor
	if p, ok := el.Props.(*spec.PatternProps); ok {
		if p.Kind != "" {
			kind = p.Kind
		}
		if p.Spacing > 0 {
			spacing = p.Spacing
		}
		if p.Color != "" {
			color = p.Color
		}
	}
	switch kind {
	case "stripes":
		fmt.Fprintf(buf, `<g stroke="%s" stroke-width="2">`+"\n", escape(color))
		for x := el.Rect.X; x < el.Rect.Right(); x += spacing {
			fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
				x, el.Rect.Y, x, el.Rect.Bottom())
		}
		buf.WriteString("</g>\n")
	default:
		fmt.Fprintf(buf, `<g fill="%s">`+"\n", escape(color))
		for y := el.Rect.Y + spacing/2; y < el.Rect.Bottom(); y += spacing {
			for x := el.Rect.X + spacing/2; x < el.Rect.Right(); x += spacing {
				fmt.Fprintf(buf, `<circle cx="%.1f" cy="%.1f" r="1.5"/>`+"\n", x, y)
			}
		}
		buf.WriteString("</g>\n")
	}
}

// renderText draws a text role anchored at the top-left of its rect.
// Long strings are wrapped into tspan lines by an approximate character
// budget; overflow past the rect is clipped by the reader, not here.
func renderText(buf *bytes.Buffer, el spec.Element) {
	style := spec.StyleFor(el.Type)
	text, color := "", defaultTextColor
	if p, ok := el.Props.(*spec.TextProps); ok {
		text = p.Text
		if p.FontSize > 0 {
			style.FontSize = p.FontSize
		}
		if p.LineHeight > 0 {
			style.LineHeight = p.LineHeight
		}
		style.Bold = p.Bold
		if p.Color != "" {
			color = p.Color
		}
	}
	weight := "400"
	if style.Bold {
		weight = "700"
	}

	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-family="%s" font-size="%.1f" font-weight="%s" fill="%s">`,
		el.Rect.X, el.Rect.Y, fontFamily, style.FontSize, weight, escape(color))
	lineStep := style.FontSize * style.LineHeight
	for i, line := range wrapText(text, el.Rect.W, style.FontSize) {
		fmt.Fprintf(buf, `<tspan x="%.1f" dy="%.1f">%s</tspan>`,
			el.Rect.X, tspanStep(i, style.FontSize, lineStep), escape(line))
	}
	buf.WriteString("</text>\n")
}

// tspanStep returns the dy for line i: the first line drops one font
// size below the top edge (text baselines sit below y), following lines
// advance by the line height.
func tspanStep(i int, fontSize, lineStep float64) float64 {
	if i == 0 {
		return fontSize
	}
	return lineStep
}

func renderDivider(buf *bytes.Buffer, el spec.Element) {
	color := defaultDividerColor
	if p, ok := el.Props.(*spec.DividerProps); ok && p.Color != "" {
		color = p.Color
	}
	fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		el.Rect.X, el.Rect.Y, el.Rect.W, el.Rect.H, escape(color))
}

func renderSlot(buf *bytes.Buffer, el spec.Element) {
	label := ""
	if p, ok := el.Props.(*spec.SlotProps); ok {
		label = p.Key
		if p.Label != "" {
			label = p.Label
		}
	}
	fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-width="1.5" stroke-dasharray="6 4"/>`+"\n",
		el.Rect.X, el.Rect.Y, el.Rect.W, el.Rect.H, slotOutlineColor)
	if label != "" {
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-family="%s" font-size="11" fill="%s">%s</text>`+"\n",
			el.Rect.X+6, el.Rect.Y+15, fontFamily, slotLabelColor, escape(label))
	}
}

// wrapText splits text into lines that fit the width at the given font
// size, breaking on spaces. Words longer than a line stand alone.
func wrapText(text string, width, fontSize float64) []string {
	perLine := int(width / (fontSize * 0.55))
	if perLine < 1 {
		perLine = 1
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > perLine {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
