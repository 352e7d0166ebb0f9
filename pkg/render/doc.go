// Package render turns composed page specs into deliverable artifacts.
//
// # Overview
//
// The [sink] subpackage renders a spec to SVG or canonical JSON. This
// package adds generic format conversion on top:
//
//   - SVG to PDF/PNG via the external rsvg-convert tool (from librsvg)
//   - Format name validation shared by CLI and server
//
//	svg := sink.RenderSVG(page)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [sink]: github.com/mubarakmarafa/studio-style-creator/pkg/render/sink
package render
