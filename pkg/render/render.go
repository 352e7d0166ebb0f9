package render

import (
	"github.com/mubarakmarafa/studio-style-creator/pkg/errors"
	"github.com/mubarakmarafa/studio-style-creator/pkg/render/sink"
	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

// Supported output formats.
const (
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats lists the supported output formats in canonical order.
var ValidFormats = []string{FormatSVG, FormatPDF, FormatPNG, FormatJSON}

// IsValidFormat reports whether name is a supported output format.
func IsValidFormat(name string) bool {
	for _, f := range ValidFormats {
		if f == name {
			return true
		}
	}
	return false
}

// Render produces one artifact for the page in the given format.
// pngScale only applies to PNG output; pass 1.0 for native resolution.
func Render(page spec.Spec, format string, pngScale float64, opts ...sink.SVGOption) ([]byte, error) {
	switch format {
	case FormatJSON:
		return sink.RenderJSON(page)
	case FormatSVG:
		return sink.RenderSVG(page, opts...), nil
	case FormatPDF:
		return ToPDF(sink.RenderSVG(page, opts...))
	case FormatPNG:
		if pngScale <= 0 {
			pngScale = 1.0
		}
		return ToPNG(sink.RenderSVG(page, opts...), pngScale)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}
