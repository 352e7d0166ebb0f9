package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mubarakmarafa/studio-style-creator/pkg/pipeline"
	"github.com/mubarakmarafa/studio-style-creator/pkg/render"
	"github.com/mubarakmarafa/studio-style-creator/pkg/render/sink"
	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file path (or base path for multiple formats)
	formats    []string // output formats: "svg", "pdf", "png", "json"
	pngScale   float64  // raster scale for PNG output
	background string   // page background color
	outlines   bool     // draw dashed outlines on unfilled slots
}

// renderCommand creates the render command for single spec files.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		formats:  []string{render.FormatSVG},
		pngScale: pipeline.DefaultPNGScale,
		outlines: true,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a spec file to SVG, PDF, PNG, or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", opts.formats, "output format(s): svg (default), json, pdf, png")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", opts.pngScale, "raster scale for PNG output")
	cmd.Flags().StringVar(&opts.background, "background", "", "page background color")
	cmd.Flags().BoolVar(&opts.outlines, "slot-outlines", opts.outlines, "draw dashed outlines on unfilled slots")

	return cmd
}

// runRender loads the spec and writes one file per requested format.
func (c *CLI) runRender(input string, opts *renderOpts) error {
	logger := c.Logger

	s, err := spec.ReadFile(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded spec: %d elements", len(s.Elements))

	var sinkOpts []sink.SVGOption
	if opts.background != "" {
		sinkOpts = append(sinkOpts, sink.WithBackground(opts.background))
	}
	if !opts.outlines {
		sinkOpts = append(sinkOpts, sink.WithoutSlotOutlines())
	}

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		data, err := render.Render(s, format, opts.pngScale, sinkOpts...)
		if err != nil {
			return err
		}
		logger.Debugf("Generated %s: %d bytes", format, len(data))

		path := base + "." + format
		if opts.output != "" && len(opts.formats) == 1 {
			path = opts.output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// A known format extension on either is stripped so multi-format runs can
// append their own.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if render.IsValidFormat(ext) {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}
