package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mubarakmarafa/studio-style-creator/pkg/pipeline"
	"github.com/mubarakmarafa/studio-style-creator/pkg/store"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	layoutIDs  []string
	pool       []string
	cap        int
	topic      string
	model      string
	skipText   bool
	formats    []string
	pngScale   float64
	background string
	output     string
	refresh    bool
	noCache    bool
}

// generateCommand creates the generate command for the full pipeline run.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{
		formats:  []string{"svg"},
		pngScale: pipeline.DefaultPNGScale,
		output:   "out",
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Enumerate, fill, and render pages for a selection",
		Long: `Run the full generation pipeline: enumerate the combination
window, generate copy for every slot (or fall back to placeholders),
compose each page, and write rendered artifacts to the output
directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags win over config; config wins over built-in defaults.
			if opts.cap == 0 {
				opts.cap = c.cfg.Generate.Cap
			}
			if !cmd.Flags().Changed("format") && len(c.cfg.Generate.Formats) > 0 {
				opts.formats = c.cfg.Generate.Formats
			}
			if !cmd.Flags().Changed("png-scale") && c.cfg.Generate.PNGScale > 0 {
				opts.pngScale = c.cfg.Generate.PNGScale
			}
			if opts.background == "" {
				opts.background = c.cfg.Generate.Background
			}
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runGenerate(cmd, &opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.layoutIDs, "layouts", "l", nil, "layout spec ids (comma-separated)")
	cmd.Flags().StringSliceVarP(&opts.pool, "pool", "p", nil, "module spec ids forming the pool")
	cmd.Flags().IntVar(&opts.cap, "cap", 0, "combination window size (default 40)")
	cmd.Flags().StringVar(&opts.topic, "topic", "", "topic for generated copy")
	cmd.Flags().StringVar(&opts.model, "model", "", "text generation model (default from config)")
	cmd.Flags().BoolVar(&opts.skipText, "skip-text", false, "keep placeholder copy, skip text generation")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", opts.formats, "output format(s): svg (default), json, pdf, png")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", opts.pngScale, "raster scale for PNG output")
	cmd.Flags().StringVar(&opts.background, "background", "", "page background color")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached results")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the cache entirely")

	return cmd
}

// runGenerate executes the pipeline and writes artifacts to disk.
func (c *CLI) runGenerate(cmd *cobra.Command, opts *generateOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	model := opts.model
	if model == "" {
		model = c.cfg.Text.Model
	}

	spinner := newSpinnerWithContext(ctx, "Generating pages")
	spinner.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		LayoutIDs:  opts.layoutIDs,
		Pool:       opts.pool,
		Cap:        opts.cap,
		Refresh:    opts.refresh,
		Topic:      opts.topic,
		Model:      model,
		SkipText:   opts.skipText,
		Formats:    opts.formats,
		PNGScale:   opts.pngScale,
		Background: opts.background,
		Source:     store.NewSource(ctx, st),
		TextClient: c.newTextClient(),
		Logger:     c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	if result.Text.Fallback {
		printWarning("%s", result.Text.Notice)
	}

	written, err := writeArtifacts(opts.output, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Generated %d pages", len(result.Combinations))
	printStats(len(result.Combinations), result.Count, result.CacheInfo.RenderHit)
	for _, path := range written {
		printFile(path)
	}
	if len(written) > 0 {
		printNewline()
		printNextStep("Inspect a page", "open "+written[0])
	}
	return nil
}

// writeArtifacts writes each combination's artifacts as page_NNN.format
// files under dir. It returns the written paths in page order.
func writeArtifacts(dir string, artifacts []map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	for i, formats := range artifacts {
		for format, data := range formats {
			path := filepath.Join(dir, fmt.Sprintf("page_%03d.%s", i+1, strings.ToLower(format)))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return nil, err
			}
			written = append(written, path)
		}
	}
	return written, nil
}
