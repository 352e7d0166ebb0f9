package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mubarakmarafa/studio-style-creator/pkg/layout"
	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

// Slot generator modes.
const (
	modeGrid = "grid"
	modeFlex = "flex"
)

// slotsOpts holds the command-line flags for the slots command.
type slotsOpts struct {
	output    string
	mode      string  // "grid" or "flex"
	padding   float64 // canvas padding around the slots
	gap       float64 // spacing between slots
	cols      int     // grid columns
	rows      int     // grid rows
	count     int     // flex item count
	perLine   int     // flex items per line (only with --wrap)
	crossSize float64 // flex cross-axis item size
	direction string  // flex main axis: "row" or "column"
	wrap      bool
	base      string // slot key base
}

// slotsCommand creates the slots command for regenerating a layout's slots.
func (c *CLI) slotsCommand() *cobra.Command {
	opts := slotsOpts{
		mode:      modeGrid,
		padding:   24,
		gap:       12,
		cols:      2,
		rows:      2,
		count:     4,
		perLine:   2,
		crossSize: 120,
		direction: "row",
	}

	cmd := &cobra.Command{
		Use:   "slots [file]",
		Short: "Regenerate a layout's slot elements",
		Long: `Replace a layout's slots with a freshly generated grid or flex
arrangement. Out-of-range dimensions are clamped, never rejected.

For layouts all existing elements are replaced; for modules the
non-slot elements are kept and the new slots appended.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.mode != modeGrid && opts.mode != modeFlex {
				return fmt.Errorf("invalid mode: %s (must be %q or %q)", opts.mode, modeGrid, modeFlex)
			}

			s, err := spec.ReadFile(args[0])
			if err != nil {
				return err
			}

			slots := buildSlots(s.Canvas, &opts)
			s = layout.ApplySlots(s, slots)
			s.LayoutAssist = assistFromOpts(&opts)

			path := opts.output
			if path == "" {
				path = args[0]
			}
			if err := spec.WriteFile(s, path); err != nil {
				return err
			}

			printSuccess("Generated %d %s slots", len(slots), opts.mode)
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", opts.mode, "generator mode: grid (default), flex")
	cmd.Flags().Float64Var(&opts.padding, "padding", opts.padding, "padding around the slot area")
	cmd.Flags().Float64Var(&opts.gap, "gap", opts.gap, "gap between slots")
	cmd.Flags().IntVar(&opts.cols, "cols", opts.cols, "grid columns")
	cmd.Flags().IntVar(&opts.rows, "rows", opts.rows, "grid rows")
	cmd.Flags().IntVar(&opts.count, "count", opts.count, "flex item count")
	cmd.Flags().IntVar(&opts.perLine, "per-line", opts.perLine, "flex items per line (with --wrap)")
	cmd.Flags().Float64Var(&opts.crossSize, "cross-size", opts.crossSize, "flex cross-axis item size")
	cmd.Flags().StringVar(&opts.direction, "direction", opts.direction, "flex direction: row (default), column")
	cmd.Flags().BoolVar(&opts.wrap, "wrap", false, "wrap flex items onto new lines")
	cmd.Flags().StringVar(&opts.base, "base", "", "slot key base (default \"slot\")")

	return cmd
}

// buildSlots dispatches to the grid or flex generator.
func buildSlots(canvas spec.Canvas, opts *slotsOpts) []spec.Element {
	if opts.mode == modeFlex {
		return layout.FlowSlots(canvas, layout.FlowOptions{
			Padding:   opts.padding,
			Gap:       opts.gap,
			Count:     opts.count,
			PerLine:   opts.perLine,
			CrossSize: opts.crossSize,
			Direction: opts.direction,
			Wrap:      opts.wrap,
			Base:      opts.base,
		})
	}
	return layout.GridSlots(canvas, layout.GridOptions{
		Padding: opts.padding,
		Gap:     opts.gap,
		Cols:    opts.cols,
		Rows:    opts.rows,
		Base:    opts.base,
	})
}

// assistFromOpts records the generator settings on the spec so the layout
// can be regenerated from its own parameters later.
func assistFromOpts(opts *slotsOpts) *spec.LayoutAssist {
	return &spec.LayoutAssist{
		Mode:      opts.mode,
		Padding:   opts.padding,
		Gap:       opts.gap,
		Cols:      opts.cols,
		Rows:      opts.rows,
		Count:     opts.count,
		PerLine:   opts.perLine,
		CrossSize: opts.crossSize,
		Direction: opts.direction,
		Wrap:      opts.wrap,
	}
}
