package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mubarakmarafa/studio-style-creator/pkg/layout"
	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

// fitCommand creates the fit command for auto-canvas computation.
func (c *CLI) fitCommand() *cobra.Command {
	var (
		apply  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "fit [file]",
		Short: "Compute the square auto-canvas for a module",
		Long: `Compute the smallest square canvas that contains a module's
elements with padding, plus the offset that positions the content
inside it.

By default the result is only printed. With --apply the canvas and
element rects are rewritten in place (or to --output).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := spec.ReadFile(args[0])
			if err != nil {
				return err
			}

			fit := layout.Fit(s.Elements, s.Canvas.W, s.ModuleAssist)

			printKeyValue("canvas", fmt.Sprintf("%.1f × %.1f %s", fit.W, fit.H, spec.UnitPoints))
			printKeyValue("offset", fmt.Sprintf("%.1f, %.1f", fit.DX, fit.DY))

			if !apply {
				return nil
			}

			s.Canvas.W, s.Canvas.H = fit.W, fit.H
			for i := range s.Elements {
				s.Elements[i].Rect.X += fit.DX
				s.Elements[i].Rect.Y += fit.DY
			}

			path := output
			if path == "" {
				path = args[0]
			}
			if err := spec.WriteFile(s, path); err != nil {
				return err
			}

			printSuccess("Applied auto-canvas")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "rewrite the spec with the fitted canvas")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")

	return cmd
}
