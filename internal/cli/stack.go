package cli

import (
	"github.com/spf13/cobra"

	"github.com/mubarakmarafa/studio-style-creator/pkg/layout"
	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

// stackCommand creates the stack command for vertical module layout.
func (c *CLI) stackCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stack [file]",
		Short: "Restack a module's elements vertically",
		Long: `Recompute the vertical stack layout of a module spec file.

Elements carrying stack sizing hints are repositioned top to bottom
inside the canvas padding; fill elements share the remaining height.
Elements without hints keep their authored rects.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := c.Logger

			s, err := spec.ReadFile(args[0])
			if err != nil {
				return err
			}

			p := newProgress(logger)
			s.Elements = layout.Stack(s.Elements, s.Canvas)
			p.done("Stacked " + args[0])

			path := output
			if path == "" {
				path = args[0]
			}
			if err := spec.WriteFile(s, path); err != nil {
				return err
			}

			printSuccess("Stacked %d elements", len(s.Elements))
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")

	return cmd
}
