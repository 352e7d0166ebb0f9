package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mubarakmarafa/studio-style-creator/pkg/compose"
	"github.com/mubarakmarafa/studio-style-creator/pkg/errors"
	"github.com/mubarakmarafa/studio-style-creator/pkg/store"
)

// countCommand creates the count command for combination counting.
func (c *CLI) countCommand() *cobra.Command {
	var (
		layoutIDs []string
		pool      []string
	)

	cmd := &cobra.Command{
		Use:     "count",
		Aliases: []string{"enumerate"},
		Short:   "Count combinations for a layout and module selection",
		Long: `Count how many pages a selection would produce: the sum over the
selected layouts of pool-size to the power of each layout's slot
count. Incomplete selections report zero, not an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			src := store.NewSource(ctx, st)
			sel, err := compose.BuildSelection(layoutIDs, src.Lookup, pool)
			if err == nil {
				var total int64
				total, err = compose.Count(sel)
				if err == nil {
					fmt.Println(StyleNumber.Render(fmt.Sprintf("%d", total)))
					return nil
				}
			}
			if errors.IsValidation(err) {
				fmt.Println(StyleNumber.Render("0"))
				printDetail("%s", errors.UserMessage(err))
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&layoutIDs, "layouts", "l", nil, "layout spec ids (comma-separated)")
	cmd.Flags().StringSliceVarP(&pool, "pool", "p", nil, "module spec ids forming the pool")

	return cmd
}
