package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
	"github.com/mubarakmarafa/studio-style-creator/pkg/store"
)

// specsCommand creates the specs command group for the spec store.
func (c *CLI) specsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specs",
		Short: "Manage stored layout and module specs",
	}

	cmd.AddCommand(c.specsListCommand())
	cmd.AddCommand(c.specsAddCommand())
	cmd.AddCommand(c.specsShowCommand())
	cmd.AddCommand(c.specsDeleteCommand())

	return cmd
}

// specsListCommand creates the "specs list" subcommand.
func (c *CLI) specsListCommand() *cobra.Command {
	var (
		kind  string
		owner string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored specs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			records, err := st.List(ctx, store.Filter{Kind: spec.Kind(kind), Owner: owner})
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("No specs stored")
				return nil
			}

			for _, r := range records {
				fmt.Printf("%s  %-8s %-20s %s\n",
					StyleDim.Render(r.ID),
					r.Kind,
					StyleValue.Render(r.Name),
					StyleDim.Render(formatRelativeTime(r.UpdatedAt)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "filter by kind: layout, module")
	cmd.Flags().StringVar(&owner, "owner", "", "filter by owner")

	return cmd
}

// specsAddCommand creates the "specs add" subcommand.
func (c *CLI) specsAddCommand() *cobra.Command {
	var (
		name  string
		owner string
	)

	cmd := &cobra.Command{
		Use:   "add [file]",
		Short: "Store a spec file as a layout or module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := spec.ReadFile(args[0])
			if err != nil {
				return err
			}
			if s.Kind != spec.KindLayout && s.Kind != spec.KindModule {
				return fmt.Errorf("spec kind must be %q or %q", spec.KindLayout, spec.KindModule)
			}
			if name == "" {
				name = args[0]
			}

			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			rec := store.NewRecord(s.Kind, name, owner, s)
			if err := st.Put(ctx, rec); err != nil {
				return err
			}

			printSuccess("Stored %s %q", rec.Kind, rec.Name)
			printDetail("id: %s", rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "display name (default: file path)")
	cmd.Flags().StringVar(&owner, "owner", "", "owner tag")

	return cmd
}

// specsShowCommand creates the "specs show" subcommand. Without an id it
// opens an interactive picker.
func (c *CLI) specsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Print a stored spec as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			var rec *store.Record
			if len(args) == 1 {
				rec, err = st.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if rec == nil {
					return fmt.Errorf("spec %q not found", args[0])
				}
			} else {
				records, err := st.List(ctx, store.Filter{})
				if err != nil {
					return err
				}
				rec, err = pickSpec(records)
				if err != nil {
					return err
				}
				if rec == nil {
					printInfo("Nothing selected")
					return nil
				}
			}

			data, err := spec.Marshal(rec.Spec)
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

// specsDeleteCommand creates the "specs delete" subcommand.
func (c *CLI) specsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a stored spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			if err := st.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}
