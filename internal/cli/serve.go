package cli

import (
	"github.com/spf13/cobra"

	"github.com/mubarakmarafa/studio-style-creator/internal/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the studio HTTP API server",
		Long: `Serve the spec store, combination counting, and the generation
pipeline over HTTP. The server shuts down gracefully on interrupt.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if addr != "" {
				c.cfg.Server.Addr = addr
			}

			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			srv := server.New(runner, st, c.cfg, c.Logger)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}
