package cli

import (
	"github.com/spf13/cobra"

	"github.com/placerlab/placer/internal/server"
	"github.com/placerlab/placer/pkg/store"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noStore bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver, render and document API over HTTP",
		Long: `Start the HTTP API.

Solvers, the cache and the document store come from the same config as
the other commands. Stop the server with Ctrl+C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			ws, cleanup, err := c.newWorkspace(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var st store.Store
			if !noStore {
				st, err = c.openStore(ctx)
				if err != nil {
					return err
				}
				defer st.Close()
				c.Logger.Info("document store", "backend", cfg.Store.Backend)
			}

			printInfo(c.Out, "Serving on http://%s", addr)
			printDetail(c.Out, "Solvers: %v", ws.Registry().Names())
			return server.New(ws, st, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "disable the document routes")
	return cmd
}
