package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/placerlab/placer/pkg/session"
	"github.com/placerlab/placer/pkg/solver"
	"github.com/placerlab/placer/pkg/store"
)

// storeCommand creates the document store command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage stored layouts and solver runs",
		Long: `Manage the document store.

The backend is chosen by [store] in the config file: a local SQLite
database (default), MongoDB, or a directory of JSON files.`,
	}

	cmd.AddCommand(c.storeSaveCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeGetCommand())
	cmd.AddCommand(c.storeRemoveCommand())
	cmd.AddCommand(c.storeRunsCommand())

	return cmd
}

func (c *CLI) storeSaveCommand() *cobra.Command {
	var name, id string

	cmd := &cobra.Command{
		Use:   "save [file]",
		Short: "Store a layout file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := c.readLayout(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = session.SlugFromPath(args[0])
			}
			rec, err := store.NewDocument(name, doc)
			if err != nil {
				return err
			}
			rec.ID = id

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if id != "" {
				if prev, err := st.GetDocument(ctx, id); err == nil {
					rec.CreatedAt = prev.CreatedAt
				}
			}
			if err := st.SaveDocument(ctx, rec); err != nil {
				return err
			}
			printSuccess(c.Out, "Stored %s", rec.Name)
			printKeyValue(c.Out, "ID", rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "document name (default: file name)")
	cmd.Flags().StringVar(&id, "id", "", "replace the document with this id")
	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			docs, err := st.ListDocuments(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(c.Out, docs)
			}
			if len(docs) == 0 {
				printInfo(c.Out, "No stored layouts")
				return nil
			}
			t := newTable("ID", "Name", "Devices", "Pins", "Nets", "Updated")
			for _, d := range docs {
				t.Row(d.ID, d.Name,
					fmt.Sprint(d.Stats.Devices),
					fmt.Sprint(d.Stats.Pins),
					fmt.Sprint(d.Stats.Nets),
					formatRelativeTime(d.UpdatedAt))
			}
			fmt.Fprintln(c.Out, t.Render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func (c *CLI) storeGetCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Write a stored layout to a file or stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.GetDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err := fmt.Fprint(c.Out, rec.Layout)
				return err
			}
			if err := os.WriteFile(output, []byte(rec.Layout), 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess(c.Out, "Wrote %s", rec.Name)
			printFile(c.Out, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *CLI) storeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [id]",
		Aliases: []string{"delete"},
		Short:   "Delete a stored layout and its runs",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.DeleteDocument(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess(c.Out, "Deleted %s", args[0])
			return nil
		},
	}
}

func (c *CLI) storeRunsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "runs [id]",
		Short: "List the solver runs recorded for a stored layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if _, err := st.GetDocument(cmd.Context(), args[0]); err != nil {
				return err
			}
			runs, err := st.ListRuns(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(c.Out, runs)
			}
			if len(runs) == 0 {
				printInfo(c.Out, "No runs recorded")
				return nil
			}
			t := newTable("Run", "Solver", "Result", "When")
			for _, r := range runs {
				t.Row(r.ID, r.Solver, runSummary(r.Rows), formatRelativeTime(r.CreatedAt))
			}
			fmt.Fprintln(c.Out, t.Render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

// runSummary condenses result rows to the Manhattan wirelength, the error
// message, or the first row.
func runSummary(rows []solver.Field) string {
	if msg, failed := solver.Failed(rows); failed {
		return StyleError.Render(msg)
	}
	if v, ok := solver.Lookup(rows, solver.KeyTWLManhattan); ok {
		return solver.KeyTWLManhattan + " " + v
	}
	if len(rows) > 0 {
		return rows[0].Key + " " + rows[0].Value
	}
	return "—"
}
