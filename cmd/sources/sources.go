// Package sources implements the source listing command.
package sources

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/easyinterns/cmd/common"
)

// Command returns the sources command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List configured scrape sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewDeps()
			if err != nil {
				return err
			}

			ctx := common.WaitForInterrupt(cmd.Context())
			app, err := common.NewApp(ctx, deps)
			if err != nil {
				return err
			}
			defer app.Close()

			counts, err := app.Internships.SourceCounts(ctx)
			if err != nil {
				app.Logger.Warn("Source counts unavailable", "error", err)
				counts = map[string]int{}
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Name", "Enabled", "Flagged", "Stored Rows", "Description"})
			for _, info := range app.Registry.List() {
				t.AppendRow(table.Row{
					info.Name,
					info.Enabled,
					info.FeatureFlag,
					counts[info.Name],
					info.Description,
				})
			}
			t.Render()
			return nil
		},
	}
}
