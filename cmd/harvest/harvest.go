// Package harvest implements the contact email harvesting command.
package harvest

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/easyinterns/cmd/common"
	"github.com/jonesrussell/easyinterns/internal/export"
)

// Command returns the harvest command.
func Command() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Harvest contact emails for top-ranked internships",
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

			n := top
			if n <= 0 {
				n = app.Config.Pipeline.HarvestTop
			}

			contacts, err := app.Pipeline.HarvestTop(ctx, n)
			if err != nil {
				return err
			}
			fmt.Printf("Harvested %d contact emails from the top %d internships\n", len(contacts), n)

			if len(contacts) > 0 {
				exporter := export.NewContactsExporter(app.Config.Pipeline.ExportDir, app.Logger)
				path, exportErr := exporter.ExportCSV(contacts)
				if exportErr != nil {
					return exportErr
				}
				fmt.Printf("Wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 0, "number of internships to harvest (default from config)")
	return cmd
}
