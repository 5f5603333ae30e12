// Package importcsv implements the CSV re-import command.
package importcsv

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/easyinterns/cmd/common"
)

// Command returns the import command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Re-import a previously exported CSV",
		Long:  `Loads an exported internships CSV back through the normalize and upsert path, refreshing last-seen timestamps on existing rows.`,
		Args:  cobra.ExactArgs(1),
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

			written, err := app.Pipeline.ImportCSV(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d rows from %s\n", written, args[0])
			return nil
		},
	}
}
