// Package scrape implements the one-shot scrape command.
package scrape

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/easyinterns/cmd/common"
)

// Command returns the scrape command.
func Command() *cobra.Command {
	var (
		query      string
		location   string
		maxResults int
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run one full aggregation pass",
		Long:  `Scrapes every enabled source, scores and persists the results, and writes the CSV export.`,
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

			q := app.Query()
			if query != "" {
				q.Query = query
			}
			if location != "" {
				q.Location = location
			}
			if maxResults > 0 {
				q.MaxResults = maxResults
			}

			result, err := app.Pipeline.Run(ctx, q)
			if err != nil {
				return err
			}

			fmt.Printf("Run %s finished in %s\n", result.RunID, result.Duration.Round(10*time.Millisecond))
			fmt.Printf("scraped: %d  unique: %d  written: %d  retired: %d\n",
				result.Scraped, result.Unique, result.Written, result.Retired)

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Source", "Postings", "Duration", "Error"})
			for _, src := range result.Sources {
				errText := ""
				if src.Err != nil {
					errText = src.Err.Error()
				}
				t.AppendRow(table.Row{src.Source, src.Count, src.Duration.Round(time.Millisecond), errText})
			}
			t.Render()

			if result.CSVPath != "" {
				fmt.Printf("export: %s\n", result.CSVPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "search query (overrides config)")
	cmd.Flags().StringVar(&location, "location", "", "location filter (overrides config)")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "per-source result cap (overrides config)")
	return cmd
}
