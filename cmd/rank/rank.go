// Package rank implements the profile-based ranking command.
package rank

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/easyinterns/cmd/common"
	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/export"
	"github.com/jonesrussell/easyinterns/internal/ranking"
)

// Command returns the rank command.
func Command() *cobra.Command {
	var (
		profilePath string
		limit       int
		showWhy     bool
		exportCSV   bool
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank stored internships against a candidate profile",
		Long:  `Scores every active internship against a candidate profile read from a YAML file and prints the top matches.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadProfile(profilePath)
			if err != nil {
				return err
			}

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

			ranked, err := app.Pipeline.RankStored(ctx, profile, limit)
			if err != nil {
				return err
			}
			if len(ranked) == 0 {
				fmt.Println("No active internships stored. Run `easyinterns scrape` first.")
				return nil
			}

			renderTable(ranked, showWhy)

			if exportCSV {
				exporter := export.NewRankedExporter(app.Config.Pipeline.ExportDir, app.Logger)
				path, exportErr := exporter.ExportCSV(ranked)
				if exportErr != nil {
					return exportErr
				}
				fmt.Printf("Wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "profile.yaml", "candidate profile YAML file")
	cmd.Flags().IntVar(&limit, "limit", 25, "maximum rows to show")
	cmd.Flags().BoolVar(&showWhy, "why", false, "show score component breakdown")
	cmd.Flags().BoolVar(&exportCSV, "export", false, "also write the ranked list to ranked.csv")
	return cmd
}

// loadProfile reads a candidate profile from a YAML file.
func loadProfile(path string) (domain.CandidateProfile, error) {
	var profile domain.CandidateProfile

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return profile, fmt.Errorf("read profile %s: %w", path, err)
	}
	if err := v.Unmarshal(&profile); err != nil {
		return profile, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return profile, nil
}

// renderTable prints ranked internships as a formatted table.
func renderTable(ranked []ranking.ScoredInternship, showWhy bool) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	header := table.Row{"#", "Score", "Title", "Company", "Location", "Field", "Posted", "Apply"}
	if showWhy {
		header = append(header, "Why")
	}
	t.AppendHeader(header)

	for i, row := range ranked {
		posted := ""
		if row.Internship.PostedAt != nil {
			posted = row.Internship.PostedAt.Format("2006-01-02")
		}
		r := table.Row{
			i + 1,
			fmt.Sprintf("%.1f", row.Score),
			truncate(row.Internship.Title, 40),
			truncate(row.Internship.Company, 24),
			truncate(row.Internship.Location, 20),
			row.Internship.FieldTag,
			posted,
			row.Internship.ApplyURL,
		}
		if showWhy {
			r = append(r, componentsSummary(row.Components))
		}
		t.AppendRow(r)
	}
	t.Render()
}

func componentsSummary(components map[string]float64) string {
	parts := make([]string, 0, len(components))
	for name, value := range components {
		if value != 0 {
			parts = append(parts, fmt.Sprintf("%s=%.1f", name, value))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
