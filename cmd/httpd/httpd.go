// Package httpd implements the HTTP API server command.
package httpd

import (
	"github.com/spf13/cobra"

	"github.com/jonesrussell/easyinterns/cmd/common"
	"github.com/jonesrussell/easyinterns/internal/api"
)

// Command returns the httpd command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Serve the HTTP API",
		Long:  `Serves the internship API, Prometheus metrics, and CSV export endpoint until interrupted.`,
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

			server := api.NewServer(app.Config.Server, api.Deps{
				Logger:      app.Logger,
				Metrics:     app.Metrics,
				Internships: app.Internships,
				Contacts:    app.Contacts,
				Registry:    app.Registry,
				Pipeline:    app.Pipeline,
				Runs:        runStore(app),
				Search:      searcher(app),
				ExportDir:   app.Config.Pipeline.ExportDir,
				Query:       app.Query(),
				Cooldown:    app.Config.Pipeline.TriggerCooldown,
				RunTimeout:  app.Config.Pipeline.RunTimeout,
			})

			return server.Start(ctx)
		},
	}
}

// runStore adapts the optional cache store; a typed nil would defeat the
// handler's nil checks.
func runStore(app *common.App) api.RunStore {
	if app.Runs == nil {
		return nil
	}
	return app.Runs
}

func searcher(app *common.App) api.Searcher {
	if app.Index == nil {
		return nil
	}
	return app.Index
}
