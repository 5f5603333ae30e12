// Package scheduler implements the cron-driven scrape daemon command.
package scheduler

import (
	"github.com/spf13/cobra"

	"github.com/jonesrussell/easyinterns/cmd/common"
	internalscheduler "github.com/jonesrussell/easyinterns/internal/scheduler"
)

// Command returns the scheduler command.
func Command() *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Run scheduled scrapes until interrupted",
		Long:  `Runs a full aggregation pass on the configured cron schedule. Overlapping runs are skipped.`,
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

			sched := internalscheduler.New(
				app.Logger,
				app.Pipeline,
				app.Query(),
				app.Config.Pipeline.Schedule,
				app.Config.Pipeline.RunTimeout,
			)
			if err := sched.Start(); err != nil {
				return err
			}
			if runNow {
				sched.TriggerNow()
			}

			<-ctx.Done()
			sched.Stop()
			return nil
		},
	}

	cmd.Flags().BoolVar(&runNow, "run-now", false, "run one pass immediately on startup")
	return cmd
}
