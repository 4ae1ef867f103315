package cli

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/StaryMuz/elektrina-monitor/internal/app"
	"github.com/StaryMuz/elektrina-monitor/internal/model"
	"github.com/StaryMuz/elektrina-monitor/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the report once and exit",
	Long: `Fetch the price table for one day, evaluate it against the limit and
deliver the report. Without --date the configured day offset from today is used.`,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("date", "", "report day as DD.MM.YYYY")
	runCmd.Flags().Bool("dry-run", false, "build the report and chart without sending")
	runCmd.Flags().Bool("force", false, "send even if the day was already delivered")
}

func runOnce(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.Build(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	day := time.Now().In(a.Location).AddDate(0, 0, cfg.Schedule.DayOffset)
	if s, _ := cmd.Flags().GetString("date"); s != "" {
		if day, err = parseDay(s, a.Location); err != nil {
			return err
		}
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	force, _ := cmd.Flags().GetBool("force")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := a.Pipeline.Run(ctx, day, pipeline.RunOptions{
		Trigger: model.TriggerManual,
		DryRun:  dryRun,
		Force:   force,
	})
	if err != nil {
		if !dryRun {
			if ferr := a.Pipeline.ReportFailure(ctx, day, err); ferr != nil {
				log.WithError(ferr).Error("failure message not sent")
			}
		}
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case res.Skipped:
		fmt.Fprintln(out, "already delivered, use --force to send again")
	default:
		fmt.Fprintln(out, res.Message)
		if res.ChartPath != "" {
			fmt.Fprintf(out, "chart: %s\n", res.ChartPath)
		}
	}
	return nil
}
