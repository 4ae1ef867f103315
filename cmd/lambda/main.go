package main

import (
	"context"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/aws/aws-lambda-go/lambda"
	log "github.com/sirupsen/logrus"

	"github.com/StaryMuz/elektrina-monitor/internal/app"
	"github.com/StaryMuz/elektrina-monitor/internal/config"
	"github.com/StaryMuz/elektrina-monitor/internal/model"
	"github.com/StaryMuz/elektrina-monitor/internal/notifier"
	"github.com/StaryMuz/elektrina-monitor/internal/pipeline"
)

// Invocation is the optional event payload. An empty event reports on the
// configured day offset from today.
type Invocation struct {
	Date   string `json:"date"` // DD.MM.YYYY
	DryRun bool   `json:"dry_run"`
	Force  bool   `json:"force"`
}

// Response summarises the run for the invoker.
type Response struct {
	RunID      string `json:"run_id"`
	Day        string `json:"day"`
	Delivered  bool   `json:"delivered"`
	Skipped    bool   `json:"skipped"`
	BelowHours int    `json:"below_hours"`
	Message    string `json:"message"`
}

func handleInvocation(ctx context.Context, ev Invocation) (Response, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return Response{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Response{}, err
	}
	cfg.RebaseRelative(os.TempDir())
	if cfg.Logging.Debug {
		log.SetLevel(log.DebugLevel)
	}

	a, err := app.Build(cfg)
	if err != nil {
		return Response{}, err
	}
	defer a.Close()

	day, err := resolveDay(ev.Date, time.Now(), a.Location, cfg.Schedule.DayOffset)
	if err != nil {
		return Response{}, err
	}

	res, err := a.Pipeline.Run(ctx, day, pipeline.RunOptions{
		Trigger: model.TriggerLambda,
		DryRun:  ev.DryRun,
		Force:   ev.Force,
	})
	if err != nil {
		if !ev.DryRun {
			if ferr := a.Pipeline.ReportFailure(ctx, day, err); ferr != nil {
				log.WithError(ferr).Error("failure message not sent")
			}
		}
		return Response{}, err
	}

	out := Response{
		RunID:     res.RunID,
		Day:       day.Format(notifier.DateLayout),
		Delivered: res.Delivered,
		Skipped:   res.Skipped,
		Message:   res.Message,
	}
	if res.Report != nil {
		out.BelowHours = res.Report.BelowHours()
	}
	return out, nil
}

// resolveDay picks the explicit DD.MM.YYYY date, or now plus offset days in loc.
func resolveDay(date string, now time.Time, loc *time.Location, offset int) (time.Time, error) {
	if date != "" {
		day, err := time.ParseInLocation(notifier.DateLayout, date, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q, expected DD.MM.YYYY", date)
		}
		return day, nil
	}
	now = now.In(loc)
	return time.Date(now.Year(), now.Month(), now.Day()+offset, 0, 0, 0, 0, loc), nil
}

func main() {
	log.SetFormatter(&log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "timestamp",
			log.FieldKeyMsg:  "message",
		},
	})
	lambda.Start(handleInvocation)
}
