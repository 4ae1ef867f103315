package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/StaryMuz/elektrina-monitor/internal/model"
	"github.com/StaryMuz/elektrina-monitor/internal/notifier"
	"github.com/StaryMuz/elektrina-monitor/internal/pipeline"
)

// Scheduler runs the daily report on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Pipeline  *pipeline.Pipeline
	Location  *time.Location
	DayOffset int
	Ctx       context.Context

	// Now is the clock used to pick the report day.
	Now func() time.Time
}

// NewScheduler creates a new Scheduler. dayOffset selects which day the
// scheduled run reports on, relative to the run date.
func NewScheduler(ctx context.Context, p *pipeline.Pipeline, loc *time.Location, dayOffset int) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Pipeline:  p,
		Location:  loc,
		DayOffset: dayOffset,
		Ctx:       ctx,
		Now:       time.Now,
	}
}

// Register adds the daily report task.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

// RunNow executes the scheduled task immediately (for RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.dailyTask()
}

// day returns the calendar day offset days from now in the schedule zone.
func (s *Scheduler) day(offset int) time.Time {
	now := s.Now().In(s.Location)
	return time.Date(now.Year(), now.Month(), now.Day()+offset, 0, 0, 0, 0, s.Location)
}

func (s *Scheduler) dailyTask() {
	day := s.day(s.DayOffset)
	log.Infof("running daily report for %s", day.Format(notifier.DateLayout))
	s.run(day, pipeline.RunOptions{Trigger: model.TriggerSchedule})
}

func (s *Scheduler) run(day time.Time, opts pipeline.RunOptions) {
	if _, err := s.Pipeline.Run(s.Ctx, day, opts); err != nil {
		s.trySendFailure(day, err)
	}
}

// HandleCommand processes a chat command and returns a reply. Reports are
// delivered through the pipeline, so those commands return "".
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/dnes":
		s.run(s.day(0), pipeline.RunOptions{Trigger: model.TriggerCommand, Force: true})
		return ""
	case "/zitra":
		s.run(s.day(1), pipeline.RunOptions{Trigger: model.TriggerCommand, Force: true})
		return ""
	case "/limit":
		return fmt.Sprintf("Aktuální limit: %s EUR/MWh", notifier.FormatLimit(s.Pipeline.Threshold))
	case "/stav":
		rec, err := s.Pipeline.LastRun(ctx)
		if err != nil {
			log.WithError(err).Error("read last run")
			return "Stav posledního běhu není k dispozici."
		}
		return notifier.FormatLastRun(rec)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySendFailure(day time.Time, err error) {
	if ferr := s.Pipeline.ReportFailure(s.Ctx, day, err); ferr != nil {
		log.WithError(ferr).Error("failure message not sent")
	}
}
