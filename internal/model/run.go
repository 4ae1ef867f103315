package model

import "time"

// TriggerType indicates what started a run.
type TriggerType string

const (
	TriggerSchedule TriggerType = "SCHEDULE"
	TriggerCommand  TriggerType = "COMMAND"
	TriggerManual   TriggerType = "MANUAL"
	TriggerLambda   TriggerType = "LAMBDA"
)

// RunStatus is the final state of a run.
type RunStatus string

const (
	RunDelivered RunStatus = "DELIVERED"
	// RunPartial means at least one channel received the report and another
	// failed. The day counts as delivered.
	RunPartial RunStatus = "PARTIAL"
	RunDryRun  RunStatus = "DRY_RUN"
	RunFailed  RunStatus = "FAILED"
)

// RunRecord is the ledger entry written after every run. It never carries the
// price table itself.
type RunRecord struct {
	ID         string
	Day        time.Time
	Trigger    TriggerType
	Status     RunStatus
	Stage      string // failing stage, empty on success
	Threshold  float64
	Rows       int
	BelowHours int
	Intervals  int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}
