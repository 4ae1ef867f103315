package pipeline

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step a run failed in.
type Stage string

const (
	StageFetch    Stage = "fetch"
	StageEvaluate Stage = "evaluate"
	StageRender   Stage = "render"
	StageNotify   Stage = "notify"
)

// StageError wraps the first failure of a run with the step it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the failing stage recorded in err, or "" if none.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
