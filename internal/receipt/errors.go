package receipt

import (
	"errors"
	"fmt"
)

// Stage names one step of a receipt job.
type Stage string

// Job stages, in execution order.
const (
	StageHealth Stage = "health"
	StageSample Stage = "sample"
	StageFetch  Stage = "fetch"
	StageImage  Stage = "image"
	StagePrint  Stage = "print"
	StageRecord Stage = "record"
)

var (
	// ErrBusy is returned by TryRun while another job holds the printer.
	ErrBusy = errors.New("a receipt job is already running")
	// ErrCatalogDown is returned when the catalog health check fails.
	ErrCatalogDown = errors.New("catalog is unreachable")
)

// StageError tags a job failure with the stage it happened in.
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

// FailedStage returns the stage recorded in err, or "" if err carries none.
func FailedStage(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

func stageErr(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
