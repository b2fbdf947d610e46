package review

import (
	"errors"
	"fmt"

	"github.com/example/wordrecall/pkg/models"
)

// ErrInvalidInput is wrapped by every validation failure; nothing was written
var ErrInvalidInput = errors.New("invalid input")

// Step names one persistence step of a multi-step operation
type Step string

const (
	StepLoadWord           Step = "load word"
	StepCreateWord         Step = "create word"
	StepResolveSchedule    Step = "resolve schedule"
	StepCreateScheduleWord Step = "create schedule word"
	StepCountSchedule      Step = "count schedule"
	StepLoadScheduleWord   Step = "load schedule word"
	StepAnswer             Step = "answer schedule word"
	StepUpdateWord         Step = "update word progress"
	StepReschedule         Step = "reschedule word"
	StepDeleteScheduleWord Step = "delete schedule word"
	StepDeleteSchedule     Step = "delete schedule"
	StepDeleteWord         Step = "delete word"
	StepListSchedules      Step = "list schedules"
	StepListScheduleWords  Step = "list schedule words"
	StepRepair             Step = "repair schedule"
	StepListWords          Step = "list words"
)

// StepError reports which step of an operation failed. Steps before it were
// committed and are not rolled back, so the caller can retry from Step.
type StepError struct {
	Op   string
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stepErr(op string, step Step, err error) error {
	return &StepError{Op: op, Step: step, Err: err}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// IsRetryable reports whether err came from a concurrent counter update and
// the failed step may simply be retried
func IsRetryable(err error) bool {
	return errors.Is(err, models.ErrCounterConflict)
}

// FailedStep returns the step an operation stopped at, if err carries one
func FailedStep(err error) (Step, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step, true
	}
	return "", false
}
