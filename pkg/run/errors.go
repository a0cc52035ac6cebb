package run

import (
	"errors"
	"fmt"

	"rubric/pkg/problem"
)

// FailureKind classifies why a submission run failed.
type FailureKind int

const (
	// FailRuntime is an exception (panic or returned error) during the
	// submission run.
	FailRuntime FailureKind = iota
	// FailTimeout is a submission exceeding the per-test wall clock.
	FailTimeout
	// FailInputExhausted is a script requesting more canned answers than
	// the test declared.
	FailInputExhausted
)

// SubmissionError is a classified failure of one submission run. It is
// strictly local to its test case: it becomes a failing Result and never
// propagates past the runner.
type SubmissionError struct {
	Kind      FailureKind
	Err       error
	Traceback string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission run failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// AuthoringError is a defect in the problem itself: the golden run raised,
// or a declared golden expectation did not hold. Authoring errors abort the
// whole evaluation and are reported to the author, never to a student.
type AuthoringError struct {
	Problem string
	Case    string
	Err     error
}

func (e *AuthoringError) Error() string {
	return fmt.Sprintf("authoring error in %q (%s): %v", e.Problem, e.Case, e.Err)
}

func (e *AuthoringError) Unwrap() error { return e.Err }

// errTimeout marks a wall-clock expiry inside the runner.
var errTimeout = errors.New("run: wall-clock timeout exceeded")

// classify converts a submission-side error into its failure kind.
func classify(err error) FailureKind {
	switch {
	case errors.Is(err, errTimeout):
		return FailTimeout
	case errors.Is(err, problem.ErrInputExhausted):
		return FailInputExhausted
	default:
		return FailRuntime
	}
}
