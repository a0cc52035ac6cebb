package problem

import "errors"

var (
	// ErrConfig is returned when a problem declaration is invalid: negative
	// weights or values, broadcast-length mismatches, malformed pipelines.
	// Configuration errors are authoring defects and abort generation
	// before any test runs.
	ErrConfig = errors.New("problem: invalid configuration")

	// ErrInputExhausted is returned by an InputFeed when the subject
	// requests more canned answers than the test case declared.
	ErrInputExhausted = errors.New("problem: input exhausted")

	// ErrNotInvocable is returned when a subject does not support the
	// capability an operation requires.
	ErrNotInvocable = errors.New("problem: subject is not invocable")
)
