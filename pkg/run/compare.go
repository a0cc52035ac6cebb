package run

import (
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"rubric/pkg/problem"
)

// floatTolerance matches the usual "almost equal" grading expectation:
// student floating-point results are not penalized for representation
// noise.
const floatTolerance = 1e-9

// valuesEqual compares one golden step result against the submission's.
// Discrete values must match exactly; floating-point values match within
// tolerance. Values cmp refuses to walk, such as structs with unexported
// fields, fall back to a strict deep comparison so a correct submission
// still matches its golden twin.
func valuesEqual(golden, submission any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(golden, submission)
		}
	}()
	return cmp.Equal(golden, submission,
		cmpopts.EquateApprox(0, floatTolerance),
		cmpopts.EquateEmpty(),
	)
}

// stepMismatch reports the first differing pipeline step.
type stepMismatch struct {
	Index      int
	Action     string
	Golden     any
	Submission any
}

// compareSteps walks the two result sequences in pipeline order. The first
// mismatching step halts comparison. When the param declares an
// override-check it replaces the default equality at every step; its
// recorded failures are returned through tc.
func compareSteps(tc *problem.TestCtx, p *problem.Param, golden, submission []any) *stepMismatch {
	actions := p.Pipeline()
	actionName := func(i int) string {
		if len(actions) > i+1 {
			return actions[i+1].String()
		}
		return "call"
	}

	if len(golden) != len(submission) {
		return &stepMismatch{
			Index:      min(len(golden), len(submission)),
			Action:     "result count",
			Golden:     len(golden),
			Submission: len(submission),
		}
	}

	for i := range golden {
		if check := p.OverrideCheck(); check != nil {
			before := len(tc.Failures())
			runGuardedCheck(tc, check, golden[i], submission[i])
			if len(tc.Failures()) > before {
				return &stepMismatch{Index: i, Action: actionName(i), Golden: golden[i], Submission: submission[i]}
			}
			continue
		}
		if !valuesEqual(golden[i], submission[i]) {
			return &stepMismatch{Index: i, Action: actionName(i), Golden: golden[i], Submission: submission[i]}
		}
	}
	return nil
}

// runGuardedCheck applies an override check, converting a panic into a
// failure recorded on tc rather than a crashed batch.
func runGuardedCheck(tc *problem.TestCtx, check problem.CheckFunc, golden, submission any) {
	defer func() {
		if r := recover(); r != nil {
			tc.Errorf("override check panicked: %v", r)
		}
	}()
	check(tc, golden, submission)
}

// compareStdout checks captured text against an explicit expectation:
// whole-string for a literal, line-by-line for a line sequence. On
// mismatch it returns a line-oriented diff.
func compareStdout(spec *problem.StdoutSpec, got string) (bool, string) {
	if spec.IsLines {
		gotLines := splitLines(got)
		if diff := cmp.Diff(spec.Lines, gotLines); diff != "" {
			return false, diff
		}
		return true, ""
	}
	if diff := cmp.Diff(spec.Literal, got); diff != "" {
		return false, diff
	}
	return true, ""
}

// compareCaptured checks the submission's captured text against the
// golden run's, line by line.
func compareCaptured(golden, submission string) (bool, string) {
	if golden == submission {
		return true, ""
	}
	return false, cmp.Diff(splitLines(golden), splitLines(submission))
}

// cmpStringsDiff renders a line-oriented diff of two strings.
func cmpStringsDiff(golden, submission string) string {
	return cmp.Diff(splitLines(golden), splitLines(submission))
}

// splitLines splits captured output on line boundaries, dropping a single
// trailing newline so "a\nb\n" compares as two lines.
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
