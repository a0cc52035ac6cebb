package run

import (
	"context"
	"fmt"
	"strings"

	"rubric/internal/logging"
	"rubric/pkg/problem"
)

// Check runs the golden solution against every declared expectation. It is
// the author-time guard: a problem whose golden subject raises, or whose
// declared expected output or stdout does not match the golden run, must
// never reach a student.
func Check(ctx context.Context, p *problem.Problem, opts Options) error {
	opts = opts.withDefaults()
	logger := logging.New("check")

	params := p.Params()
	logger.Info("checking golden solution", "problem", p.Name(), "cases", len(params))

	for _, param := range params {
		if err := checkOne(ctx, p, param, opts); err != nil {
			return err
		}
	}
	return nil
}

func checkOne(ctx context.Context, p *problem.Problem, param *problem.Param, opts Options) error {
	name := displayName(param, opts.Messages)

	expect, expectSet := param.Expect()
	spec := param.ExpectStdout()

	if expectSet && param.OverrideTest() != nil {
		// The declared expectation stands in for the golden side, so the
		// override test verifies the golden solution itself.
		tc := problem.NewTestCtx(name, description(param))
		dummy := problem.Func(func(args ...any) any { return expect })
		runGuarded(tc, param.OverrideTest(), dummy, p.Golden())
		if tc.Failed() {
			return &AuthoringError{
				Problem: p.Name(),
				Case:    name,
				Err:     fmt.Errorf("golden solution fails the overridden test:\n%s", strings.Join(tc.Failures(), "\n")),
			}
		}
		return nil
	}

	out, err := runSide(ctx, p.Golden(), param, p.IsScript(), opts.Timeout)
	if err != nil {
		return &AuthoringError{Problem: p.Name(), Case: name, Err: err}
	}

	if expectSet && !p.IsScript() {
		if err := checkExpectation(param, expect, out.steps); err != nil {
			return &AuthoringError{Problem: p.Name(), Case: name, Err: err}
		}
	}

	if spec != nil {
		if ok, diff := compareStdout(spec, out.stdout); !ok {
			return &AuthoringError{
				Problem: p.Name(),
				Case:    name,
				Err:     fmt.Errorf("golden stdout does not match the declared expectation:\n%s", diff),
			}
		}
	}
	return nil
}

func checkExpectation(param *problem.Param, expect any, steps []any) error {
	if len(param.Pipeline()) > 0 {
		wanted, ok := expect.([]any)
		if !ok {
			return fmt.Errorf("%w: pipeline expectation must be []any, got %T", problem.ErrConfig, expect)
		}
		if len(wanted) != len(steps) {
			return fmt.Errorf("golden pipeline produced %d results, expectation declares %d", len(steps), len(wanted))
		}
		for i := range wanted {
			if err := checkValue(param, wanted[i], steps[i], i); err != nil {
				return err
			}
		}
		return nil
	}

	if len(steps) != 1 {
		return fmt.Errorf("golden run produced %d results, want 1", len(steps))
	}
	return checkValue(param, expect, steps[0], -1)
}

func checkValue(param *problem.Param, expect, got any, step int) error {
	if check := param.OverrideCheck(); check != nil {
		tc := problem.NewTestCtx("", "")
		runGuardedCheck(tc, check, expect, got)
		if tc.Failed() {
			return fmt.Errorf("golden solution fails the overridden check:\n%s", strings.Join(tc.Failures(), "\n"))
		}
		return nil
	}
	if !valuesEqual(expect, got) {
		at := ""
		if step >= 0 {
			at = fmt.Sprintf(" at step %d", step)
		}
		return fmt.Errorf("golden solution returned %s%s, expectation declares %s",
			problem.FormatValue(got), at, problem.FormatValue(expect))
	}
	return nil
}
