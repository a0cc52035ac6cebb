// Package run executes a problem's test cases against a submission and
// reduces the outcomes to a scored report. Each test case runs the same
// action sequence twice, once against the golden subject and once against
// the submission, then compares the two sides. Golden-side failures are
// authoring defects and abort the evaluation; submission-side failures are
// classified and become failing results local to their test case.
package run

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"rubric/internal/config"
	"rubric/internal/logging"
	"rubric/pkg/problem"
	"rubric/pkg/score"
)

// DefaultTimeout bounds one side of one test case.
const DefaultTimeout = 10 * time.Second

// Options configures one evaluation run.
type Options struct {
	// TotalScore is the point pool distributed across the scorable tree,
	// supplied by the classroom frontend.
	TotalScore float64
	// Timeout is the per-test wall clock. Zero means DefaultTimeout.
	Timeout time.Duration
	// Parallel is the number of test cases evaluated concurrently.
	// Zero or one means serial.
	Parallel int
	// CheckStdout compares the submission's captured output against the
	// golden run's for every test case. Script problems always do.
	CheckStdout bool
	// Messages overrides the embedded report templates.
	Messages *config.Messages
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.Parallel < 1 {
		out.Parallel = 1
	}
	if out.Messages == nil {
		out.Messages = config.Defaults()
	}
	return out
}

// Grade allocates the total score across the problem's tree, evaluates
// every test case against the submission, and builds the report. Test
// cases are independent; they run under an errgroup bounded by
// Options.Parallel, while stdout capture keeps the two sides of each case
// serialized.
func Grade(ctx context.Context, p *problem.Problem, submission problem.Subject, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	logger := logging.New("run")

	score.Allocate(p.Root(), opts.TotalScore)
	params := p.Params()
	logger.Info("grading", "problem", p.Name(), "cases", len(params), "total", opts.TotalScore)

	results := make([]Result, len(params))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallel)

	for i, param := range params {
		i, param := i, param
		g.Go(func() error {
			res, err := evaluate(gctx, p, param, submission, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return buildReport(p, results, opts), nil
}

// evaluate runs one test case end to end. The returned error is always
// authoring-class; submission failures are folded into the Result.
func evaluate(ctx context.Context, p *problem.Problem, param *problem.Param, submission problem.Subject, opts Options) (Result, error) {
	tc := problem.NewTestCtx(displayName(param, opts.Messages), description(param))

	res := Result{
		MaxScore: param.Score(),
		Hidden:   param.Hidden(),
	}

	if test := param.OverrideTest(); test != nil {
		runGuarded(tc, test, p.Golden(), submission)
		res.Name, res.Description = tc.Name(), tc.Description()
		if tc.Failed() {
			res.Message = strings.Join(tc.Failures(), "\n")
			return res, nil
		}
		res.Correct = true
		res.Score = param.Score()
		return res, nil
	}

	goldenOut, err := runSide(ctx, p.Golden(), param, p.IsScript(), opts.Timeout)
	if err != nil {
		return Result{}, &AuthoringError{Problem: p.Name(), Case: tc.Name(), Err: err}
	}

	subOut, err := runSide(ctx, submission, param, p.IsScript(), opts.Timeout)
	if err != nil {
		res.Name, res.Description = tc.Name(), tc.Description()
		res.Message = failureMessage(err, param, opts.Messages)
		return res, nil
	}

	correct := true
	var message string
	var diff string

	if !p.IsScript() {
		if mismatch := compareSteps(tc, param, goldenOut.steps, subOut.steps); mismatch != nil {
			correct = false
			message = mismatchMessage(tc, param, mismatch, opts.Messages)
		}
	}

	if correct {
		ok, stdoutDiff, stdoutMsg := checkStdout(p, param, goldenOut, subOut, opts)
		if !ok {
			correct = false
			message = stdoutMsg
			diff = stdoutDiff
		}
	}

	res.Name, res.Description = tc.Name(), tc.Description()
	res.Correct = correct
	res.Diff = diff
	res.Message = message
	if correct {
		res.Score = param.Score()
	}
	return res, nil
}

// checkStdout applies the textual-output check: an explicit expectation
// when declared, otherwise golden-versus-submission when the problem calls
// for it.
func checkStdout(p *problem.Problem, param *problem.Param, golden, sub *sideOutput, opts Options) (bool, string, string) {
	msgs := opts.Messages

	if spec := param.ExpectStdout(); spec != nil {
		if ok, diff := compareStdout(spec, sub.stdout); !ok {
			return false, diff, stdoutMessage(msgs, diff)
		}
		return true, "", ""
	}

	if p.IsScript() || opts.CheckStdout {
		if ok, diff := compareCaptured(golden.stdout, sub.stdout); !ok {
			return false, diff, stdoutMessage(msgs, diff)
		}
	}
	return true, "", ""
}

func stdoutMessage(msgs *config.Messages, diff string) string {
	return config.Format(msgs.Test.StdoutDifferMsg, map[string]string{
		"diff_explanation": msgs.Test.DiffExplanationMsg,
		"diff":             diff,
	})
}

// runGuarded invokes a whole-test override, converting a panic into a
// recorded failure rather than a crashed batch.
func runGuarded(tc *problem.TestCtx, test problem.TestFunc, golden, submission problem.Subject) {
	defer func() {
		if r := recover(); r != nil {
			tc.Errorf("override test panicked: %v", r)
		}
	}()
	test(tc, golden, submission)
}

// failureMessage renders a classified submission failure.
func failureMessage(err error, param *problem.Param, msgs *config.Messages) string {
	var subErr *SubmissionError
	if !errors.As(err, &subErr) {
		subErr = &SubmissionError{Kind: classify(err), Err: err}
	}

	input := inputRepr(param)
	switch subErr.Kind {
	case FailTimeout:
		return config.Format(msgs.Test.TimeoutMsg, map[string]string{"input": input})
	case FailInputExhausted:
		return config.Format(msgs.Test.InputExhaustedMsg, map[string]string{
			"input":   input,
			"message": subErr.Err.Error(),
		})
	default:
		return config.Format(msgs.Test.ErrorMsg, map[string]string{
			"type":      fmt.Sprintf("%T", subErr.Err),
			"message":   subErr.Err.Error(),
			"traceback": subErr.Traceback,
		})
	}
}

// mismatchMessage renders the first differing step with both values and
// the step index.
func mismatchMessage(tc *problem.TestCtx, param *problem.Param, m *stepMismatch, msgs *config.Messages) string {
	if tc.Failed() {
		return strings.Join(tc.Failures(), "\n")
	}

	goldenStr := problem.FormatValue(m.Golden)
	subStr := problem.FormatValue(m.Submission)

	var diff, explanation string
	if g, ok := m.Golden.(string); ok {
		if s, ok := m.Submission.(string); ok {
			diff = "\n" + cmpStringsDiff(g, s)
			explanation = msgs.Test.DiffExplanationMsg
		}
	}

	body := config.Format(msgs.Test.FailureMsg, map[string]string{
		"input":            inputRepr(param),
		"output":           subStr,
		"expected":         goldenStr,
		"diff":             diff,
		"diff_explanation": explanation,
	})
	if len(param.Pipeline()) > 0 {
		return fmt.Sprintf("The first difference is at step %d (%s) of the pipeline.\n%s", m.Index, m.Action, body)
	}
	return body
}

func displayName(param *problem.Param, msgs *config.Messages) string {
	if param.Name() != "" {
		return param.Name()
	}
	sep := msgs.Test.NameSep
	args := problem.FormatArgs(param.Args(), sep)
	kwargs := problem.FormatKwargs(param.Kwargs(), sep)
	between := ""
	if args != "" && kwargs != "" {
		between = sep
	}
	return config.Format(msgs.Test.NameFmt, map[string]string{
		"args":   args,
		"kwargs": kwargs,
		"sep":    between,
	})
}

// description renders a declared pipeline as the case description when the
// author did not supply one.
func description(param *problem.Param) string {
	if param.Description() != "" || len(param.Pipeline()) == 0 {
		return param.Description()
	}
	parts := make([]string, len(param.Pipeline()))
	for i, a := range param.Pipeline() {
		parts[i] = a.String()
	}
	return strings.Join(parts, "\n")
}

func inputRepr(param *problem.Param) string {
	args := problem.FormatArgs(param.Args(), ",")
	kwargs := problem.FormatKwargs(param.Kwargs(), ",")
	if args != "" && kwargs != "" {
		return args + "," + kwargs
	}
	return args + kwargs
}

func buildReport(p *problem.Problem, results []Result, opts Options) *Report {
	report := &Report{
		Problem: p.Name(),
		Results: results,
	}

	allPassed := true
	anyHiddenFailed := false
	for _, r := range results {
		report.Score += r.Score
		if !r.Correct {
			allPassed = false
			if r.Hidden {
				anyHiddenFailed = true
			}
		}
	}
	report.AllPassed = allPassed

	msgs := opts.Messages.Submission
	var parts []string
	if allPassed {
		parts = append(parts, msgs.NoFailedTestsMsg)
	} else {
		parts = append(parts, msgs.FailedTestsMsg)
		if anyHiddenFailed {
			parts = append(parts, msgs.FailedHiddenTestsMsg)
		}
	}
	report.Output = strings.Join(parts, "\n\n")
	return report
}
