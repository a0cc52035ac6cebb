package run

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"rubric/internal/logging"
	"rubric/pkg/problem"
)

// sideOutput is the record of one run of one subject: the ordered step
// results and everything the run printed.
type sideOutput struct {
	steps  []any
	stdout string
}

type outcome struct {
	steps []any
	err   error
	trace string
}

// runSide executes the test case's action sequence against a fresh subject
// instance, capturing stdout for the whole run. Both sides of a test case
// go through this path with byte-identical action sequences; only the
// subject differs.
func runSide(ctx context.Context, subj problem.Subject, p *problem.Param, script bool, timeout time.Duration) (*sideOutput, error) {
	capt, err := acquireCapture()
	if err != nil {
		return nil, fmt.Errorf("run: acquire stdout capture: %w", err)
	}

	ch := make(chan outcome, 1)
	go func() {
		var o outcome
		defer func() {
			if r := recover(); r != nil {
				o.err = fmt.Errorf("panic: %v", r)
				o.trace = limitedTraceback(string(debug.Stack()))
			}
			ch <- o
		}()
		o.steps, o.err = execute(subj, p, script)
	}()

	var o outcome
	select {
	case o = <-ch:
	case <-time.After(timeout):
		o.err = errTimeout
		// Hold the capture through a drain window so the runaway
		// goroutine's late writes land here, not in the next test's
		// capture. fmt resolves os.Stdout at each call, so releasing
		// while the goroutine still runs would hand its output to
		// whichever test acquires next.
		select {
		case <-ch:
		case <-time.After(timeout):
			logging.New("run").Warn("subject still running after drain window", "case", p.String())
		}
	case <-ctx.Done():
		o.err = ctx.Err()
	}

	stdout := capt.release()
	if o.err != nil {
		if o.trace != "" {
			return nil, &SubmissionError{Kind: FailRuntime, Err: o.err, Traceback: o.trace}
		}
		return nil, o.err
	}
	return &sideOutput{steps: o.steps, stdout: stdout}, nil
}

// execute dispatches on the problem style: canned-input script, declared
// pipeline, or single implicit invocation.
func execute(subj problem.Subject, p *problem.Param, script bool) ([]any, error) {
	if script {
		return nil, executeScript(subj, p)
	}
	if actions := p.Pipeline(); len(actions) > 0 {
		return executePipeline(subj, p, actions)
	}
	inv, ok := subj.(problem.Invocable)
	if !ok {
		return nil, fmt.Errorf("%w: subject %T", problem.ErrNotInvocable, subj)
	}
	result, err := inv.Invoke(p.Args(), p.Kwargs())
	if err != nil {
		return nil, err
	}
	return []any{result}, nil
}

// executeScript feeds the declared argument values, in order, as canned
// answers to the subject's input requests.
func executeScript(subj problem.Subject, p *problem.Param) error {
	sr, ok := subj.(problem.ScriptRunnable)
	if !ok {
		return fmt.Errorf("%w: subject %T is not a script", problem.ErrNotInvocable, subj)
	}

	lines := make([]string, len(p.Args()))
	for i, a := range p.Args() {
		lines[i] = fmt.Sprint(a)
	}
	return sr.RunScript(problem.NewInputFeed(lines))
}

// executePipeline constructs the instance from the leading Init action and
// threads each subsequent action's result into the next.
func executePipeline(subj problem.Subject, p *problem.Param, actions []problem.Action) ([]any, error) {
	c, ok := subj.(problem.Constructible)
	if !ok {
		return nil, fmt.Errorf("%w: subject %T is not constructible", problem.ErrNotInvocable, subj)
	}

	init, ok := actions[0].(interface{ Args() []any })
	if !ok {
		return nil, fmt.Errorf("%w: pipeline does not start with Init", problem.ErrConfig)
	}
	inst, err := c.Construct(init.Args(), p.Kwargs())
	if err != nil {
		return nil, fmt.Errorf("construct: %w", err)
	}

	steps := make([]any, 0, len(actions)-1)
	var prev any
	for i, a := range actions[1:] {
		result, err := a.Apply(inst, prev)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, a, err)
		}
		steps = append(steps, result)
		prev = result
	}
	return steps, nil
}

// limitedTraceback drops engine and runtime frames so the trace points at
// the submission's own code, mirroring what students should see. Frames in
// a goroutine stack come in function/location line pairs.
func limitedTraceback(stack string) string {
	lines := strings.Split(stack, "\n")
	var out []string
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		isFrame := !strings.HasPrefix(line, "\t") && strings.Contains(line, "(")
		if isFrame && (strings.HasPrefix(line, "rubric/") ||
			strings.HasPrefix(line, "runtime.") ||
			strings.HasPrefix(line, "runtime/")) {
			if i+1 < len(lines) && strings.HasPrefix(lines[i+1], "\t") {
				i++
			}
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
