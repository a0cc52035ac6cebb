package problem

import "fmt"

// TestCtx is the assertion-capable context handed to override functions. An
// override records failures through Errorf; a test with no recorded
// failures passes. Overrides may also rename or re-describe the test case
// they run under.
type TestCtx struct {
	name        string
	description string
	failures    []string
}

// NewTestCtx builds a context pre-populated with the param's display name
// and description.
func NewTestCtx(name, description string) *TestCtx {
	return &TestCtx{name: name, description: description}
}

// Errorf records a failure.
func (c *TestCtx) Errorf(format string, args ...any) {
	c.failures = append(c.failures, fmt.Sprintf(format, args...))
}

// AssertEqual records a failure unless got equals want exactly.
func (c *TestCtx) AssertEqual(got, want any) {
	if got != want {
		c.Errorf("got %s, want %s", FormatValue(got), FormatValue(want))
	}
}

// Failed reports whether any failure was recorded.
func (c *TestCtx) Failed() bool { return len(c.failures) > 0 }

// Failures returns the recorded failure messages in order.
func (c *TestCtx) Failures() []string { return c.failures }

// Name returns the test's display name.
func (c *TestCtx) Name() string { return c.name }

// SetName overrides the test's display name in the report.
func (c *TestCtx) SetName(name string) { c.name = name }

// Description returns the test's description.
func (c *TestCtx) Description() string { return c.description }

// SetDescription overrides the test's description in the report.
func (c *TestCtx) SetDescription(desc string) { c.description = desc }

// CheckFunc replaces the default per-step equality check. It receives the
// golden and submission outputs for one step.
type CheckFunc func(tc *TestCtx, golden, submission any)

// TestFunc replaces the whole test. It receives the two subjects, not their
// outputs, and is responsible for all assertions.
type TestFunc func(tc *TestCtx, golden, submission Subject)
