package run

// Result is the verdict for one test case.
type Result struct {
	// Name is the rendered display name of the test.
	Name string
	// Description is the longer text shown under the name.
	Description string
	// Correct reports whether every configured check passed.
	Correct bool
	// Score is the awarded score: MaxScore when correct, 0 otherwise.
	Score float64
	// MaxScore is the score the allocator assigned to this test.
	MaxScore float64
	// Hidden hides the test's inputs from students on supported frontends.
	Hidden bool
	// Message is the rendered student-facing output. Empty on success;
	// frontends distinguish no output from empty output.
	Message string
	// Diff is a line-oriented diff of textual output, when a stdout check
	// failed.
	Diff string
}

// Report is the completed evaluation of one submission.
type Report struct {
	// Problem is the problem's name.
	Problem string
	// Results holds one entry per test case, in declaration order.
	Results []Result
	// Score is the summed awarded score.
	Score float64
	// Output is the aggregate student-facing summary.
	Output string
	// AllPassed reports whether every test case was correct.
	AllPassed bool
}
