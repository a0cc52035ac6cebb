package problem

import (
	"fmt"

	"rubric/pkg/score"
)

// StdoutSpec is an expected-stdout declaration: either one literal string
// compared whole, or an ordered sequence of expected lines compared against
// the captured output split on line boundaries.
type StdoutSpec struct {
	Literal string
	Lines   []string
	IsLines bool
}

// StdoutLiteral expects the captured output to match text exactly.
func StdoutLiteral(text string) *StdoutSpec {
	return &StdoutSpec{Literal: text}
}

// StdoutLines expects the captured output, split on newlines, to match the
// given lines in order.
func StdoutLines(lines ...string) *StdoutSpec {
	return &StdoutSpec{Lines: lines, IsLines: true}
}

// Param is one concrete test case: arguments, expectations and scoring
// metadata. Params are immutable once expansion completes; the score is the
// only field written afterwards, exactly once, by the allocator.
type Param struct {
	args   []any
	kwargs map[string]any

	expect    any
	expectSet bool
	stdout    *StdoutSpec

	hidden      bool
	name        string
	description string

	info score.Info

	overrideCheck CheckFunc
	overrideTest  TestFunc

	pipeline []Action

	score    float64
	scoreSet bool
}

// Args returns the positional argument tuple.
func (p *Param) Args() []any { return p.args }

// Kwargs returns the keyword argument mapping.
func (p *Param) Kwargs() map[string]any { return p.kwargs }

// Expect returns the declared expected output and whether one was declared.
func (p *Param) Expect() (any, bool) { return p.expect, p.expectSet }

// ExpectStdout returns the expected-stdout declaration, or nil.
func (p *Param) ExpectStdout() *StdoutSpec { return p.stdout }

// Hidden reports whether the test is hidden from students.
func (p *Param) Hidden() bool { return p.hidden }

// Name returns the declared display name, or "" when the default
// name template applies.
func (p *Param) Name() string { return p.name }

// Description returns the declared description.
func (p *Param) Description() string { return p.description }

// OverrideCheck returns the per-step check override, or nil.
func (p *Param) OverrideCheck() CheckFunc { return p.overrideCheck }

// OverrideTest returns the whole-test override, or nil.
func (p *Param) OverrideTest() TestFunc { return p.overrideTest }

// Pipeline returns the declared action sequence. Empty means a single
// implicit invoke-once action.
func (p *Param) Pipeline() []Action { return p.pipeline }

// Score returns the score assigned by the allocator.
func (p *Param) Score() float64 { return p.score }

// ScoreInfo implements score.Node.
func (p *Param) ScoreInfo() score.Info { return p.info }

// Children implements score.Node; a Param is always a leaf.
func (p *Param) Children() []score.Node { return nil }

// SetScore implements score.Node. The allocator calls it exactly once.
func (p *Param) SetScore(s float64) {
	if p.scoreSet {
		panic("problem: Param score assigned twice")
	}
	p.score = s
	p.scoreSet = true
}

func (p *Param) String() string {
	sep := ""
	if len(p.args) > 0 && len(p.kwargs) > 0 {
		sep = ","
	}
	return fmt.Sprintf("param(%s%s%s)", FormatArgs(p.args, ","), sep, FormatKwargs(p.kwargs, ","))
}

// ParamSpec accumulates the declaration of one test case before the
// immutable Param is built. Case starts a spec; the chained setters mirror
// the per-test settings a batch generator can broadcast.
type ParamSpec struct {
	p   Param
	err error
}

// Case declares a test case with the given positional arguments.
func Case(args ...any) *ParamSpec {
	s := &ParamSpec{}
	s.p.args = args
	s.p.info = score.Info{Weight: 1}
	return s
}

// Kwargs sets the keyword argument mapping.
func (s *ParamSpec) Kwargs(m map[string]any) *ParamSpec {
	s.p.kwargs = m
	return s
}

// Expect declares the expected output. For pipeline cases pass a []any with
// one expected value per post-constructor step.
func (s *ParamSpec) Expect(v any) *ParamSpec {
	s.p.expect = v
	s.p.expectSet = true
	return s
}

// ExpectStdout declares the expected textual output.
func (s *ParamSpec) ExpectStdout(spec *StdoutSpec) *ParamSpec {
	s.p.stdout = spec
	return s
}

// Hidden hides the test from students on supported frontends.
func (s *ParamSpec) Hidden() *ParamSpec {
	s.p.hidden = true
	return s
}

// Named sets the display name.
func (s *ParamSpec) Named(name string) *ParamSpec {
	s.p.name = name
	return s
}

// Describe sets the longer description shown under the name.
func (s *ParamSpec) Describe(desc string) *ParamSpec {
	s.p.description = desc
	return s
}

// Weight sets the relative share of the group's remaining score.
func (s *ParamSpec) Weight(w float64) *ParamSpec {
	if w < 0 {
		s.fail(fmt.Errorf("%w: weight %v < 0", ErrConfig, w))
	}
	s.p.info.Weight = w
	return s
}

// Value sets the absolute score floor.
func (s *ParamSpec) Value(v float64) *ParamSpec {
	if v < 0 {
		s.fail(fmt.Errorf("%w: value %v < 0", ErrConfig, v))
	}
	s.p.info.Value = v
	return s
}

// ExtraCredit sets the extra-credit score, awarded on top of the pool.
func (s *ParamSpec) ExtraCredit(v float64) *ParamSpec {
	if v < 0 {
		s.fail(fmt.Errorf("%w: extra credit %v < 0", ErrConfig, v))
	}
	s.p.info.ExtraCredit = v
	return s
}

// CheckWith replaces the default per-step equality check.
func (s *ParamSpec) CheckWith(fn CheckFunc) *ParamSpec {
	s.p.overrideCheck = fn
	return s
}

// TestWith replaces the entire test behavior.
func (s *ParamSpec) TestWith(fn TestFunc) *ParamSpec {
	s.p.overrideTest = fn
	return s
}

// Pipeline declares the ordered action sequence, constructor first.
func (s *ParamSpec) Pipeline(actions ...Action) *ParamSpec {
	if err := validatePipeline(actions); err != nil {
		s.fail(err)
	}
	s.p.pipeline = actions
	return s
}

func (s *ParamSpec) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// build finalizes the immutable Param.
func (s *ParamSpec) build() (*Param, error) {
	if s.err != nil {
		return nil, s.err
	}
	p := s.p // copy, so the ParamSpec can be reused without aliasing
	return &p, nil
}
