package problem

import "fmt"

// Batch expands raw value sequences into an ordered run of test cases, then
// broadcasts shared per-test settings across them. A setting applied
// through a scalar setter (Expect, Hidden, Weight...) applies identically
// to every generated case; the *Each variants supply one value per case and
// must match the generated count exactly.
//
// Each construction mode has its own constructor, so the mode conflicts a
// flag-based declaration allows cannot be expressed.
type Batch struct {
	specs []*ParamSpec
	err   error
}

// Cases generates one test case per value, each becoming the sole
// positional argument (the whole-value mode).
func Cases(values ...any) *Batch {
	b := &Batch{}
	for _, v := range values {
		b.specs = append(b.specs, Case(v))
	}
	return b
}

// CasesSingular generates one test case per element of values, each element
// becoming the sole positional argument.
func CasesSingular(values []any) *Batch {
	b := &Batch{}
	for _, v := range values {
		b.specs = append(b.specs, Case(v))
	}
	return b
}

// CasesParams generates one test case per set, unpacking each set into the
// case's positional arguments. A set may be a []any or an already-built
// *ParamSpec.
func CasesParams(sets ...any) *Batch {
	b := &Batch{}
	for i, s := range sets {
		switch v := s.(type) {
		case *ParamSpec:
			b.specs = append(b.specs, v)
		case []any:
			b.specs = append(b.specs, Case(v...))
		default:
			b.fail(fmt.Errorf("%w: set %d must be []any or *ParamSpec, got %T", ErrConfig, i, s))
			return b
		}
	}
	return b
}

// CasesProduct generates the Cartesian product of the iterables, one case
// per combination, in first-iterable-major order.
func CasesProduct(iterables ...[]any) *Batch {
	b := &Batch{}
	if len(iterables) == 0 {
		b.fail(fmt.Errorf("%w: product mode requires at least one iterable", ErrConfig))
		return b
	}

	combo := make([]any, len(iterables))
	var walk func(depth int)
	walk = func(depth int) {
		if depth == len(iterables) {
			args := make([]any, len(combo))
			copy(args, combo)
			b.specs = append(b.specs, Case(args...))
			return
		}
		for _, v := range iterables[depth] {
			combo[depth] = v
			walk(depth + 1)
		}
	}
	walk(0)
	return b
}

// CasesZip pairs the iterables element-wise, one case per index, stopping
// at the shortest iterable.
func CasesZip(iterables ...[]any) *Batch {
	b := &Batch{}
	if len(iterables) == 0 {
		b.fail(fmt.Errorf("%w: zip mode requires at least one iterable", ErrConfig))
		return b
	}

	n := len(iterables[0])
	for _, it := range iterables[1:] {
		if len(it) < n {
			n = len(it)
		}
	}
	for i := 0; i < n; i++ {
		args := make([]any, len(iterables))
		for j, it := range iterables {
			args[j] = it[i]
		}
		b.specs = append(b.specs, Case(args...))
	}
	return b
}

// Len returns the number of generated cases.
func (b *Batch) Len() int { return len(b.specs) }

func (b *Batch) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Batch) each(name string, n int, apply func(i int)) *Batch {
	if b.err != nil {
		return b
	}
	if n != len(b.specs) {
		b.fail(fmt.Errorf("%w: %s supplied %d values for %d generated cases",
			ErrConfig, name, n, len(b.specs)))
		return b
	}
	for i := 0; i < n; i++ {
		apply(i)
	}
	return b
}

// Expect broadcasts one expected output to every case.
func (b *Batch) Expect(v any) *Batch {
	for _, s := range b.specs {
		s.Expect(v)
	}
	return b
}

// ExpectEach declares one expected output per case.
func (b *Batch) ExpectEach(vals ...any) *Batch {
	return b.each("ExpectEach", len(vals), func(i int) { b.specs[i].Expect(vals[i]) })
}

// ExpectStdout broadcasts one expected-stdout spec to every case.
func (b *Batch) ExpectStdout(spec *StdoutSpec) *Batch {
	for _, s := range b.specs {
		s.ExpectStdout(spec)
	}
	return b
}

// ExpectStdoutEach declares one expected-stdout spec per case.
func (b *Batch) ExpectStdoutEach(specs ...*StdoutSpec) *Batch {
	return b.each("ExpectStdoutEach", len(specs), func(i int) { b.specs[i].ExpectStdout(specs[i]) })
}

// Hidden hides every generated case.
func (b *Batch) Hidden() *Batch {
	for _, s := range b.specs {
		s.Hidden()
	}
	return b
}

// HiddenEach declares visibility per case.
func (b *Batch) HiddenEach(hidden ...bool) *Batch {
	return b.each("HiddenEach", len(hidden), func(i int) {
		if hidden[i] {
			b.specs[i].Hidden()
		}
	})
}

// Weight broadcasts one weight to every case.
func (b *Batch) Weight(w float64) *Batch {
	for _, s := range b.specs {
		s.Weight(w)
	}
	return b
}

// WeightEach declares one weight per case.
func (b *Batch) WeightEach(weights ...float64) *Batch {
	return b.each("WeightEach", len(weights), func(i int) { b.specs[i].Weight(weights[i]) })
}

// Value broadcasts one absolute value to every case.
func (b *Batch) Value(v float64) *Batch {
	for _, s := range b.specs {
		s.Value(v)
	}
	return b
}

// ValueEach declares one absolute value per case.
func (b *Batch) ValueEach(vals ...float64) *Batch {
	return b.each("ValueEach", len(vals), func(i int) { b.specs[i].Value(vals[i]) })
}

// NamedEach declares one display name per case.
func (b *Batch) NamedEach(names ...string) *Batch {
	return b.each("NamedEach", len(names), func(i int) { b.specs[i].Named(names[i]) })
}

// CheckWith broadcasts a per-step check override to every case.
func (b *Batch) CheckWith(fn CheckFunc) *Batch {
	for _, s := range b.specs {
		s.CheckWith(fn)
	}
	return b
}

// TestWith broadcasts a whole-test override to every case.
func (b *Batch) TestWith(fn TestFunc) *Batch {
	for _, s := range b.specs {
		s.TestWith(fn)
	}
	return b
}

// Pipeline threads one shared action sequence through every generated
// case. Pair it with ExpectSteps to declare per-step expectations.
func (b *Batch) Pipeline(actions ...Action) *Batch {
	if err := validatePipeline(actions); err != nil {
		b.fail(err)
		return b
	}
	for _, s := range b.specs {
		s.Pipeline(actions...)
	}
	return b
}

// ExpectSteps declares, per case, the expected result of each
// post-constructor pipeline step.
func (b *Batch) ExpectSteps(seqs ...[]any) *Batch {
	return b.each("ExpectSteps", len(seqs), func(i int) { b.specs[i].Expect(seqs[i]) })
}

// build finalizes every generated case.
func (b *Batch) build() ([]*Param, error) {
	if b.err != nil {
		return nil, b.err
	}
	out := make([]*Param, len(b.specs))
	for i, s := range b.specs {
		p, err := s.build()
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
