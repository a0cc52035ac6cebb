// Package problem holds the declarative model of an evaluation: the golden
// subject, the scorable tree of groups and test cases, and the batch
// expansion of raw value sequences into concrete cases. A Problem is built
// once per evaluation run through the Builder and is immutable afterwards;
// the allocator's score assignment is the only later mutation.
package problem

import (
	"fmt"

	"rubric/pkg/score"
)

// Problem is a complete evaluation declaration: a trusted golden subject
// and the ordered scorable tree of test cases run against it.
type Problem struct {
	name    string
	golden  Subject
	script  bool
	ctxSyms []string
	root    *Group
}

// Name returns the problem's name. It doubles as the symbol expected from
// the submission module.
func (p *Problem) Name() string { return p.name }

// Golden returns the trusted reference subject.
func (p *Problem) Golden() Subject { return p.golden }

// IsScript reports whether the problem is stdin-driven rather than
// call/return driven.
func (p *Problem) IsScript() bool { return p.script }

// ContextSymbols lists sibling symbols to capture from the submission
// module alongside the main subject.
func (p *Problem) ContextSymbols() []string { return p.ctxSyms }

// Root returns the implicit root group wrapping the whole scorable tree.
func (p *Problem) Root() *Group { return p.root }

// Params returns every leaf test case in declaration order.
func (p *Problem) Params() []*Param { return p.root.Params() }

// Builder accumulates a problem declaration and produces the immutable
// Problem. Test cases added between group boundaries belong to the same
// group; cases declared before the first EndGroup (or when no boundary is
// ever declared) live in the implicit root group.
type Builder struct {
	name    string
	golden  Subject
	script  bool
	ctxSyms []string

	groups  []score.Node
	pending []score.Node
	err     error
}

// NewBuilder starts the declaration of a problem with the given golden
// subject.
func NewBuilder(name string, golden Subject) *Builder {
	return &Builder{name: name, golden: golden}
}

// Script marks the problem as stdin-driven: declared argument values are
// consumed as canned answers to the subject's input requests, and only the
// captured text is compared.
func (b *Builder) Script() *Builder {
	b.script = true
	return b
}

// Context declares sibling symbols to capture from the submission module.
func (b *Builder) Context(symbols ...string) *Builder {
	b.ctxSyms = append(b.ctxSyms, symbols...)
	return b
}

// Add appends one test case to the current group.
func (b *Builder) Add(spec *ParamSpec) *Builder {
	if b.err != nil {
		return b
	}
	p, err := spec.build()
	if err != nil {
		b.err = err
		return b
	}
	b.pending = append(b.pending, p)
	return b
}

// AddBatch appends every case generated by a batch to the current group.
func (b *Builder) AddBatch(batch *Batch) *Builder {
	if b.err != nil {
		return b
	}
	params, err := batch.build()
	if err != nil {
		b.err = err
		return b
	}
	for _, p := range params {
		b.pending = append(b.pending, p)
	}
	return b
}

// EndGroup closes the cases declared since the previous boundary into a
// group with the given score declaration.
func (b *Builder) EndGroup(info score.Info) *Builder {
	if b.err != nil {
		return b
	}
	if info.Weight < 0 || info.Value < 0 || info.ExtraCredit < 0 {
		b.err = fmt.Errorf("%w: group weight/value/extra credit must be >= 0 (got %+v)", ErrConfig, info)
		return b
	}
	b.groups = append(b.groups, &Group{info: info, children: b.pending})
	b.pending = nil
	return b
}

// Build validates the declaration and produces the immutable Problem.
func (b *Builder) Build() (*Problem, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.golden == nil {
		return nil, fmt.Errorf("%w: problem %q has no golden subject", ErrConfig, b.name)
	}

	root := &Group{info: score.Info{Weight: 1}}
	switch {
	case len(b.groups) == 0:
		root.children = b.pending
	case len(b.pending) > 0:
		// Trailing ungrouped cases form a virtual group, weight 1.
		b.groups = append(b.groups, &Group{info: score.Info{Weight: 1}, children: b.pending})
		fallthrough
	default:
		root.children = b.groups
	}

	p := &Problem{
		name:    b.name,
		golden:  b.golden,
		script:  b.script,
		ctxSyms: b.ctxSyms,
		root:    root,
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// validate checks subject capabilities against the declared cases.
func (p *Problem) validate() error {
	if p.script {
		if _, ok := p.golden.(ScriptRunnable); !ok {
			return fmt.Errorf("%w: script problem %q requires a ScriptRunnable golden subject", ErrConfig, p.name)
		}
		return nil
	}

	_, invocable := p.golden.(Invocable)
	_, constructible := p.golden.(Constructible)
	if !invocable && !constructible {
		return fmt.Errorf("%w: golden subject of %q is neither Invocable nor Constructible", ErrConfig, p.name)
	}

	for i, param := range p.Params() {
		if len(param.Pipeline()) > 0 && !constructible {
			return fmt.Errorf("%w: case %d of %q declares a pipeline but the subject is not Constructible", ErrConfig, i, p.name)
		}
		if len(param.Pipeline()) == 0 && !invocable {
			return fmt.Errorf("%w: case %d of %q needs an Invocable subject", ErrConfig, i, p.name)
		}
	}
	return nil
}
