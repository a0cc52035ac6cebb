package problem

import (
	"fmt"
	"strings"
)

// Action is one step of a pipeline: a function-like unit applied to the
// constructed instance, receiving the previous step's result. The first
// action of a non-empty pipeline must be the constructor action built by
// Init.
type Action interface {
	// Apply runs the action against the instance. prev is the previous
	// step's result (nil for the first post-constructor step).
	Apply(inst Instance, prev any) (any, error)
	String() string
}

// Init declares the constructor action. Its arguments are passed to the
// subject's constructor to produce the pipeline instance.
func Init(args ...any) Action {
	return &initAction{args: args}
}

type initAction struct {
	args []any
}

func (a *initAction) Apply(Instance, any) (any, error) {
	return nil, fmt.Errorf("%w: constructor action applied mid-pipeline", ErrConfig)
}

func (a *initAction) Args() []any { return a.args }

func (a *initAction) String() string {
	return fmt.Sprintf("init(%s)", joinValues(a.args))
}

// Call declares a method-call action on the pipeline instance.
func Call(method string, args ...any) Action {
	return &callAction{method: method, args: args}
}

type callAction struct {
	method string
	args   []any
}

func (a *callAction) Apply(inst Instance, _ any) (any, error) {
	return inst.Call(a.method, a.args, nil)
}

func (a *callAction) String() string {
	return fmt.Sprintf(".%s(%s)", a.method, joinValues(a.args))
}

// Get declares a property-lookup action on the pipeline instance.
func Get(property string) Action {
	return &getAction{property: property}
}

type getAction struct {
	property string
}

func (a *getAction) Apply(inst Instance, _ any) (any, error) {
	return inst.Property(a.property)
}

func (a *getAction) String() string {
	return "." + a.property
}

// Apply declares a free-form action. fn receives the instance and the
// previous step's result.
func Apply(name string, fn func(inst Instance, prev any) (any, error)) Action {
	return &fnAction{name: name, fn: fn}
}

type fnAction struct {
	name string
	fn   func(inst Instance, prev any) (any, error)
}

func (a *fnAction) Apply(inst Instance, prev any) (any, error) {
	return a.fn(inst, prev)
}

func (a *fnAction) String() string { return a.name }

func joinValues(vals []any) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = FormatValue(v)
	}
	return strings.Join(parts, ", ")
}

// validatePipeline checks the constructor-first shape of a declared
// pipeline.
func validatePipeline(actions []Action) error {
	for i, a := range actions {
		_, isInit := a.(*initAction)
		switch {
		case i == 0 && !isInit:
			return fmt.Errorf("%w: the first pipeline action must be Init", ErrConfig)
		case i > 0 && isInit:
			return fmt.Errorf("%w: Init may only appear first in a pipeline (found at step %d)", ErrConfig, i)
		}
	}
	return nil
}
