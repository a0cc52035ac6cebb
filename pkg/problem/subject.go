package problem

import (
	"fmt"
	"reflect"
)

// Subject is a golden solution or a student submission. A subject carries
// one of three capability sets, fixed at declaration time: Invocable
// (call/return problems), Constructible (pipeline problems, where the
// constructed Instance is then addressed by method and property), or
// ScriptRunnable (stdin-driven problems).
type Subject any

// Invocable is a subject invoked once per test case with the declared
// arguments.
type Invocable interface {
	Invoke(args []any, kwargs map[string]any) (any, error)
}

// Constructible is a subject whose constructor produces the instance a
// pipeline runs against.
type Constructible interface {
	Construct(args []any, kwargs map[string]any) (Instance, error)
}

// Instance is a constructed subject instance addressable by method name and
// property name.
type Instance interface {
	Call(method string, args []any, kwargs map[string]any) (any, error)
	Property(name string) (any, error)
}

// ScriptRunnable is a subject driven entirely by canned stdin answers.
type ScriptRunnable interface {
	RunScript(in *InputFeed) error
}

// Func wraps a plain Go function as an Invocable subject. The function's
// results may be (), (T), (error), or (T, error).
func Func(fn any) Invocable {
	return &funcSubject{fn: fn}
}

type funcSubject struct {
	fn any
}

func (f *funcSubject) Invoke(args []any, kwargs map[string]any) (any, error) {
	return callReflected(reflect.ValueOf(f.fn), args, kwargs)
}

// Class wraps a constructor function as a Constructible subject. The
// constructor's return value becomes the pipeline instance; its methods and
// exported fields are addressable from pipeline actions.
func Class(ctor any) Constructible {
	return &classSubject{ctor: ctor}
}

type classSubject struct {
	ctor any
}

func (c *classSubject) Construct(args []any, kwargs map[string]any) (Instance, error) {
	out, err := callReflected(reflect.ValueOf(c.ctor), args, kwargs)
	if err != nil {
		return nil, err
	}
	return &reflectInstance{value: reflect.ValueOf(out)}, nil
}

type reflectInstance struct {
	value reflect.Value
}

func (r *reflectInstance) Call(method string, args []any, kwargs map[string]any) (any, error) {
	m := r.value.MethodByName(method)
	if !m.IsValid() && r.value.CanAddr() {
		m = r.value.Addr().MethodByName(method)
	}
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: no method %q on %s", ErrNotInvocable, method, r.value.Type())
	}
	return callReflected(m, args, kwargs)
}

func (r *reflectInstance) Property(name string) (any, error) {
	v := r.value
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() == reflect.Struct {
		if f := v.FieldByName(name); f.IsValid() {
			return f.Interface(), nil
		}
	}
	// Fall back to a zero-argument accessor method.
	if m := r.value.MethodByName(name); m.IsValid() && m.Type().NumIn() == 0 {
		return callReflected(m, nil, nil)
	}
	return nil, fmt.Errorf("%w: no property %q on %s", ErrNotInvocable, name, r.value.Type())
}

// Script wraps a function as a ScriptRunnable subject. The function reads
// its canned answers from the feed and writes output to stdout.
func Script(fn func(in *InputFeed) error) ScriptRunnable {
	return scriptFunc(fn)
}

type scriptFunc func(in *InputFeed) error

func (s scriptFunc) RunScript(in *InputFeed) error { return s(in) }

// callReflected invokes fn with args, adapting argument types where Go's
// numeric literals need conversion. Keyword arguments have no positional
// slot in Go; they are passed as a trailing map parameter when the function
// declares one, and rejected otherwise.
func callReflected(fn reflect.Value, args []any, kwargs map[string]any) (any, error) {
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s is not a function", ErrNotInvocable, fn.Type())
	}

	ft := fn.Type()
	callArgs := make([]any, len(args))
	copy(callArgs, args)

	if len(kwargs) > 0 {
		wantsMap := ft.NumIn() > 0 &&
			ft.In(ft.NumIn()-1) == reflect.TypeOf(map[string]any(nil))
		if !wantsMap {
			return nil, fmt.Errorf("%w: %s does not accept keyword arguments", ErrNotInvocable, ft)
		}
		callArgs = append(callArgs, kwargs)
	}

	in, err := convertArgs(ft, callArgs)
	if err != nil {
		return nil, err
	}

	results := fn.Call(in)
	return splitResults(ft, results)
}

func convertArgs(ft reflect.Type, args []any) ([]reflect.Value, error) {
	numIn := ft.NumIn()
	if ft.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, fmt.Errorf("%w: got %d args, want at least %d", ErrNotInvocable, len(args), numIn-1)
		}
	} else if len(args) != numIn {
		return nil, fmt.Errorf("%w: got %d args, want %d", ErrNotInvocable, len(args), numIn)
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var want reflect.Type
		if ft.IsVariadic() && i >= numIn-1 {
			want = ft.In(numIn - 1).Elem()
		} else {
			want = ft.In(i)
		}

		if a == nil {
			in[i] = reflect.Zero(want)
			continue
		}
		v := reflect.ValueOf(a)
		if !v.Type().AssignableTo(want) {
			if !v.Type().ConvertibleTo(want) || runeToString(v.Type(), want) {
				return nil, fmt.Errorf("%w: argument %d: cannot use %s as %s", ErrNotInvocable, i, v.Type(), want)
			}
			v = v.Convert(want)
		}
		in[i] = v
	}
	return in, nil
}

// runeToString reports whether converting from to to would be Go's
// integer-to-string conversion, which yields a one-rune string. A declared
// integer argument never means that; reject it instead of silently passing
// a string like "A" for 65.
func runeToString(from, to reflect.Type) bool {
	if to.Kind() != reflect.String {
		return false
	}
	switch from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

func splitResults(ft reflect.Type, results []reflect.Value) (any, error) {
	switch ft.NumOut() {
	case 0:
		return nil, nil
	case 1:
		if ft.Out(0) == errType {
			return nil, asError(results[0])
		}
		return results[0].Interface(), nil
	case 2:
		if ft.Out(1) != errType {
			return nil, fmt.Errorf("%w: second result of %s must be error", ErrNotInvocable, ft)
		}
		return results[0].Interface(), asError(results[1])
	default:
		return nil, fmt.Errorf("%w: %s returns too many values", ErrNotInvocable, ft)
	}
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}
