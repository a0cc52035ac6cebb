// Package loader brings student-submitted, maybe-invalid Go source into
// the process as evaluation subjects. Files are interpreted with yaegi so
// a submission never has to be compiled into the grader binary; the engine
// itself performs no name-based lookup beyond what the problem declares.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"rubric/pkg/problem"
)

var (
	// ErrSubmissionSyntax marks a submission that failed to parse or
	// evaluate at load time.
	ErrSubmissionSyntax = errors.New("loader: submission failed to parse")

	// ErrNoMatch means no submitted file defines the expected symbol.
	ErrNoMatch = errors.New("loader: no matching symbol")

	// ErrTooManyMatches means more than one submitted file defines the
	// expected symbol.
	ErrTooManyMatches = errors.New("loader: multiple files define the symbol")

	// ErrNoSource means a script submission contained no Go source file.
	ErrNoSource = errors.New("loader: no source file found")

	// ErrMultipleSources means a script submission contained more than
	// one Go source file.
	ErrMultipleSources = errors.New("loader: multiple source files found")
)

// Load returns the submission subject matching the problem's declared
// shape: a script runner for script problems, a constructible for pipeline
// problems, an invocable otherwise. path may be a single file or a
// directory searched without recursion.
func Load(path string, p *problem.Problem) (problem.Subject, error) {
	if p.IsScript() {
		return LoadScript(path)
	}

	sym, err := LoadSymbol(path, p.Name())
	if err != nil {
		return nil, err
	}
	if _, ok := p.Golden().(problem.Constructible); ok {
		return problem.Class(sym), nil
	}
	return problem.Func(sym), nil
}

// LoadSymbol evaluates the source at path and returns the named symbol's
// value. With a directory, exactly one file must define the symbol.
func LoadSymbol(path, symbol string) (any, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loader: stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return loadSymbolFromFile(path, symbol)
	}

	files, err := sourceFiles(path)
	if err != nil {
		return nil, err
	}

	var matches []any
	for _, file := range files {
		v, err := loadSymbolFromFile(file, symbol)
		if err != nil {
			if errors.Is(err, ErrNoMatch) {
				continue
			}
			return nil, err
		}
		matches = append(matches, v)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s in %s", ErrNoMatch, symbol, path)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrTooManyMatches, symbol)
	}
}

func loadSymbolFromFile(path, symbol string) (any, error) {
	i := interp.New(interp.Options{Stdout: os.Stdout, Stderr: os.Stderr})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("loader: interpreter setup: %w", err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSubmissionSyntax, path, err)
	}

	v, err := i.Eval(symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrNoMatch, symbol, path)
	}
	if !v.IsValid() {
		return nil, fmt.Errorf("%w: %s in %s", ErrNoMatch, symbol, path)
	}
	return v.Interface(), nil
}

// LoadScript wraps the single source file at path as a script subject. A
// fresh interpreter runs on every invocation, with the test case's canned
// answers as its stdin, so each run starts from a clean slate.
func LoadScript(path string) (problem.ScriptRunnable, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loader: stat %s: %w", path, err)
	}
	file := path
	if info.IsDir() {
		files, err := sourceFiles(path)
		if err != nil {
			return nil, err
		}
		switch len(files) {
		case 0:
			return nil, fmt.Errorf("%w: %s", ErrNoSource, path)
		case 1:
			file = files[0]
		default:
			return nil, fmt.Errorf("%w: %s", ErrMultipleSources, path)
		}
	}
	return &scriptFile{path: file}, nil
}

type scriptFile struct {
	path string
}

func (s *scriptFile) RunScript(in *problem.InputFeed) error {
	// os.Stdout is resolved here, inside the runner's capture scope, so
	// everything the script prints lands in the captured text.
	i := interp.New(interp.Options{
		Stdin:  in.Reader(),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("loader: interpreter setup: %w", err)
	}
	if _, err := i.EvalPath(s.path); err != nil {
		if strings.Contains(err.Error(), problem.ErrInputExhausted.Error()) {
			return fmt.Errorf("%w: %v", problem.ErrInputExhausted, err)
		}
		return err
	}
	return nil
}

// LoadContext captures the declared sibling symbols from the submission.
// Missing symbols are reported together so students can fix them in one
// pass.
func LoadContext(path string, symbols []string) (map[string]any, error) {
	out := make(map[string]any, len(symbols))
	var missing []string
	for _, sym := range symbols {
		v, err := LoadSymbol(path, sym)
		if err != nil {
			if errors.Is(err, ErrNoMatch) {
				missing = append(missing, sym)
				continue
			}
			return nil, err
		}
		out[sym] = v
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, strings.Join(missing, ", "))
	}
	return out, nil
}

func sourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".go" {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
