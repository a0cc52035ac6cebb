package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"rubric/pkg/problem"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const squareSrc = `package main

func Square(x int) int { return x * x }
`

func TestLoadSymbol_Function(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sub.go", squareSrc)

	sym, err := LoadSymbol(path, "Square")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	got, err := problem.Func(sym).Invoke([]any{4}, nil)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got != 16 {
		t.Errorf("Square(4) = %v, want 16", got)
	}
}

func TestLoadSymbol_SyntaxError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sub.go", "package main\n\nfunc Square(x int int {\n")

	_, err := LoadSymbol(path, "Square")
	if !errors.Is(err, ErrSubmissionSyntax) {
		t.Fatalf("expected ErrSubmissionSyntax, got %v", err)
	}
}

func TestLoadSymbol_NoMatch(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sub.go", "package main\n\nfunc Cube(x int) int { return x * x * x }\n")

	_, err := LoadSymbol(path, "Square")
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestLoadSymbol_DirectorySearch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "other.go", "package main\n\nfunc Cube(x int) int { return x * x * x }\n")
	writeFile(t, dir, "sub.go", squareSrc)

	sym, err := LoadSymbol(dir, "Square")
	if err != nil {
		t.Fatalf("load from dir: %v", err)
	}
	if got, _ := problem.Func(sym).Invoke([]any{3}, nil); got != 9 {
		t.Errorf("Square(3) = %v, want 9", got)
	}
}

func TestLoadSymbol_TooManyMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", squareSrc)
	writeFile(t, dir, "b.go", squareSrc)

	_, err := LoadSymbol(dir, "Square")
	if !errors.Is(err, ErrTooManyMatches) {
		t.Fatalf("expected ErrTooManyMatches, got %v", err)
	}
}

func TestLoadScript_SourceFileCounts(t *testing.T) {
	empty := t.TempDir()
	if _, err := LoadScript(empty); !errors.Is(err, ErrNoSource) {
		t.Errorf("empty dir: expected ErrNoSource, got %v", err)
	}

	many := t.TempDir()
	writeFile(t, many, "a.go", "package main\n\nfunc main() {}\n")
	writeFile(t, many, "b.go", "package main\n\nfunc main() {}\n")
	if _, err := LoadScript(many); !errors.Is(err, ErrMultipleSources) {
		t.Errorf("two files: expected ErrMultipleSources, got %v", err)
	}
}

func TestLoadScript_RunsWithCannedInput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", `package main

import "fmt"

func main() {
	var name string
	fmt.Scanln(&name)
}
`)

	script, err := LoadScript(dir)
	if err != nil {
		t.Fatalf("load script: %v", err)
	}
	if err := script.RunScript(problem.NewInputFeed([]string{"ada"})); err != nil {
		t.Fatalf("run script: %v", err)
	}
}

func TestLoad_DispatchesOnProblemShape(t *testing.T) {
	p, err := problem.NewBuilder("Square", problem.Func(func(x int) int { return x * x })).
		AddBatch(problem.Cases(1, 2)).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	path := writeFile(t, t.TempDir(), "sub.go", squareSrc)
	subject, err := Load(path, p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	inv, ok := subject.(problem.Invocable)
	if !ok {
		t.Fatalf("subject is %T, want Invocable", subject)
	}
	if got, _ := inv.Invoke([]any{5}, nil); got != 25 {
		t.Errorf("Square(5) = %v, want 25", got)
	}
}

func TestLoadContext_ReportsAllMissingSymbols(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sub.go", squareSrc)

	syms, err := LoadContext(path, []string{"Square"})
	if err != nil {
		t.Fatalf("load context: %v", err)
	}
	if _, ok := syms["Square"]; !ok {
		t.Error("Square missing from the captured context")
	}

	_, err = LoadContext(path, []string{"Square", "Helper", "Other"})
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}
