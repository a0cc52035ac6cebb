package pack

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"rubric/pkg/problem"
	"rubric/pkg/run"
)

func squareProblem(t *testing.T, expect int) *problem.Problem {
	t.Helper()
	p, err := problem.NewBuilder("Square", problem.Func(func(x int) int { return x * x })).
		Add(problem.Case(3).Expect(expect)).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPack_WritesManifestAndSources(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "square.go")
	if err := os.WriteFile(src, []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "square.zip")
	err := Pack(context.Background(), squareProblem(t, 9), out, Options{
		TotalScore: 20,
		Sources:    []string{src},
	})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	r, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer r.Close()

	entries := map[string]*zip.File{}
	for _, f := range r.File {
		entries[f.Name] = f
	}
	if _, ok := entries["square.go"]; !ok {
		t.Error("source file missing from the archive")
	}

	mf, ok := entries["manifest.yaml"]
	if !ok {
		t.Fatal("manifest missing from the archive")
	}
	rc, err := mf.Open()
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatal(err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	if manifest.Name != "Square" {
		t.Errorf("manifest name = %q, want Square", manifest.Name)
	}
	if manifest.Cases != 1 {
		t.Errorf("manifest cases = %d, want 1", manifest.Cases)
	}
	if manifest.TotalScore != 20 {
		t.Errorf("manifest total score = %v, want 20", manifest.TotalScore)
	}
	if manifest.Sources[0] != "square.go" {
		t.Errorf("manifest sources = %v, want [square.go]", manifest.Sources)
	}
}

func TestPack_RejectsFailingGolden(t *testing.T) {
	out := filepath.Join(t.TempDir(), "square.zip")

	err := Pack(context.Background(), squareProblem(t, 10), out, Options{TotalScore: 20})
	if !errors.Is(err, ErrInvalidProblem) {
		t.Fatalf("expected ErrInvalidProblem, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("no archive should be written for an invalid problem")
	}
}

func TestPack_MissingSourceFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "square.zip")

	err := Pack(context.Background(), squareProblem(t, 9), out, Options{
		Sources: []string{filepath.Join(dir, "absent.go")},
	})
	if err == nil {
		t.Fatal("expected an error for a missing source file")
	}
	var pathErr *os.PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("expected a path error, got %v", err)
	}
}

func TestPack_GoldenPanicIsInvalidProblem(t *testing.T) {
	p, err := problem.NewBuilder("Broken", problem.Func(func(x int) int { panic("defect") })).
		Add(problem.Case(1)).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "broken.zip")
	packErr := Pack(context.Background(), p, out, Options{Run: run.Options{}})
	if !errors.Is(packErr, ErrInvalidProblem) {
		t.Fatalf("expected ErrInvalidProblem for a panicking golden, got %v", packErr)
	}
}
