// Package pack bundles a checked problem into a distributable archive. The
// archive carries a manifest describing the problem alongside the author's
// source files, so a classroom backend can unpack and grade without the
// authoring environment.
package pack

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"rubric/internal/logging"
	"rubric/pkg/problem"
	"rubric/pkg/run"
)

// ErrInvalidProblem marks a problem whose golden solution fails its own
// declared expectations. Such a problem must never be packaged.
var ErrInvalidProblem = errors.New("pack: golden solution failed the check")

// Manifest is the archive's machine-readable description.
type Manifest struct {
	Name       string    `yaml:"name"`
	Script     bool      `yaml:"script"`
	Cases      int       `yaml:"cases"`
	TotalScore float64   `yaml:"total_score"`
	CreatedAt  time.Time `yaml:"created_at"`
	Sources    []string  `yaml:"sources"`
}

// Options configures a packaging run.
type Options struct {
	// TotalScore is recorded in the manifest for the grading frontend.
	TotalScore float64
	// Sources are the author-side files to include, typically the problem
	// definition and any support code.
	Sources []string
	// Run is forwarded to the golden self-check.
	Run run.Options
}

// Pack checks the problem's golden solution and writes the archive to
// outPath. The check runs first so an archive is only ever produced for a
// problem whose golden subject passes every declared expectation.
func Pack(ctx context.Context, p *problem.Problem, outPath string, opts Options) error {
	logger := logging.New("pack")

	if err := run.Check(ctx, p, opts.Run); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProblem, err)
	}
	logger.Info("golden check passed", "problem", p.Name(), "cases", len(p.Params()))

	manifest := Manifest{
		Name:       p.Name(),
		Script:     p.IsScript(),
		Cases:      len(p.Params()),
		TotalScore: opts.TotalScore,
		CreatedAt:  time.Now().UTC(),
	}
	for _, src := range opts.Sources {
		manifest.Sources = append(manifest.Sources, filepath.Base(src))
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("pack: create %s: %w", outPath, err)
	}
	defer f.Close()

	if err := writeArchive(f, manifest, opts.Sources); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("pack: close %s: %w", outPath, err)
	}

	logger.Info("archive written", "path", outPath, "sources", len(opts.Sources))
	return nil
}

func writeArchive(w io.Writer, manifest Manifest, sources []string) error {
	zw := zip.NewWriter(w)

	mw, err := zw.Create("manifest.yaml")
	if err != nil {
		return fmt.Errorf("pack: manifest entry: %w", err)
	}
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("pack: marshal manifest: %w", err)
	}
	if _, err := mw.Write(data); err != nil {
		return fmt.Errorf("pack: write manifest: %w", err)
	}

	for _, src := range sources {
		if err := addFile(zw, src); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("pack: finalize archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("pack: open %s: %w", path, err)
	}
	defer f.Close()

	entry, err := zw.Create(filepath.Base(path))
	if err != nil {
		return fmt.Errorf("pack: archive entry %s: %w", path, err)
	}
	if _, err := io.Copy(entry, f); err != nil {
		return fmt.Errorf("pack: copy %s: %w", path, err)
	}
	return nil
}
