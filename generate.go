package facadegen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/reoring/facadegen/internal/compiler"
	"github.com/reoring/facadegen/internal/gen"
	"github.com/reoring/facadegen/schema"
)

// Options configures Generate.
type Options struct {
	// Package names the generated package. Defaults to "client".
	Package string
	// RuntimeImport is the import path of package rpc as seen from the
	// generated code.
	RuntimeImport string
	// Overrides lists definition names recompiled for every bundle that
	// declares them; see Config.
	Overrides []string
	// Logger receives debug events of the run. Nil disables logging.
	Logger *zerolog.Logger
}

// File is one generated Go source file.
type File struct {
	Name    string
	Content []byte
}

// Artifacts is the output of one run, sorted by file name.
type Artifacts struct {
	Files []File
}

// Names returns the file names in order.
func (a *Artifacts) Names() []string {
	out := make([]string, len(a.Files))
	for i, f := range a.Files {
		out[i] = f.Name
	}
	return out
}

// Get returns the content of the named file.
func (a *Artifacts) Get(name string) ([]byte, bool) {
	i, ok := slices.BinarySearchFunc(a.Files, name, func(f File, n string) int { return strings.Compare(f.Name, n) })
	if !ok {
		return nil, false
	}
	return a.Files[i].Content, true
}

// Generate compiles bundles and renders the client package. When any build
// error occurs no artifact is returned.
func Generate(bundles []schema.Bundle, opts Options) (*Artifacts, error) {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	model, err := compiler.Compile(bundles, compiler.Options{Overrides: opts.Overrides, Logger: log})
	if err != nil {
		return nil, err
	}
	files, err := gen.Emit(model, gen.Options{Package: opts.Package, RuntimeImport: opts.RuntimeImport})
	if err != nil {
		return nil, err
	}
	arts := &Artifacts{Files: make([]File, len(files))}
	for i, f := range files {
		arts.Files[i] = File{Name: f.Name, Content: f.Content}
	}
	log.Info().
		Int("bundles", len(bundles)).
		Int("definitions", len(model.Objects())).
		Int("facades", len(model.Facades.Names())).
		Strs("files", arts.Names()).
		Msg("generated client package")
	return arts, nil
}

// WriteDir writes every file into dir, creating it if needed. Files are
// written concurrently; the first failure cancels the rest.
func (a *Artifacts) WriteDir(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("facadegen: create %s: %w", dir, err)
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, f := range a.Files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, f.Name)
			if err := os.WriteFile(path, f.Content, 0o644); err != nil {
				return fmt.Errorf("facadegen: write %s: %w", path, err)
			}
			return nil
		})
	}
	return g.Wait()
}
