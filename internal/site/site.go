// Package site rewrites every page of a documentation tree.
package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
	"github.com/samsaffron/prqldoc/internal/prqldoc"
)

// DefaultInclude selects the pages of a tree.
const DefaultInclude = "**/*.md"

// Transformer rewrites one page.
type Transformer interface {
	Transform(ctx context.Context, src []byte) ([]byte, prqldoc.Stats, error)
}

// Options selects the pages of a build.
type Options struct {
	SrcDir string
	OutDir string
	// Include is a doublestar pattern matched against slash separated paths
	// relative to SrcDir. Default DefaultInclude.
	Include string
	// Exclude lists glob patterns; a page matching any of them is skipped.
	Exclude []string
}

// Page is one rewritten page.
type Page struct {
	Path  string // relative to SrcDir, slash separated
	Stats prqldoc.Stats
}

// CompileExcludes compiles exclude patterns. * does not cross "/".
func CompileExcludes(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// ValidatePatterns checks an include pattern and exclude patterns.
func ValidatePatterns(include string, exclude []string) error {
	if include != "" && !doublestar.ValidatePattern(include) {
		return fmt.Errorf("invalid include pattern %q", include)
	}
	_, err := CompileExcludes(exclude)
	return err
}

// Find returns the pages under opts.SrcDir in lexical order. Hidden files and
// directories are skipped.
func Find(ctx context.Context, opts Options) ([]string, error) {
	include := opts.Include
	if include == "" {
		include = DefaultInclude
	}
	if err := ValidatePatterns(include, nil); err != nil {
		return nil, err
	}
	excludes, err := CompileExcludes(opts.Exclude)
	if err != nil {
		return nil, err
	}

	var pages []string
	err = filepath.WalkDir(opts.SrcDir, func(path string, d os.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return err
		}
		if path != opts.SrcDir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(opts.SrcDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(include, rel); !ok {
			return nil
		}
		for _, g := range excludes {
			if g.Match(rel) {
				return nil
			}
		}
		pages = append(pages, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", opts.SrcDir, err)
	}
	sort.Strings(pages)
	return pages, nil
}

// Build rewrites every page found under opts.SrcDir into the same relative
// path under opts.OutDir. All pages are rewritten before the first one is
// written, so a failing page leaves OutDir untouched.
func Build(ctx context.Context, t Transformer, opts Options) ([]Page, error) {
	paths, err := Find(ctx, opts)
	if err != nil {
		return nil, err
	}

	pages := make([]Page, 0, len(paths))
	outputs := make([][]byte, 0, len(paths))
	for _, rel := range paths {
		src, err := os.ReadFile(filepath.Join(opts.SrcDir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		out, stats, err := t.Transform(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rel, err)
		}
		pages = append(pages, Page{Path: rel, Stats: stats})
		outputs = append(outputs, out)
	}

	for i, page := range pages {
		dst := filepath.Join(opts.OutDir, filepath.FromSlash(page.Path))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
		if err := os.WriteFile(dst, outputs[i], 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", page.Path, err)
		}
	}
	return pages, nil
}
