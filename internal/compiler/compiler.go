// Package compiler translates PRQL into SQL by delegating to an external
// compiler.
package compiler

import (
	"context"
	"strings"
)

// ColorMode controls whether diagnostics carry ANSI color sequences.
type ColorMode int

const (
	ColorNever ColorMode = iota
	ColorAlways
)

func (c ColorMode) String() string {
	if c == ColorAlways {
		return "always"
	}
	return "never"
}

// Options are passed with every compilation. Nothing about a compilation is
// configured through global state.
type Options struct {
	// Target selects the SQL dialect, e.g. "sql.postgres". Empty uses the
	// compiler's default.
	Target string
	// Signature keeps the trailing "Generated by PRQL compiler" comment.
	Signature bool
	// Color selects the diagnostic rendering.
	Color ColorMode
}

// Diagnostic is a compile error as the compiler displays it.
type Diagnostic struct {
	Display string
}

func (d *Diagnostic) Error() string {
	return strings.TrimSpace(d.Display)
}

// Result is the outcome of compiling one source text. Exactly one of Output
// and Err is meaningful: Err is nil on success.
type Result struct {
	Output string
	Err    *Diagnostic
}

// OK reports whether the compilation succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Success returns a successful Result.
func Success(output string) Result {
	return Result{Output: output}
}

// Failure returns a failed Result carrying display.
func Failure(display string) Result {
	return Result{Err: &Diagnostic{Display: display}}
}

// Compiler compiles PRQL source. A returned error means the compiler itself
// could not run; a compile error in the source is reported through
// Result.Err.
type Compiler interface {
	Compile(ctx context.Context, source string, opts Options) (Result, error)
}

// Func adapts a function to the Compiler interface.
type Func func(ctx context.Context, source string, opts Options) (Result, error)

// Compile calls f.
func (f Func) Compile(ctx context.Context, source string, opts Options) (Result, error) {
	return f(ctx, source, opts)
}
