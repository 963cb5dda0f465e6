package compiler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samsaffron/prqldoc/internal/proc"
)

// Prqlc compiles by running the prqlc command line compiler with the source
// on stdin.
type Prqlc struct {
	Command string
	Timeout time.Duration
}

// NewPrqlc creates a Prqlc that runs command. An empty command means
// "prqlc" on PATH.
func NewPrqlc(command string, timeout time.Duration) *Prqlc {
	if command == "" {
		command = "prqlc"
	}
	return &Prqlc{Command: command, Timeout: timeout}
}

// Args returns the prqlc arguments used for opts.
func (p *Prqlc) Args(opts Options) []string {
	args := []string{"compile", "--color=" + opts.Color.String()}
	if !opts.Signature {
		args = append(args, "--hide-signature-comment")
	}
	if opts.Target != "" {
		args = append(args, "--target", opts.Target)
	}
	return args
}

// Compile implements Compiler. Exit status 1 with a diagnostic on stderr is
// a compile error; anything else that keeps prqlc from producing SQL is
// returned as an error.
func (p *Prqlc) Compile(ctx context.Context, source string, opts Options) (Result, error) {
	argv := append([]string{p.Command}, p.Args(opts)...)
	res, err := proc.Run(ctx, proc.Command{
		Argv:    argv,
		Stdin:   source,
		Timeout: p.Timeout,
	})
	if err != nil {
		if code, ok := proc.ExitStatus(err); ok && code == 1 && strings.TrimSpace(res.Stderr) != "" {
			return Failure(res.Stderr), nil
		}
		return Result{}, fmt.Errorf("run %s: %w", p.Command, err)
	}
	return Success(res.Stdout), nil
}
