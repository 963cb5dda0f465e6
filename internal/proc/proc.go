// Package proc runs external tools with a bounded lifetime and captures their
// output.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a command when the caller does not set a timeout.
const DefaultTimeout = 30 * time.Second

// waitDelay bounds how long output pipes may stay open after the process is
// killed, e.g. when a grandchild still holds them.
const waitDelay = 2 * time.Second

// Command describes one invocation.
type Command struct {
	Argv    []string
	Stdin   string
	Dir     string
	Timeout time.Duration
}

// Result contains the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Error describes a command that could not run to a zero exit status.
type Error struct {
	Argv     []string
	ExitCode int
	Stderr   string
	TimedOut bool
	Err      error
}

func (e *Error) Error() string {
	name := "command"
	if len(e.Argv) > 0 {
		name = e.Argv[0]
	}
	switch {
	case e.TimedOut:
		return fmt.Sprintf("%s timed out", name)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", name, e.Err)
	}
	msg := fmt.Sprintf("%s exited with status %d", name, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Run executes cmd and waits for it. A non-zero exit status is reported as
// an *Error that still carries the captured Result, so callers that treat
// some exit codes as data can inspect it.
func Run(ctx context.Context, cmd Command) (Result, error) {
	if len(cmd.Argv) == 0 {
		return Result{}, &Error{Err: errors.New("empty command")}
	}

	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c := exec.CommandContext(execCtx, cmd.Argv[0], cmd.Argv[1:]...)
	c.Dir = cmd.Dir
	c.WaitDelay = waitDelay
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()

	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if ctx.Err() != nil {
		return result, &Error{Argv: cmd.Argv, Stderr: result.Stderr, Err: ctx.Err()}
	}
	if execCtx.Err() == context.DeadlineExceeded {
		return result, &Error{Argv: cmd.Argv, TimedOut: true, Stderr: result.Stderr, Err: execCtx.Err()}
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, &Error{Argv: cmd.Argv, ExitCode: result.ExitCode, Stderr: result.Stderr}
		}
		return result, &Error{Argv: cmd.Argv, Err: err}
	}

	return result, nil
}

// ExitStatus returns the exit code carried by err when the command ran and
// exited non-zero.
func ExitStatus(err error) (int, bool) {
	var pe *Error
	if errors.As(err, &pe) && !pe.TimedOut && pe.Err == nil {
		return pe.ExitCode, true
	}
	return 0, false
}
