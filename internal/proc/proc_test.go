package proc

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunCapturesStdout(t *testing.T) {
	requireShell(t)

	res, err := Run(context.Background(), Command{
		Argv:  []string{"sh", "-c", "cat; echo err >&2"},
		Stdin: "hello\n",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Stdout != "hello\n" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "hello\n")
	}
	if res.Stderr != "err\n" {
		t.Errorf("Stderr = %q, want %q", res.Stderr, "err\n")
	}
}

func TestRunNonZeroExit(t *testing.T) {
	requireShell(t)

	res, err := Run(context.Background(), Command{Argv: []string{"sh", "-c", "echo partial; echo broken >&2; exit 3"}})
	if err == nil {
		t.Fatal("expected error")
	}
	code, ok := ExitStatus(err)
	if !ok || code != 3 {
		t.Errorf("ExitStatus() = %d, %v; want 3, true", code, ok)
	}
	if res.Stdout != "partial\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error %q should include stderr", err)
	}
}

func TestRunTimeout(t *testing.T) {
	requireShell(t)

	_, err := Run(context.Background(), Command{
		Argv:    []string{"sh", "-c", "exec sleep 5"},
		Timeout: 50 * time.Millisecond,
	})
	var pe *Error
	if !errors.As(err, &pe) || !pe.TimedOut {
		t.Fatalf("Run() error = %v, want timeout", err)
	}
	if _, ok := ExitStatus(err); ok {
		t.Error("timeout should not report an exit status")
	}
}

func TestRunCancelled(t *testing.T) {
	requireShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Command{Argv: []string{"sh", "-c", "exec sleep 5"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunMissingBinary(t *testing.T) {
	_, err := Run(context.Background(), Command{Argv: []string{"definitely-not-a-real-binary-prqldoc"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("error = %v, want exec.ErrNotFound", err)
	}
}

func TestRunEmptyCommand(t *testing.T) {
	if _, err := Run(context.Background(), Command{}); err == nil {
		t.Fatal("expected error for empty argv")
	}
}
