package compiler

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// fakePrqlc writes a shell script standing in for prqlc and returns its path.
func fakePrqlc(t *testing.T, script string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	path := filepath.Join(t.TempDir(), "prqlc")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPrqlcArgs(t *testing.T) {
	p := NewPrqlc("", 0)
	if p.Command != "prqlc" {
		t.Errorf("Command = %q, want prqlc", p.Command)
	}

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"defaults", Options{}, []string{"compile", "--color=never", "--hide-signature-comment"}},
		{"signature kept", Options{Signature: true}, []string{"compile", "--color=never"}},
		{"color and target", Options{Color: ColorAlways, Target: "sql.postgres"},
			[]string{"compile", "--color=always", "--hide-signature-comment", "--target", "sql.postgres"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Args(tt.opts); !slices.Equal(got, tt.want) {
				t.Errorf("Args() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrqlcCompileSuccess(t *testing.T) {
	path := fakePrqlc(t, `
input=$(cat)
if [ "$input" = "from a" ]; then
  echo "SELECT * FROM a"
  exit 0
fi
echo "Error: unknown name" >&2
exit 1
`)
	p := NewPrqlc(path, 0)

	res, err := p.Compile(context.Background(), "from a", Options{})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !res.OK() {
		t.Fatalf("Compile() failed: %v", res.Err)
	}
	if strings.TrimSpace(res.Output) != "SELECT * FROM a" {
		t.Errorf("Output = %q", res.Output)
	}

	res, err = p.Compile(context.Background(), "from b d", Options{})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if res.OK() {
		t.Fatal("expected a diagnostic")
	}
	if res.Err.Error() != "Error: unknown name" {
		t.Errorf("diagnostic = %q", res.Err.Error())
	}
}

func TestPrqlcCompileToolFailure(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"crash exit code", "echo boom >&2\nexit 101\n"},
		{"silent failure", "exit 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrqlc(fakePrqlc(t, tt.script), 0)
			if _, err := p.Compile(context.Background(), "from a", Options{}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestPrqlcMissingBinary(t *testing.T) {
	p := NewPrqlc(filepath.Join(t.TempDir(), "missing-prqlc"), 0)
	if _, err := p.Compile(context.Background(), "from a", Options{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestFuncAdapter(t *testing.T) {
	var c Compiler = Func(func(_ context.Context, source string, opts Options) (Result, error) {
		if opts.Color != ColorNever {
			t.Errorf("Color = %v, want never", opts.Color)
		}
		return Success("SELECT 1 -- " + source), nil
	})
	res, err := c.Compile(context.Background(), "x", Options{})
	if err != nil || res.Output != "SELECT 1 -- x" {
		t.Errorf("Compile() = %+v, %v", res, err)
	}
	if Failure("bad").OK() {
		t.Error("Failure should not be OK")
	}
}
