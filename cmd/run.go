package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	"github.com/samsaffron/prqldoc/internal/config"
	"github.com/samsaffron/prqldoc/internal/prqldoc"
	"github.com/samsaffron/prqldoc/internal/ui"
)

type runOptions struct {
	configPath string
	output     string
	tag        string
	sample     bool
	preview    bool
	strict     bool
	debug      bool
}

// run rewrites one document. Nothing is written unless the whole document
// was rewritten.
func run(ctx context.Context, o runOptions, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	setupLogging(stderr, o.debug)

	src, name, err := readInput(o, args, stdin)
	if err != nil {
		return err
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyOverrides(o.tag, o.strict)

	rw, closeResults, err := newRewriter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeResults()

	slog.Debug("rewriting", "input", name, "tag", cfg.Tag, "strict", cfg.StrictModes)
	out, stats, err := rw.Transform(ctx, src)
	if err != nil {
		return err
	}

	if o.preview {
		width, profile := ui.DefaultWidth, termenv.Ascii
		if f, ok := stdout.(*os.File); ok {
			width, profile = ui.TerminalWidth(f), ui.ColorProfile(f)
		}
		rendered, err := ui.Preview(string(out), width, profile)
		if err != nil {
			return fmt.Errorf("render preview: %w", err)
		}
		_, err = io.WriteString(stdout, rendered)
		return err
	}

	if o.output != "" {
		if err := os.WriteFile(o.output, out, 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(stderr, "%s %s\n", ui.NewStyles(stderr).FormatStats(stats), o.output)
		return nil
	}
	_, err = stdout.Write(out)
	return err
}

func readInput(o runOptions, args []string, stdin io.Reader) ([]byte, string, error) {
	switch {
	case o.sample && len(args) > 0:
		return nil, "", errors.New("--sample cannot be combined with an input file")
	case o.sample:
		return prqldoc.Sample, "sample", nil
	case len(args) == 0 || args[0] == "-":
		src, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return src, "stdin", nil
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", err
	}
	return src, args[0], nil
}

func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
