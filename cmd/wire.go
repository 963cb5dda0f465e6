package cmd

import (
	"context"
	"fmt"

	"github.com/samsaffron/prqldoc/internal/ansihtml"
	"github.com/samsaffron/prqldoc/internal/compiler"
	"github.com/samsaffron/prqldoc/internal/config"
	"github.com/samsaffron/prqldoc/internal/prqldoc"
	"github.com/samsaffron/prqldoc/internal/results"
)

// newRewriter wires the configured compiler, result engine and error
// formatter. The returned func releases the result engine.
func newRewriter(ctx context.Context, cfg *config.Config) (*prqldoc.Rewriter, func(), error) {
	format, err := ansihtml.ParseMode(cfg.Errors.Format)
	if err != nil {
		return nil, nil, err
	}
	// Diagnostics keep their colors only when they are converted to spans.
	color := compiler.ColorNever
	if format == ansihtml.ModeHTML {
		color = compiler.ColorAlways
	}

	renderer, closeFn, err := newResultRenderer(ctx, cfg.Results)
	if err != nil {
		return nil, nil, err
	}

	rw := prqldoc.NewRewriter(
		compiler.NewPrqlc(cfg.Compiler.Command, cfg.Compiler.Timeout),
		renderer,
		ansihtml.Formatter{Mode: format},
		prqldoc.Options{
			Tag:          cfg.Tag,
			DisplayTitle: cfg.DisplayTitle,
			StrictModes:  cfg.StrictModes,
			Compile: compiler.Options{
				Target:    cfg.Compiler.Target,
				Signature: cfg.Compiler.Signature,
				Color:     color,
			},
		},
	)
	return rw, closeFn, nil
}

func newResultRenderer(ctx context.Context, cfg config.ResultsConfig) (prqldoc.ResultRenderer, func(), error) {
	switch results.Engine(cfg.Engine) {
	case results.EngineSQLite:
		db, err := results.OpenSQLite(ctx, cfg.SQLite.DSN, cfg.SQLite.Seed, cfg.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	case results.EngineCommand, "":
		return results.NewCommand(cfg.Command, cfg.Timeout), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown results engine %q", cfg.Engine)
}
