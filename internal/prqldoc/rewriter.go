// Package prqldoc rewrites Markdown documentation so that PRQL samples are
// shown next to their compiled SQL, their compile errors, or the rows they
// return.
package prqldoc

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/samsaffron/prqldoc/internal/ansihtml"
	"github.com/samsaffron/prqldoc/internal/compiler"
	"github.com/samsaffron/prqldoc/internal/markdown"
)

// DefaultDisplayTitle replaces the info string of no-eval and no-test
// fences.
const DefaultDisplayTitle = `prql title="PRQL"`

// Compiler compiles PRQL source; see compiler.Compiler.
type Compiler interface {
	Compile(ctx context.Context, source string, opts compiler.Options) (compiler.Result, error)
}

// ResultRenderer executes compiled SQL and returns the rendered rows.
type ResultRenderer interface {
	Render(ctx context.Context, query string) (string, error)
}

// ErrorFormatter converts a diagnostic's display text into markup-safe
// text.
type ErrorFormatter interface {
	Format(display string) string
}

// Options configures a Rewriter.
type Options struct {
	// Tag is the fence language of PRQL samples. Default DefaultTag.
	Tag string
	// DisplayTitle is the info string given to no-eval and no-test fences.
	// Default DefaultDisplayTitle.
	DisplayTitle string
	// StrictModes rejects unknown mode suffixes instead of evaluating them.
	StrictModes bool
	// Compile is passed to every compiler call.
	Compile compiler.Options
}

// Stats counts what a pass did.
type Stats struct {
	Blocks       map[Mode]int
	Compilations int
	Renders      int
}

func (s *Stats) count(m Mode) {
	if s.Blocks == nil {
		s.Blocks = make(map[Mode]int)
	}
	s.Blocks[m]++
}

// blockState is the position of the rewriter relative to the tagged block
// it is inside, if any.
type blockState int

const (
	idle blockState = iota
	inEval
	inError
	inTable
)

var stateForMode = map[Mode]blockState{
	ModeEval:  inEval,
	ModeError: inError,
	ModeTable: inTable,
}

// Rewriter replaces tagged PRQL blocks in an event stream.
type Rewriter struct {
	compiler  Compiler
	results   ResultRenderer
	formatter ErrorFormatter
	opts      Options
}

// NewRewriter creates a Rewriter. results may be nil when documents contain
// no table blocks; a table block then fails the pass. A nil formatter strips
// escape sequences.
func NewRewriter(c Compiler, results ResultRenderer, formatter ErrorFormatter, opts Options) *Rewriter {
	if opts.Tag == "" {
		opts.Tag = DefaultTag
	}
	if opts.DisplayTitle == "" {
		opts.DisplayTitle = DefaultDisplayTitle
	}
	if formatter == nil {
		formatter = ansihtml.Formatter{Mode: ansihtml.ModeStrip}
	}
	return &Rewriter{
		compiler:  c,
		results:   results,
		formatter: formatter,
		opts:      opts,
	}
}

// Rewrite returns the rewritten form of events. Events are pulled and
// yielded one at a time in document order. The first failure is yielded as
// an error and ends the stream. stats may be nil.
func (r *Rewriter) Rewrite(ctx context.Context, events iter.Seq[markdown.Event], stats *Stats) iter.Seq2[markdown.Event, error] {
	if stats == nil {
		stats = &Stats{}
	}
	return func(yield func(markdown.Event, error) bool) {
		state := idle
		// gap is the blank line owed after a panel so that the markup
		// following it is not absorbed into the HTML block.
		gap := ""
		for ev := range events {
			if gap != "" && ev.Raw != "" {
				if !startsBlank(ev.Raw) && !yield(markdown.NewMarkup(gap), nil) {
					return
				}
				gap = ""
			}
			if ev.Kind == markdown.BlockClose && state != idle {
				gap = strings.TrimRight(ev.Indent, " \t") + "\n"
			}
			out, next, emit, err := r.step(ctx, state, ev, stats)
			if err != nil {
				yield(markdown.Event{}, err)
				return
			}
			state = next
			if emit && !yield(out, nil) {
				return
			}
		}
	}
}

// step applies one event to the state machine. It returns the replacement
// event, the next state, and whether the replacement is emitted at all.
func (r *Rewriter) step(ctx context.Context, state blockState, ev markdown.Event, stats *Stats) (markdown.Event, blockState, bool, error) {
	switch ev.Kind {
	case markdown.BlockOpen:
		if state != idle {
			return ev, state, false, &Error{Kind: MalformedStream, Line: ev.Line, Message: "code block opened inside another code block"}
		}
		if !HasTag(ev.Info, r.opts.Tag) {
			return ev, idle, true, nil
		}
		mode, err := r.classify(ev)
		if err != nil {
			return ev, state, false, err
		}
		stats.count(mode)
		slog.Debug("prql block", "line", ev.Line, "mode", mode.String())
		if next, ok := stateForMode[mode]; ok {
			return markdown.NewMarkup(ev.Lead()), next, true, nil
		}
		return ev.WithInfo(r.opts.DisplayTitle), idle, true, nil

	case markdown.Text:
		if state == idle {
			return ev, idle, true, nil
		}
		panel, err := r.renderBlock(ctx, state, ev, stats)
		if err != nil {
			return ev, state, false, err
		}
		return markdown.NewHTML(indentPanel(panel, ev.Indent)), state, true, nil

	case markdown.BlockClose:
		if state != idle {
			return ev, idle, false, nil
		}
		return ev, idle, true, nil
	}
	return ev, state, true, nil
}

// indentPanel places a panel inside the container of the block it replaces.
// The first line follows the block's lead, which is emitted separately.
func indentPanel(panel, indent string) string {
	if indent == "" {
		return panel
	}
	blank := strings.TrimRight(indent, " \t")
	var sb strings.Builder
	for i, line := range strings.SplitAfter(panel, "\n") {
		switch {
		case line == "":
			continue
		case i == 0:
		case line == "\n":
			sb.WriteString(blank)
		default:
			sb.WriteString(indent)
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// startsBlank reports whether the first line of s is blank once container
// markers are removed.
func startsBlank(s string) bool {
	line, _, _ := strings.Cut(s, "\n")
	return strings.Trim(line, " \t>") == ""
}

func (r *Rewriter) classify(ev markdown.Event) (Mode, error) {
	if r.opts.StrictModes {
		mode, err := ParseMode(ev.Info, r.opts.Tag)
		if err != nil {
			if e, ok := err.(*Error); ok {
				e.Line = ev.Line
			}
			return mode, err
		}
		return mode, nil
	}
	mode := Classify(ev.Info, r.opts.Tag)
	if s := suffix(ev.Info, r.opts.Tag); mode == ModeEval && s != "" {
		slog.Warn("unknown block mode, evaluating", "line", ev.Line, "suffix", s)
	}
	return mode, nil
}

// renderBlock compiles the block body once and builds its panel.
func (r *Rewriter) renderBlock(ctx context.Context, state blockState, ev markdown.Event, stats *Stats) (string, error) {
	source := ev.Text

	res, err := r.compiler.Compile(ctx, source, r.opts.Compile)
	stats.Compilations++
	if err != nil {
		return "", &Error{Kind: ExternalToolFailure, Line: ev.Line, Message: "compiler failed", Source: source, Err: err}
	}

	switch state {
	case inError:
		if res.OK() {
			return "", &Error{
				Kind:    CompilationOutcomeMismatch,
				Line:    ev.Line,
				Message: "query was labeled to raise an error, but succeeded",
				Source:  source,
				Output:  res.Output,
			}
		}
		return RenderPanel(ErrorPanel, source, r.formatter.Format(res.Err.Display)), nil

	case inEval, inTable:
		if !res.OK() {
			return "", &Error{
				Kind:    CompilationOutcomeMismatch,
				Line:    ev.Line,
				Message: "query was expected to compile, but failed",
				Source:  source,
				Output:  res.Err.Display,
			}
		}
		if state == inEval {
			return RenderPanel(ComparisonPanel, source, res.Output), nil
		}
		rows, err := r.renderRows(ctx, ev, res.Output)
		stats.Renders++
		if err != nil {
			return "", err
		}
		return RenderPanel(TablePanel, source, rows), nil
	}
	return "", fmt.Errorf("unexpected block state %d", state)
}

func (r *Rewriter) renderRows(ctx context.Context, ev markdown.Event, query string) (string, error) {
	if r.results == nil {
		return "", &Error{Kind: ExternalToolFailure, Line: ev.Line, Message: "table block found but no result renderer is configured", Source: ev.Text}
	}
	rows, err := r.results.Render(ctx, query)
	if err != nil {
		return "", &Error{Kind: ExternalToolFailure, Line: ev.Line, Message: "result renderer failed", Source: query, Err: err}
	}
	if !utf8.ValidString(rows) {
		return "", &Error{Kind: ExternalToolFailure, Line: ev.Line, Message: "result renderer produced invalid UTF-8", Source: query}
	}
	return rows, nil
}
