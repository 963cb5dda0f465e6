package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samsaffron/prqldoc/internal/prqldoc"
)

// FormatError renders a failed pass for stderr. Rewrite errors show the
// offending block source and compiler output below the message.
func (s *Styles) FormatError(err error) string {
	var e *prqldoc.Error
	if !errors.As(err, &e) {
		return s.FormatResult(false, err.Error())
	}

	var sb strings.Builder
	msg := e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Line > 0 {
		msg = s.Muted.Render(fmt.Sprintf("line %d:", e.Line)) + " " + msg
	}
	// Keep context added by wrapping, such as the page path.
	if outer := err.Error(); outer != e.Error() && strings.HasSuffix(outer, e.Error()) {
		msg = s.Title.Render(strings.TrimSuffix(outer, e.Error())) + msg
	}
	sb.WriteString(s.FormatResult(false, msg))
	if src := strings.TrimSpace(e.Source); src != "" {
		sb.WriteString("\n\n")
		sb.WriteString(s.Source.Render(src))
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		sb.WriteString("\n\n")
		sb.WriteString(out)
	}
	return sb.String()
}

// FormatStats summarizes a successful pass.
func (s *Styles) FormatStats(stats prqldoc.Stats) string {
	var parts []string
	for _, m := range []prqldoc.Mode{prqldoc.ModeEval, prqldoc.ModeTable, prqldoc.ModeError, prqldoc.ModeNoEval, prqldoc.ModeNoTest} {
		if n := stats.Blocks[m]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, m))
		}
	}
	if len(parts) == 0 {
		return s.Warning.Render("no prql blocks")
	}
	summary := strings.Join(parts, ", ")
	return s.FormatResult(true, summary+s.Muted.Render(fmt.Sprintf(" (%d compiled)", stats.Compilations)))
}
