// Package ansihtml turns terminal-styled diagnostics into text that is safe to
// embed in Markdown and HTML.
package ansihtml

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
)

// Mode selects how escape sequences are handled.
type Mode int

const (
	// ModeStrip removes every escape sequence.
	ModeStrip Mode = iota
	// ModeHTML translates SGR color and emphasis into styled spans.
	ModeHTML
)

// ParseMode maps a configuration value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strip", "plain":
		return ModeStrip, nil
	case "html":
		return ModeHTML, nil
	}
	return ModeStrip, fmt.Errorf("unknown error format %q (want strip or html)", s)
}

// Formatter converts diagnostic display text according to Mode.
type Formatter struct {
	Mode Mode
}

// Format returns s with escape sequences handled and markup characters
// escaped.
func (f Formatter) Format(s string) string {
	if f.Mode == ModeHTML {
		return ToHTML(s)
	}
	return Strip(s)
}

// Strip removes escape sequences from s and escapes markup characters.
func Strip(s string) string {
	return html.EscapeString(ansi.Strip(s))
}

// ToHTML escapes markup characters in s and replaces SGR sequences with
// <span style="..."> elements. Other escape sequences are dropped.
func ToHTML(s string) string {
	p := ansi.GetParser()
	defer ansi.PutParser(p)

	var (
		sb    strings.Builder
		state byte
		want  style
		open  style
	)
	for len(s) > 0 {
		seq, _, n, newState := ansi.DecodeSequence(s, state, p)
		if n <= 0 {
			seq, n, newState = s[:1], 1, ansi.NormalState
		}
		state = newState
		s = s[n:]

		if isControl(seq) {
			if ansi.HasCsiPrefix(seq) && ansi.Cmd(p.Command()).Final() == 'm' {
				want.apply(p.Params())
			}
			continue
		}

		if want != open {
			if !open.isZero() {
				sb.WriteString("</span>")
			}
			if !want.isZero() {
				fmt.Fprintf(&sb, `<span style="%s">`, want.css())
			}
			open = want
		}
		sb.WriteString(html.EscapeString(seq))
	}
	if !open.isZero() {
		sb.WriteString("</span>")
	}
	return sb.String()
}

// isControl reports whether seq is an escape sequence rather than text.
// Printable graphemes never start with ESC or a C1 control byte.
func isControl(seq string) bool {
	if seq == "" {
		return true
	}
	c := seq[0]
	return c == ansi.ESC || (c >= 0x80 && c <= 0x9f)
}
