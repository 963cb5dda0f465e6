package ui

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

type rendererKey struct {
	width   int
	profile termenv.Profile
}

// rendererCache holds glamour renderers keyed by width and color profile.
// Creating a renderer is expensive.
var rendererCache sync.Map // map[rendererKey]*glamour.TermRenderer

func getRenderer(width int, profile termenv.Profile) (*glamour.TermRenderer, error) {
	key := rendererKey{width, profile}
	if cached, ok := rendererCache.Load(key); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	style := GlamourStyle(DefaultTheme())
	margin := uint(0)
	style.Document.Margin = &margin

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(profile),
	)
	if err != nil {
		return nil, err
	}

	rendererCache.Store(key, renderer)
	return renderer, nil
}

// TerminalWidth returns the width of f, or DefaultWidth when f is not a
// terminal.
func TerminalWidth(f *os.File) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return DefaultWidth
}

// ColorProfile returns the color profile to preview with on f.
func ColorProfile(f *os.File) termenv.Profile {
	if !term.IsTerminal(int(f.Fd())) {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// Preview renders a rewritten document for reading in a terminal. The
// comparison wrappers are dropped so that both panes render as code blocks.
func Preview(doc string, width int, profile termenv.Profile) (string, error) {
	renderer, err := getRenderer(width, profile)
	if err != nil {
		return "", err
	}
	rendered, err := renderer.Render(unwrapPanels(doc))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(rendered) + "\n", nil
}

var panelTags = []string{`<div class="comparison">`, "<div>", "</div>"}

// unwrapPanels removes the div lines that wrap comparison panes.
func unwrapPanels(doc string) string {
	lines := strings.SplitAfter(doc, "\n")
	var sb strings.Builder
	sb.Grow(len(doc))
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t\r\n")
		for _, tag := range panelTags {
			if lead, ok := strings.CutSuffix(trimmed, tag); ok && strings.Trim(lead, " \t>-*+.)0123456789") == "" {
				// Keep container markers so lists and quotes stay intact.
				if line = ""; strings.TrimSpace(lead) != "" {
					line = strings.TrimRight(lead, " \t") + "\n"
				}
				break
			}
		}
		sb.WriteString(line)
	}
	return sb.String()
}
