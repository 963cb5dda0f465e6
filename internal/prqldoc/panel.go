package prqldoc

import (
	"fmt"
	"strings"
)

// PanelKind selects the right-hand pane of a panel.
type PanelKind int

const (
	// ComparisonPanel pairs a sample with its compiled SQL.
	ComparisonPanel PanelKind = iota
	// ErrorPanel pairs a sample with its compile diagnostic.
	ErrorPanel
	// TablePanel pairs a sample with the rows its SQL returns.
	TablePanel
)

// Pane is one half of a panel: a fenced block with a language and title.
type Pane struct {
	Lang  string
	Title string
	Text  string

	// keepIndent trims only surrounding blank lines so that column-aligned
	// output keeps its first-line indentation.
	keepIndent bool
}

// SourcePane is the left pane shared by every panel kind.
func SourcePane(source string) Pane {
	return Pane{Lang: "prql", Title: "PRQL", Text: source}
}

// Pane returns the right-hand pane of a panel of kind k holding text.
func (k PanelKind) Pane(text string) Pane {
	switch k {
	case ErrorPanel:
		return Pane{Lang: "text", Title: "Error", Text: text}
	case TablePanel:
		return Pane{Lang: "text", Title: "Result", Text: text, keepIndent: true}
	}
	return Pane{Lang: "sql", Title: "SQL", Text: text}
}

// RenderPanel renders the panel of kind k for a sample and its right-hand
// text.
func RenderPanel(k PanelKind, source, right string) string {
	return Render(SourcePane(source), k.Pane(right))
}

// Render lays out two panes side by side as a comparison block. Both texts
// are trimmed before embedding. The markup is passed through by Markdown
// processors and styled by the documentation site.
func Render(left, right Pane) string {
	var sb strings.Builder
	sb.WriteString("<div class=\"comparison\">\n\n")
	writePane(&sb, left)
	sb.WriteString("\n")
	writePane(&sb, right)
	sb.WriteString("\n</div>\n")
	return sb.String()
}

func writePane(sb *strings.Builder, p Pane) {
	text := strings.TrimSpace(p.Text)
	if p.keepIndent {
		text = strings.TrimRight(strings.TrimLeft(p.Text, "\r\n"), " \t\r\n")
	}
	fence := fenceFor(text)
	sb.WriteString("<div>\n\n")
	fmt.Fprintf(sb, "%s%s title=%q\n", fence, p.Lang, p.Title)
	if text != "" {
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	sb.WriteString(fence)
	sb.WriteString("\n\n</div>\n")
}

// fenceFor returns a backtick fence longer than any backtick run in text.
func fenceFor(text string) string {
	longest, run := 0, 0
	for i := 0; i < len(text); i++ {
		if text[i] == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}
