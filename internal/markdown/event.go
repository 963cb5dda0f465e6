// Package markdown splits a Markdown document into a flat stream of events
// and writes such a stream back out. Only fenced code blocks that carry an
// info string are broken into structured events; every other byte of the
// document travels as opaque markup so it can be reproduced exactly.
package markdown

// Kind identifies the type of an Event.
type Kind int

const (
	// Markup is raw document text outside any recognized code block.
	Markup Kind = iota
	// BlockOpen is the opening fence line of a code block.
	BlockOpen
	// Text is the body of a code block.
	Text
	// BlockClose is the closing fence line of a code block.
	BlockClose
	// HTML is markup produced by a rewriter. It is written verbatim.
	HTML
)

func (k Kind) String() string {
	switch k {
	case Markup:
		return "markup"
	case BlockOpen:
		return "block-open"
	case Text:
		return "text"
	case BlockClose:
		return "block-close"
	case HTML:
		return "html"
	}
	return "unknown"
}

// Event is one unit of the document stream.
type Event struct {
	Kind Kind

	// Raw holds the original bytes covered by the event. For HTML events it
	// holds the generated markup.
	Raw string

	// Info is the fence info string of a BlockOpen event.
	Info string

	// Text is the block source of a Text event with any container
	// indentation removed.
	Text string

	// Indent is the container prefix of a block's continuation lines, such
	// as "> " inside a blockquote or spaces inside a list item. It is set on
	// BlockOpen, Text and BlockClose events.
	Indent string

	// Line is the 1-based line on which the event starts in the source
	// document, or 0 for generated events.
	Line int

	// leadEnd is the offset of the fence inside Raw. infoStart and infoEnd
	// locate the original info string.
	leadEnd, infoStart, infoEnd int
}

// NewMarkup returns a Markup event carrying s.
func NewMarkup(s string) Event {
	return Event{Kind: Markup, Raw: s}
}

// NewHTML returns an HTML event carrying s.
func NewHTML(s string) Event {
	return Event{Kind: HTML, Raw: s}
}

// WithInfo returns a copy of a BlockOpen event whose info string is replaced
// by info. The rest of the fence line is kept.
func (e Event) WithInfo(info string) Event {
	e.Info = info
	return e
}

// Lead returns the container markers that precede the opening fence of a
// BlockOpen event, such as "> " or "- ".
func (e Event) Lead() string {
	if e.Kind != BlockOpen {
		return ""
	}
	return e.Raw[:e.leadEnd]
}

// String returns the serialized form of the event.
func (e Event) String() string {
	if e.Kind != BlockOpen || e.infoEnd == 0 {
		return e.Raw
	}
	if e.Raw[e.infoStart:e.infoEnd] == e.Info {
		return e.Raw
	}
	return e.Raw[:e.infoStart] + e.Info + e.Raw[e.infoEnd:]
}
