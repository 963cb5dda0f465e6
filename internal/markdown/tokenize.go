package markdown

import (
	"bytes"
	"iter"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// closesKey holds, per parse, the start of the fence line that closed each
// fenced code block.
var closesKey = parser.NewContextKey()

// fenceParser is goldmark's fenced code block parser, recording where each
// block is closed. A block ended by its container has no entry.
type fenceParser struct {
	parser.BlockParser
}

func (p fenceParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	_, seg := reader.PeekLine()
	state := p.BlockParser.Continue(node, reader, pc)
	if state == parser.Close {
		closes := pc.ComputeIfAbsent(closesKey, func() any { return map[ast.Node]int{} }).(map[ast.Node]int)
		closes[node] = seg.Start
	}
	return state
}

func blockParsers() []util.PrioritizedValue {
	ps := parser.DefaultBlockParsers()
	fenced := parser.NewFencedCodeBlockParser()
	for i, p := range ps {
		if p.Value == fenced {
			ps[i] = util.Prioritized(fenceParser{fenced}, p.Priority)
		}
	}
	return ps
}

// mdParser is shared; goldmark parsers are safe for concurrent use.
var mdParser = parser.NewParser(
	parser.WithBlockParsers(blockParsers()...),
	parser.WithInlineParsers(parser.DefaultInlineParsers()...),
	parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
)

// fence is the byte layout of one fenced code block in the source.
type fence struct {
	start     int // start of the opening fence line
	leadEnd   int // first fence character of the opening line
	openEnd   int // end of the opening fence line, newline included
	infoStart int
	infoEnd   int
	bodyEnd   int // end of the last body line
	end       int // end of the closing fence line, or bodyEnd if unclosed
	body      string
}

// Tokenize parses src and returns its event stream. Fenced code blocks with
// an info string become BlockOpen, Text and BlockClose events; everything
// else is emitted as Markup. Concatenating the String form of every event
// reproduces src exactly.
func Tokenize(src []byte) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		fences := findFences(src)

		pos, line := 0, 1
		emit := func(e Event, end int) bool {
			e.Line = line
			line += bytes.Count(src[pos:end], []byte{'\n'})
			pos = end
			return yield(e)
		}

		for _, f := range fences {
			if f.start > pos {
				if !emit(NewMarkup(string(src[pos:f.start])), f.start) {
					return
				}
			}
			indent := containerIndent(src[f.start:f.leadEnd])
			open := Event{
				Kind:      BlockOpen,
				Raw:       string(src[f.start:f.openEnd]),
				Info:      string(src[f.infoStart:f.infoEnd]),
				Indent:    indent,
				leadEnd:   f.leadEnd - f.start,
				infoStart: f.infoStart - f.start,
				infoEnd:   f.infoEnd - f.start,
			}
			if !emit(open, f.openEnd) {
				return
			}
			body := Event{Kind: Text, Raw: string(src[f.openEnd:f.bodyEnd]), Text: f.body, Indent: indent}
			if !emit(body, f.bodyEnd) {
				return
			}
			if !emit(Event{Kind: BlockClose, Raw: string(src[f.bodyEnd:f.end]), Indent: indent}, f.end) {
				return
			}
		}
		if pos < len(src) {
			emit(NewMarkup(string(src[pos:])), len(src))
		}
	}
}

// findFences returns the fenced code blocks of src that carry an info
// string, in document order.
func findFences(src []byte) []fence {
	pc := parser.NewContext()
	doc := mdParser.Parse(text.NewReader(src), parser.WithContext(pc))
	closes, _ := pc.Get(closesKey).(map[ast.Node]int)

	var blocks []*ast.FencedCodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fb, ok := n.(*ast.FencedCodeBlock); ok && fb.Info != nil {
			blocks = append(blocks, fb)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	fences := make([]fence, 0, len(blocks))
	for _, fb := range blocks {
		seg := fb.Info.Segment
		f := fence{
			start:     lineStart(src, seg.Start),
			openEnd:   lineEnd(src, seg.Start),
			infoStart: seg.Start,
			infoEnd:   seg.Stop,
		}
		f.leadEnd = f.start + bytes.IndexAny(src[f.start:seg.Start], "`~")

		var body strings.Builder
		f.bodyEnd = f.openEnd
		lines := fb.Lines()
		for j := 0; j < lines.Len(); j++ {
			l := lines.At(j)
			body.Write(l.Value(src))
			f.bodyEnd = lineEnd(src, l.Start)
		}
		f.body = body.String()

		f.end = f.bodyEnd
		if at, ok := closes[fb]; ok && at >= f.bodyEnd {
			f.end = lineEnd(src, at)
		}
		fences = append(fences, f)
	}
	return fences
}

// containerIndent turns the text before an opening fence into the prefix
// of the block's continuation lines: blockquote markers are kept and list
// markers become spaces.
func containerIndent(lead []byte) string {
	b := make([]byte, len(lead))
	for i, c := range lead {
		switch c {
		case '>', ' ', '\t':
			b[i] = c
		default:
			b[i] = ' '
		}
	}
	return string(b)
}

func lineStart(src []byte, pos int) int {
	return bytes.LastIndexByte(src[:pos], '\n') + 1
}

func lineEnd(src []byte, pos int) int {
	if i := bytes.IndexByte(src[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(src)
}
