package markdown

import (
	"bufio"
	"io"
	"iter"
	"strings"
)

// Serialize writes the textual form of every event to w. It stops at the
// first error yielded by the stream and returns it; output written before
// that point is not rolled back, so callers that need all-or-nothing output
// should serialize into a buffer.
func Serialize(w io.Writer, events iter.Seq2[Event, error]) error {
	bw := bufio.NewWriter(w)
	for ev, err := range events {
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(ev.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Render serializes events into a string.
func Render(events iter.Seq2[Event, error]) (string, error) {
	var sb strings.Builder
	if err := Serialize(&sb, events); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Infallible adapts a plain event sequence to the stream type accepted by
// Serialize.
func Infallible(events iter.Seq[Event]) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for ev := range events {
			if !yield(ev, nil) {
				return
			}
		}
	}
}
