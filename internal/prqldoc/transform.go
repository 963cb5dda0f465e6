package prqldoc

import (
	"bytes"
	"context"

	"github.com/samsaffron/prqldoc/internal/markdown"
)

// Transform rewrites one Markdown document. The output is returned only when
// every tagged block was processed; on failure no partial document is
// returned.
func (r *Rewriter) Transform(ctx context.Context, src []byte) ([]byte, Stats, error) {
	var (
		stats Stats
		buf   bytes.Buffer
	)
	buf.Grow(len(src))
	events := r.Rewrite(ctx, markdown.Tokenize(src), &stats)
	if err := markdown.Serialize(&buf, events); err != nil {
		return nil, stats, err
	}
	return buf.Bytes(), stats, nil
}
