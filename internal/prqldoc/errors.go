package prqldoc

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a failed transformation.
type ErrorKind string

const (
	// ClassificationAmbiguity is an unknown mode suffix in strict mode.
	ClassificationAmbiguity ErrorKind = "CLASSIFICATION_AMBIGUITY"
	// CompilationOutcomeMismatch is a block whose compile result contradicts
	// its mode: an eval or table sample that fails, or an error sample that
	// compiles.
	CompilationOutcomeMismatch ErrorKind = "COMPILATION_OUTCOME_MISMATCH"
	// ExternalToolFailure is a compiler or result renderer that could not
	// run or produced unusable output.
	ExternalToolFailure ErrorKind = "EXTERNAL_TOOL_FAILURE"
	// MalformedStream is an event sequence that does not nest blocks
	// properly.
	MalformedStream ErrorKind = "MALFORMED_STREAM"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrClassification      = &Error{Kind: ClassificationAmbiguity}
	ErrCompilationMismatch = &Error{Kind: CompilationOutcomeMismatch}
	ErrExternalTool        = &Error{Kind: ExternalToolFailure}
	ErrMalformedStream     = &Error{Kind: MalformedStream}
)

// Error aborts a transformation. Every Error is fatal: the document is stale
// or the toolchain is broken, and no partial output is produced.
type Error struct {
	Kind    ErrorKind
	Line    int // line of the offending block, 0 if unknown
	Message string
	Source  string // block source, when relevant
	Output  string // unexpected compiler output or diagnostic, when relevant
	Err     error
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", e.Line)
	}
	sb.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	if src := strings.TrimSpace(e.Source); src != "" {
		sb.WriteString("\n\n")
		sb.WriteString(src)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		sb.WriteString("\n\n")
		sb.WriteString(out)
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
