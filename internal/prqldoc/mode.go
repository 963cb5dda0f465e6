package prqldoc

import (
	"fmt"
	"strings"
)

// DefaultTag is the fence language that marks PRQL samples.
const DefaultTag = "prql"

// Mode is the rendering policy of a tagged code block, taken from the
// suffix of its fence info string.
type Mode int

const (
	// ModeEval compiles the block and shows source and SQL side by side.
	ModeEval Mode = iota
	// ModeTable compiles the block, runs the SQL and shows the result rows.
	ModeTable
	// ModeError expects compilation to fail and shows the diagnostic.
	ModeError
	// ModeNoEval shows the block as a plain titled sample.
	ModeNoEval
	// ModeNoTest shows the block as a plain titled sample. Test harnesses
	// use the distinction; rendering does not.
	ModeNoTest
)

var modeSuffixes = map[string]Mode{
	"no-eval": ModeNoEval,
	"no-test": ModeNoTest,
	"error":   ModeError,
	"table":   ModeTable,
}

func (m Mode) String() string {
	switch m {
	case ModeEval:
		return "eval"
	case ModeTable:
		return "table"
	case ModeError:
		return "error"
	case ModeNoEval:
		return "no-eval"
	case ModeNoTest:
		return "no-test"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Executes reports whether blocks in this mode are compiled.
func (m Mode) Executes() bool {
	return m == ModeEval || m == ModeTable || m == ModeError
}

// HasTag reports whether a fence info string belongs to tag: it is either
// exactly the tag or the tag followed by whitespace and a suffix.
func HasTag(info, tag string) bool {
	rest, ok := strings.CutPrefix(info, tag)
	if !ok {
		return false
	}
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// suffix returns the mode suffix of info, which must satisfy HasTag.
func suffix(info, tag string) string {
	return strings.TrimSpace(strings.TrimPrefix(info, tag))
}

// Classify returns the mode of a tagged fence. Unknown suffixes, including
// the empty suffix, select ModeEval.
func Classify(info, tag string) Mode {
	if m, ok := modeSuffixes[suffix(info, tag)]; ok {
		return m
	}
	return ModeEval
}

// ParseMode is the strict form of Classify: a non-empty suffix that names
// no mode is an error.
func ParseMode(info, tag string) (Mode, error) {
	s := suffix(info, tag)
	if s == "" {
		return ModeEval, nil
	}
	if m, ok := modeSuffixes[s]; ok {
		return m, nil
	}
	return ModeEval, &Error{
		Kind:    ClassificationAmbiguity,
		Message: fmt.Sprintf("unknown block mode %q in fence %q (want no-eval, no-test, error or table)", s, info),
	}
}
