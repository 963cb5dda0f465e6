package prqldoc

import _ "embed"

// Sample is a small document exercising the eval, no-eval and error modes.
//
//go:embed sample.md
var Sample []byte
