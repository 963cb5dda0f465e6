// Package results executes compiled SQL and renders the returned rows as
// text for embedding in documentation.
package results

import "context"

// Placeholder is replaced by the query in Command arguments.
const Placeholder = "{query}"

// Renderer executes a query and returns its rows as display text.
type Renderer interface {
	Render(ctx context.Context, query string) (string, error)
}

// Engine names a Renderer implementation.
type Engine string

const (
	EngineCommand Engine = "command"
	EngineSQLite  Engine = "sqlite"
)

// Engines lists the valid engine names.
var Engines = []Engine{EngineCommand, EngineSQLite}
