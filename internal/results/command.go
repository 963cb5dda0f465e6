package results

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samsaffron/prqldoc/internal/proc"
)

// Command renders rows by running an external database client. Arguments
// equal to or containing Placeholder receive the query; when no argument
// does, the query is written to stdin. Stdout is returned verbatim.
type Command struct {
	Argv    []string
	Dir     string
	Timeout time.Duration
}

// NewCommand creates a Command for argv.
func NewCommand(argv []string, timeout time.Duration) *Command {
	return &Command{Argv: argv, Timeout: timeout}
}

// Render implements Renderer.
func (c *Command) Render(ctx context.Context, query string) (string, error) {
	if len(c.Argv) == 0 {
		return "", errors.New("no result command configured")
	}
	argv, stdin := c.expand(query)
	res, err := proc.Run(ctx, proc.Command{
		Argv:    argv,
		Stdin:   stdin,
		Dir:     c.Dir,
		Timeout: c.Timeout,
	})
	if err != nil {
		return "", fmt.Errorf("run %s: %w", c.Argv[0], err)
	}
	if !utf8.ValidString(res.Stdout) {
		return "", fmt.Errorf("%s: output is not valid UTF-8", c.Argv[0])
	}
	return res.Stdout, nil
}

// expand substitutes query into the arguments. It returns the stdin payload,
// which is empty when an argument took the query.
func (c *Command) expand(query string) ([]string, string) {
	argv := make([]string, len(c.Argv))
	substituted := false
	for i, arg := range c.Argv {
		if strings.Contains(arg, Placeholder) {
			arg = strings.ReplaceAll(arg, Placeholder, query)
			substituted = true
		}
		argv[i] = arg
	}
	if substituted {
		return argv, ""
	}
	return argv, query
}
