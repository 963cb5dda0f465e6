package results

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// SQLite renders rows by running queries against an embedded SQLite
// database.
type SQLite struct {
	db      *sql.DB
	timeout time.Duration
}

// OpenSQLite opens the database at dsn, or an in-memory one when dsn is
// empty, and runs the optional seed script.
func OpenSQLite(ctx context.Context, dsn, seedPath string, timeout time.Duration) (*SQLite, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	if dsn == MemoryDSN {
		db.SetMaxOpenConns(1)
	}

	s := &SQLite{db: db, timeout: timeout}
	if seedPath != "" {
		if err := s.seed(ctx, seedPath); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *SQLite) seed(ctx context.Context, path string) error {
	script, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed script: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, string(script)); err != nil {
		return fmt.Errorf("run seed script %s: %w", path, err)
	}
	return nil
}

// Exec runs statements that return no rows.
func (s *SQLite) Exec(ctx context.Context, stmts string) error {
	_, err := s.db.ExecContext(ctx, stmts)
	return err
}

// Render implements Renderer. Rows are laid out as a Markdown table.
func (s *SQLite) Render(ctx context.Context, query string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("columns: %w", err)
	}

	var data [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", fmt.Errorf("scan: %w", err)
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = formatValue(v)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("read rows: %w", err)
	}
	return FormatTable(cols, data), nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// FormatTable renders headers and rows as a Markdown table.
func FormatTable(headers []string, rows [][]string) string {
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.MarkdownBorder()).
		BorderTop(false).
		BorderBottom(false).
		StyleFunc(func(row, col int) lipgloss.Style { return cell }).
		Headers(headers...).
		Rows(rows...)
	return t.String() + "\n"
}
