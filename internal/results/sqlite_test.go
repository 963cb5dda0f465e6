package results

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func openMemory(t *testing.T, seed string) *SQLite {
	t.Helper()
	s, err := OpenSQLite(context.Background(), "", seed, 0)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func tableLines(out string) []string {
	return strings.Split(strings.TrimRight(out, "\n"), "\n")
}

func TestSQLiteRender(t *testing.T) {
	s := openMemory(t, "")
	ctx := context.Background()
	if err := s.Exec(ctx, `
CREATE TABLE employees (name TEXT, salary REAL, manager TEXT);
INSERT INTO employees VALUES ('ada', 120.5, NULL), ('bob', 90, 'ada');
`); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}

	out, err := s.Render(ctx, "SELECT name, salary, manager FROM employees ORDER BY name")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	lines := tableLines(out)
	if len(lines) != 4 {
		t.Fatalf("Render() = %d lines, want header, separator and 2 rows:\n%s", len(lines), out)
	}
	for _, want := range []string{"name", "salary", "manager"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("header %q missing %q", lines[0], want)
		}
	}
	if !strings.Contains(lines[1], "---") {
		t.Errorf("separator = %q", lines[1])
	}
	if !strings.Contains(lines[2], "ada") || !strings.Contains(lines[2], "120.5") || !strings.Contains(lines[2], "NULL") {
		t.Errorf("row = %q", lines[2])
	}
	if !strings.Contains(lines[3], "bob") || !strings.Contains(lines[3], "90") {
		t.Errorf("row = %q", lines[3])
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Render() output does not end with a newline")
	}
}

func TestSQLiteSeed(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "seed.sql")
	script := "CREATE TABLE a (x INTEGER);\nINSERT INTO a VALUES (1), (2), (3);\n"
	if err := os.WriteFile(seed, []byte(script), 0644); err != nil {
		t.Fatal(err)
	}
	s := openMemory(t, seed)

	out, err := s.Render(context.Background(), "SELECT COUNT(*) AS n FROM a")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if lines := tableLines(out); len(lines) != 3 || !strings.Contains(lines[2], "3") {
		t.Errorf("Render() =\n%s", out)
	}
}

func TestSQLiteErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := OpenSQLite(ctx, "", filepath.Join(t.TempDir(), "missing.sql"), 0); err == nil {
		t.Error("OpenSQLite() with missing seed succeeded")
	}

	bad := filepath.Join(t.TempDir(), "bad.sql")
	if err := os.WriteFile(bad, []byte("CREATE TABLE ("), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenSQLite(ctx, "", bad, 0); err == nil {
		t.Error("OpenSQLite() with invalid seed succeeded")
	}

	s := openMemory(t, "")
	if _, err := s.Render(ctx, "SELECT * FROM missing"); err == nil {
		t.Error("Render() of unknown table succeeded")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    any
		want string
	}{
		{nil, "NULL"},
		{[]byte("blob"), "blob"},
		{int64(42), "42"},
		{2.5, "2.5"},
		{float64(90), "90"},
		{"text", "text"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.v); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
