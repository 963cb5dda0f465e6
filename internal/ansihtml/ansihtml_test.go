package ansihtml

import (
	"testing"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "hello", "hello"},
		{"colored", "\x1b[31mError\x1b[0m: bad", "Error: bad"},
		{"markup escaped", "expected <ident> & \"x\"", "expected &lt;ident&gt; &amp; &#34;x&#34;"},
		{"newlines kept", "a\n\x1b[1m  b\x1b[m\n", "a\n  b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strip(tt.input); got != tt.expected {
				t.Errorf("Strip(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestToHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "a < b", "a &lt; b"},
		{"basic color", "\x1b[31mError\x1b[0m: x", `<span style="color:#aa0000">Error</span>: x`},
		{"bold bright", "\x1b[1;92mok\x1b[m", `<span style="color:#55ff55;font-weight:bold">ok</span>`},
		{"256 color", "\x1b[38;5;196mred\x1b[39m!", `<span style="color:#ff0000">red</span>!`},
		{"true color background", "\x1b[48;2;1;2;3mx\x1b[0m", `<span style="background-color:#010203">x</span>`},
		{"unterminated style closed", "\x1b[4mu", `<span style="text-decoration:underline">u</span>`},
		{"style change reopens span", "\x1b[31ma\x1b[32mb\x1b[0m", `<span style="color:#aa0000">a</span><span style="color:#00aa00">b</span>`},
		{"cursor movement dropped", "\x1b[2Kline", "line"},
		{"no empty spans", "\x1b[31m\x1b[0mtext", "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToHTML(tt.input); got != tt.expected {
				t.Errorf("ToHTML(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatterModes(t *testing.T) {
	in := "\x1b[31mError\x1b[0m"
	if got := (Formatter{Mode: ModeStrip}).Format(in); got != "Error" {
		t.Errorf("strip Format() = %q", got)
	}
	if got := (Formatter{Mode: ModeHTML}).Format(in); got != `<span style="color:#aa0000">Error</span>` {
		t.Errorf("html Format() = %q", got)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", ModeStrip, false},
		{"strip", ModeStrip, false},
		{"HTML", ModeHTML, false},
		{"rainbow", ModeStrip, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v", tt.input, got, err)
		}
	}
}

func TestXterm256(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "#aa0000"},
		{16, "#000000"},
		{196, "#ff0000"},
		{231, "#ffffff"},
		{232, "#080808"},
		{255, "#eeeeee"},
		{300, ""},
	}
	for _, tt := range tests {
		if got := xterm256(tt.n); got != tt.want {
			t.Errorf("xterm256(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
