package prqldoc

import (
	"errors"
	"testing"
)

func TestHasTag(t *testing.T) {
	tests := []struct {
		info string
		want bool
	}{
		{"prql", true},
		{"prql error", true},
		{"prql no-eval", true},
		{"prql\terror", true},
		{"sql", false},
		{"prqlx", false},
		{"", false},
		{"PRQL", false},
	}
	for _, tt := range tests {
		if got := HasTag(tt.info, "prql"); got != tt.want {
			t.Errorf("HasTag(%q) = %v, want %v", tt.info, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		info string
		want Mode
	}{
		{"prql", ModeEval},
		{"prql no-eval", ModeNoEval},
		{"prql no-test", ModeNoTest},
		{"prql error", ModeError},
		{"prql table", ModeTable},
		{"prql  error ", ModeError},
		{"prql\terror", ModeError},
		{"prql erorr", ModeEval},
		{"prql error table", ModeEval},
	}
	for _, tt := range tests {
		t.Run(tt.info, func(t *testing.T) {
			if got := Classify(tt.info, "prql"); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.info, got, tt.want)
			}
		})
	}
}

func TestParseModeStrict(t *testing.T) {
	if m, err := ParseMode("prql", "prql"); err != nil || m != ModeEval {
		t.Errorf("ParseMode(prql) = %v, %v", m, err)
	}
	if m, err := ParseMode("prql table", "prql"); err != nil || m != ModeTable {
		t.Errorf("ParseMode(prql table) = %v, %v", m, err)
	}
	_, err := ParseMode("prql erorr", "prql")
	if !errors.Is(err, ErrClassification) {
		t.Fatalf("ParseMode(prql erorr) error = %v, want classification error", err)
	}
	if errors.Is(err, ErrCompilationMismatch) {
		t.Error("classification error should not match other kinds")
	}
}

func TestModeExecutes(t *testing.T) {
	for m, want := range map[Mode]bool{
		ModeEval:   true,
		ModeTable:  true,
		ModeError:  true,
		ModeNoEval: false,
		ModeNoTest: false,
	} {
		if got := m.Executes(); got != want {
			t.Errorf("%v.Executes() = %v, want %v", m, got, want)
		}
	}
}
