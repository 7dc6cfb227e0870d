package gcode

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWrite(t *testing.T) {
	dir := t.TempDir()

	path, err := Write(dir)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != FileName {
		t.Errorf("written as %q, want %q", filepath.Base(path), FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != TestPattern {
		t.Error("file content must be the constant pattern")
	}
}

func TestWrite_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	if _, err := Write(dir); err != nil {
		t.Fatalf("Write into missing dir: %v", err)
	}
}

func TestTestPattern_Phases(t *testing.T) {
	phases := []struct {
		name string
		code string
	}{
		{"home axes", "G28"},
		{"set hotend temperature", "M104 S200"},
		{"set bed temperature", "M140 S60"},
		{"square move", "G1 X80 Y80"},
		{"clockwise arc", "G2 "},
		{"counter-clockwise arc", "G3 "},
		{"hotend off", "M104 S0"},
		{"bed off", "M140 S0"},
		{"disable motors", "M84"},
	}
	for _, p := range phases {
		if !strings.Contains(TestPattern, p.code) {
			t.Errorf("pattern missing %s (%q)", p.name, p.code)
		}
	}
}

func TestTestPattern_IsStable(t *testing.T) {
	dir := t.TempDir()
	first, err := Write(dir)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := os.ReadFile(first)

	second, err := Write(dir)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(second)

	if first != second {
		t.Errorf("path changed between writes: %q vs %q", first, second)
	}
	if string(a) != string(b) {
		t.Error("content changed between writes")
	}
}
