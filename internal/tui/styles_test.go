package tui

import (
	"testing"

	"github.com/Red1Kir/NovaMotion-Core/internal/toast"
)

func TestToastStyle(t *testing.T) {
	// Verify every severity maps to a usable style without panicking.
	severities := []toast.Severity{
		toast.SeveritySuccess,
		toast.SeverityError,
		toast.SeverityWarning,
		toast.SeverityInfo,
		toast.Severity("bogus"), // default branch
	}
	for _, s := range severities {
		t.Run(string(s), func(t *testing.T) {
			style := toastStyle(s)
			_ = style.Render("x") // must not panic
		})
	}
}

func TestSingleLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello world", "hello world"},
		{"newlines", "a\nb\nc", "a b c"},
		{"tabs", "a\tb", "a b"},
		{"crlf", "a\r\nb", "a b"},
		{"collapsed spaces", "a   b", "a b"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := singleLine(tt.input); got != tt.want {
				t.Errorf("singleLine(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 8, "hello w…"},
		{"multibyte", "日本語テキスト", 4, "日本語…"},
		{"zero max", "hello", 0, ""},
		{"one", "hello", 1, "…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.max); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}
