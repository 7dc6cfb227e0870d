// Package tui renders the NovaMotion dashboard: a bubbletea root model that
// reconciles controller push events into panel state and draws it with
// lipgloss. All reconciliation runs inside Update; the transport goroutine
// only feeds the ordered event channel.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Red1Kir/NovaMotion-Core/internal/toast"
)

// Color palette shared across panels.
var (
	colorWhite  = lipgloss.Color("#FAFAFA")
	colorGray   = lipgloss.Color("#888888")
	colorBlue   = lipgloss.Color("#5B9BD5")
	colorGreen  = lipgloss.Color("#6BCB77")
	colorYellow = lipgloss.Color("#FFD93D")
	colorRed    = lipgloss.Color("#FF6B6B")
)

var (
	footerStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	timestampStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	stepStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorWhite)
)

// toastStyle returns the line style for a toast severity.
func toastStyle(s toast.Severity) lipgloss.Style {
	switch s {
	case toast.SeveritySuccess:
		return okStyle
	case toast.SeverityError:
		return errorStyle
	case toast.SeverityWarning:
		return warnStyle
	default:
		return infoStyle
	}
}

// singleLine collapses newlines and tabs so a message renders as one row.
func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to at most max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	if max < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
