package panels

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// FooterProps holds all data needed to render the footer bar.
type FooterProps struct {
	Focus      string // "calibration", "hardware", "quality", "events"
	Connected  bool
	Connecting bool
}

// RenderFooter renders the context-sensitive footer bar. Left side: panel
// hints for the current focus. Right side: global command keys.
func RenderFooter(props FooterProps, width int) string {
	left := panelHints(props.Focus)

	var right string
	switch {
	case props.Connecting:
		right = "⟳ connecting…  q:quit"
	case !props.Connected:
		right = "r:reconnect  q:quit"
	default:
		right = "c:cal  d:dismiss  e:export  i:import  g:gcode  q:quit"
	}

	gap := width - len([]rune(left)) - len([]rune(right))
	if gap < 2 {
		gap = 2
	}

	return footerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// panelHints returns the context-sensitive keybinding hints for a given focus.
func panelHints(focus string) string {
	switch focus {
	case "events":
		return "[/]:tab  j/k:scroll  f:follow  tab:next panel"
	case "calibration":
		return "c:start  d:dismiss  tab:next panel"
	case "hardware", "quality":
		return "1-4:panel  tab:next panel"
	default:
		return "tab:next panel"
	}
}
