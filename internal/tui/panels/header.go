// Package panels provides the panel renderers for the NovaMotion dashboard.
package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderProps holds all data needed to render the header bar. String fields
// for connection state avoid importing the parent tui package.
type HeaderProps struct {
	Machine    string
	Endpoint   string
	ConnSymbol string // e.g. "●", "○"
	ConnLabel  string // e.g. "ONLINE", "OFFLINE"
	Uptime     time.Duration
	Clock      time.Time
}

// FormatElapsed renders a duration as a compact string: "5s", "2m30s", "1h15m".
func FormatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// RenderHeader renders the header bar across the full terminal width.
func RenderHeader(props HeaderProps, width int, accentStyle lipgloss.Style) string {
	name := "NovaMotion"
	if props.Machine != "" {
		name = props.Machine
	}

	parts := []string{"⬡ " + name}
	if props.Endpoint != "" {
		parts = append(parts, "ctl: "+props.Endpoint)
	}

	conn := props.ConnLabel
	if props.ConnSymbol != "" && props.ConnLabel != "" {
		conn = props.ConnSymbol + " " + props.ConnLabel
	}
	if conn != "" {
		parts = append(parts, conn)
	}

	if props.Uptime > 0 {
		parts = append(parts, "up: "+FormatElapsed(props.Uptime))
	}
	if !props.Clock.IsZero() {
		parts = append(parts, props.Clock.Format("15:04"))
	}

	content := strings.Join(parts, "  │  ")
	return accentStyle.Width(width).Render(content)
}
