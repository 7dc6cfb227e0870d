package panels

import (
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HardwareProps holds the latest driver snapshot. Nothing is retained across
// renders; each hardware_status event replaces the whole set.
type HardwareProps struct {
	Drivers    map[string]bool // driver name -> connected
	ReceivedAt time.Time
}

var (
	hwUpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77"))
	hwDownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	hwDimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// RenderHardware renders the driver status panel: one line per driver, sorted
// by name, with the snapshot time at the bottom.
func RenderHardware(props HardwareProps, w, h int) string {
	if len(props.Drivers) == 0 {
		return lipgloss.NewStyle().
			Width(w).Height(h).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#888888")).
			Render("No hardware status yet")
	}

	names := make([]string, 0, len(props.Drivers))
	for name := range props.Drivers {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names)+2)
	for _, name := range names {
		if props.Drivers[name] {
			lines = append(lines, hwUpStyle.Render("● ")+truncateTo(name, w-2))
		} else {
			lines = append(lines, hwDownStyle.Render("○ ")+truncateTo(name+"  disconnected", w-2))
		}
	}

	if !props.ReceivedAt.IsZero() {
		lines = append(lines, "", hwDimStyle.Render("as of "+props.ReceivedAt.Format("15:04:05")))
	}

	return lipgloss.NewStyle().
		Width(w).Height(h).
		Render(strings.Join(lines, "\n"))
}
