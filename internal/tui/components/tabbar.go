package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var tabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// TabBar renders a row of labelled tabs; the active tab is highlighted in the
// accent color passed at construction.
type TabBar struct {
	tabs   []string
	active int
	width  int
	style  lipgloss.Style
}

// NewTabBar creates a TabBar with the given tab titles and accent color. The
// first tab is active.
func NewTabBar(tabs []string, accent string) TabBar {
	return TabBar{
		tabs:  tabs,
		style: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)),
	}
}

// Active returns the index of the currently active tab.
func (t TabBar) Active() int {
	return t.active
}

// Next returns a TabBar with the next tab active (wraps around).
func (t TabBar) Next() TabBar {
	if len(t.tabs) == 0 {
		return t
	}
	t.active = (t.active + 1) % len(t.tabs)
	return t
}

// Prev returns a TabBar with the previous tab active (wraps around).
func (t TabBar) Prev() TabBar {
	if len(t.tabs) == 0 {
		return t
	}
	t.active = (t.active + len(t.tabs) - 1) % len(t.tabs)
	return t
}

// SetWidth returns a TabBar configured for the given render width.
func (t TabBar) SetWidth(w int) TabBar {
	t.width = w
	return t
}

// View renders the tab bar as a single line, tabs separated by " │ ".
func (t TabBar) View() string {
	if len(t.tabs) == 0 {
		return ""
	}

	parts := make([]string, 0, len(t.tabs))
	for i, label := range t.tabs {
		if i == t.active {
			parts = append(parts, t.style.Render(label))
		} else {
			parts = append(parts, tabInactiveStyle.Render(label))
		}
	}
	return strings.Join(parts, "  │  ")
}
