package panels

import (
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Red1Kir/NovaMotion-Core/internal/tui/components"
)

// EventsTab identifies the active content tab in the events panel.
type EventsTab int

const (
	TabEvents    EventsTab = iota // rendered event log
	TabTelemetry                  // latest simulation step detail
)

var eventsTabLabels = []string{"Events", "Telemetry"}

// EventsPanel is the bottom-right panel: a scrolling log of every delivered
// event plus a telemetry tab rendering the latest simulation step.
type EventsPanel struct {
	tabbar    components.TabBar
	log       components.LogView
	telemetry []string
	width     int
	height    int
	activeTab EventsTab
}

// NewEventsPanel creates an events panel with the log tab active.
func NewEventsPanel(w, h int, accent string) EventsPanel {
	contentH := h - 1 // subtract tab bar row
	if contentH < 1 {
		contentH = 1
	}
	return EventsPanel{
		tabbar: components.NewTabBar(eventsTabLabels, accent).SetWidth(w),
		log:    components.NewLogView(w, contentH),
		width:  w,
		height: h,
	}
}

// AppendEvent appends a pre-rendered line to the event log.
func (p EventsPanel) AppendEvent(rendered string) EventsPanel {
	p.log = p.log.AppendLine(rendered)
	return p
}

// SetTelemetry replaces the telemetry tab content with the latest step.
func (p EventsPanel) SetTelemetry(lines []string) EventsPanel {
	p.telemetry = lines
	return p
}

// ActiveTab returns the currently visible tab.
func (p EventsPanel) ActiveTab() EventsTab {
	return p.activeTab
}

// LogLen returns the number of buffered event log lines.
func (p EventsPanel) LogLen() int {
	return p.log.Len()
}

// SetSize resizes the panel.
func (p EventsPanel) SetSize(w, h int) EventsPanel {
	p.width = w
	p.height = h
	contentH := h - 1
	if contentH < 1 {
		contentH = 1
	}
	p.tabbar = p.tabbar.SetWidth(w)
	p.log = p.log.SetSize(w, contentH)
	return p
}

// Update handles key messages for the events panel.
func (p EventsPanel) Update(msg tea.Msg) (EventsPanel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "]":
			p.tabbar = p.tabbar.Next()
			p.activeTab = EventsTab(p.tabbar.Active())
		case "[":
			p.tabbar = p.tabbar.Prev()
			p.activeTab = EventsTab(p.tabbar.Active())
		case "f":
			p.log = p.log.ToggleFollow()
		default:
			if p.activeTab == TabEvents {
				p.log, cmd = p.log.Update(msg)
			}
		}
	default:
		if p.activeTab == TabEvents {
			p.log, cmd = p.log.Update(msg)
		}
	}
	return p, cmd
}

// View renders the events panel: tab bar + active tab content.
func (p EventsPanel) View() string {
	tabRow := p.tabbar.View()
	var content string
	switch p.activeTab {
	case TabEvents:
		content = p.log.View()
	case TabTelemetry:
		content = p.renderTelemetry()
	}
	body := lipgloss.JoinVertical(lipgloss.Left, tabRow, content)
	return lipgloss.NewStyle().Width(p.width).Height(p.height).Render(body)
}

// renderTelemetry renders the latest step lines, padded to the content area.
func (p EventsPanel) renderTelemetry() string {
	contentH := p.height - 1
	if contentH < 1 {
		contentH = 1
	}
	if len(p.telemetry) == 0 {
		return lipgloss.NewStyle().
			Width(p.width).Height(contentH).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#888888")).
			Render("No telemetry yet")
	}
	content := ""
	for i, line := range p.telemetry {
		if i > 0 {
			content += "\n"
		}
		content += truncateTo(line, p.width)
	}
	return lipgloss.NewStyle().
		Width(p.width).Height(contentH).
		Render(content)
}

// TelemetryLines flattens an opaque simulation step payload into sorted
// key/value display lines. Unknown shapes fall back to the raw document.
func TelemetryLines(raw json.RawMessage) []string {
	var step struct {
		Step       *int     `json:"step"`
		TotalSteps *int     `json:"total_steps"`
		TargetX    *float64 `json:"target_x"`
		TargetY    *float64 `json:"target_y"`
		ActualX    *float64 `json:"actual_x"`
		ActualY    *float64 `json:"actual_y"`
		ErrorMM    *float64 `json:"error_mm"`
	}
	if err := json.Unmarshal(raw, &step); err != nil || step.Step == nil {
		return []string{string(raw)}
	}

	lines := make([]string, 0, 4)
	if step.TotalSteps != nil {
		lines = append(lines, fmt.Sprintf("step      %d / %d", *step.Step, *step.TotalSteps))
	} else {
		lines = append(lines, fmt.Sprintf("step      %d", *step.Step))
	}
	if step.TargetX != nil && step.TargetY != nil {
		lines = append(lines, fmt.Sprintf("target    %.3f, %.3f", *step.TargetX, *step.TargetY))
	}
	if step.ActualX != nil && step.ActualY != nil {
		lines = append(lines, fmt.Sprintf("actual    %.3f, %.3f", *step.ActualX, *step.ActualY))
	}
	if step.ErrorMM != nil {
		lines = append(lines, fmt.Sprintf("error     %.3f mm", *step.ErrorMM))
	}
	return lines
}
