package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Red1Kir/NovaMotion-Core/internal/calibration"
	"github.com/Red1Kir/NovaMotion-Core/internal/toast"
	"github.com/Red1Kir/NovaMotion-Core/internal/tui/panels"
)

// View renders the dashboard frame for the current state.
func (m Model) View() string {
	if m.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%dx%d).\nPlease resize to at least 80x24.", m.width, m.height)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
	}

	header := panels.RenderHeader(panels.HeaderProps{
		Machine:    m.machine,
		Endpoint:   m.endpoint,
		ConnSymbol: m.conn.Symbol(),
		ConnLabel:  m.conn.Label(),
		Uptime:     m.uptime.ElapsedTime(),
		Clock:      m.now,
	}, m.width, m.theme.AccentHeaderStyle())

	sidebar := lipgloss.JoinVertical(lipgloss.Left,
		m.renderCalibration(),
		m.renderHardware(),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderQuality(),
		m.renderEvents(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, right)

	view := lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderBottomRow())
	return m.overlayToasts(view)
}

func (m Model) renderCalibration() string {
	w, h := innerDims(m.layout.Calibration)
	state := m.session.State()
	props := panels.CalibrationProps{
		StateLabel:  state.Label(),
		StateSymbol: state.Symbol(),
		Active:      state == calibration.StateRequesting || state == calibration.StateInProgress,
		Stage:       m.session.Stage(),
		Progress:    m.session.Progress(),
		Message:     m.session.Message(),
		Elapsed:     m.session.Elapsed(),
		LastError:   m.session.LastError(),
	}
	if r, ok := m.session.Result(); ok {
		s := r.Summary()
		props.Summary = &s
	}
	content := panels.RenderCalibration(props, w, h, m.theme.Accent())
	return m.theme.PanelBorderStyle(m.focus == FocusCalibration).Render(content)
}

func (m Model) renderHardware() string {
	w, h := innerDims(m.layout.Hardware)
	content := panels.RenderHardware(panels.HardwareProps{
		Drivers:    m.drivers,
		ReceivedAt: m.driversAt,
	}, w, h)
	return m.theme.PanelBorderStyle(m.focus == FocusHardware).Render(content)
}

func (m Model) renderQuality() string {
	w, h := innerDims(m.layout.Quality)
	values := make(map[string]string, len(panels.MetricSlots))
	for _, slot := range panels.MetricSlots {
		if v := m.animator.Value(slot); v != "" {
			values[slot] = v
		}
	}
	updated := make(map[string]bool, len(m.updatedUntil))
	for slot := range m.updatedUntil {
		updated[slot] = true
	}
	content := panels.RenderQuality(panels.QualityProps{
		Values:          values,
		Updated:         updated,
		Score:           m.animator.Current(panels.SlotOverall),
		Excitation:      m.excitation,
		Recommendations: m.recommendations,
	}, w, h, m.theme.Accent())
	return m.theme.PanelBorderStyle(m.focus == FocusQuality).Render(content)
}

func (m Model) renderEvents() string {
	return m.theme.PanelBorderStyle(m.focus == FocusEvents).Render(m.eventsPanel.View())
}

// renderBottomRow renders the footer, or the import path prompt while it is
// open.
func (m Model) renderBottomRow() string {
	if m.importActive {
		row := m.theme.AccentTextStyle().Render("import path: ") + m.importInput.View()
		return lipgloss.NewStyle().Width(m.width).Render(row)
	}
	return panels.RenderFooter(panels.FooterProps{
		Focus:      m.focus.String(),
		Connected:  m.conn == Connected,
		Connecting: m.connecting,
	}, m.width)
}

// overlayToasts paints up to three active toasts over the rows directly above
// the footer, newest at the bottom.
func (m Model) overlayToasts(view string) string {
	active := m.toasts.Active()
	if len(active) == 0 {
		return view
	}

	lines := strings.Split(view, "\n")
	n := len(active)
	if n > 3 {
		n = 3
	}
	if len(lines) < n+2 {
		return view
	}

	// Newest of the shown toasts sits closest to the footer.
	newest := active[len(active)-n:]
	base := len(lines) - 1 - n
	for i, t := range newest {
		lines[base+i] = m.renderToastLine(t)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderToastLine(t toast.Toast) string {
	text := truncate(" "+t.Severity.Icon()+" "+singleLine(t.Message), m.width)
	return toastStyle(t.Severity).Width(m.width).Render(text)
}
