package tui

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Red1Kir/NovaMotion-Core/internal/config"
	"github.com/Red1Kir/NovaMotion-Core/internal/protocol"
)

// Theme holds accent-color-derived styles for the dashboard. Non-accent
// styles live at package level in styles.go.
type Theme struct {
	accent          string
	accentStyle     lipgloss.Style // header bar
	accentText      lipgloss.Style // highlighted values
	borderFocused   lipgloss.Style // focused panel border
	borderUnfocused lipgloss.Style // unfocused panel border
}

// NewTheme creates a Theme from a hex accent color string (e.g. "#7D56F4").
// If accentColor is empty, the default accent color is used.
func NewTheme(accentColor string) Theme {
	color := config.DefaultAccentColor
	if accentColor != "" {
		color = accentColor
	}
	c := lipgloss.Color(color)
	return Theme{
		accent: color,
		accentStyle: lipgloss.NewStyle().
			Background(c).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
		accentText: lipgloss.NewStyle().
			Foreground(c).
			Bold(true),
		borderFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c),
		borderUnfocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray),
	}
}

// Accent returns the theme's hex accent color.
func (t Theme) Accent() string {
	return t.accent
}

// AccentHeaderStyle returns the style for the header bar.
func (t Theme) AccentHeaderStyle() lipgloss.Style {
	return t.accentStyle
}

// AccentTextStyle returns the accent-colored text style.
func (t Theme) AccentTextStyle() lipgloss.Style {
	return t.accentText
}

// PanelBorderStyle returns the border style for a panel based on whether it
// currently holds keyboard focus.
func (t Theme) PanelBorderStyle(focused bool) lipgloss.Style {
	if focused {
		return t.borderFocused
	}
	return t.borderUnfocused
}

// stepPeek is the best-effort view into an opaque simulation step payload,
// used only to compact the event log line.
type stepPeek struct {
	Step       int     `json:"step"`
	TotalSteps int     `json:"total_steps"`
	ErrorMM    float64 `json:"error_mm"`
}

// RenderEventLine renders one decoded controller event as a single log row.
// Text is truncated before styling so escape sequences stay intact.
func (t Theme) RenderEventLine(ev protocol.Event, width int) string {
	ts := timestampStyle.Render(fmt.Sprintf("[%s]", ev.Timestamp.Format("15:04:05")))

	max := width - 12 // timestamp column plus separator
	if max < 20 {
		max = 20
	}

	var body string
	switch ev.Type {
	case protocol.EventOpened:
		body = okStyle.Render("● channel open")

	case protocol.EventClosed:
		msg := "○ channel closed"
		if ev.Reason != "" {
			msg += ": " + singleLine(ev.Reason)
		}
		body = errorStyle.Render(truncate(msg, max))

	case protocol.EventSimulationUpdate:
		var p stepPeek
		if json.Unmarshal(ev.Simulation, &p) == nil && p.TotalSteps > 0 {
			body = stepStyle.Render(fmt.Sprintf("▸ step %d/%d  err %.3fmm", p.Step, p.TotalSteps, p.ErrorMM))
		} else {
			body = stepStyle.Render("▸ simulation step")
		}

	case protocol.EventSimulationComplete:
		if ev.Quality != nil {
			body = okStyle.Render(fmt.Sprintf("✔ cycle complete — overall %.1f", ev.Quality.OverallScore))
		} else {
			body = okStyle.Render("✔ cycle complete")
		}

	case protocol.EventCalibrationUpdate:
		u := ev.Calibration
		if u == nil {
			body = t.accentText.Render("◐ calibration update")
			break
		}
		if u.Complete() {
			body = okStyle.Render("✔ calibration complete")
			break
		}
		prefix := fmt.Sprintf("◐ %s %.0f%%", u.Stage, u.Progress)
		remaining := max - len([]rune(prefix)) - 2
		body = t.accentText.Render(prefix)
		if msg := singleLine(u.Message); msg != "" && remaining > 4 {
			body += "  " + infoStyle.Render(truncate(msg, remaining))
		}

	case protocol.EventHardwareStatus:
		up, down := 0, 0
		if ev.Hardware != nil {
			for _, d := range ev.Hardware.Drivers {
				if d.Connected {
					up++
				} else {
					down++
				}
			}
		}
		if down > 0 {
			body = warnStyle.Render(fmt.Sprintf("⚡ drivers: %d up / %d down", up, down))
		} else {
			body = infoStyle.Render(fmt.Sprintf("⚡ drivers: %d up", up))
		}

	default:
		body = infoStyle.Render(truncate(string(ev.Type), max))
	}

	return fmt.Sprintf("%s  %s", ts, body)
}
