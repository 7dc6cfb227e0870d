package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/Red1Kir/NovaMotion-Core/internal/calibration"
)

// CalibrationProps holds all data needed to render the calibration panel.
// State strings come from the session so this package does not import it.
type CalibrationProps struct {
	StateLabel  string // e.g. "CALIBRATING", "IDLE"
	StateSymbol string // e.g. "◐", "○"
	Active      bool   // a run is requesting or in progress
	Stage       string
	Progress    float64 // 0-100
	Message     string
	Elapsed     time.Duration
	LastError   string
	Summary     *calibration.Summary // nil when no result is held
}

var (
	calDimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	calFailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	calOkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77"))
)

// RenderCalibration renders the calibration panel content at the given inner
// dimensions.
func RenderCalibration(props CalibrationProps, w, h int, accent string) string {
	if !props.Active && props.Summary == nil && props.LastError == "" {
		return lipgloss.NewStyle().
			Width(w).Height(h).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#888888")).
			Render("No calibration run\npress c to start")
	}

	state := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)).
		Render(props.StateSymbol + " " + props.StateLabel)

	var lines []string
	lines = append(lines, state)

	if props.Active {
		stage := props.Stage
		if stage == "" {
			stage = "starting"
		}
		lines = append(lines, "stage: "+stage)

		bar := progress.New(progress.WithSolidFill(accent), progress.WithWidth(w))
		lines = append(lines, bar.ViewAs(props.Progress/100))

		if props.Message != "" {
			lines = append(lines, truncateTo(props.Message, w))
		}
		if props.Elapsed > 0 {
			lines = append(lines, calDimStyle.Render("elapsed: "+FormatElapsed(props.Elapsed)))
		}
	}

	if props.LastError != "" {
		lines = append(lines, calFailStyle.Render(truncateTo("✗ "+props.LastError, w)))
	}

	if s := props.Summary; s != nil {
		lines = append(lines, "")
		lines = append(lines, summaryLines(*s, w)...)
	}

	return lipgloss.NewStyle().
		Width(w).Height(h).
		Render(strings.Join(lines, "\n"))
}

// summaryLines formats the held result summary.
func summaryLines(s calibration.Summary, w int) []string {
	head := calOkStyle.Render("✓ result held")
	if !s.Success {
		head = calFailStyle.Render("✗ result held (failed run)")
	}
	detail := fmt.Sprintf("%d params · %d peaks", s.Parameters, s.ResonancePeaks)
	if s.Duration > 0 {
		detail += fmt.Sprintf(" · %.1fs", s.Duration)
	}
	return []string{head, calDimStyle.Render(truncateTo(detail, w))}
}

// truncateTo shortens s to at most max runes, appending an ellipsis when cut.
func truncateTo(s string, max int) string {
	if max < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
