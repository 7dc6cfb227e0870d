package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/Red1Kir/NovaMotion-Core/internal/quality"
)

// Animated display slots, keyed by the wire field names.
const (
	SlotOverall   = "overall_score"
	SlotTracking  = "tracking_score"
	SlotVibration = "vibration_score"
	SlotRMSError  = "rms_error_mm"
	SlotMaxError  = "max_error_mm"
)

// MetricSlots lists the animated display slots in render order.
var MetricSlots = []string{SlotOverall, SlotTracking, SlotVibration, SlotRMSError, SlotMaxError}

// metricRows maps slots to display labels, in render order below the bar.
var metricRows = []struct {
	slot  string
	label string
	unit  string
}{
	{SlotTracking, "Tracking", ""},
	{SlotVibration, "Vibration", ""},
	{SlotRMSError, "RMS error", " mm"},
	{SlotMaxError, "Max error", " mm"},
}

// QualityProps holds all data needed to render the quality panel. Values are
// the animator's formatted display strings; Updated marks slots mid-flash.
type QualityProps struct {
	Values          map[string]string
	Updated         map[string]bool
	Score           float64 // raw overall value driving the bar
	Excitation      *quality.Excitation
	Recommendations []string
}

var qualDimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// RenderQuality renders the quality metrics panel: overall score with a bar,
// the remaining metric rows, and the current recommendation list.
func RenderQuality(props QualityProps, w, h int, accent string) string {
	if len(props.Values) == 0 {
		return lipgloss.NewStyle().
			Width(w).Height(h).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#888888")).
			Render("Waiting for quality metrics")
	}

	accentStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent))

	var lines []string
	lines = append(lines, metricLine("Overall", props.Values[SlotOverall], "", props.Updated[SlotOverall], accentStyle))

	barW := w
	if barW > 40 {
		barW = 40
	}
	bar := progress.New(progress.WithSolidFill(accent), progress.WithWidth(barW))
	lines = append(lines, bar.ViewAs(props.Score/100))

	for _, row := range metricRows {
		lines = append(lines, metricLine(row.label, props.Values[row.slot], row.unit, props.Updated[row.slot], accentStyle))
	}

	if e := props.Excitation; e != nil {
		lines = append(lines, qualDimStyle.Render(fmt.Sprintf("excitation  x %.1f / y %.1f Hz", e.X, e.Y)))
	}

	if len(props.Recommendations) > 0 {
		lines = append(lines, "", accentStyle.Render("Recommendations"))
		for _, rec := range props.Recommendations {
			lines = append(lines, "• "+truncateTo(rec, w-2))
		}
	}

	if len(lines) > h {
		lines = lines[:h]
	}
	return lipgloss.NewStyle().
		Width(w).Height(h).
		Render(strings.Join(lines, "\n"))
}

// metricLine renders one metric row: padded label, right-aligned value, and
// the transient updated marker.
func metricLine(label, value, unit string, updated bool, accentStyle lipgloss.Style) string {
	if value == "" {
		value = "—"
	}
	line := fmt.Sprintf("%-11s %8s%s", label, value, unit)
	if updated {
		return line + "  " + accentStyle.Render("↻")
	}
	return line
}
