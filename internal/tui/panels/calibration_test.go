package panels

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Red1Kir/NovaMotion-Core/internal/calibration"
)

const testAccent = "#7D56F4"

func TestRenderCalibration_Idle(t *testing.T) {
	rendered := RenderCalibration(CalibrationProps{StateLabel: "IDLE", StateSymbol: "○"}, 30, 10, testAccent)
	if !strings.Contains(rendered, "No calibration run") {
		t.Errorf("idle panel missing placeholder; got %q", rendered)
	}
	if !strings.Contains(rendered, "press c to start") {
		t.Errorf("idle panel missing start hint; got %q", rendered)
	}
}

func TestRenderCalibration_Active(t *testing.T) {
	props := CalibrationProps{
		StateLabel:  "CALIBRATING",
		StateSymbol: "◐",
		Active:      true,
		Stage:       "resonance_x",
		Progress:    45,
		Message:     "Testing X resonance",
		Elapsed:     5 * time.Second,
	}
	rendered := RenderCalibration(props, 30, 10, testAccent)

	for _, want := range []string{"◐ CALIBRATING", "stage: resonance_x", "Testing X resonance", "elapsed: 5s"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("active panel missing %q; got %q", want, rendered)
		}
	}
}

func TestRenderCalibration_ActiveNoStage(t *testing.T) {
	props := CalibrationProps{StateLabel: "REQUESTING", StateSymbol: "◌", Active: true}
	rendered := RenderCalibration(props, 30, 10, testAccent)
	if !strings.Contains(rendered, "stage: starting") {
		t.Errorf("empty stage should render as starting; got %q", rendered)
	}
}

func TestRenderCalibration_Failed(t *testing.T) {
	props := CalibrationProps{StateLabel: "FAILED", StateSymbol: "✗", LastError: "controller rejected start"}
	rendered := RenderCalibration(props, 40, 10, testAccent)
	if !strings.Contains(rendered, "✗ controller rejected start") {
		t.Errorf("failed panel missing error line; got %q", rendered)
	}
}

func TestRenderCalibration_Summary(t *testing.T) {
	s := &calibration.Summary{Success: true, Parameters: 4, ResonancePeaks: 2, Duration: 45.2}
	props := CalibrationProps{StateLabel: "COMPLETE", StateSymbol: "●", Summary: s}
	rendered := RenderCalibration(props, 40, 10, testAccent)

	for _, want := range []string{"result held", "4 params", "2 peaks", "45.2s"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("summary missing %q; got %q", want, rendered)
		}
	}
}

func TestRenderCalibration_FailedRunSummary(t *testing.T) {
	s := &calibration.Summary{Success: false, Parameters: 1}
	props := CalibrationProps{StateLabel: "COMPLETE", StateSymbol: "●", Summary: s}
	rendered := RenderCalibration(props, 40, 10, testAccent)
	if !strings.Contains(rendered, "failed run") {
		t.Errorf("failed-run summary missing marker; got %q", rendered)
	}
}

func TestRenderCalibration_LongMessageTruncated(t *testing.T) {
	props := CalibrationProps{
		StateLabel:  "CALIBRATING",
		StateSymbol: "◐",
		Active:      true,
		Message:     strings.Repeat("x", 100),
	}
	rendered := RenderCalibration(props, 20, 10, testAccent)
	if !strings.Contains(rendered, "…") {
		t.Error("expected long message to be truncated with '…'")
	}
}

// Summary extraction from a real result document, as the dashboard does it.
func TestRenderCalibration_SummaryFromResult(t *testing.T) {
	doc := `{"success": true, "parameters": {"a": 1, "b": 2}, "resonance_peaks": [1, 2, 3], "duration": 10.5}`
	r, err := calibration.ParseResult(json.RawMessage(doc))
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	s := r.Summary()
	props := CalibrationProps{StateLabel: "COMPLETE", StateSymbol: "●", Summary: &s}
	rendered := RenderCalibration(props, 40, 10, testAccent)
	for _, want := range []string{"2 params", "3 peaks", "10.5s"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("summary missing %q; got %q", want, rendered)
		}
	}
}
