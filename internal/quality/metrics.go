// Package quality holds the print-quality metric record shared between the
// dashboard and the simulated controller, plus the threshold rules that turn
// a metric snapshot into tuning recommendations.
package quality

// Excitation is the per-axis resonance excitation estimate attached to a
// metric snapshot by the controller.
type Excitation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Metrics is one quality snapshot for a completed simulation or calibration
// run. Scores are 0-100, errors are millimeters. Snapshots are transient:
// the dashboard animates toward the latest values and keeps nothing else.
type Metrics struct {
	OverallScore        float64     `json:"overall_score"`
	TrackingScore       float64     `json:"tracking_score"`
	VibrationScore      float64     `json:"vibration_score"`
	RMSErrorMM          float64     `json:"rms_error_mm"`
	MaxErrorMM          float64     `json:"max_error_mm"`
	ResonanceExcitation *Excitation `json:"resonance_excitation,omitempty"`
}

// Compute derives scores from raw tracking measurements: RMS and peak
// tracking error in millimeters and a vibration magnitude. Tracking degrades
// by one point per micrometer of RMS error, vibration by ten points per unit
// of measured vibration; the overall score weights tracking 70/30 over
// vibration.
func Compute(rmsErrMM, maxErrMM, vibration float64) Metrics {
	tracking := 100 - rmsErrMM*1000
	if tracking < 0 {
		tracking = 0
	}
	vibScore := 100 - vibration*10
	if vibScore < 0 {
		vibScore = 0
	}

	return Metrics{
		OverallScore:   0.7*tracking + 0.3*vibScore,
		TrackingScore:  tracking,
		VibrationScore: vibScore,
		RMSErrorMM:     rmsErrMM,
		MaxErrorMM:     maxErrMM,
	}
}
