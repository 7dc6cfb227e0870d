package quality

// Recommendation lines. The rule set below appends every matching line, so a
// snapshot can produce several of these at once.
const (
	RecReduceAcceleration = "Consider reducing acceleration to improve tracking accuracy"
	RecInputShaping       = "Enable input shaping or reduce speed to dampen vibrations"
	RecCheckMechanics     = "Check mechanical alignment and backlash compensation"
	RecWellTuned          = "System is well tuned - print speed could be increased"
	RecNone               = "No optimization recommendations needed"
)

// Recommendations evaluates the threshold rules against a metric snapshot and
// returns a fresh list. Rules are ordered and independent: all matches are
// included. An empty match set yields the single RecNone line.
func Recommendations(m Metrics) []string {
	var recs []string

	if m.TrackingScore < 80 {
		recs = append(recs, RecReduceAcceleration)
	}
	if m.VibrationScore < 70 {
		recs = append(recs, RecInputShaping)
	}
	if m.MaxErrorMM > 0.05 {
		recs = append(recs, RecCheckMechanics)
	}
	if m.RMSErrorMM < 0.01 && m.VibrationScore > 85 {
		recs = append(recs, RecWellTuned)
	}

	if len(recs) == 0 {
		recs = append(recs, RecNone)
	}
	return recs
}
