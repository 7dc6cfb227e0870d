package tui

// FocusTarget identifies which panel currently holds keyboard focus.
type FocusTarget int

const (
	FocusCalibration FocusTarget = iota // left sidebar, calibration run
	FocusHardware                       // left sidebar, driver status
	FocusQuality                        // right top, quality metrics
	FocusEvents                         // right bottom, event log tabs
)

// Next returns the next focus target in forward tab order.
func (f FocusTarget) Next() FocusTarget {
	return (f + 1) % 4
}

// Prev returns the previous focus target in reverse tab order.
func (f FocusTarget) Prev() FocusTarget {
	return (f + 3) % 4
}

// String returns the human-readable name of the focus target.
func (f FocusTarget) String() string {
	switch f {
	case FocusCalibration:
		return "calibration"
	case FocusHardware:
		return "hardware"
	case FocusQuality:
		return "quality"
	case FocusEvents:
		return "events"
	default:
		return "unknown"
	}
}

// ConnectionState is the dashboard's view of the controller channel. Owned by
// the root model and mutated only by transport lifecycle events.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connected
)

// Label returns a short uppercase label for the state.
func (s ConnectionState) Label() string {
	if s == Connected {
		return "ONLINE"
	}
	return "OFFLINE"
}

// Symbol returns a single-character indicator for the state.
func (s ConnectionState) Symbol() string {
	if s == Connected {
		return "●"
	}
	return "○"
}
