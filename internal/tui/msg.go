package tui

import (
	"time"

	"github.com/Red1Kir/NovaMotion-Core/internal/calibration"
	"github.com/Red1Kir/NovaMotion-Core/internal/protocol"
)

// eventMsg wraps one decoded controller event for the update loop.
type eventMsg protocol.Event

// eventsClosedMsg signals the event channel closed underneath the dashboard.
type eventsClosedMsg struct{}

// tickMsg drives the shared scheduler: animator advance, toast expiry and
// elapsed-time refresh.
type tickMsg time.Time

// connectDoneMsg reports the outcome of a reconnect attempt.
type connectDoneMsg struct{ err error }

// calibrationStartedMsg reports the controller's answer to a start request.
type calibrationStartedMsg struct{ err error }

// exportDoneMsg reports where the held result was written.
type exportDoneMsg struct {
	path string
	err  error
}

// importDoneMsg carries a parsed and forwarded import.
type importDoneMsg struct {
	path   string
	result calibration.Result
	err    error
}

// patternDoneMsg reports where the diagnostic G-code was written.
type patternDoneMsg struct {
	path string
	err  error
}
