package calibration

import (
	"fmt"
	"time"

	"github.com/fatih/stopwatch"

	"github.com/Red1Kir/NovaMotion-Core/internal/protocol"
)

// State is the calibration session's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateInProgress
	StateCompleted
	StateFailed
)

// String returns the state's identifier name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRequesting:
		return "Requesting"
	case StateInProgress:
		return "InProgress"
	case StateCompleted:
		return "Completed"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Label returns the display label for the state.
func (s State) Label() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRequesting:
		return "REQUESTING"
	case StateInProgress:
		return "CALIBRATING"
	case StateCompleted:
		return "COMPLETE"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Symbol returns a single-character indicator for the state.
func (s State) Symbol() string {
	switch s {
	case StateIdle:
		return "○"
	case StateRequesting:
		return "◌"
	case StateInProgress:
		return "◐"
	case StateCompleted:
		return "●"
	case StateFailed:
		return "✗"
	default:
		return "?"
	}
}

// validTransitions defines the legal state changes. Idle appears in every
// list because the user can dismiss the progress surface from any state.
// InProgress and Completed are reachable from states other than Requesting
// because the controller broadcasts calibration runs started elsewhere; the
// dashboard attaches to them mid-flight.
var validTransitions = map[State][]State{
	StateIdle:       {StateRequesting, StateInProgress, StateCompleted},
	StateRequesting: {StateInProgress, StateCompleted, StateFailed, StateIdle},
	StateInProgress: {StateCompleted, StateIdle},
	StateCompleted:  {StateRequesting, StateInProgress, StateIdle},
	StateFailed:     {StateRequesting, StateInProgress, StateCompleted, StateIdle},
}

// CanTransitionTo reports whether moving from s to target is legal.
// Staying in the same state is always legal.
func (s State) CanTransitionTo(target State) bool {
	if s == target {
		return true
	}
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Session tracks one calibration run and the result it produced. Not safe
// for concurrent use; the dashboard drives it from its update loop.
type Session struct {
	state    State
	stage    string
	progress float64
	message  string
	result   Result
	lastErr  string
	timer    *stopwatch.Stopwatch
}

// NewSession returns an idle session holding no result.
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Stage returns the last received stage name.
func (s *Session) Stage() string { return s.stage }

// Progress returns the last received progress, clamped to [0, 100].
func (s *Session) Progress() float64 { return s.progress }

// Message returns the last received status message.
func (s *Session) Message() string { return s.message }

// LastError returns the failure reason after a rejected start.
func (s *Session) LastError() string { return s.lastErr }

// Result returns the held result document and whether one is held. The
// document survives dismissal; it is only replaced by a newer terminal event
// or an import.
func (s *Session) Result() (Result, bool) {
	return s.result, !s.result.IsZero()
}

// SetResult replaces the held result, used by the import command.
func (s *Session) SetResult(r Result) {
	s.result = r
}

// Elapsed returns how long the current or last run has been going.
func (s *Session) Elapsed() time.Duration {
	if s.timer == nil {
		return 0
	}
	return s.timer.ElapsedTime()
}

// CanStart reports whether a new start command is currently legal.
func (s *Session) CanStart() bool {
	return s.state.CanTransitionTo(StateRequesting) && s.state != StateRequesting
}

// Begin moves the session into Requesting ahead of the outbound start call.
// Starting while a run is requesting or in progress is rejected.
func (s *Session) Begin() error {
	if !s.CanStart() {
		return fmt.Errorf("calibration: a run is already %s", s.state)
	}
	s.state = StateRequesting
	s.lastErr = ""
	return nil
}

// Accept records that the controller accepted the start request. Returns
// false when the session is no longer requesting, e.g. the user dismissed
// the surface while the request was in flight.
func (s *Session) Accept() bool {
	if s.state != StateRequesting {
		return false
	}
	s.enterRun()
	return true
}

// Reject records a refused or failed start request. Failed is not sticky:
// the next Begin runs again.
func (s *Session) Reject(reason string) bool {
	if s.state != StateRequesting {
		return false
	}
	s.state = StateFailed
	s.lastErr = reason
	return true
}

// Apply folds one calibration update into the session. The latest event
// always wins; nothing is discarded on progress ordering. A terminal update
// stores the attached result document and reports completed=true. Updates
// arriving while the session shows no local run attach to the remote one.
// The returned error reports a dropped update or a malformed attached
// result; in the malformed case the run still completes with the previously
// held result untouched.
func (s *Session) Apply(u protocol.CalibrationUpdate) (completed bool, err error) {
	target := StateInProgress
	if u.Complete() {
		target = StateCompleted
	}
	if !s.state.CanTransitionTo(target) {
		return false, fmt.Errorf("calibration: dropping %q update in state %s", u.Stage, s.state)
	}

	if target == StateInProgress && s.state != StateInProgress {
		s.enterRun()
	}

	s.stage = u.Stage
	s.progress = clampProgress(u.Progress)
	s.message = u.Message

	if target != StateCompleted {
		s.state = StateInProgress
		return false, nil
	}

	wasCompleted := s.state == StateCompleted
	s.state = StateCompleted
	if s.timer != nil {
		s.timer.Stop()
	}
	if len(u.Results) > 0 {
		r, parseErr := ParseResult(u.Results)
		if parseErr != nil {
			return !wasCompleted, fmt.Errorf("calibration: terminal update results: %w", parseErr)
		}
		s.result = r
	}
	return !wasCompleted, nil
}

// Dismiss hides the progress surface, returning the session to Idle from any
// state. The remote run, if any, is not cancelled, and the held result is
// kept.
func (s *Session) Dismiss() {
	if s.state == StateIdle {
		return
	}
	s.state = StateIdle
	s.stage = ""
	s.progress = 0
	s.message = ""
	if s.timer != nil {
		s.timer.Stop()
	}
}

// enterRun resets display fields for a fresh run and restarts the elapsed
// timer.
func (s *Session) enterRun() {
	s.state = StateInProgress
	s.stage = ""
	s.progress = 0
	s.message = ""
	s.timer = stopwatch.Start(0)
}

func clampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
