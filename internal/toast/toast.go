// Package toast manages the ephemeral notification stack shown on the
// dashboard: short messages with a severity icon that expire on their own or
// are dismissed by the user, whichever comes first.
package toast

import "time"

// DefaultDuration is how long a toast stays visible when the caller does not
// choose one.
const DefaultDuration = 3000 * time.Millisecond

// Severity classifies a toast for icon and accent selection.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Icon returns the glyph for the severity. Unrecognized severities fall back
// to the info glyph.
func (s Severity) Icon() string {
	switch s {
	case SeveritySuccess:
		return "✓"
	case SeverityError:
		return "✗"
	case SeverityWarning:
		return "⚠"
	case SeverityInfo:
		return "ℹ"
	default:
		return "ℹ"
	}
}

// Toast is one notification. ID is unique within its Stack.
type Toast struct {
	ID        int
	Message   string
	Severity  Severity
	CreatedAt time.Time
	Duration  time.Duration
}

// ExpiresAt returns the instant the toast auto-dismisses.
func (t Toast) ExpiresAt() time.Time {
	return t.CreatedAt.Add(t.Duration)
}

// Expired reports whether the toast's display window has passed.
func (t Toast) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt())
}

// Stack owns the active toasts. Not safe for concurrent use; the dashboard
// drives it from its update loop.
type Stack struct {
	nextID int
	active []Toast
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{nextID: 1}
}

// Push adds a toast with the given severity and duration. A non-positive
// duration selects DefaultDuration. The new toast is returned so callers can
// hold its ID for explicit dismissal.
func (s *Stack) Push(message string, severity Severity, duration time.Duration, now time.Time) Toast {
	if duration <= 0 {
		duration = DefaultDuration
	}
	t := Toast{
		ID:        s.nextID,
		Message:   message,
		Severity:  severity,
		CreatedAt: now,
		Duration:  duration,
	}
	s.nextID++
	s.active = append(s.active, t)
	return t
}

// Show pushes an info toast with the default duration.
func (s *Stack) Show(message string, now time.Time) Toast {
	return s.Push(message, SeverityInfo, 0, now)
}

// Dismiss removes the toast with the given ID. Dismissing a toast that has
// already gone is a no-op.
func (s *Stack) Dismiss(id int) {
	for i, t := range s.active {
		if t.ID == id {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return
		}
	}
}

// DismissNewest removes the most recently pushed toast, if any.
func (s *Stack) DismissNewest() {
	if len(s.active) == 0 {
		return
	}
	s.active = s.active[:len(s.active)-1]
}

// Expire removes every toast whose display window has passed and returns how
// many were removed. Called from the shared scheduler tick.
func (s *Stack) Expire(now time.Time) int {
	kept := s.active[:0]
	removed := 0
	for _, t := range s.active {
		if t.Expired(now) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.active = kept
	return removed
}

// Active returns the visible toasts in creation order.
func (s *Stack) Active() []Toast {
	out := make([]Toast, len(s.active))
	copy(out, s.active)
	return out
}

// Len returns the number of visible toasts.
func (s *Stack) Len() int {
	return len(s.active)
}
