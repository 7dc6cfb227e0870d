// Package store persists controller events to a JSONL session log and
// provides read-back of session metadata and past calibration results.
// Each line in a session file is one wire frame, so logged telemetry decodes
// through the same validation path as live traffic.
package store

import (
	"time"

	"github.com/Red1Kir/NovaMotion-Core/internal/calibration"
	"github.com/Red1Kir/NovaMotion-Core/internal/protocol"
	"github.com/Red1Kir/NovaMotion-Core/internal/quality"
)

// Writer persists controller events to durable storage.
type Writer interface {
	Append(ev protocol.Event) error
	Close() error
}

// Reader retrieves data accumulated during the current session.
type Reader interface {
	Summary() (SessionSummary, error)
	LatestResult() (calibration.Result, bool)
}

// Store combines Writer and Reader into a single session-scoped handle.
// One instance is created per dashboard invocation in cmd/nova/wiring.go.
type Store interface {
	Writer
	Reader
}

// SessionSummary summarises the current session.
type SessionSummary struct {
	SessionID    string
	StartedAt    time.Time
	Events       int // frames appended, lifecycle included
	Completions  int // simulation_complete frames
	Calibrations int // calibration runs that reached the terminal stage
	LastEventAt  time.Time
	LastQuality  *quality.Metrics
}

// Nop is a Store that discards writes and reports an empty session. Used
// when telemetry logging is disabled in the config.
type Nop struct{}

func (Nop) Append(protocol.Event) error { return nil }

func (Nop) Close() error { return nil }

func (Nop) Summary() (SessionSummary, error) { return SessionSummary{}, nil }

func (Nop) LatestResult() (calibration.Result, bool) { return calibration.Result{}, false }
