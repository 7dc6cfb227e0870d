// Package protocol defines the typed events exchanged with the NovaMotion
// controller and the envelope codec for its websocket frames. Inbound frames
// are validated here, at the boundary: a frame that does not match its
// declared schema is rejected so downstream consumers never see a partial
// payload.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Red1Kir/NovaMotion-Core/internal/quality"
)

// EventType identifies the kind of a controller event.
type EventType string

const (
	// Wire kinds, pushed by the controller.
	EventSimulationUpdate   EventType = "simulation_update"
	EventSimulationComplete EventType = "simulation_complete"
	EventCalibrationUpdate  EventType = "calibration_update"
	EventHardwareStatus     EventType = "hardware_status"

	// Lifecycle kinds, synthesized locally by the transport.
	EventOpened EventType = "opened"
	EventClosed EventType = "closed"
)

// StageComplete is the terminal calibration stage marker.
const StageComplete = "complete"

// CalibrationUpdate is the payload of a calibration_update event. Results is
// kept raw: the attached result document is held opaquely and only meaningful
// on the terminal stage.
type CalibrationUpdate struct {
	Stage    string          `json:"stage"`
	Progress float64         `json:"progress"`
	Message  string          `json:"message"`
	Results  json.RawMessage `json:"results,omitempty"`
}

// Complete reports whether the update carries the terminal stage marker.
func (u CalibrationUpdate) Complete() bool {
	return u.Stage == StageComplete
}

// DriverStatus is one motor driver's connection state.
type DriverStatus struct {
	Connected bool `json:"connected"`
}

// HardwareStatus is the payload of a hardware_status event.
type HardwareStatus struct {
	Drivers map[string]DriverStatus `json:"drivers"`
}

// Event is one decoded controller event. Exactly the field matching Type is
// populated; the rest stay zero.
type Event struct {
	Type      EventType
	Timestamp time.Time

	// simulation_update: the opaque step payload.
	Simulation json.RawMessage

	// simulation_complete: optional quality snapshot.
	Quality *quality.Metrics

	// calibration_update
	Calibration *CalibrationUpdate

	// hardware_status
	Hardware *HardwareStatus

	// closed: human-readable cause, when known.
	Reason string
}

// OpenedEvent creates the lifecycle event for a freshly established channel.
func OpenedEvent() Event {
	return Event{Type: EventOpened, Timestamp: time.Now()}
}

// ClosedEvent creates the lifecycle event for a torn-down channel.
func ClosedEvent(reason string) Event {
	return Event{Type: EventClosed, Timestamp: time.Now(), Reason: reason}
}

// envelope is the wire form of every frame.
type envelope struct {
	Type EventType       `json:"type"`
	TS   string          `json:"ts,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewFrame encodes an envelope for the given event type and payload. Used by
// the simulated controller's broadcast path and by the telemetry store.
func NewFrame(t EventType, data any) ([]byte, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("protocol: encode %s payload: %w", t, err)
		}
		raw = b
	}
	return json.Marshal(envelope{Type: t, TS: NowTS(), Data: raw})
}

// Frame re-encodes the event as a wire envelope, preserving its timestamp.
// Round-trips through DecodeFrame.
func (e Event) Frame() ([]byte, error) {
	var data any
	switch e.Type {
	case EventSimulationUpdate:
		data = e.Simulation
	case EventSimulationComplete:
		if e.Quality != nil {
			data = map[string]*quality.Metrics{"quality": e.Quality}
		}
	case EventCalibrationUpdate:
		data = e.Calibration
	case EventHardwareStatus:
		data = e.Hardware
	case EventOpened:
		// no payload
	case EventClosed:
		if e.Reason != "" {
			data = map[string]string{"reason": e.Reason}
		}
	default:
		return nil, fmt.Errorf("protocol: encode unknown event type %q", e.Type)
	}

	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("protocol: encode %s payload: %w", e.Type, err)
		}
		raw = b
	}

	ts := ""
	if !e.Timestamp.IsZero() {
		ts = e.Timestamp.Format(time.RFC3339Nano)
	}
	return json.Marshal(envelope{Type: e.Type, TS: ts, Data: raw})
}

// NowTS returns the current time in the envelope timestamp format.
func NowTS() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
