package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Red1Kir/NovaMotion-Core/internal/quality"
)

// Shadow structs with pointer fields let decoding distinguish absent from
// zero, so required-field checks happen before any payload reaches a
// consumer.

type calibrationWire struct {
	Stage    *string         `json:"stage"`
	Progress *float64        `json:"progress"`
	Message  *string         `json:"message"`
	Results  json.RawMessage `json:"results"`
}

type qualityWire struct {
	OverallScore        *float64            `json:"overall_score"`
	TrackingScore       *float64            `json:"tracking_score"`
	VibrationScore      *float64            `json:"vibration_score"`
	RMSErrorMM          *float64            `json:"rms_error_mm"`
	MaxErrorMM          *float64            `json:"max_error_mm"`
	ResonanceExcitation *quality.Excitation `json:"resonance_excitation"`
}

type completeWire struct {
	Quality json.RawMessage `json:"quality"`
}

type hardwareWire struct {
	Drivers map[string]DriverStatus `json:"drivers"`
}

type closedWire struct {
	Reason string `json:"reason"`
}

// DecodeFrame parses and validates one wire frame. Any schema mismatch
// (malformed JSON, missing type, unknown type, a payload missing required
// fields) returns an error; callers drop the frame and log.
func DecodeFrame(b []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Event{}, fmt.Errorf("protocol: malformed frame: %w", err)
	}
	if env.Type == "" {
		return Event{}, fmt.Errorf("protocol: frame missing type")
	}

	ev := Event{Type: env.Type, Timestamp: parseTS(env.TS)}

	switch env.Type {
	case EventSimulationUpdate:
		raw, err := requireObject(env.Type, env.Data)
		if err != nil {
			return Event{}, err
		}
		ev.Simulation = raw

	case EventSimulationComplete:
		q, err := decodeComplete(env.Data)
		if err != nil {
			return Event{}, err
		}
		ev.Quality = q

	case EventCalibrationUpdate:
		u, err := decodeCalibration(env.Data)
		if err != nil {
			return Event{}, err
		}
		ev.Calibration = u

	case EventHardwareStatus:
		h, err := decodeHardware(env.Data)
		if err != nil {
			return Event{}, err
		}
		ev.Hardware = h

	case EventOpened:
		// no payload

	case EventClosed:
		if len(env.Data) > 0 {
			var w closedWire
			if err := json.Unmarshal(env.Data, &w); err != nil {
				return Event{}, fmt.Errorf("protocol: closed payload: %w", err)
			}
			ev.Reason = w.Reason
		}

	default:
		return Event{}, fmt.Errorf("protocol: unknown event type %q", env.Type)
	}

	return ev, nil
}

// DecodeQuality validates a standalone quality document, requiring all five
// numeric fields.
func DecodeQuality(raw []byte) (*quality.Metrics, error) {
	var w qualityWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("protocol: quality payload: %w", err)
	}

	missing := ""
	switch {
	case w.OverallScore == nil:
		missing = "overall_score"
	case w.TrackingScore == nil:
		missing = "tracking_score"
	case w.VibrationScore == nil:
		missing = "vibration_score"
	case w.RMSErrorMM == nil:
		missing = "rms_error_mm"
	case w.MaxErrorMM == nil:
		missing = "max_error_mm"
	}
	if missing != "" {
		return nil, fmt.Errorf("protocol: quality payload missing %s", missing)
	}

	return &quality.Metrics{
		OverallScore:        *w.OverallScore,
		TrackingScore:       *w.TrackingScore,
		VibrationScore:      *w.VibrationScore,
		RMSErrorMM:          *w.RMSErrorMM,
		MaxErrorMM:          *w.MaxErrorMM,
		ResonanceExcitation: w.ResonanceExcitation,
	}, nil
}

func decodeComplete(data json.RawMessage) (*quality.Metrics, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var w completeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("protocol: simulation_complete payload: %w", err)
	}
	if len(w.Quality) == 0 || string(w.Quality) == "null" {
		return nil, nil
	}
	return DecodeQuality(w.Quality)
}

func decodeCalibration(data json.RawMessage) (*CalibrationUpdate, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("protocol: calibration_update missing payload")
	}
	var w calibrationWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("protocol: calibration_update payload: %w", err)
	}

	missing := ""
	switch {
	case w.Stage == nil:
		missing = "stage"
	case w.Progress == nil:
		missing = "progress"
	case w.Message == nil:
		missing = "message"
	}
	if missing != "" {
		return nil, fmt.Errorf("protocol: calibration_update missing %s", missing)
	}

	return &CalibrationUpdate{
		Stage:    *w.Stage,
		Progress: *w.Progress,
		Message:  *w.Message,
		Results:  w.Results,
	}, nil
}

func decodeHardware(data json.RawMessage) (*HardwareStatus, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("protocol: hardware_status missing payload")
	}
	var w hardwareWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("protocol: hardware_status payload: %w", err)
	}
	if w.Drivers == nil {
		return nil, fmt.Errorf("protocol: hardware_status missing drivers")
	}
	return &HardwareStatus{Drivers: w.Drivers}, nil
}

// requireObject checks that raw is a JSON object and returns it unchanged.
func requireObject(t EventType, raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("protocol: %s missing payload", t)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("protocol: %s payload is not an object: %w", t, err)
	}
	return raw, nil
}

// parseTS parses an envelope timestamp, falling back to the local receive
// time when absent or malformed. Timestamps are advisory metadata, not part
// of the validated schema.
func parseTS(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Now()
	}
	return ts
}
