// Package calibration tracks one calibration run as a state machine and owns
// the result document the run produces. The document itself is held opaquely
// so export → import round trips preserve every field the controller sent,
// including ones this client knows nothing about.
package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Result is a held calibration result document. The zero value means no
// result is held.
type Result struct {
	raw json.RawMessage
}

// ParseResult validates data as a JSON object and returns it as a held
// result. The raw bytes are copied.
func ParseResult(data []byte) (Result, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return Result{}, fmt.Errorf("calibration: parse result: %w", err)
	}
	raw := make(json.RawMessage, len(data))
	copy(raw, data)
	return Result{raw: raw}, nil
}

// LoadResult reads and parses a result document from disk.
func LoadResult(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("calibration: read %s: %w", path, err)
	}
	r, err := ParseResult(data)
	if err != nil {
		return Result{}, fmt.Errorf("calibration: %s: %w", path, err)
	}
	return r, nil
}

// IsZero reports whether no result is held.
func (r Result) IsZero() bool {
	return len(r.raw) == 0
}

// Canonical renders the document in its canonical form: two-space indented
// with object keys sorted. Exports always write this form, so an exported
// file re-imported and re-exported is byte-identical.
func (r Result) Canonical() ([]byte, error) {
	if r.IsZero() {
		return nil, fmt.Errorf("calibration: no result held")
	}
	var v any
	if err := json.Unmarshal(r.raw, &v); err != nil {
		return nil, fmt.Errorf("calibration: canonicalize result: %w", err)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("calibration: canonicalize result: %w", err)
	}
	return append(out, '\n'), nil
}

// MarshalJSON emits the document verbatim, for forwarding to the controller.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("null"), nil
	}
	return r.raw, nil
}

// UnmarshalJSON replaces the held document after validating it.
func (r *Result) UnmarshalJSON(data []byte) error {
	parsed, err := ParseResult(data)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Summary is the typed display view of a result document. Fields the
// document lacks stay zero; the document itself is never reduced to this.
type Summary struct {
	Success        bool
	Parameters     int
	ResonancePeaks int
	Duration       float64
	Timestamp      float64
}

// Summary extracts the display view from the held document.
func (r Result) Summary() Summary {
	var peek struct {
		Success        bool                       `json:"success"`
		Parameters     map[string]json.RawMessage `json:"parameters"`
		ResonancePeaks []json.RawMessage          `json:"resonance_peaks"`
		Duration       float64                    `json:"duration"`
		Timestamp      float64                    `json:"timestamp"`
	}
	if r.IsZero() || json.Unmarshal(r.raw, &peek) != nil {
		return Summary{}
	}
	return Summary{
		Success:        peek.Success,
		Parameters:     len(peek.Parameters),
		ResonancePeaks: len(peek.ResonancePeaks),
		Duration:       peek.Duration,
		Timestamp:      peek.Timestamp,
	}
}

// ExportFileName names an export written at the given time.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("nova_calibration_%d.json", now.UnixMilli())
}

// WriteExport writes the canonical document into dir under the timestamped
// export name, creating dir if needed. The write goes through a temp file and
// rename so a crash never leaves a half-written export behind. Returns the
// full path written.
func WriteExport(dir string, r Result, now time.Time) (string, error) {
	data, err := r.Canonical()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("calibration: create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".nova-export-*.tmp")
	if err != nil {
		return "", fmt.Errorf("calibration: create temp export: %w", err)
	}
	if _, writeErr := tmp.Write(data); writeErr != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("calibration: write export: %w", writeErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("calibration: close export: %w", closeErr)
	}

	path := filepath.Join(dir, ExportFileName(now))
	if renameErr := os.Rename(tmp.Name(), path); renameErr != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("calibration: finalize export: %w", renameErr)
	}
	return path, nil
}
