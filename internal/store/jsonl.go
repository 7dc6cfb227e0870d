package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Red1Kir/NovaMotion-Core/internal/calibration"
	"github.com/Red1Kir/NovaMotion-Core/internal/protocol"
	"github.com/Red1Kir/NovaMotion-Core/internal/quality"
)

// JSONL is a Store backed by an append-only JSONL file. Each line is one
// wire frame produced by Event.Frame. The file is synced after every Append
// so a killed dashboard leaves a complete log.
//
// Session identity: "nova-<unix-nanos>-<short-id>.jsonl". The nanosecond
// timestamp keeps session names in chronological order when sorted; the
// short ID guards against clock ties between two dashboards.
type JSONL struct {
	file      *os.File
	path      string
	sessionID string
	startedAt time.Time

	mu    sync.Mutex
	tally sessionTally
}

// sessionTally accumulates per-session counters and the most recent
// calibration result as frames are appended.
type sessionTally struct {
	events       int
	completions  int
	calibrations int
	lastEventAt  time.Time
	lastQuality  *quality.Metrics
	lastResult   calibration.Result
}

func (t *sessionTally) observe(ev protocol.Event) {
	t.events++
	t.lastEventAt = ev.Timestamp
	switch ev.Type {
	case protocol.EventSimulationComplete:
		t.completions++
		if ev.Quality != nil {
			q := *ev.Quality
			t.lastQuality = &q
		}
	case protocol.EventCalibrationUpdate:
		if ev.Calibration == nil || !ev.Calibration.Complete() {
			return
		}
		t.calibrations++
		if r, err := calibration.ParseResult(ev.Calibration.Results); err == nil {
			t.lastResult = r
		}
	}
}

// NewJSONL creates the session JSONL log in dir. dir is created with
// os.MkdirAll if it does not exist.
func NewJSONL(dir string) (*JSONL, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: mkdir %q: %w", dir, err)
	}
	now := time.Now()
	sessionID := fmt.Sprintf("nova-%d-%s", now.UnixNano(), uuid.New().String()[:8])
	path := filepath.Join(dir, sessionID+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	return &JSONL{
		file:      f,
		path:      path,
		sessionID: sessionID,
		startedAt: now,
	}, nil
}

// Path returns the session file's location.
func (j *JSONL) Path() string { return j.path }

// Append encodes ev as a wire frame, writes it as one line, and syncs.
// Safe to call from multiple goroutines.
func (j *JSONL) Append(ev protocol.Event) error {
	frame, err := ev.Frame()
	if err != nil {
		return fmt.Errorf("store: encode frame: %w", err)
	}
	frame = append(frame, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.file.Write(frame); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("store: sync: %w", err)
	}
	j.tally.observe(ev)
	return nil
}

// Close closes the underlying file.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// Summary returns metadata about the current session from the in-memory
// tally.
func (j *JSONL) Summary() (SessionSummary, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var q *quality.Metrics
	if j.tally.lastQuality != nil {
		qc := *j.tally.lastQuality
		q = &qc
	}
	return SessionSummary{
		SessionID:    j.sessionID,
		StartedAt:    j.startedAt,
		Events:       j.tally.events,
		Completions:  j.tally.completions,
		Calibrations: j.tally.calibrations,
		LastEventAt:  j.tally.lastEventAt,
		LastQuality:  q,
	}, nil
}

// LatestResult returns the most recent completed calibration result seen
// this session, if any.
func (j *JSONL) LatestResult() (calibration.Result, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.tally.lastResult, !j.tally.lastResult.IsZero()
}
