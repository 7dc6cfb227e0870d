package notify

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Red1Kir/NovaMotion-Core/internal/protocol"
)

// captureServer starts an httptest.Server that records incoming requests.
// It returns the server and a function to collect all captured requests.
func captureServer(t *testing.T) (*httptest.Server, func() []capturedReq) {
	t.Helper()
	var mu sync.Mutex
	var reqs []capturedReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, capturedReq{
			method:      r.Method,
			body:        string(body),
			contentType: r.Header.Get("Content-Type"),
			title:       r.Header.Get("X-Title"),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []capturedReq {
		mu.Lock()
		defer mu.Unlock()
		out := make([]capturedReq, len(reqs))
		copy(out, reqs)
		return out
	}
}

type capturedReq struct {
	method      string
	body        string
	contentType string
	title       string
}

// waitForRequests polls until count requests are captured or the deadline is reached.
func waitForRequests(t *testing.T, collect func() []capturedReq, count int) []capturedReq {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := collect(); len(got) >= count {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d request(s)", count)
	return nil
}

func terminalUpdate(results string) protocol.Event {
	u := &protocol.CalibrationUpdate{Stage: protocol.StageComplete, Progress: 100, Message: "Calibration complete"}
	if results != "" {
		u.Results = json.RawMessage(results)
	}
	return protocol.Event{Type: protocol.EventCalibrationUpdate, Calibration: u}
}

func TestHook_OnComplete(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "voron-350", true, false)
	n.Hook(terminalUpdate(`{"success": true, "parameters": {"shaper_freq_x": 41.2, "shaper_freq_y": 39.8}}`))

	reqs := waitForRequests(t, collect, 1)
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	r := reqs[0]
	if r.method != http.MethodPost {
		t.Errorf("method = %q, want POST", r.method)
	}
	if want := "Calibration complete: 2 parameters tuned"; r.body != want {
		t.Errorf("body = %q, want %q", r.body, want)
	}
	if r.contentType != "text/plain" {
		t.Errorf("Content-Type = %q, want text/plain", r.contentType)
	}
	if r.title != "voron-350" {
		t.Errorf("X-Title = %q, want voron-350", r.title)
	}
}

func TestHook_OnComplete_Disabled(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", false, false)
	n.Hook(terminalUpdate(`{"success": true}`))

	// Give the goroutine time to fire (it shouldn't, but we need to be sure).
	time.Sleep(50 * time.Millisecond)
	if got := collect(); len(got) != 0 {
		t.Errorf("expected no requests, got %d", len(got))
	}
}

func TestHook_IgnoresProgressUpdates(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", true, true)
	n.Hook(protocol.Event{
		Type:        protocol.EventCalibrationUpdate,
		Calibration: &protocol.CalibrationUpdate{Stage: "homing", Progress: 25, Message: "Homing all axes"},
	})

	time.Sleep(50 * time.Millisecond)
	if got := collect(); len(got) != 0 {
		t.Errorf("expected no requests for a non-terminal stage, got %d", len(got))
	}
}

func TestHook_OnDisconnect(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "ender", false, true)
	n.Hook(protocol.ClosedEvent("websocket: close 1001 (going away)"))

	reqs := waitForRequests(t, collect, 1)
	if want := "Connection to the controller lost: websocket: close 1001 (going away)"; reqs[0].body != want {
		t.Errorf("body = %q, want %q", reqs[0].body, want)
	}
	if reqs[0].title != "ender" {
		t.Errorf("X-Title = %q, want ender", reqs[0].title)
	}
}

func TestHook_OnDisconnect_NoReason(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", false, true)
	n.Hook(protocol.ClosedEvent(""))

	reqs := waitForRequests(t, collect, 1)
	if want := "Connection to the controller lost"; reqs[0].body != want {
		t.Errorf("body = %q, want %q", reqs[0].body, want)
	}
}

func TestHook_OnDisconnect_Disabled(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", true, false)
	n.Hook(protocol.ClosedEvent("going away"))

	time.Sleep(50 * time.Millisecond)
	if got := collect(); len(got) != 0 {
		t.Errorf("expected no requests, got %d", len(got))
	}
}

func TestHook_IgnoresOtherEvents(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", true, true)
	// These events should never trigger a notification.
	n.Hook(protocol.OpenedEvent())
	n.Hook(protocol.Event{Type: protocol.EventSimulationUpdate, Simulation: json.RawMessage(`{"step": 1}`)})
	n.Hook(protocol.Event{Type: protocol.EventSimulationComplete})
	n.Hook(protocol.Event{Type: protocol.EventHardwareStatus, Hardware: &protocol.HardwareStatus{}})

	time.Sleep(50 * time.Millisecond)
	if got := collect(); len(got) != 0 {
		t.Errorf("expected no requests for non-notification events, got %d", len(got))
	}
}

func TestHook_FallbackTitle(t *testing.T) {
	srv, collect := captureServer(t)

	// Empty machine name → fallback title "NovaMotion"
	n := New(srv.URL, "", true, false)
	n.Hook(terminalUpdate(`{"success": true}`))

	reqs := waitForRequests(t, collect, 1)
	if reqs[0].title != "NovaMotion" {
		t.Errorf("X-Title = %q, want NovaMotion", reqs[0].title)
	}
}

func TestHook_PostFailureSilent(t *testing.T) {
	// Point at a server that is already closed → connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // close immediately

	n := New(srv.URL, "", true, true)
	// None of these should panic or block.
	n.Hook(terminalUpdate(`{"success": true}`))
	n.Hook(protocol.ClosedEvent("gone"))

	// Allow goroutines to finish.
	time.Sleep(100 * time.Millisecond)
}

func TestCompletionMessage(t *testing.T) {
	tests := []struct {
		name    string
		results string
		want    string
	}{
		{
			"success with parameters",
			`{"success": true, "parameters": {"a": 1, "b": 2, "c": 3}}`,
			"Calibration complete: 3 parameters tuned",
		},
		{
			"controller reported failure",
			`{"success": false, "error": "homing timed out"}`,
			"Calibration finished: controller reported failure",
		},
		{
			"no result document",
			"",
			"Calibration complete",
		},
		{
			"malformed result document",
			`[1, 2, 3]`,
			"Calibration complete",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := terminalUpdate(tt.results)
			if got := completionMessage(ev.Calibration); got != tt.want {
				t.Errorf("completionMessage = %q, want %q", got, tt.want)
			}
		})
	}
}
