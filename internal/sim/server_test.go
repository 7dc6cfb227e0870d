package sim_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Red1Kir/NovaMotion-Core/internal/api"
	"github.com/Red1Kir/NovaMotion-Core/internal/calibration"
	"github.com/Red1Kir/NovaMotion-Core/internal/protocol"
	"github.com/Red1Kir/NovaMotion-Core/internal/sim"
)

func newTestServer(t *testing.T, opts sim.Options) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(sim.New(opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, sim.Options{})

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestStatus(t *testing.T) {
	srv := newTestServer(t, sim.Options{})

	resp, err := http.Get(srv.URL + "/api/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Name               string `json:"name"`
		Clients            int    `json:"clients"`
		CalibrationRunning bool   `json:"calibration_running"`
		HasResult          bool   `json:"has_result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Name != "novasimd" {
		t.Errorf("name = %q, want novasimd", body.Name)
	}
	if body.Clients != 0 || body.CalibrationRunning || body.HasResult {
		t.Errorf("fresh daemon status = %+v", body)
	}
}

func TestStartCalibration_AcceptedThenBusy(t *testing.T) {
	// A long stage keeps the sequence in flight for the busy check.
	srv := newTestServer(t, sim.Options{StageDuration: time.Minute})
	client := api.New(srv.URL)

	if err := client.StartCalibration(context.Background()); err != nil {
		t.Fatalf("first start: %v", err)
	}

	err := client.StartCalibration(context.Background())
	if err == nil {
		t.Fatal("second start should be refused")
	}
	if !strings.Contains(err.Error(), "409") {
		t.Errorf("refusal error %q should carry the 409 status", err)
	}
	if !strings.Contains(err.Error(), "already running") {
		t.Errorf("refusal error %q should carry the server's reason", err)
	}
}

func TestStartCalibration_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, sim.Options{})

	resp, err := http.Get(srv.URL + "/api/start_calibration")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestImportCalibration(t *testing.T) {
	srv := newTestServer(t, sim.Options{})
	client := api.New(srv.URL)

	doc, err := calibration.ParseResult([]byte(`{"success": true, "parameters": {"k": 1}}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := client.ImportCalibration(context.Background(), doc); err != nil {
		t.Fatalf("import: %v", err)
	}

	resp, err := http.Get(srv.URL + "/api/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var status struct {
		HasResult bool `json:"has_result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if !status.HasResult {
		t.Error("status should report a held result after import")
	}
}

func TestImportCalibration_RejectsNonObject(t *testing.T) {
	srv := newTestServer(t, sim.Options{})

	resp, err := http.Post(srv.URL+"/api/import_calibration", "application/json", strings.NewReader(`[1,2,3]`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHubBroadcastReachesDialedClient(t *testing.T) {
	hub := sim.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Wait for the hub loop to register the connection before broadcasting.
	deadline := time.After(2 * time.Second)
	for hub.ClientCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("client never registered")
		case <-time.After(time.Millisecond):
		}
	}

	hub.BroadcastEvent(protocol.EventCalibrationUpdate, protocol.CalibrationUpdate{
		Stage:    "resonances",
		Progress: 40,
		Message:  "Sweeping resonance frequencies",
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	ev, err := protocol.DecodeFrame(frame)
	if err != nil {
		t.Fatalf("broadcast frame failed validation: %v", err)
	}
	if ev.Type != protocol.EventCalibrationUpdate {
		t.Errorf("event type = %q, want calibration_update", ev.Type)
	}
	if ev.Calibration == nil || ev.Calibration.Stage != "resonances" {
		t.Errorf("payload = %+v", ev.Calibration)
	}
}
