package sim

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/Red1Kir/NovaMotion-Core/internal/calibration"
	"github.com/Red1Kir/NovaMotion-Core/internal/logging"
)

// Options holds everything the Server needs from the caller.
type Options struct {
	Logger logging.Logger
	Bind   string

	// Pacing overrides; zero keeps the production-like defaults.
	StepInterval  time.Duration
	StageDuration time.Duration
	Heartbeat     time.Duration
}

// Server is the simulated controller daemon: HTTP API, websocket hub,
// telemetry engine, and calibration sequencer under one lifecycle.
type Server struct {
	log       logging.Logger
	bind      string
	hub       *Hub
	engine    *Engine
	cal       *Calibrator
	startedAt time.Time
	server    *http.Server

	// runCtx bounds background work started by handlers. Run replaces it
	// before serving; the default keeps Handler usable in tests.
	runCtx context.Context
}

// New wires up a server. Call Run to start serving.
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = &logging.NullLogger{}
	}
	hub := NewHub(log)
	engine := NewEngine(hub, log)
	cal := NewCalibrator(hub, log)

	if opts.StepInterval > 0 {
		engine.StepInterval = opts.StepInterval
	}
	if opts.Heartbeat > 0 {
		engine.Heartbeat = opts.Heartbeat
	}
	if opts.StageDuration > 0 {
		cal.StageDuration = opts.StageDuration
	}

	bind := opts.Bind
	if bind == "" {
		bind = "127.0.0.1:5000"
	}

	return &Server{
		log:       log,
		bind:      bind,
		hub:       hub,
		engine:    engine,
		cal:       cal,
		startedAt: time.Now(),
		runCtx:    context.Background(),
	}
}

// Handler returns the HTTP routing table. Split out so tests can drive the
// API through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/start_calibration", s.handleStartCalibration)
	mux.HandleFunc("/api/import_calibration", s.handleImportCalibration)
	mux.Handle("/ws", s.hub.Handler())
	return mux
}

// Run starts the HTTP server, hub, and telemetry engine. It blocks until
// ctx is cancelled or the server fails.
func (s *Server) Run(ctx context.Context) error {
	s.runCtx = ctx
	s.server = &http.Server{
		Addr:              s.bind,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", s.bind)
	if err != nil {
		return err
	}

	s.log.Infof("sim: listening on http://%s", s.bind)

	go s.hub.Run(ctx)
	go s.engine.Run(ctx)

	go func() {
		<-ctx.Done()
		s.log.Infof("sim: shutdown requested")
		_ = s.server.Shutdown(context.Background())
	}()

	return s.server.Serve(ln)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	_, hasResult := s.cal.Result()
	writeJSON(w, http.StatusOK, map[string]any{
		"name":                "novasimd",
		"uptime_seconds":      int64(time.Since(s.startedAt).Seconds()),
		"clients":             s.hub.ClientCount(),
		"calibration_running": s.cal.Running(),
		"has_result":          hasResult,
	})
}

func (s *Server) handleStartCalibration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// The sequence outlives the request; it stops with the server, not
	// with the client that asked for it.
	if err := s.cal.Start(s.runCtx); err != nil {
		jsonError(w, "calibration already running", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"ok":      true,
		"message": "calibration started",
	})
}

func (s *Server) handleImportCalibration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		jsonError(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	result, err := calibration.ParseResult(body)
	if err != nil {
		jsonError(w, "calibration data must be a JSON object", http.StatusBadRequest)
		return
	}

	s.cal.SetResult(result)
	s.log.Infof("sim: calibration document imported (%d bytes)", len(body))
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "calibration data imported",
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]any{
		"ok":    false,
		"error": msg,
	})
}
