package sim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/Red1Kir/NovaMotion-Core/internal/calibration"
	"github.com/Red1Kir/NovaMotion-Core/internal/logging"
	"github.com/Red1Kir/NovaMotion-Core/internal/protocol"
)

// ErrCalibrationRunning is returned when a start request arrives while a
// sequence is already in flight. One sequence at a time, like the hardware.
var ErrCalibrationRunning = errors.New("sim: calibration already running")

// calibrationStage pairs a wire stage name with its progress message.
type calibrationStage struct {
	name    string
	message string
}

var calibrationStages = []calibrationStage{
	{"motor_currents", "Measuring motor currents"},
	{"resonances", "Sweeping resonance frequencies"},
	{"backlash", "Measuring axis backlash"},
	{"inertia", "Estimating toolhead inertia"},
	{"stiffness", "Probing frame stiffness"},
}

// Calibrator runs the staged calibration sequence and owns the most recent
// result document, whether generated by a run or accepted via import.
type Calibrator struct {
	hub Broadcaster
	log logging.Logger

	StageDuration time.Duration // wall time per stage

	mu      sync.Mutex
	running bool
	held    calibration.Result
}

// NewCalibrator creates a calibrator with production-like stage pacing.
func NewCalibrator(hub Broadcaster, log logging.Logger) *Calibrator {
	if log == nil {
		log = &logging.NullLogger{}
	}
	return &Calibrator{
		hub:           hub,
		log:           log,
		StageDuration: 3 * time.Second,
	}
}

// Running reports whether a sequence is in flight.
func (c *Calibrator) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Result returns the currently held result document, if any.
func (c *Calibrator) Result() (calibration.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.held, !c.held.IsZero()
}

// SetResult replaces the held document. Used by the import endpoint.
func (c *Calibrator) SetResult(r calibration.Result) {
	c.mu.Lock()
	c.held = r
	c.mu.Unlock()
}

// Start launches the staged sequence in a goroutine. Returns
// ErrCalibrationRunning if one is already in flight.
func (c *Calibrator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrCalibrationRunning
	}
	c.running = true
	go c.run(ctx)
	return nil
}

// run walks the five stages, publishing progress along the way, then the
// terminal update carrying a freshly generated result document.
func (c *Calibrator) run(ctx context.Context) {
	started := time.Now()
	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	c.log.Infof("sim: calibration sequence started")
	const substeps = 4
	span := 100.0 / float64(len(calibrationStages))

	for i, stage := range calibrationStages {
		for k := 1; k <= substeps; k++ {
			progress := span * (float64(i) + float64(k)/substeps)
			c.hub.BroadcastEvent(protocol.EventCalibrationUpdate, protocol.CalibrationUpdate{
				Stage:    stage.name,
				Progress: round3(progress),
				Message:  stage.message,
			})
			if !sleepOrCancel(ctx, c.StageDuration/substeps) {
				return
			}
		}
	}

	doc := generateResult(time.Since(started))
	raw, err := json.Marshal(doc)
	if err != nil {
		c.log.Errorf("sim: encode calibration result: %v", err)
		return
	}
	if r, parseErr := calibration.ParseResult(raw); parseErr == nil {
		c.SetResult(r)
	}

	c.hub.BroadcastEvent(protocol.EventCalibrationUpdate, protocol.CalibrationUpdate{
		Stage:    protocol.StageComplete,
		Progress: 100,
		Message:  "Calibration complete",
		Results:  raw,
	})
	c.log.Infof("sim: calibration sequence finished in %s", time.Since(started).Truncate(time.Millisecond))
}

// generateResult builds a plausible result document. Values sit inside the
// ranges a healthy CoreXY machine produces.
func generateResult(elapsed time.Duration) map[string]any {
	jitter := func(base, spread float64) float64 {
		return round3(base + (rand.Float64()-0.5)*spread)
	}

	peaks := []map[string]any{
		{"axis": "x", "freq_hz": jitter(38, 8), "amplitude": jitter(0.8, 0.4)},
		{"axis": "y", "freq_hz": jitter(44, 8), "amplitude": jitter(0.7, 0.4)},
		{"axis": "x", "freq_hz": jitter(76, 12), "amplitude": jitter(0.2, 0.15)},
	}

	return map[string]any{
		"calibration_complete": true,
		"success":              true,
		"duration":             round3(elapsed.Seconds()),
		"timestamp":            round3(float64(time.Now().UnixMilli()) / 1000),
		"machine":              fmt.Sprintf("novasim-%04d", rand.Intn(10000)),
		"parameters": map[string]any{
			"motor_current_a": jitter(1.4, 0.3),
			"resonance_x_hz":  peaks[0]["freq_hz"],
			"resonance_y_hz":  peaks[1]["freq_hz"],
			"backlash_x_mm":   jitter(0.012, 0.008),
			"backlash_y_mm":   jitter(0.014, 0.008),
			"inertia_kg":      jitter(0.42, 0.1),
			"stiffness_n_mm":  jitter(118, 25),
			"input_shaper_hz": peaks[0]["freq_hz"],
			"max_accel_mm_s2": jitter(4200, 800),
		},
		"resonance_peaks": peaks,
	}
}
