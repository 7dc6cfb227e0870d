package sim

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/Red1Kir/NovaMotion-Core/internal/logging"
	"github.com/Red1Kir/NovaMotion-Core/internal/protocol"
	"github.com/Red1Kir/NovaMotion-Core/internal/quality"
)

// Engine runs continuous simulated motion cycles and hardware heartbeats.
// Each cycle traces the standard test path (square perimeter plus both
// diagonals), publishing per-step tracking samples and a final quality
// snapshot computed from the accumulated error.
type Engine struct {
	hub Broadcaster
	log logging.Logger

	StepInterval time.Duration // time between motion samples
	CyclePause   time.Duration // idle time between cycles
	Heartbeat    time.Duration // hardware_status interval
}

// NewEngine creates an engine with production-like pacing.
func NewEngine(hub Broadcaster, log logging.Logger) *Engine {
	if log == nil {
		log = &logging.NullLogger{}
	}
	return &Engine{
		hub:          hub,
		log:          log,
		StepInterval: 250 * time.Millisecond,
		CyclePause:   2 * time.Second,
		Heartbeat:    2 * time.Second,
	}
}

// Run drives motion cycles and heartbeats until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	go e.heartbeatLoop(ctx)

	for {
		e.RunCycle(ctx)
		if !sleepOrCancel(ctx, e.CyclePause) {
			return
		}
	}
}

// stepSample is the simulation_update payload.
type stepSample struct {
	Step       int     `json:"step"`
	TotalSteps int     `json:"total_steps"`
	TargetX    float64 `json:"target_x"`
	TargetY    float64 `json:"target_y"`
	ActualX    float64 `json:"actual_x"`
	ActualY    float64 `json:"actual_y"`
	ErrorMM    float64 `json:"error_mm"`
}

// completePayload is the simulation_complete payload.
type completePayload struct {
	Quality *quality.Metrics `json:"quality"`
}

// RunCycle traces one full pass of the test path, then publishes the
// cycle's quality metrics. Returns early when ctx is cancelled.
func (e *Engine) RunCycle(ctx context.Context) {
	total := pathSteps()
	var sumSq, maxErr, vibSum float64

	for step := 1; step <= total; step++ {
		tx, ty, corner := pathPoint(step)

		// Corners excite the frame; tracking error and vibration both rise.
		sigma := 0.008
		vib := 0.4 + rand.Float64()*0.3
		if corner {
			sigma = 0.02
			vib += 0.6
		}
		ax := tx + rand.NormFloat64()*sigma
		ay := ty + rand.NormFloat64()*sigma
		errMM := math.Hypot(ax-tx, ay-ty)

		sumSq += errMM * errMM
		if errMM > maxErr {
			maxErr = errMM
		}
		vibSum += vib

		e.hub.BroadcastEvent(protocol.EventSimulationUpdate, stepSample{
			Step:       step,
			TotalSteps: total,
			TargetX:    round3(tx),
			TargetY:    round3(ty),
			ActualX:    round3(ax),
			ActualY:    round3(ay),
			ErrorMM:    round3(errMM),
		})

		if !sleepOrCancel(ctx, e.StepInterval) {
			return
		}
	}

	rms := math.Sqrt(sumSq / float64(total))
	m := quality.Compute(rms, maxErr, vibSum/float64(total))
	m.ResonanceExcitation = &quality.Excitation{
		X: round3(25 + rand.Float64()*30),
		Y: round3(25 + rand.Float64()*30),
	}

	e.log.Debugf("sim: cycle complete, overall %.1f (rms %.4f, max %.4f)",
		m.OverallScore, m.RMSErrorMM, m.MaxErrorMM)
	e.hub.BroadcastEvent(protocol.EventSimulationComplete, completePayload{Quality: &m})
}

// heartbeatLoop publishes driver status on a fixed interval. The z driver
// drops out occasionally so the hardware panel shows both states.
func (e *Engine) heartbeatLoop(ctx context.Context) {
	t := time.NewTicker(e.Heartbeat)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			e.hub.BroadcastEvent(protocol.EventHardwareStatus, protocol.HardwareStatus{
				Drivers: map[string]protocol.DriverStatus{
					"x_driver": {Connected: true},
					"y_driver": {Connected: true},
					"z_driver": {Connected: rand.Float64() > 0.05},
				},
			})
		}
	}
}

// Test path geometry: a 100mm square at (10,10) walked edge by edge, then
// both diagonals. Matches the shipped G-code pattern.
const (
	pathMin      = 10.0
	pathMax      = 110.0
	stepsPerLeg  = 10
	pathLegCount = 6 // four edges + two diagonals
)

func pathSteps() int { return stepsPerLeg * pathLegCount }

// pathPoint returns the target coordinates for a 1-based step and whether
// the step lands on a corner of the square.
func pathPoint(step int) (x, y float64, corner bool) {
	leg := (step - 1) / stepsPerLeg
	k := float64((step-1)%stepsPerLeg+1) / stepsPerLeg

	lerp := func(a, b float64) float64 { return a + (b-a)*k }

	switch leg {
	case 0: // bottom edge, left to right
		x, y = lerp(pathMin, pathMax), pathMin
	case 1: // right edge, up
		x, y = pathMax, lerp(pathMin, pathMax)
	case 2: // top edge, right to left
		x, y = lerp(pathMax, pathMin), pathMax
	case 3: // left edge, down
		x, y = pathMin, lerp(pathMax, pathMin)
	case 4: // main diagonal
		x, y = lerp(pathMin, pathMax), lerp(pathMin, pathMax)
	default: // cross diagonal
		x, y = lerp(pathMax, pathMin), lerp(pathMin, pathMax)
	}

	onEnd := (step-1)%stepsPerLeg+1 == stepsPerLeg
	atCorner := (x == pathMin || x == pathMax) && (y == pathMin || y == pathMax)
	return x, y, onEnd && atCorner
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// sleepOrCancel waits d, returning false if ctx is cancelled first.
func sleepOrCancel(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
