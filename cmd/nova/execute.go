package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/Red1Kir/NovaMotion-Core/internal/api"
	"github.com/Red1Kir/NovaMotion-Core/internal/calibration"
	"github.com/Red1Kir/NovaMotion-Core/internal/config"
	"github.com/Red1Kir/NovaMotion-Core/internal/gcode"
	"github.com/Red1Kir/NovaMotion-Core/internal/logging"
	"github.com/Red1Kir/NovaMotion-Core/internal/protocol"
	"github.com/Red1Kir/NovaMotion-Core/internal/store"
	"github.com/Red1Kir/NovaMotion-Core/internal/transport"
)

// loadConfig reads nova.toml (honoring --config) and validates it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// executeCalibrate asks the controller to start a calibration run. With watch
// it connects the websocket before the request so no progress event is
// missed, then streams updates until the terminal stage.
func executeCalibrate(watch bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	base := config.ResolveController(flagController, cfg)
	client := api.New(base)

	ctx, cancel := signalContext()
	defer cancel()

	if !watch {
		if err := client.StartCalibration(ctx); err != nil {
			return err
		}
		fmt.Println("Calibration started.")
		return nil
	}

	logger := logging.NewStderrLogger(cfg.Logging.Debug)
	defer func() { _ = logger.Sync() }()

	tc := transport.New(logger)
	defer tc.Close()

	endpoint, err := transport.Endpoint(base)
	if err != nil {
		return err
	}
	if err := tc.Connect(ctx, endpoint); err != nil {
		return err
	}
	if err := client.StartCalibration(ctx); err != nil {
		return err
	}
	return watchCalibration(ctx, tc.Events(), os.Stdout)
}

// watchCalibration prints calibration progress until the terminal stage.
// A cancelled context stops cleanly; a dropped connection is an error because
// the run's outcome is unknown.
func watchCalibration(ctx context.Context, events <-chan protocol.Event, out io.Writer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev.Type {
			case protocol.EventClosed:
				return errors.New("nova: connection lost before the run finished")
			case protocol.EventCalibrationUpdate:
				fmt.Fprintln(out, formatEvent(ev))
				u := ev.Calibration
				if u == nil || !u.Complete() {
					continue
				}
				if r, err := calibration.ParseResult(u.Results); err == nil {
					fmt.Fprintf(out, "Result: %s\n", summarizeResult(r.Summary()))
				}
				return nil
			}
		}
	}
}

// executeExport writes the most recent stored calibration result as a
// canonical export file.
func executeExport(outDir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = cfg.Export.Dir
	}

	r, ok, err := store.LatestResultInDir(cfg.Telemetry.Dir)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("nova: no calibration result in %s (run a calibration first)", cfg.Telemetry.Dir)
	}

	path, err := calibration.WriteExport(outDir, r, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Exported %s\n", path)
	return nil
}

// executeImport validates a result document and forwards it to the
// controller.
func executeImport(path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	r, err := calibration.LoadResult(path)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	client := api.New(config.ResolveController(flagController, cfg))
	if err := client.ImportCalibration(ctx, r); err != nil {
		return err
	}
	fmt.Printf("Imported %s to %s\n", filepath.Base(path), client.BaseURL())
	return nil
}

func executeTestPattern(dir string) error {
	path, err := gcode.Write(dir)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

// executeStatus dials the controller and reports the first hardware
// heartbeat, or that none arrived within the timeout.
func executeStatus(timeout time.Duration) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	base := config.ResolveController(flagController, cfg)
	endpoint, err := transport.Endpoint(base)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger := logging.NewStderrLogger(cfg.Logging.Debug)
	defer func() { _ = logger.Sync() }()

	tc := transport.New(logger)
	defer tc.Close()

	dialCtx, dialCancel := context.WithTimeout(ctx, timeout)
	err = tc.Connect(dialCtx, endpoint)
	dialCancel()
	if err != nil {
		return err
	}

	fmt.Printf("Controller:  %s\n", base)
	fmt.Printf("Websocket:   %s\n", endpoint)

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			fmt.Printf("Hardware:    no heartbeat within %s\n", timeout)
			return nil
		case ev := <-tc.Events():
			if ev.Type != protocol.EventHardwareStatus {
				continue
			}
			fmt.Printf("Hardware:    %s\n", formatDrivers(ev.Hardware))
			return nil
		}
	}
}

// executeWatch streams every decoded controller event to stdout until
// interrupted or the connection drops.
func executeWatch() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	endpoint, err := transport.Endpoint(config.ResolveController(flagController, cfg))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger := logging.NewStderrLogger(cfg.Logging.Debug)
	defer func() { _ = logger.Sync() }()

	tc := transport.New(logger)
	defer tc.Close()
	if err := tc.Connect(ctx, endpoint); err != nil {
		return err
	}
	return streamEvents(ctx, tc.Events(), os.Stdout)
}

// streamEvents prints decoded events until the context ends or the channel
// reports the connection closed.
func streamEvents(ctx context.Context, events <-chan protocol.Event, out io.Writer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			fmt.Fprintln(out, formatEvent(ev))
			if ev.Type == protocol.EventClosed {
				return nil
			}
		}
	}
}

// formatEvent renders one decoded event as a plain log line for headless
// output. The TUI has its own styled renderer; this one stays free of escape
// sequences so it pipes cleanly.
func formatEvent(ev protocol.Event) string {
	ts := ev.Timestamp.Format("15:04:05")

	switch ev.Type {
	case protocol.EventOpened:
		return fmt.Sprintf("%s  channel open", ts)

	case protocol.EventClosed:
		if ev.Reason != "" {
			return fmt.Sprintf("%s  channel closed: %s", ts, ev.Reason)
		}
		return fmt.Sprintf("%s  channel closed", ts)

	case protocol.EventSimulationUpdate:
		var p struct {
			Step       int     `json:"step"`
			TotalSteps int     `json:"total_steps"`
			ErrorMM    float64 `json:"error_mm"`
		}
		if json.Unmarshal(ev.Simulation, &p) == nil && p.TotalSteps > 0 {
			return fmt.Sprintf("%s  step %d/%d  err %.3fmm", ts, p.Step, p.TotalSteps, p.ErrorMM)
		}
		return fmt.Sprintf("%s  simulation step", ts)

	case protocol.EventSimulationComplete:
		if ev.Quality != nil {
			return fmt.Sprintf("%s  cycle complete  overall %.1f", ts, ev.Quality.OverallScore)
		}
		return fmt.Sprintf("%s  cycle complete", ts)

	case protocol.EventCalibrationUpdate:
		u := ev.Calibration
		if u == nil {
			return fmt.Sprintf("%s  calibration update", ts)
		}
		if u.Complete() {
			return fmt.Sprintf("%s  calibration complete", ts)
		}
		if u.Message != "" {
			return fmt.Sprintf("%s  calibration %s %.0f%%  %s", ts, u.Stage, u.Progress, u.Message)
		}
		return fmt.Sprintf("%s  calibration %s %.0f%%", ts, u.Stage, u.Progress)

	case protocol.EventHardwareStatus:
		return fmt.Sprintf("%s  drivers: %s", ts, formatDrivers(ev.Hardware))

	default:
		return fmt.Sprintf("%s  %s", ts, ev.Type)
	}
}

// formatDrivers renders driver states sorted by name, e.g. "x up / y down".
func formatDrivers(h *protocol.HardwareStatus) string {
	if h == nil || len(h.Drivers) == 0 {
		return "none reported"
	}
	names := make([]string, 0, len(h.Drivers))
	for name := range h.Drivers {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		state := "up"
		if !h.Drivers[name].Connected {
			state = "down"
		}
		parts[i] = name + " " + state
	}
	return strings.Join(parts, " / ")
}

// summarizeResult renders a one-line view of a result document.
func summarizeResult(s calibration.Summary) string {
	verdict := "failed"
	if s.Success {
		verdict = "success"
	}
	line := fmt.Sprintf("%s, %d parameters", verdict, s.Parameters)
	if s.ResonancePeaks > 0 {
		line += fmt.Sprintf(", %d resonance peaks", s.ResonancePeaks)
	}
	if s.Duration > 0 {
		line += fmt.Sprintf(", %.1fs", s.Duration)
	}
	return line
}

// formatScaffoldResult renders what `nova init` created.
func formatScaffoldResult(created []string) string {
	if len(created) == 0 {
		return "Workspace already initialized; nothing to create.\n"
	}
	var b strings.Builder
	for _, path := range created {
		fmt.Fprintf(&b, "Created %s\n", path)
	}
	return b.String()
}
