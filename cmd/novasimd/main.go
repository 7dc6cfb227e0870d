// Package main is novasimd, the simulated NovaMotion controller. It serves
// the websocket event channel and the HTTP command API so the dashboard can
// be developed and demonstrated without real hardware.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/Red1Kir/NovaMotion-Core/internal/logging"
	"github.com/Red1Kir/NovaMotion-Core/internal/sim"
)

// version is set at build time via -ldflags.
var version = "dev"

// settings is everything parsed off the command line.
type settings struct {
	opts    sim.Options
	debug   bool
	version bool
}

// parseFlags parses argv into daemon settings.
func parseFlags(args []string) (settings, error) {
	fs := pflag.NewFlagSet("novasimd", pflag.ContinueOnError)

	var s settings
	fs.StringVar(&s.opts.Bind, "bind", "127.0.0.1:5000", "listen address")
	fs.DurationVar(&s.opts.StepInterval, "step-interval", 0, "simulation step pacing (0 = 250ms default)")
	fs.DurationVar(&s.opts.StageDuration, "stage-duration", 0, "calibration stage pacing (0 = 3s default)")
	fs.DurationVar(&s.opts.Heartbeat, "heartbeat", 0, "hardware heartbeat pacing (0 = 2s default)")
	fs.BoolVar(&s.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&s.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return settings{}, err
	}
	return s, nil
}

func main() {
	s, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	if s.version {
		fmt.Printf("novasimd %s\n", version)
		return
	}

	logger := logging.NewStderrLogger(s.debug)
	defer func() { _ = logger.Sync() }()
	s.opts.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sim.New(s.opts).Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("novasimd: %v", err)
		os.Exit(1)
	}
}
