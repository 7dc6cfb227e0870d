package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Red1Kir/NovaMotion-Core/internal/api"
	"github.com/Red1Kir/NovaMotion-Core/internal/config"
	"github.com/Red1Kir/NovaMotion-Core/internal/logging"
	"github.com/Red1Kir/NovaMotion-Core/internal/notify"
	"github.com/Red1Kir/NovaMotion-Core/internal/protocol"
	"github.com/Red1Kir/NovaMotion-Core/internal/store"
	"github.com/Red1Kir/NovaMotion-Core/internal/transport"
	"github.com/Red1Kir/NovaMotion-Core/internal/tui"
)

const dialTimeout = 5 * time.Second

// executeDashboard wires the full dashboard: file logger, session store,
// websocket transport, API client, and the bubbletea program.
func executeDashboard() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so diagnostics go to a file.
	logger, err := logging.NewFileLogger(cfg.Logging.File, cfg.Logging.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	st, err := sessionStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	base := config.ResolveController(flagController, cfg)
	endpoint, err := transport.Endpoint(base)
	if err != nil {
		return err
	}

	tc := transport.New(logger)
	defer tc.Close()

	// Best effort: a dead controller still gets a dashboard, just OFFLINE.
	dialCtx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	if dialErr := tc.Connect(dialCtx, endpoint); dialErr != nil {
		logger.Warnf("nova: initial connect: %v", dialErr)
	}
	cancel()

	events := dashboardEvents(cfg, tc)
	model := tui.New(dashboardOptions(cfg, events, tc, api.New(base), st, logger, endpoint))
	program := tea.NewProgram(model, tea.WithAltScreen())
	return finishTUI(program)
}

// dashboardEvents returns the event stream the dashboard consumes. With a
// notify webhook configured, the stream is teed through the notifier first.
func dashboardEvents(cfg *config.Config, tc *transport.Client) <-chan protocol.Event {
	events := tc.Events()
	if cfg.Notify.URL == "" {
		return events
	}
	n := notify.New(cfg.Notify.URL, cfg.MachineName(), cfg.Notify.OnComplete, cfg.Notify.OnDisconnect)
	return teeEvents(events, n.Hook)
}

// teeEvents invokes hook on every event before forwarding it, preserving
// order. The forwarder lives as long as the process; the transport channel is
// never closed.
func teeEvents(in <-chan protocol.Event, hook func(protocol.Event)) <-chan protocol.Event {
	out := make(chan protocol.Event, 64)
	go func() {
		for ev := range in {
			hook(ev)
			out <- ev
		}
	}()
	return out
}

// dashboardOptions maps the configuration onto the dashboard model options.
func dashboardOptions(cfg *config.Config, events <-chan protocol.Event, tc *transport.Client, client *api.Client, st store.Store, logger logging.Logger, endpoint string) tui.Options {
	return tui.Options{
		Events:        events,
		Transport:     tc,
		Commander:     client,
		Store:         st,
		Logger:        logger,
		Machine:       cfg.MachineName(),
		Endpoint:      endpoint,
		ExportDir:     cfg.Export.Dir,
		AccentColor:   cfg.Dashboard.AccentColor,
		TickInterval:  time.Duration(cfg.Dashboard.TickMS) * time.Millisecond,
		ToastDuration: time.Duration(cfg.Dashboard.ToastMS) * time.Millisecond,
	}
}

// sessionStore opens the telemetry session log, or a no-op store when
// telemetry is disabled. Retention runs after the session file is created so
// the cap includes the live session.
func sessionStore(cfg *config.Config, logger logging.Logger) (store.Store, error) {
	if !cfg.Telemetry.Enabled {
		return store.Nop{}, nil
	}
	st, err := store.NewJSONL(cfg.Telemetry.Dir)
	if err != nil {
		return nil, err
	}
	if err := store.EnforceRetention(cfg.Telemetry.Dir, cfg.Telemetry.Retention); err != nil {
		logger.Warnf("nova: telemetry retention: %v", err)
	}
	return st, nil
}

// finishTUI runs the program and surfaces the model's terminal error.
func finishTUI(program *tea.Program) error {
	finalModel, err := program.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	if m, ok := finalModel.(tui.Model); ok {
		return m.Err()
	}
	return nil
}
