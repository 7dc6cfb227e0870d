package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/stopwatch"

	"github.com/Red1Kir/NovaMotion-Core/internal/anim"
	"github.com/Red1Kir/NovaMotion-Core/internal/calibration"
	"github.com/Red1Kir/NovaMotion-Core/internal/gcode"
	"github.com/Red1Kir/NovaMotion-Core/internal/logging"
	"github.com/Red1Kir/NovaMotion-Core/internal/protocol"
	"github.com/Red1Kir/NovaMotion-Core/internal/quality"
	"github.com/Red1Kir/NovaMotion-Core/internal/store"
	"github.com/Red1Kir/NovaMotion-Core/internal/toast"
	"github.com/Red1Kir/NovaMotion-Core/internal/tui/panels"
)

const (
	// defaultTick is the shared scheduler interval driving animation,
	// toast expiry and elapsed-time refresh.
	defaultTick = 50 * time.Millisecond

	// animDuration is how long a displayed metric takes to reach a new
	// value; updatedFlash is how long its refresh marker stays visible.
	animDuration = 500 * time.Millisecond
	updatedFlash = 500 * time.Millisecond
)

// Transport redials the controller channel on user request. Satisfied by
// transport.Client.
type Transport interface {
	Connect(ctx context.Context, endpoint string) error
}

// Commander issues outbound controller commands. Satisfied by api.Client.
type Commander interface {
	StartCalibration(ctx context.Context) error
	ImportCalibration(ctx context.Context, r calibration.Result) error
}

// Options configures the dashboard model. Events is required; a nil Store or
// Logger degrades to a no-op, a nil Transport disables reconnect and a nil
// Commander disables calibrate/import.
type Options struct {
	Events    <-chan protocol.Event
	Transport Transport
	Commander Commander
	Store     store.Writer
	Logger    logging.Logger

	Machine     string
	Endpoint    string // websocket endpoint, shown in the header and redialed on 'r'
	ExportDir   string
	AccentColor string

	TickInterval  time.Duration
	ToastDuration time.Duration
}

// Model is the root bubbletea model for the dashboard. All event
// reconciliation happens in Update; collaborators with internal state
// (session, animator, toasts) are owned here and never touched elsewhere.
type Model struct {
	// Collaborators
	events    <-chan protocol.Event
	transport Transport
	commander Commander
	store     store.Writer
	log       logging.Logger

	// Reconciled state
	session         *calibration.Session
	animator        *anim.Animator
	toasts          *toast.Stack
	conn            ConnectionState
	drivers         map[string]bool
	driversAt       time.Time
	recommendations []string
	excitation      *quality.Excitation

	// updatedUntil marks metric slots whose refresh flash is still visible.
	updatedUntil map[string]time.Time

	// Sub-panels
	eventsPanel panels.EventsPanel

	// Layout and focus
	layout Layout
	focus  FocusTarget
	theme  Theme
	width  int
	height int

	// Identity and paths
	machine   string
	endpoint  string
	exportDir string

	// Time
	tick     time.Duration
	toastDur time.Duration
	uptime   *stopwatch.Stopwatch
	now      time.Time

	// In-flight operations
	connecting   bool
	importInput  textinput.Model
	importActive bool

	err error
}

// New creates the dashboard model.
func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = &logging.NullLogger{}
	}
	if opts.Store == nil {
		opts.Store = store.Nop{}
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTick
	}
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = toast.DefaultDuration
	}

	th := NewTheme(opts.AccentColor)
	layout := Calculate(80, 24)
	evW, evH := innerDims(layout.Events)

	ti := textinput.New()
	ti.Placeholder = "path/to/calibration.json"
	ti.CharLimit = 256
	ti.Width = 48

	return Model{
		events:       opts.Events,
		transport:    opts.Transport,
		commander:    opts.Commander,
		store:        opts.Store,
		log:          opts.Logger,
		session:      calibration.NewSession(),
		animator:     anim.New(),
		toasts:       toast.NewStack(),
		conn:         Disconnected,
		updatedUntil: make(map[string]time.Time),
		eventsPanel:  panels.NewEventsPanel(evW, evH, th.Accent()),
		layout:       layout,
		focus:        FocusEvents,
		theme:        th,
		width:        80,
		height:       24,
		machine:      opts.Machine,
		endpoint:     opts.Endpoint,
		exportDir:    opts.ExportDir,
		tick:         opts.TickInterval,
		toastDur:     opts.ToastDuration,
		uptime:       stopwatch.Start(0),
		now:          time.Now(),
		importInput:  ti,
	}
}

// Err returns the error that ended the session, if any.
func (m Model) Err() error { return m.err }

// Connection returns the current channel state.
func (m Model) Connection() ConnectionState { return m.conn }

// Init returns the initial commands: event listener + scheduler tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), tickCmd(m.tick))
}

// tickCmd schedules the next scheduler tick.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent blocks on the event channel and returns the next message.
func waitForEvent(ch <-chan protocol.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}

// Update handles all incoming bubbletea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case eventMsg:
		return m.handleEvent(msg)
	case tickMsg:
		return m.handleTick(msg)
	case eventsClosedMsg:
		m.err = errors.New("tui: event channel closed")
		m.conn = Disconnected
		m.toasts.Push("Event channel closed", toast.SeverityError, m.toastDur, m.now)
		return m, nil
	case connectDoneMsg:
		m.connecting = false
		if msg.err != nil {
			m.toasts.Push("Connection failed: "+singleLine(msg.err.Error()), toast.SeverityError, m.toastDur, m.now)
		}
		return m, nil
	case calibrationStartedMsg:
		return m.handleCalibrationStarted(msg)
	case exportDoneMsg:
		if msg.err != nil {
			m.toasts.Push("Export failed: "+singleLine(msg.err.Error()), toast.SeverityError, m.toastDur, m.now)
			return m, nil
		}
		m.toasts.Push("Exported "+filepath.Base(msg.path), toast.SeveritySuccess, m.toastDur, m.now)
		return m, nil
	case importDoneMsg:
		return m.handleImportDone(msg)
	case patternDoneMsg:
		if msg.err != nil {
			m.toasts.Push("Test pattern failed: "+singleLine(msg.err.Error()), toast.SeverityError, m.toastDur, m.now)
			return m, nil
		}
		m.toasts.Push("Test pattern written: "+filepath.Base(msg.path), toast.SeveritySuccess, m.toastDur, m.now)
		return m, nil
	}
	return m.delegateToFocused(msg)
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.layout = Calculate(msg.Width, msg.Height)
	if !m.layout.TooSmall {
		evW, evH := innerDims(m.layout.Events)
		m.eventsPanel = m.eventsPanel.SetSize(evW, evH)
		if msg.Width > 30 {
			m.importInput.Width = msg.Width - 20
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.importActive {
		return m.handleImportKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.focus = m.focus.Next()
		return m, nil
	case "shift+tab":
		m.focus = m.focus.Prev()
		return m, nil
	case "1":
		m.focus = FocusCalibration
		return m, nil
	case "2":
		m.focus = FocusHardware
		return m, nil
	case "3":
		m.focus = FocusQuality
		return m, nil
	case "4":
		m.focus = FocusEvents
		return m, nil
	case "c":
		return m.startCalibration()
	case "d":
		m.session.Dismiss()
		return m, nil
	case "e":
		return m.exportResult()
	case "i":
		if m.commander == nil {
			m.toasts.Push("No controller configured", toast.SeverityWarning, m.toastDur, m.now)
			return m, nil
		}
		m.importActive = true
		m.importInput.Reset()
		m.importInput.Focus()
		return m, textinput.Blink
	case "g":
		return m, writePatternCmd(m.exportDir)
	case "r":
		return m.reconnect()
	case "x":
		m.toasts.DismissNewest()
		return m, nil
	}
	return m.delegateToFocused(msg)
}

// handleImportKey routes keys to the import path prompt while it is open.
func (m Model) handleImportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.importActive = false
		m.importInput.Blur()
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.importInput.Value())
		if path == "" {
			return m, nil
		}
		m.importActive = false
		m.importInput.Blur()
		return m, importResultCmd(m.commander, path)
	}
	var cmd tea.Cmd
	m.importInput, cmd = m.importInput.Update(msg)
	return m, cmd
}

func (m Model) delegateToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus == FocusEvents {
		var cmd tea.Cmd
		m.eventsPanel, cmd = m.eventsPanel.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleTick advances everything time-driven: animation tasks, toast expiry
// and the flash markers.
func (m Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	m.now = time.Time(msg)
	m.animator.Tick(m.now)
	m.toasts.Expire(m.now)
	for slot, until := range m.updatedUntil {
		if !m.now.Before(until) {
			delete(m.updatedUntil, slot)
		}
	}
	return m, tickCmd(m.tick)
}

// handleEvent is the single reconciliation point for every delivered
// controller event.
func (m Model) handleEvent(msg eventMsg) (tea.Model, tea.Cmd) {
	ev := protocol.Event(msg)

	if err := m.store.Append(ev); err != nil {
		m.log.Warnf("tui: telemetry append: %v", err)
	}

	switch ev.Type {
	case protocol.EventOpened:
		m.conn = Connected
		m.toasts.Push("Connected to controller", toast.SeveritySuccess, m.toastDur, m.now)

	case protocol.EventClosed:
		m.conn = Disconnected
		text := "Connection lost"
		if ev.Reason != "" {
			text += ": " + singleLine(ev.Reason)
		}
		m.toasts.Push(text, toast.SeverityError, m.toastDur, m.now)

	case protocol.EventSimulationUpdate:
		m.eventsPanel = m.eventsPanel.SetTelemetry(panels.TelemetryLines(ev.Simulation))

	case protocol.EventSimulationComplete:
		m.toasts.Push("Simulation cycle complete", toast.SeveritySuccess, m.toastDur, m.now)
		if ev.Quality != nil {
			m = m.applyQuality(*ev.Quality)
		}

	case protocol.EventCalibrationUpdate:
		completed, err := m.session.Apply(*ev.Calibration)
		if err != nil {
			m.log.Warnf("tui: %v", err)
		}
		if completed {
			m.toasts.Push("Calibration complete", toast.SeveritySuccess, m.toastDur, m.now)
		}

	case protocol.EventHardwareStatus:
		drivers := make(map[string]bool, len(ev.Hardware.Drivers))
		for name, d := range ev.Hardware.Drivers {
			drivers[name] = d.Connected
		}
		m.drivers = drivers
		m.driversAt = ev.Timestamp
	}

	evW, _ := innerDims(m.layout.Events)
	m.eventsPanel = m.eventsPanel.AppendEvent(m.theme.RenderEventLine(ev, evW))

	return m, waitForEvent(m.events)
}

// applyQuality schedules a display animation for every non-zero metric field
// and replaces the recommendation list.
func (m Model) applyQuality(q quality.Metrics) Model {
	updates := []struct {
		slot string
		v    float64
	}{
		{panels.SlotOverall, q.OverallScore},
		{panels.SlotTracking, q.TrackingScore},
		{panels.SlotVibration, q.VibrationScore},
		{panels.SlotRMSError, q.RMSErrorMM},
		{panels.SlotMaxError, q.MaxErrorMM},
	}
	for _, u := range updates {
		if u.v == 0 {
			continue
		}
		m.animator.Start(u.slot, m.animator.Current(u.slot), u.v, animDuration, m.now)
		m.updatedUntil[u.slot] = m.now.Add(updatedFlash)
	}
	m.recommendations = quality.Recommendations(q)
	m.excitation = q.ResonanceExcitation
	return m
}

func (m Model) startCalibration() (tea.Model, tea.Cmd) {
	if m.commander == nil {
		m.toasts.Push("No controller configured", toast.SeverityWarning, m.toastDur, m.now)
		return m, nil
	}
	if err := m.session.Begin(); err != nil {
		m.toasts.Push("Calibration already running", toast.SeverityWarning, m.toastDur, m.now)
		return m, nil
	}
	return m, startCalibrationCmd(m.commander)
}

func (m Model) handleCalibrationStarted(msg calibrationStartedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.session.Reject(msg.err.Error())
		m.toasts.Push("Calibration request failed: "+singleLine(msg.err.Error()), toast.SeverityError, m.toastDur, m.now)
		return m, nil
	}
	if m.session.Accept() {
		m.toasts.Push("Calibration started", toast.SeverityInfo, m.toastDur, m.now)
	}
	return m, nil
}

func (m Model) exportResult() (tea.Model, tea.Cmd) {
	r, ok := m.session.Result()
	if !ok {
		m.toasts.Push("No calibration result to export", toast.SeverityWarning, m.toastDur, m.now)
		return m, nil
	}
	return m, exportResultCmd(m.exportDir, r, m.now)
}

func (m Model) handleImportDone(msg importDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.toasts.Push("Import failed: "+singleLine(msg.err.Error()), toast.SeverityError, m.toastDur, m.now)
		return m, nil
	}
	m.session.SetResult(msg.result)
	m.toasts.Push("Imported "+filepath.Base(msg.path), toast.SeveritySuccess, m.toastDur, m.now)
	return m, nil
}

func (m Model) reconnect() (tea.Model, tea.Cmd) {
	if m.transport == nil || m.connecting {
		return m, nil
	}
	m.connecting = true
	m.toasts.Push("Connecting to "+m.endpoint, toast.SeverityInfo, m.toastDur, m.now)
	return m, connectCmd(m.transport, m.endpoint)
}

// Outbound operations run as commands so Update never blocks.

func startCalibrationCmd(c Commander) tea.Cmd {
	return func() tea.Msg {
		return calibrationStartedMsg{err: c.StartCalibration(context.Background())}
	}
}

func exportResultCmd(dir string, r calibration.Result, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path, err := calibration.WriteExport(dir, r, now)
		return exportDoneMsg{path: path, err: err}
	}
}

// importResultCmd parses the file and forwards it to the controller. Any
// failure leaves the held result untouched.
func importResultCmd(c Commander, path string) tea.Cmd {
	return func() tea.Msg {
		r, err := calibration.LoadResult(path)
		if err != nil {
			return importDoneMsg{path: path, err: err}
		}
		if err := c.ImportCalibration(context.Background(), r); err != nil {
			return importDoneMsg{path: path, err: err}
		}
		return importDoneMsg{path: path, result: r}
	}
}

func writePatternCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := gcode.Write(dir)
		return patternDoneMsg{path: path, err: err}
	}
}

func connectCmd(t Transport, endpoint string) tea.Cmd {
	return func() tea.Msg {
		return connectDoneMsg{err: t.Connect(context.Background(), endpoint)}
	}
}

// innerDims returns the content dimensions for a panel rect accounting for
// the 1-character border on each side.
func innerDims(r Rect) (w, h int) {
	w = r.Width - 2
	if w < 1 {
		w = 1
	}
	h = r.Height - 2
	if h < 1 {
		h = 1
	}
	return
}
