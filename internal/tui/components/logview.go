// Package components provides the reusable pieces of the dashboard UI.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultMaxLines bounds a LogView's backlog. The dashboard receives several
// events per second; an unbounded backlog would grow for the whole session.
const DefaultMaxLines = 500

// LogView is a scrollable log panel wrapping bubbles/viewport. In follow mode
// (default) new lines auto-scroll the view to the bottom; scrolling away from
// the bottom leaves follow mode until 'f' re-enables it.
type LogView struct {
	vp     viewport.Model
	lines  []string // rendered (pre-styled) lines, newest last
	max    int
	follow bool
	width  int
	height int
}

// NewLogView creates a LogView with the given dimensions, initially in follow
// mode with the default backlog cap.
func NewLogView(w, h int) LogView {
	return LogView{
		vp:     viewport.New(w, h),
		max:    DefaultMaxLines,
		follow: true,
		width:  w,
		height: h,
	}
}

// AppendLine appends a pre-rendered line, dropping the oldest line once the
// backlog cap is reached.
func (v LogView) AppendLine(rendered string) LogView {
	v.lines = append(v.lines, rendered)
	if v.max > 0 && len(v.lines) > v.max {
		v.lines = v.lines[len(v.lines)-v.max:]
	}
	v.vp.SetContent(strings.Join(v.lines, "\n"))
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}

// SetContent replaces all lines with the given slice.
func (v LogView) SetContent(lines []string) LogView {
	v.lines = make([]string, len(lines))
	copy(v.lines, lines)
	v.vp.SetContent(strings.Join(v.lines, "\n"))
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}

// Len returns the number of buffered lines.
func (v LogView) Len() int {
	return len(v.lines)
}

// ToggleFollow switches follow mode on or off. Turning it on scrolls
// immediately to the bottom.
func (v LogView) ToggleFollow() LogView {
	v.follow = !v.follow
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}

// Following reports whether follow mode is currently active.
func (v LogView) Following() bool {
	return v.follow
}

// SetSize resizes the log view.
func (v LogView) SetSize(w, h int) LogView {
	v.width = w
	v.height = h
	v.vp.Width = w
	v.vp.Height = h
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}

// Update handles bubbletea messages (scroll keys, mouse events).
func (v LogView) Update(msg tea.Msg) (LogView, tea.Cmd) {
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	// Explicit scrolling away from the bottom exits follow mode; resizes
	// do not.
	if v.follow && !v.vp.AtBottom() {
		switch msg.(type) {
		case tea.KeyMsg, tea.MouseMsg:
			v.follow = false
		}
	}
	return v, cmd
}

// View renders the log view content.
func (v LogView) View() string {
	return v.vp.View()
}
