// Package anim animates displayed numeric values: each display slot holds at
// most one interpolation task, and a single scheduler tick advances them all.
package anim

import (
	"strconv"
	"strings"
	"time"
)

// Task interpolates one slot's displayed value from From to To over Duration.
type Task struct {
	Slot     string
	From     float64
	To       float64
	Start    time.Time
	Duration time.Duration
}

// Progress returns the task's progress ratio at the given time, clamped to
// [0, 1]. Non-positive durations complete immediately.
func (t Task) Progress(now time.Time) float64 {
	if t.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(t.Start)) / float64(t.Duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// ValueAt samples the eased value at the given time.
func (t Task) ValueAt(now time.Time) float64 {
	return t.From + (t.To-t.From)*easeInOutQuad(t.Progress(now))
}

// easeInOutQuad accelerates through the first half of the transition and
// decelerates through the second.
func easeInOutQuad(p float64) float64 {
	if p < 0.5 {
		return 2 * p * p
	}
	q := -2*p + 2
	return 1 - q*q/2
}

// Animator owns the per-slot task map and the formatted display values the
// tasks write into. Not safe for concurrent use; callers drive it from a
// single update loop.
type Animator struct {
	tasks  map[string]Task
	values map[string]string
}

// New returns an empty Animator.
func New() *Animator {
	return &Animator{
		tasks:  make(map[string]Task),
		values: make(map[string]string),
	}
}

// Start schedules a transition for slot. Equal endpoints skip animation and
// set the display directly. A slot already mid-animation is silently taken
// over: the old task is dropped, no queueing.
func (a *Animator) Start(slot string, from, to float64, duration time.Duration, now time.Time) {
	if from == to {
		delete(a.tasks, slot)
		a.values[slot] = FormatValue(to, DecimalsOf(to))
		return
	}
	a.tasks[slot] = Task{Slot: slot, From: from, To: to, Start: now, Duration: duration}
}

// Tick advances every active task to the given time, updating display values
// and removing tasks that reached their target. It reports whether any task
// remains, so the caller can stop scheduling ticks when idle.
func (a *Animator) Tick(now time.Time) bool {
	for slot, t := range a.tasks {
		decimals := DecimalsOf(t.To)
		if t.Progress(now) >= 1 {
			a.values[slot] = FormatValue(t.To, decimals)
			delete(a.tasks, slot)
			continue
		}
		a.values[slot] = FormatValue(t.ValueAt(now), decimals)
	}
	return len(a.tasks) > 0
}

// Value returns the formatted display string for slot, or "" if the slot has
// never been written.
func (a *Animator) Value(slot string) string {
	return a.values[slot]
}

// Current returns the slot's displayed value parsed back as a number.
// Unparseable or unset slots read as 0.
func (a *Animator) Current(slot string) float64 {
	v, err := strconv.ParseFloat(a.values[slot], 64)
	if err != nil {
		return 0
	}
	return v
}

// Active reports whether slot has a task in flight.
func (a *Animator) Active(slot string) bool {
	_, ok := a.tasks[slot]
	return ok
}

// ActiveCount returns the number of tasks in flight.
func (a *Animator) ActiveCount() int {
	return len(a.tasks)
}

// SetValue writes a display value directly, cancelling any task on the slot.
func (a *Animator) SetValue(slot string, v float64) {
	delete(a.tasks, slot)
	a.values[slot] = FormatValue(v, DecimalsOf(v))
}

// DecimalsOf counts the fractional digits in v's shortest decimal
// representation: 100 → 0, 98.5 → 1, 0.05 → 2.
func DecimalsOf(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return 0
	}
	return len(s) - dot - 1
}

// FormatValue renders v with a fixed number of fractional digits.
func FormatValue(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
