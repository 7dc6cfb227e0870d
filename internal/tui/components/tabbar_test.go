package components

import (
	"strings"
	"testing"
)

const testAccent = "#7D56F4"

func TestNewTabBar(t *testing.T) {
	tb := NewTabBar([]string{"Events", "Telemetry"}, testAccent)
	if tb.Active() != 0 {
		t.Errorf("Active: got %d, want 0", tb.Active())
	}
}

func TestTabBar_Next(t *testing.T) {
	tb := NewTabBar([]string{"A", "B", "C"}, testAccent)

	tests := []struct {
		wantActive int
	}{
		{1}, {2}, {0}, // wrap
	}
	for _, tt := range tests {
		tb = tb.Next()
		if tb.Active() != tt.wantActive {
			t.Errorf("Active after Next: got %d, want %d", tb.Active(), tt.wantActive)
		}
	}
}

func TestTabBar_Prev(t *testing.T) {
	tb := NewTabBar([]string{"A", "B", "C"}, testAccent)

	tests := []struct {
		wantActive int
	}{
		{2}, {1}, {0}, // wrap
	}
	for _, tt := range tests {
		tb = tb.Prev()
		if tb.Active() != tt.wantActive {
			t.Errorf("Active after Prev: got %d, want %d", tb.Active(), tt.wantActive)
		}
	}
}

func TestTabBar_View_ContainsAllTabs(t *testing.T) {
	labels := []string{"Events", "Telemetry"}
	tb := NewTabBar(labels, testAccent)
	view := tb.View()
	for _, label := range labels {
		if !strings.Contains(view, label) {
			t.Errorf("View() missing label %q: got %q", label, view)
		}
	}
}

func TestTabBar_Empty(t *testing.T) {
	tb := NewTabBar(nil, testAccent)
	view := tb.View()
	if view != "" {
		t.Errorf("empty TabBar View() = %q, want empty string", view)
	}
	// Next/Prev on empty should not panic
	_ = tb.Next()
	_ = tb.Prev()
}

func TestTabBar_SetWidth(t *testing.T) {
	tb := NewTabBar([]string{"Tab1", "Tab2"}, testAccent).SetWidth(50)
	if tb.width != 50 {
		t.Errorf("width: got %d, want 50", tb.width)
	}
}

func TestTabBar_CycleWraps(t *testing.T) {
	tabs := []string{"A", "B"}
	tb := NewTabBar(tabs, testAccent)
	for i := 0; i < len(tabs); i++ {
		tb = tb.Next()
	}
	if tb.Active() != 0 {
		t.Errorf("expected wrap to 0, got %d", tb.Active())
	}
}
