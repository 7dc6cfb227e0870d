package toast

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestPush_EachSeverityRendersOneToast(t *testing.T) {
	severities := []Severity{SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError}

	for _, sev := range severities {
		t.Run(string(sev), func(t *testing.T) {
			s := NewStack()
			s.Push("hello", sev, 0, t0)

			if s.Len() != 1 {
				t.Fatalf("Len = %d, want 1", s.Len())
			}
			got := s.Active()[0]
			if got.Severity != sev {
				t.Errorf("Severity = %q, want %q", got.Severity, sev)
			}
			if got.Duration != DefaultDuration {
				t.Errorf("Duration = %v, want default %v", got.Duration, DefaultDuration)
			}

			// Still visible just before expiry, gone at expiry.
			s.Expire(t0.Add(DefaultDuration - time.Millisecond))
			if s.Len() != 1 {
				t.Fatalf("toast expired early")
			}
			s.Expire(t0.Add(DefaultDuration))
			if s.Len() != 0 {
				t.Errorf("toast still active after its duration elapsed")
			}
		})
	}
}

func TestSeverityIcon(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeveritySuccess, "✓"},
		{SeverityError, "✗"},
		{SeverityWarning, "⚠"},
		{SeverityInfo, "ℹ"},
		{Severity("verbose"), "ℹ"},
		{Severity(""), "ℹ"},
	}
	for _, tt := range tests {
		if got := tt.sev.Icon(); got != tt.want {
			t.Errorf("Icon(%q) = %q, want %q", tt.sev, got, tt.want)
		}
	}
}

func TestDismiss_Idempotent(t *testing.T) {
	s := NewStack()
	a := s.Push("first", SeverityInfo, 0, t0)
	b := s.Push("second", SeverityError, 0, t0)

	s.Dismiss(a.ID)
	if s.Len() != 1 {
		t.Fatalf("Len after dismiss = %d, want 1", s.Len())
	}
	// Dismissing again must be a no-op.
	s.Dismiss(a.ID)
	if s.Len() != 1 {
		t.Errorf("repeat dismiss changed the stack, Len = %d", s.Len())
	}
	if s.Active()[0].ID != b.ID {
		t.Errorf("wrong toast removed: remaining ID %d, want %d", s.Active()[0].ID, b.ID)
	}
}

func TestDismiss_UnknownID(t *testing.T) {
	s := NewStack()
	s.Push("only", SeverityInfo, 0, t0)
	s.Dismiss(999)
	if s.Len() != 1 {
		t.Errorf("dismissing an unknown ID changed the stack")
	}
}

func TestDismissNewest(t *testing.T) {
	s := NewStack()
	s.Push("old", SeverityInfo, 0, t0)
	s.Push("new", SeverityInfo, 0, t0)

	s.DismissNewest()
	if s.Len() != 1 || s.Active()[0].Message != "old" {
		t.Errorf("DismissNewest should drop the newest toast, got %+v", s.Active())
	}

	s.DismissNewest()
	s.DismissNewest() // empty stack is a no-op
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestExpire_MixedDurations(t *testing.T) {
	s := NewStack()
	s.Push("short", SeverityInfo, time.Second, t0)
	long := s.Push("long", SeverityWarning, 10*time.Second, t0)

	removed := s.Expire(t0.Add(5 * time.Second))
	if removed != 1 {
		t.Fatalf("Expire removed %d toasts, want 1", removed)
	}
	if s.Len() != 1 || s.Active()[0].ID != long.ID {
		t.Errorf("expected only the long toast to remain, got %+v", s.Active())
	}
}

func TestExpire_DismissedToastAlreadyGone(t *testing.T) {
	s := NewStack()
	tt := s.Push("bye", SeverityInfo, time.Second, t0)
	s.Dismiss(tt.ID)

	if removed := s.Expire(t0.Add(2 * time.Second)); removed != 0 {
		t.Errorf("Expire removed %d, want 0 after explicit dismissal", removed)
	}
}

func TestShow_DefaultsToInfo(t *testing.T) {
	s := NewStack()
	got := s.Show("plain", t0)
	if got.Severity != SeverityInfo {
		t.Errorf("Show severity = %q, want info", got.Severity)
	}
}

func TestActive_ReturnsCopy(t *testing.T) {
	s := NewStack()
	s.Push("a", SeverityInfo, 0, t0)

	view := s.Active()
	view[0].Message = "mutated"
	if s.Active()[0].Message != "a" {
		t.Error("Active must return a copy, not the backing slice")
	}
}

func TestIDsAreUnique(t *testing.T) {
	s := NewStack()
	seen := map[int]bool{}
	for i := 0; i < 5; i++ {
		tt := s.Push("n", SeverityInfo, 0, t0)
		if seen[tt.ID] {
			t.Fatalf("duplicate toast ID %d", tt.ID)
		}
		seen[tt.ID] = true
		s.DismissNewest()
	}
}
