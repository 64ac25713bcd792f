package quantity

import (
	"errors"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func TestResolveGuestInheritance(t *testing.T) {
	eventGuests := intPtr(120)
	override := intPtr(80)

	inherit := PhaseContext{EventGuestCount: eventGuests, GuestCountMode: ModeInherit}
	got, err := Resolve(SourceGuests, 1, inherit)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != 120 {
		t.Fatalf("expected inherited guest count 120, got %v", got)
	}

	overridden := PhaseContext{EventGuestCount: eventGuests, GuestCountMode: ModeOverride, GuestCountOverride: override}
	got, err = Resolve(SourceGuests, 1, overridden)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != 80 {
		t.Fatalf("expected overridden guest count 80, got %v", got)
	}
}

func TestResolveGuestCountUnavailable(t *testing.T) {
	phase := PhaseContext{GuestCountMode: ModeInherit}
	if _, err := Resolve(SourceGuests, 1, phase); !errors.Is(err, ErrGuestCountUnavailable) {
		t.Fatalf("expected ErrGuestCountUnavailable, got %v", err)
	}

	// Override mode without an override value falls back to the event default.
	phase = PhaseContext{EventGuestCount: intPtr(50), GuestCountMode: ModeOverride}
	got, err := Resolve(SourceGuests, 1, phase)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != 50 {
		t.Fatalf("expected fallback to event default 50, got %v", got)
	}
}

func TestResolveManual(t *testing.T) {
	got, err := Resolve(SourceManual, 12.5, PhaseContext{EventGuestCount: intPtr(200)})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != 12.5 {
		t.Fatalf("expected stored quantity 12.5, got %v", got)
	}
}

func TestResolveRejectsUnknownSource(t *testing.T) {
	if _, err := Resolve("portions", 3, PhaseContext{}); !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
}

func TestResolveHours(t *testing.T) {
	start := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(150 * time.Minute)
	phase := PhaseContext{StartAt: timePtr(start), EndAt: timePtr(end)}

	got, err := Resolve(SourceHours, 1, phase)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != 2.5 {
		t.Fatalf("expected 2.5 hours, got %v", got)
	}
}

func TestResolveHoursUnavailable(t *testing.T) {
	start := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		phase PhaseContext
	}{
		{"missing both", PhaseContext{}},
		{"missing end", PhaseContext{StartAt: timePtr(start)}},
		{"end before start", PhaseContext{StartAt: timePtr(start), EndAt: timePtr(start.Add(-time.Hour))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resolve(SourceHours, 1, tt.phase); !errors.Is(err, ErrDurationUnavailable) {
				t.Fatalf("expected ErrDurationUnavailable, got %v", err)
			}
		})
	}
}
