// Package quantity resolves the effective quantity of an event phase item
// from its quantity source and the phase's context.
package quantity

import (
	"errors"
	"fmt"
	"time"
)

// Quantity sources.
const (
	SourceGuests = "guests"
	SourceManual = "manual"
	SourceHours  = "hours"
)

// Guest count modes.
const (
	ModeInherit  = "inherit"
	ModeOverride = "override"
)

// ErrGuestCountUnavailable is returned when a guest-driven item sits in a
// phase with no resolvable guest count.
var ErrGuestCountUnavailable = errors.New("guest count unavailable")

// ErrDurationUnavailable is returned when an hour-driven item sits in a
// phase without both start and end times.
var ErrDurationUnavailable = errors.New("phase duration unavailable")

// ErrUnknownSource is returned for a quantity source outside the known set.
var ErrUnknownSource = errors.New("unknown quantity source")

// PhaseContext carries the phase-level inputs quantity resolution depends on.
type PhaseContext struct {
	EventGuestCount    *int
	GuestCountMode     string
	GuestCountOverride *int
	StartAt            *time.Time
	EndAt              *time.Time
}

// GuestCount resolves a phase's effective guest count. In inherit mode the
// event's default applies; in override mode the phase's own value wins even
// when the event default changes later.
func GuestCount(phase PhaseContext) *int {
	if phase.GuestCountMode == ModeOverride && phase.GuestCountOverride != nil {
		return phase.GuestCountOverride
	}
	return phase.EventGuestCount
}

// Hours resolves a phase's duration in fractional hours.
func Hours(phase PhaseContext) (float64, error) {
	if phase.StartAt == nil || phase.EndAt == nil {
		return 0, ErrDurationUnavailable
	}
	hours := phase.EndAt.Sub(*phase.StartAt).Hours()
	if hours <= 0 {
		return 0, ErrDurationUnavailable
	}
	return hours, nil
}

// Resolve computes an item's effective quantity. Manual items use their
// stored quantity; guest-driven items follow the phase's resolved guest
// count; hour-driven items follow the phase duration.
func Resolve(source string, storedQuantity float64, phase PhaseContext) (float64, error) {
	switch source {
	case SourceGuests:
		guests := GuestCount(phase)
		if guests == nil || *guests <= 0 {
			return 0, ErrGuestCountUnavailable
		}
		return float64(*guests), nil
	case SourceHours:
		return Hours(phase)
	case SourceManual:
		return storedQuantity, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
}
