package sweep

import "time"

// Clock supplies the current instant.
type Clock interface {
	NowUTC() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// NowUTC implements Clock.
func (SystemClock) NowUTC() time.Time {
	return time.Now().UTC()
}

// Sink receives human-readable progress and error events. Calls are
// fire-and-forget.
type Sink interface {
	Message(text string)
	Error(text string)
}

// Mode is the tri-state dry-run switch.
type Mode int

const (
	// ModeUnset behaves as ModeDryRun: nothing is deleted unless confirmed.
	ModeUnset Mode = iota
	ModeDryRun
	ModeConfirm
)

// DryRun reports whether deletions are only previewed.
func (m Mode) DryRun() bool {
	return m != ModeConfirm
}

func (m Mode) String() string {
	switch m {
	case ModeDryRun:
		return "dry-run"
	case ModeConfirm:
		return "confirm"
	default:
		return "unset"
	}
}
