package agent

import (
	"sync/atomic"

	"github.com/lakshaymaurya-felt/winsweep/internal/sweep"
)

// Tally forwards events to another Sink and counts the errors, which decide
// the process exit status.
type Tally struct {
	next   sweep.Sink
	errors atomic.Int64
}

// NewTally wraps next.
func NewTally(next sweep.Sink) *Tally {
	return &Tally{next: next}
}

// Message implements sweep.Sink.
func (t *Tally) Message(text string) { t.next.Message(text) }

// Error implements sweep.Sink.
func (t *Tally) Error(text string) {
	t.errors.Add(1)
	t.next.Error(text)
}

// Errors is the number of errors seen so far.
func (t *Tally) Errors() int64 { return t.errors.Load() }

// Failed reports whether at least one error was seen.
func (t *Tally) Failed() bool { return t.Errors() > 0 }
