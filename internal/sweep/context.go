package sweep

import (
	"fmt"
	"time"
)

// Context carries the settings of one branch of a sweep. It is passed by
// value: a nested call works on its own copy, so the depth it sees is never
// visible to siblings or to the caller once it returns.
type Context struct {
	// Threshold is the age an entry must exceed to be deleted.
	// Zero deletes unconditionally.
	Threshold time.Duration

	// Depth is the nesting level being processed, 0 at the sweep root.
	Depth int
}

// NewContext returns a root-level Context for the given age threshold.
func NewContext(threshold time.Duration) (Context, error) {
	c := Context{Threshold: threshold}
	if err := c.validate(); err != nil {
		return Context{}, err
	}
	return c, nil
}

// Unconditional reports whether every entry is eligible regardless of age.
func (c Context) Unconditional() bool {
	return c.Threshold == 0
}

// WithThreshold returns a copy of c with a different threshold.
func (c Context) WithThreshold(threshold time.Duration) Context {
	c.Threshold = threshold
	return c
}

func (c Context) nested() Context {
	c.Depth++
	return c
}

func (c Context) validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("%w: age threshold %s is negative", ErrInvalidArgument, c.Threshold)
	}
	if c.Depth < 0 {
		return fmt.Errorf("%w: depth %d is negative", ErrInvalidArgument, c.Depth)
	}
	return nil
}
