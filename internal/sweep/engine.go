package sweep

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/cases"
)

// MarkerName is the file kept in place at the root of every sweep.
const MarkerName = "desktop.ini"

// Engine deletes stale entries below a root directory. It is not safe for
// concurrent use; its Statistics may be read from other goroutines.
type Engine struct {
	clock  Clock
	sink   Sink
	fs     FileSystem
	mode   Mode
	stats  Statistics
	fold   cases.Caser
	marker string
}

// Option configures an Engine.
type Option func(*Engine)

// WithFileSystem replaces the host filesystem.
func WithFileSystem(fsys FileSystem) Option {
	return func(e *Engine) {
		e.fs = fsys
	}
}

// WithMode sets the dry-run switch.
func WithMode(m Mode) Option {
	return func(e *Engine) {
		e.mode = m
	}
}

// NewEngine returns an Engine reporting to sink. The mode starts unset,
// i.e. as a dry-run.
func NewEngine(clock Clock, sink Sink, opts ...Option) (*Engine, error) {
	if clock == nil {
		return nil, fmt.Errorf("%w: nil clock", ErrInvalidArgument)
	}
	if sink == nil {
		return nil, fmt.Errorf("%w: nil sink", ErrInvalidArgument)
	}

	e := &Engine{
		clock: clock,
		sink:  sink,
		fs:    OS{},
		fold:  cases.Fold(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.fs == nil {
		return nil, fmt.Errorf("%w: nil filesystem", ErrInvalidArgument)
	}
	e.marker = e.fold.String(MarkerName)
	return e, nil
}

// Mode returns the current dry-run switch.
func (e *Engine) Mode() Mode { return e.mode }

// SetMode changes the dry-run switch for subsequent sweeps.
func (e *Engine) SetMode(m Mode) { e.mode = m }

// Statistics returns the engine's running totals.
func (e *Engine) Statistics() *Statistics { return &e.stats }

// FileSystem returns the filesystem the engine operates on.
func (e *Engine) FileSystem() FileSystem { return e.fs }

// Sweep deletes eligible entries below root, children before their parent.
// root itself is never deleted and may be a link to the folder. A missing
// root is not an error. Failures
// are reported to the Sink and never stop the sweep; the only errors
// returned are an invalid Context and cancellation of ctx.
func (e *Engine) Sweep(ctx context.Context, root string, sc Context) error {
	if err := sc.validate(); err != nil {
		return err
	}

	info, err := e.fs.StatRoot(root)
	if err != nil || !info.IsDir {
		return nil
	}
	return e.sweepDir(ctx, root, sc)
}

// Purge removes dir together with everything in it, through the same
// judgment-free deletion path as an unconditional sweep. The marker file
// gets no protection here since dir is not a sweep root.
func (e *Engine) Purge(ctx context.Context, dir string) error {
	info, err := e.fs.Stat(dir)
	if err != nil {
		return nil
	}
	if info.IsDir {
		if err := e.sweepDir(ctx, dir, Context{Depth: 1}); err != nil {
			return err
		}
	}
	e.delete(info)
	return nil
}

func (e *Engine) sweepDir(ctx context.Context, dir string, sc Context) error {
	now := e.clock.NowUTC()

	children, err := e.fs.ReadDir(dir)
	if err != nil {
		e.sink.Error(fmt.Sprintf("%s: %s", dir, errMessage(err)))
		return nil
	}

	for _, child := range children {
		if !child.IsDir {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.sweepDir(ctx, child.Path, sc.nested()); err != nil {
			return err
		}
		e.judge(child, sc, now)
	}

	for _, child := range children {
		if child.IsDir {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if sc.Depth == 0 && e.isMarker(child.Name) {
			continue
		}
		e.judge(child, sc, now)
	}
	return nil
}

func (e *Engine) isMarker(name string) bool {
	return e.fold.String(name) == e.marker
}

func (e *Engine) judge(entry Entry, sc Context, now time.Time) {
	if Eligible(entry, sc.Threshold, now) {
		e.delete(entry)
	}
}

// Eligible reports whether entry is old enough to delete. Access time is
// ignored: reading an entry neither rescues nor condemns it.
func Eligible(entry Entry, threshold time.Duration, now time.Time) bool {
	if threshold == 0 {
		return true
	}
	return Age(entry, now) > threshold
}

// Age is the time since the entry was last written or created, whichever
// is more recent.
func Age(entry Entry, now time.Time) time.Duration {
	return min(now.Sub(entry.ModTime), now.Sub(entry.CreationTime))
}

func (e *Engine) delete(entry Entry) {
	if e.mode.DryRun() {
		e.sink.Message("DryRun: " + entry.Path)
		e.stats.record(entry.LogicalSize())
		return
	}

	e.sink.Message("Deleting: " + entry.Path)
	if entry.Attrs.Protected() {
		if err := e.fs.ClearProtection(entry.Path); err != nil {
			e.sink.Error(fmt.Sprintf("%s: %s", entry.Path, errMessage(err)))
			return
		}
	}
	if err := e.fs.Remove(entry.Path); err != nil {
		e.sink.Error(fmt.Sprintf("%s: %s", entry.Path, errMessage(err)))
		return
	}
	e.stats.record(entry.LogicalSize())
}
