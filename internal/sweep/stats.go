package sweep

import "sync/atomic"

// Statistics accumulates what a sweep deleted (or, in dry-run, would have
// deleted). Counters only grow until Reset is called, so one Engine reused
// for several roots reports the grand total.
type Statistics struct {
	items atomic.Int64
	bytes atomic.Int64
}

// Totals is a point-in-time copy of Statistics.
type Totals struct {
	Items int64
	Bytes int64
}

// Items returns the number of entries deleted.
func (s *Statistics) Items() int64 {
	return s.items.Load()
}

// Bytes returns the logical size of the files deleted.
func (s *Statistics) Bytes() int64 {
	return s.bytes.Load()
}

// Snapshot returns both counters.
func (s *Statistics) Snapshot() Totals {
	return Totals{Items: s.items.Load(), Bytes: s.bytes.Load()}
}

// AddReclaimed credits space freed outside the sweep itself, e.g. by
// compacting a virtual disk.
func (s *Statistics) AddReclaimed(bytes int64) {
	if bytes > 0 {
		s.bytes.Add(bytes)
	}
}

// Reset zeroes both counters.
func (s *Statistics) Reset() {
	s.items.Store(0)
	s.bytes.Store(0)
}

func (s *Statistics) record(size int64) {
	s.items.Add(1)
	s.bytes.Add(size)
}
