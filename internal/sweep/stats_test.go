package sweep

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatistics_AddReclaimedIgnoresNonPositive(t *testing.T) {
	var s Statistics
	s.record(10)
	s.AddReclaimed(0)
	s.AddReclaimed(-5)
	s.AddReclaimed(1 << 30)

	assert.Equal(t, Totals{Items: 1, Bytes: 10 + 1<<30}, s.Snapshot())
}

func TestStatistics_ConcurrentReaders(t *testing.T) {
	var s Statistics
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				_ = s.Snapshot()
			}
		}()
	}
	for range 100 {
		s.record(1)
	}
	wg.Wait()

	assert.Equal(t, int64(100), s.Items())
	assert.Equal(t, int64(100), s.Bytes())
}

func TestMode_DryRun(t *testing.T) {
	assert.True(t, ModeUnset.DryRun())
	assert.True(t, ModeDryRun.DryRun())
	assert.False(t, ModeConfirm.DryRun())
}
