package clean

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/lakshaymaurya-felt/winsweep/internal/config"
)

// ─── Drive Discovery ─────────────────────────────────────────────────────────

// Disks is the slice of gopsutil used for drive discovery.
type Disks interface {
	Partitions(ctx context.Context) ([]disk.PartitionStat, error)
	Usage(ctx context.Context, path string) (*disk.UsageStat, error)
}

// HostDisks queries the running machine.
type HostDisks struct{}

// Partitions implements Disks, listing physical partitions only.
func (HostDisks) Partitions(ctx context.Context) ([]disk.PartitionStat, error) {
	return disk.PartitionsWithContext(ctx, false)
}

// Usage implements Disks.
func (HostDisks) Usage(ctx context.Context, path string) (*disk.UsageStat, error) {
	return disk.UsageWithContext(ctx, path)
}

// Drives returns the root of every writable mounted drive (e.g. "C:\",
// "D:\"), deduplicated and in mount order.
func Drives(ctx context.Context, d Disks) ([]string, error) {
	parts, err := d.Partitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}

	var roots []string
	for _, p := range parts {
		if p.Mountpoint == "" || slices.Contains(p.Opts, "ro") {
			continue
		}
		root := config.DriveRoot(p.Mountpoint)
		if slices.ContainsFunc(roots, func(r string) bool { return strings.EqualFold(r, root) }) {
			continue
		}
		roots = append(roots, root)
	}
	return roots, nil
}

// FreeSpace returns the free bytes of each root. Roots whose usage cannot
// be read are left out.
func FreeSpace(ctx context.Context, d Disks, roots []string) map[string]uint64 {
	free := make(map[string]uint64, len(roots))
	for _, r := range roots {
		u, err := d.Usage(ctx, r)
		if err != nil || u == nil {
			continue
		}
		free[r] = u.Free
	}
	return free
}

// Freed computes per-root growth of free space between two samples.
// Negative deltas (other writers filled the disk meanwhile) are reported as
// they are.
func Freed(before, after map[string]uint64) map[string]int64 {
	delta := make(map[string]int64, len(before))
	for root, b := range before {
		a, ok := after[root]
		if !ok {
			continue
		}
		delta[root] = int64(a) - int64(b)
	}
	return delta
}
