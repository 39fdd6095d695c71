package clean

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lakshaymaurya-felt/winsweep/internal/config"
	"github.com/lakshaymaurya-felt/winsweep/internal/core"
	"github.com/lakshaymaurya-felt/winsweep/internal/external"
	"github.com/lakshaymaurya-felt/winsweep/internal/sweep"
)

// netServiceAlreadyStarted is the exit code of "net start" for a running
// service.
const netServiceAlreadyStarted = 2

// ProfileCleaner cleans the caches of one user profile at a time.
type ProfileCleaner struct {
	engine    *sweep.Engine
	clock     sweep.Clock
	sink      sweep.Sink
	runner    external.Runner
	log       zerolog.Logger
	retention time.Duration
	vhd       bool
}

// ProfileOption configures a ProfileCleaner.
type ProfileOption func(*ProfileCleaner)

// WithVHDCompaction overrides whether Docker disk images are compacted.
// By default this follows the host's Hyper-V support.
func WithVHDCompaction(enabled bool) ProfileOption {
	return func(c *ProfileCleaner) {
		c.vhd = enabled
	}
}

// NewProfileCleaner returns a cleaner deleting through engine. retention
// applies to Downloads; the cache folders use a fixed week.
func NewProfileCleaner(engine *sweep.Engine, clock sweep.Clock, sink sweep.Sink, runner external.Runner, log zerolog.Logger, retention time.Duration, opts ...ProfileOption) *ProfileCleaner {
	c := &ProfileCleaner{
		engine:    engine,
		clock:     clock,
		sink:      sink,
		runner:    runner,
		log:       log,
		retention: retention,
		vhd:       core.SupportsVHDCompaction(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clean sweeps the profile's temp and cache folders, drops stale package
// caches and compacts the Docker disk image. Only cancellation is returned;
// everything else goes to the sink.
func (c *ProfileCleaner) Clean(ctx context.Context, profile string) error {
	log := c.log.With().
		Str("profile", profile).
		Str("category", string(config.CategoryProfile)).
		Logger()
	log.Debug().Msg("cleaning profile")

	for _, t := range config.ProfileTargets(c.retention) {
		path := filepath.Join(profile, t.Rel)
		log.Debug().Str("path", path).Dur("threshold", t.Threshold).Msg("cleanup")
		if err := c.engine.Sweep(ctx, path, sweep.Context{Threshold: t.Threshold}); err != nil {
			return err
		}
	}

	for _, rel := range config.MonthlyPurges() {
		if err := c.purgeMonthly(ctx, filepath.Join(profile, rel)); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	c.compactDockerVHD(ctx, log, filepath.Join(profile, config.DockerVHD()))
	return nil
}

// purgeMonthly removes dir entirely once it was created more than
// config.MonthlyPurgeAge ago.
func (c *ProfileCleaner) purgeMonthly(ctx context.Context, dir string) error {
	entry, err := c.engine.FileSystem().Stat(dir)
	if err != nil || !entry.IsDir {
		return nil
	}
	if c.clock.NowUTC().Sub(entry.CreationTime) <= config.MonthlyPurgeAge {
		return nil
	}
	c.log.Debug().Str("path", dir).Time("created", entry.CreationTime).Msg("purging package cache")
	return c.engine.Purge(ctx, dir)
}

// compactDockerVHD shrinks Docker Desktop's WSL disk image. WSL must be shut
// down and the Hyper-V management service running for Optimize-VHD to work.
// The bytes saved are credited to the engine's statistics.
func (c *ProfileCleaner) compactDockerVHD(ctx context.Context, log zerolog.Logger, vhdx string) {
	info, err := os.Stat(vhdx)
	if err != nil || info.IsDir() {
		return
	}
	if c.engine.Mode().DryRun() {
		c.sink.Message("DryRun: compact " + vhdx)
		return
	}
	if !c.vhd {
		log.Warn().Str("path", vhdx).Msg("Optimize-VHD not available, skipping compaction")
		return
	}

	before := info.Size()
	c.sink.Message("Compacting: " + vhdx)

	c.run(ctx, "wsl", "--shutdown")
	if _, err := c.runner.Run(ctx, "net", "start", "vmms"); err != nil {
		var exitErr *external.ExitError
		if !errors.As(err, &exitErr) || exitErr.Code != netServiceAlreadyStarted {
			c.sink.Error(fmt.Sprintf("Process: net: %v", err))
		}
	}
	c.run(ctx, "powershell", "-NonInteractive", "-Command",
		fmt.Sprintf("& {Optimize-VHD -Path %s -Mode Full}", psQuote(vhdx)))

	after, err := os.Stat(vhdx)
	if err != nil {
		c.sink.Error(fmt.Sprintf("%s: %v", vhdx, err))
		return
	}
	saved := before - after.Size()
	c.engine.Statistics().AddReclaimed(saved)
	log.Info().
		Str("path", vhdx).
		Str("before", core.FormatSize(before)).
		Str("after", core.FormatSize(after.Size())).
		Msg("compacted Docker disk image")
}

func (c *ProfileCleaner) run(ctx context.Context, name string, args ...string) {
	if _, err := c.runner.Run(ctx, name, args...); err != nil {
		c.sink.Error(fmt.Sprintf("Process: %s: %v", name, err))
	}
}

// psQuote renders s as a PowerShell single-quoted string literal.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
