package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lakshaymaurya-felt/winsweep/internal/clean"
	"github.com/lakshaymaurya-felt/winsweep/internal/config"
	"github.com/lakshaymaurya-felt/winsweep/internal/docker"
	"github.com/lakshaymaurya-felt/winsweep/internal/external"
	"github.com/lakshaymaurya-felt/winsweep/internal/sweep"
)

// ProfileCleaner cleans one profile folder.
type ProfileCleaner interface {
	Clean(ctx context.Context, profile string) error
}

// Config selects what a run does.
type Config struct {
	// Retention applies to drive temp folders, recycle bins and Downloads.
	Retention time.Duration
	// Docker enables container-store pruning before the sweep.
	Docker bool
}

// Agent runs the whole maintenance: container pruning, the machine-wide
// targets and every profile, in that order. Docker goes first because
// compacting its disk image later shuts WSL down.
type Agent struct {
	cfg      Config
	engine   *sweep.Engine
	sink     *Tally
	log      zerolog.Logger
	clock    sweep.Clock
	disks    clean.Disks
	roots    func() ([]string, error)
	profiles ProfileCleaner
	connect  func(ctx context.Context) (docker.API, error)
	bin      func() (clean.BinUsage, error)
}

// Option configures an Agent.
type Option func(*Agent)

// WithClock replaces the wall clock used for monthly purges.
func WithClock(c sweep.Clock) Option { return func(a *Agent) { a.clock = c } }

// WithDisks replaces drive discovery.
func WithDisks(d clean.Disks) Option { return func(a *Agent) { a.disks = d } }

// WithProfileRoots replaces profile discovery.
func WithProfileRoots(f func() ([]string, error)) Option { return func(a *Agent) { a.roots = f } }

// WithProfileCleaner replaces the per-profile cleanup.
func WithProfileCleaner(p ProfileCleaner) Option { return func(a *Agent) { a.profiles = p } }

// WithDockerConnect replaces the Docker daemon connection.
func WithDockerConnect(f func(ctx context.Context) (docker.API, error)) Option {
	return func(a *Agent) { a.connect = f }
}

// WithRecycleBin replaces the Recycle Bin usage query.
func WithRecycleBin(f func() (clean.BinUsage, error)) Option {
	return func(a *Agent) { a.bin = f }
}

// New returns an Agent deleting through engine. sink must be the Sink the
// engine reports to, so that its error count covers the sweep.
func New(cfg Config, engine *sweep.Engine, sink *Tally, log zerolog.Logger, opts ...Option) *Agent {
	a := &Agent{
		cfg:    cfg,
		engine: engine,
		sink:   sink,
		log:    log,
		clock:  sweep.SystemClock{},
		disks:  clean.HostDisks{},
		roots:  clean.ProfileRoots,
		connect: func(ctx context.Context) (docker.API, error) {
			return docker.Connect(ctx)
		},
		bin: clean.RecycleBinUsage,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.profiles == nil {
		runner := external.Exec{Timeout: external.DefaultTimeout, Log: log}
		a.profiles = clean.NewProfileCleaner(engine, a.clock, sink, runner, log, cfg.Retention)
	}
	return a
}

// Report summarises a run.
type Report struct {
	Totals   sweep.Totals
	Errors   int64
	DryRun   bool
	Docker   docker.Report
	Freed    map[string]int64
	Duration time.Duration

	// RecycleBin is nil where the shell can not be queried.
	RecycleBin *clean.BinSample
}

// Run performs the maintenance. Failures of single entries, folders,
// commands or the daemon are reported to the sink and never stop the run;
// the returned error is only ever the context's.
func (a *Agent) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	rep := Report{DryRun: a.engine.Mode().DryRun()}
	a.log.Info().Str("mode", a.engine.Mode().String()).Dur("retention", a.cfg.Retention).Msg("maintenance started")

	if a.cfg.Docker {
		rep.Docker = a.pruneDocker(ctx)
	}

	drives, err := clean.Drives(ctx, a.disks)
	if err != nil {
		a.sink.Error(err.Error())
	}
	before := clean.FreeSpace(ctx, a.disks, drives)
	binBefore, binErr := a.bin()
	if binErr != nil {
		a.log.Debug().Err(binErr).Msg("recycle bin usage unavailable")
	}

	err = a.sweepTargets(ctx, drives)
	if err == nil {
		err = a.cleanProfiles(ctx)
	}

	rep.Freed = clean.Freed(before, clean.FreeSpace(context.WithoutCancel(ctx), a.disks, drives))
	if binErr == nil {
		rep.RecycleBin = a.sampleBin(binBefore)
	}
	rep.Totals = a.engine.Statistics().Snapshot()
	rep.Errors = a.sink.Errors()
	rep.Duration = time.Since(start)

	ev := a.log.Info()
	if err != nil {
		ev = a.log.Warn().Err(err)
	}
	ev.Int64("items", rep.Totals.Items).
		Int64("bytes", rep.Totals.Bytes).
		Int64("errors", rep.Errors).
		Dur("took", rep.Duration).
		Msg("maintenance finished")
	return rep, err
}

func (a *Agent) sampleBin(before clean.BinUsage) *clean.BinSample {
	after, err := a.bin()
	if err != nil {
		a.log.Debug().Err(err).Msg("recycle bin usage unavailable")
		return nil
	}
	a.log.Info().
		Int64("items", after.Items).
		Int64("freed", before.Size-after.Size).
		Msg("recycle bin")
	return &clean.BinSample{Before: before, After: after}
}

func (a *Agent) pruneDocker(ctx context.Context) docker.Report {
	if a.engine.Mode().DryRun() {
		a.sink.Message("DryRun: docker system prune")
		return docker.Report{}
	}

	api, err := a.connect(ctx)
	if err != nil {
		// No daemon is the common case on servers; not a failure.
		a.log.Warn().Err(err).Msg("skipping Docker prune")
		return docker.Report{}
	}
	defer func() { _ = api.Close() }()

	a.sink.Message("Pruning: docker")
	rep, err := docker.NewPruner(api, a.log).System(ctx)
	if err != nil {
		a.sink.Error(fmt.Sprintf("Process: docker: %v", err))
	}
	a.log.Info().
		Int("containers", rep.Containers).
		Int("images", rep.Images).
		Int("volumes", rep.Volumes).
		Uint64("reclaimed", rep.SpaceReclaimed()).
		Msg("Docker pruned")
	return rep
}

func (a *Agent) sweepTargets(ctx context.Context, drives []string) error {
	for _, t := range config.Plan(drives, a.cfg.Retention) {
		sc := sweep.Context{Threshold: t.Threshold}
		a.log.Info().
			Str("target", t.Name).
			Str("category", string(t.Category)).
			Str("path", t.Path).
			Bool("unconditional", sc.Unconditional()).
			Msg("cleanup")
		if err := a.engine.Sweep(ctx, t.Path, sc); err != nil {
			return err
		}
	}
	return nil
}

func (a *Agent) cleanProfiles(ctx context.Context) error {
	roots, err := a.roots()
	if err != nil {
		a.sink.Error(fmt.Sprintf("%s: %v", config.UsersDir(), err))
	}
	for _, p := range roots {
		a.log.Info().Str("profile", p).Msg("cleanup profile")
		if err := a.profiles.Clean(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
