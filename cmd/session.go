package cmd

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/winsweep/internal/agent"
	"github.com/lakshaymaurya-felt/winsweep/internal/clean"
	"github.com/lakshaymaurya-felt/winsweep/internal/config"
	"github.com/lakshaymaurya-felt/winsweep/internal/core"
	"github.com/lakshaymaurya-felt/winsweep/internal/logger"
	"github.com/lakshaymaurya-felt/winsweep/internal/metrics"
	"github.com/lakshaymaurya-felt/winsweep/internal/sweep"
	"github.com/lakshaymaurya-felt/winsweep/internal/ui"
)

// session wires settings, logging, output and the engine for one command.
type session struct {
	settings config.Settings
	log      zerolog.Logger
	console  *ui.ConsoleSink
	progress *ui.Progress
	tally    *agent.Tally
	engine   *sweep.Engine
}

// liveTotals lets the progress view start before the engine exists.
type liveTotals struct {
	stats atomic.Pointer[sweep.Statistics]
}

func (l *liveTotals) Snapshot() sweep.Totals {
	if s := l.stats.Load(); s != nil {
		return s.Snapshot()
	}
	return sweep.Totals{}
}

// newEngine builds each session's engine; tests swap the filesystem.
var newEngine = sweep.NewEngine

func newSession(cmd *cobra.Command) (*session, error) {
	settings, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	log := logger.Init(logger.Options{
		Debug:   settings.Debug,
		NoColor: settings.NoColor || !ui.IsTerminal(errOut),
		Out:     errOut,
	})

	mode, err := settings.Mode()
	if errors.Is(err, config.ErrConflictingModes) {
		log.Warn().Msg("--confirm can not be combined with --dryrun, continuing as a dry run")
	}

	s := &session{
		settings: settings,
		log:      log,
		console:  ui.NewConsoleSink(out, errOut, settings.NoColor),
	}

	var sink sweep.Sink = s.console
	live := &liveTotals{}
	if settings.Progress && ui.IsTerminal(out) {
		s.progress = ui.StartProgress(out, live)
		sink = s.progress
	}
	s.tally = agent.NewTally(sink)

	s.engine, err = newEngine(sweep.SystemClock{}, s.tally, sweep.WithMode(mode))
	if err != nil {
		s.stopProgress()
		return nil, err
	}
	live.stats.Store(s.engine.Statistics())

	log.Debug().
		Str("version", appVersion).
		Str("platform", core.PlatformString()).
		Str("mode", mode.String()).
		Msg("starting")
	return s, nil
}

func (s *session) stopProgress() {
	if s.progress == nil {
		return
	}
	if err := s.progress.Stop(); err != nil {
		s.log.Debug().Err(err).Msg("progress view")
	}
	s.progress = nil
}

func (s *session) close() {
	s.stopProgress()
}

func (s *session) printTotals(t sweep.Totals) {
	verb := "reclaimed"
	if s.engine.Mode().DryRun() {
		verb = "reclaimable"
	}
	s.console.Header("Totals")
	s.console.Field("Total "+verb, fmt.Sprintf("%s (%d bytes, logical)", core.FormatSize(t.Bytes), t.Bytes))
	s.console.Field("Total deleted", fmt.Sprintf("%d items", t.Items))
	if n := s.tally.Errors(); n > 0 {
		s.console.Field("Errors", fmt.Sprintf("%d", n))
	}
	if s.engine.Mode().DryRun() {
		s.console.Warning("Dry run, nothing was deleted. Run with --confirm to delete.")
	}
}

func (s *session) writeMetrics(took time.Duration, pruned map[string]uint64, bin *clean.BinSample) {
	if s.settings.MetricsFile == "" {
		return
	}
	t := s.engine.Statistics().Snapshot()
	run := metrics.NewRun()
	run.Record(metrics.Summary{
		Items:    t.Items,
		Bytes:    t.Bytes,
		Errors:   s.tally.Errors(),
		Duration: took,
		DryRun:   s.engine.Mode().DryRun(),
		Finished: time.Now(),
		Pruned:   pruned,

		RecycleBin: bin,
	})
	if err := run.WriteTextfile(s.settings.MetricsFile); err != nil {
		s.log.Error().Err(err).Msg("metrics not written")
	}
}

// result maps the error count to the command's outcome.
func (s *session) result() error {
	if s.tally.Failed() {
		return errReported
	}
	return nil
}
