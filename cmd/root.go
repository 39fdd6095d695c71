package cmd

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/winsweep/internal/agent"
	"github.com/lakshaymaurya-felt/winsweep/internal/config"
	"github.com/lakshaymaurya-felt/winsweep/internal/core"
)

var (
	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// errReported marks a run that finished but reported at least one error.
// The details were already printed, so Execute stays quiet about it.
var errReported = errors.New("errors were reported")

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "winsweep",
	Short: "Performs maintenance and cleanup of old or temporary files",
	Long: `winsweep - maintenance and cleanup of old or temporary files.

Without a subcommand it runs the full maintenance: Docker pruning, every
drive's TEMP folder and recycle bins, ASP.NET compilation caches, and the
temp, cache and download folders of every profile.

Nothing is deleted unless --confirm is given.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMaintenance,
}

// Execute runs the root command. Cancelling ctx stops a sweep between
// entries.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Bool("confirm", false, "Actually delete (default is a dry run)")
	pf.Bool("dryrun", false, "Only list what would be deleted")
	pf.Bool("debug", false, "Show detailed operation logs")
	pf.Bool("no-color", false, "Disable colored output")
	pf.Bool("progress", false, "Show a live progress line instead of one line per entry")
	pf.Int("days", config.DefaultDays, "Keep entries younger than this many days")
	pf.String("metrics-file", "", "Write Prometheus metrics to this textfile")

	rootCmd.Flags().Bool("no-docker", false, "Skip Docker pruning")

	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(dockerCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

func runMaintenance(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	a := agent.New(agent.Config{
		Retention: s.settings.Retention(),
		Docker:    !s.settings.NoDocker,
	}, s.engine, s.tally, s.log)

	rep, runErr := a.Run(cmd.Context())
	s.stopProgress()

	s.printTotals(rep.Totals)
	for _, root := range slices.Sorted(maps.Keys(rep.Freed)) {
		s.console.Field("Freed "+root, core.FormatSize(rep.Freed[root]))
	}
	if n := rep.Docker.SpaceReclaimed(); n > 0 {
		s.console.Field("Docker", core.FormatSize(int64(n)))
	}
	if b := rep.RecycleBin; b != nil {
		s.console.Field("Recycle Bin", fmt.Sprintf("%s in %d items (freed %s)",
			core.FormatSize(b.After.Size), b.After.Items, core.FormatSize(b.Freed())))
	}
	s.writeMetrics(rep.Duration, rep.Docker.Reclaimed, rep.RecycleBin)

	if runErr != nil {
		return runErr
	}
	return s.result()
}
