package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/winsweep/internal/sweep"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <path>...",
	Short: "Sweep single folders",
	Long: `Delete entries older than --days below each path, children first.
The folders themselves and a desktop.ini directly inside them are kept.
With --all every entry is deleted regardless of age.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().Bool("all", false, "Delete regardless of age")
}

func runSweep(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	sc, err := sweep.NewContext(s.settings.Retention())
	if err != nil {
		return err
	}
	if all {
		sc = sc.WithThreshold(0)
	}

	start := time.Now()
	for _, root := range args {
		s.log.Info().Str("path", root).Dur("threshold", sc.Threshold).Bool("unconditional", sc.Unconditional()).Msg("cleanup")
		if err := s.engine.Sweep(cmd.Context(), root, sc); err != nil {
			s.stopProgress()
			return fmt.Errorf("sweep %s: %w", root, err)
		}
	}
	s.stopProgress()

	s.printTotals(s.engine.Statistics().Snapshot())
	s.writeMetrics(time.Since(start), nil, nil)
	return s.result()
}
