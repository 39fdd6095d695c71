package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/winsweep/internal/core"
	"github.com/lakshaymaurya-felt/winsweep/internal/docker"
)

var dockerCmd = &cobra.Command{
	Use:   "docker",
	Short: "Prune unused Docker data",
	Long: `Remove stopped containers, unused networks and images, and build cache
older than a week, then unused volumes. Requires --confirm.`,
	Args: cobra.NoArgs,
	RunE: runDocker,
}

func runDocker(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if s.engine.Mode().DryRun() {
		s.tally.Message("DryRun: docker system prune")
		return nil
	}

	api, err := docker.Connect(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = api.Close() }()

	rep, err := docker.NewPruner(api, s.log).System(cmd.Context())
	if err != nil {
		s.tally.Error(fmt.Sprintf("Process: docker: %v", err))
	}

	s.console.Header("Docker")
	s.console.Field("Containers", fmt.Sprint(rep.Containers))
	s.console.Field("Networks", fmt.Sprint(rep.Networks))
	s.console.Field("Images", fmt.Sprint(rep.Images))
	s.console.Field("Build cache", fmt.Sprint(rep.BuildCaches))
	s.console.Field("Volumes", fmt.Sprint(rep.Volumes))
	s.console.Field("Reclaimed", core.FormatSize(int64(rep.SpaceReclaimed())))
	return s.result()
}
