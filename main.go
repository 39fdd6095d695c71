package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lakshaymaurya-felt/winsweep/cmd"
	"github.com/lakshaymaurya-felt/winsweep/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	if ctx.Err() != nil {
		logger.Warn().Msg("interrupted, run stopped early")
	}
	stop()
	if err != nil {
		os.Exit(1)
	}
}
