// ftpred predicts the protein targets of small molecules.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/FastTargetPred/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	_ = logging.Default().Sync()
	if err != nil {
		// cli.Execute has already printed the error.
		os.Exit(1)
	}
}

//Personal.AI order the ending
