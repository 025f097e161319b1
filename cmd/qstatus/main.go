package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/batchtools/qstatus/internal/cmd"
)

// Populated at build time via -ldflags.
var (
	version   = "dev"
	commit    = "HEAD"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.SetVersionInfo(version, commit, buildDate)

	if err := cmd.Execute(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "qstatus: %v\n", err)
		os.Exit(1)
	}
}
