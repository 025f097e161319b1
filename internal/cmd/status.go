package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/batchtools/qstatus/internal/config"
	"github.com/batchtools/qstatus/internal/observability"
	"github.com/batchtools/qstatus/pkg/gridengine"
	"github.com/batchtools/qstatus/pkg/resolver"
)

// runStatus is the root command: resolve one job and print the verdict.
func runStatus(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	jobID := strings.TrimSpace(args[0])
	if jobID == "" {
		return fmt.Errorf("job_id is required")
	}

	ctx := cmd.Context()
	st, err := newResolver(cfg).Resolve(ctx, jobID)
	if err != nil {
		// An interrupt mid-poll is not a failure: print nothing and let
		// the workflow engine retry on its next poll.
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			observability.CLILogger.Debug("resolution interrupted",
				zap.String("job_id", jobID))
			return nil
		}
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), st)
	return nil
}

// newResolver assembles the source chain from configuration.
func newResolver(cfg *config.Config) *resolver.Resolver {
	log := observability.CLILogger
	client := gridengine.NewCommandClient(gridengine.CommandConfig{
		QstatPath:    cfg.Scheduler.QstatPath,
		QacctPath:    cfg.Scheduler.QacctPath,
		QdelPath:     cfg.Scheduler.QdelPath,
		QueryTimeout: cfg.Scheduler.QueryTimeout,
	})

	hung := resolver.NewHungDetector(cfg.Hung.MinWaitMinutes, cfg.Hung.MaxCPURatio, client, log)
	live := resolver.NewLiveSource(client, hung, log)
	exitFile := resolver.NewExitFileSource(cfg.Markers.Dir, log)
	accounting := resolver.NewAccountingSource(client, log)
	tracker := resolver.NewMissingTracker(cfg.Markers.Dir, cfg.Missing.WaitMinutes, accounting, log)

	return resolver.New(live, exitFile, tracker, log)
}
