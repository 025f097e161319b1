// Package cmd wires the qstatus command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/batchtools/qstatus/internal/config"
	"github.com/batchtools/qstatus/internal/observability"
)

var versionInfo = struct {
	Version   string
	Commit    string
	BuildDate string
}{
	Version:   "dev",
	Commit:    "HEAD",
	BuildDate: "unknown",
}

// SetVersionInfo records build-time version metadata injected via ldflags.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate)
}

var (
	flagConfigPath string
	flagLogLevel   string
	flagVerbose    bool

	// cfg is loaded once per invocation in the persistent pre-run.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "qstatus <job_id>",
	Short: "Report the lifecycle status of a batch-queue job",
	Long: `qstatus reports whether a previously submitted grid-engine job is
running, finished successfully, or failed.

It is designed as a cluster status hook for workflow engines that poll
job state until completion: each invocation prints exactly one of
"running", "success", or "failed" on stdout and exits 0.

Status is resolved from three independent sources, in order: the
scheduler's live job table (qstat), a per-job exit marker written by the
job wrapper, and - after a grace period - the scheduler's accounting log
(qacct). Jobs that sit on an allocation without consuming CPU are
detected from qstat usage reports and terminated.`,
	Args:          cobra.ArbitraryArgs,
	RunE:          runStatus,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Config file (default: <user config dir>/qstatus/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.PersistentPreRunE = setup
}

func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.Logging.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	observability.InitCLILogger(level, flagVerbose)

	// Overlapping polls share stderr on a cluster; tag every line so
	// interleaved invocations can be told apart.
	observability.CLILogger = observability.CLILogger.With(
		zap.String("invocation", uuid.New().String()))

	return nil
}

// Execute runs the CLI with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
