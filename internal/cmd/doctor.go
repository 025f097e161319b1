package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/batchtools/qstatus/internal/observability"
)

var doctorShowConfig bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks",
	Long: `Run diagnostic checks on the environment and suggest fixes for common
issues.

Examples:
  qstatus doctor                # Full environment check
  qstatus doctor --show-config  # Also dump the effective config as YAML`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorShowConfig, "show-config", false, "Print the effective configuration as YAML")
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	log := observability.CLILogger
	log.Info("=== qstatus doctor ===")
	log.Info("Running diagnostic checks...")

	allChecks := true
	checkNum := 1
	totalChecks := 5

	// Checks 1-3: scheduler tools.
	for _, tool := range []struct {
		name string
		path string
	}{
		{"qstat", cfg.Scheduler.QstatPath},
		{"qacct", cfg.Scheduler.QacctPath},
		{"qdel", cfg.Scheduler.QdelPath},
	} {
		resolved, err := exec.LookPath(tool.path)
		if err != nil {
			log.Warn(fmt.Sprintf("[%d/%d] Checking %s... ⚠️  not found (%s)", checkNum, totalChecks, tool.name, tool.path),
				zap.String("path", tool.path))
			allChecks = false
		} else {
			log.Info(fmt.Sprintf("[%d/%d] Checking %s... ✅ %s", checkNum, totalChecks, tool.name, resolved),
				zap.String("path", resolved))
		}
		checkNum++
	}

	// Check 4: marker directory writable.
	if err := checkMarkerDir(cfg.Markers.Dir); err != nil {
		log.Warn(fmt.Sprintf("[%d/%d] Checking marker directory... ⚠️  %s", checkNum, totalChecks, cfg.Markers.Dir),
			zap.Error(err))
		allChecks = false
	} else {
		log.Info(fmt.Sprintf("[%d/%d] Checking marker directory... ✅ %s", checkNum, totalChecks, cfg.Markers.Dir),
			zap.String("dir", cfg.Markers.Dir))
	}
	checkNum++

	// Check 5: environment.
	log.Info(fmt.Sprintf("[%d/%d] Checking environment... ✅ %s/%s", checkNum, totalChecks, runtime.GOOS, runtime.GOARCH),
		zap.String("os", runtime.GOOS),
		zap.String("arch", runtime.GOARCH))

	if doctorShowConfig {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "---")
		_, _ = cmd.OutOrStdout().Write(b)
	}

	if allChecks {
		log.Info("✅ All checks passed! Your qstatus installation is healthy.")
	} else {
		log.Warn("⚠️  Some checks failed. Review the output above for details.")
	}
	log.Info("=== End Diagnostics ===")
	return nil
}

func checkMarkerDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".doctor.*")
	if err != nil {
		return err
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(filepath.Clean(name))
}
