package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/batchtools/qstatus/internal/observability"
)

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "Garbage collect stale marker files",
	Long: `Delete .missing and .exit marker files whose jobs are long gone.

Markers normally disappear on their own: exit markers are consumed on
first read and missing markers are removed once a verdict is produced.
Markers for jobs whose polling stopped early (workflow aborted, node
lost) linger forever; gc prunes them by age.`,
	RunE: runGC,
}

func init() {
	rootCmd.AddCommand(gcCmd)
	gcCmd.Flags().String("max-age", "168h", "Delete markers older than this duration")
	gcCmd.Flags().String("match", "", "Only consider job ids matching this glob pattern")
	gcCmd.Flags().Bool("dry-run", false, "Show how many markers would be deleted")
	gcCmd.Flags().Bool("json", false, "Output as JSON")
}

type gcResult struct {
	Deleted      int    `json:"deleted"`
	WouldDelete  int    `json:"would_delete"`
	DryRun       bool   `json:"dry_run"`
	MaxAgeString string `json:"max_age"`
}

// markerSuffixes are the marker kinds gc is allowed to touch. Anything
// else in the directory is not ours to delete.
var markerSuffixes = []string{".missing", ".exit"}

func runGC(cmd *cobra.Command, _ []string) error {
	maxAgeStr, _ := cmd.Flags().GetString("max-age")
	maxAgeStr = strings.TrimSpace(maxAgeStr)
	if maxAgeStr == "" {
		maxAgeStr = "168h"
	}
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return fmt.Errorf("invalid --max-age: %w", err)
	}
	if maxAge <= 0 {
		return fmt.Errorf("--max-age must be > 0")
	}

	match, _ := cmd.Flags().GetString("match")
	match = strings.TrimSpace(match)
	if match != "" && !doublestar.ValidatePattern(match) {
		return fmt.Errorf("invalid --match pattern: %q", match)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	entries, err := os.ReadDir(cfg.Markers.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			entries = nil
		} else {
			return fmt.Errorf("read marker dir: %w", err)
		}
	}

	now := time.Now()
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		jobID := ""
		for _, suffix := range markerSuffixes {
			if strings.HasSuffix(name, suffix) {
				jobID = strings.TrimSuffix(name, suffix)
				break
			}
		}
		if jobID == "" {
			continue
		}

		if match != "" {
			ok, err := doublestar.Match(match, jobID)
			if err != nil {
				return fmt.Errorf("match %q: %w", match, err)
			}
			if !ok {
				continue
			}
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) <= maxAge {
			continue
		}

		if !dryRun {
			path := filepath.Join(cfg.Markers.Dir, name)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				observability.CLILogger.Warn("failed to remove marker",
					zap.String("path", path),
					zap.Error(err))
				continue
			}
		}
		deleted++
	}

	if jsonOutput {
		res := gcResult{DryRun: dryRun, MaxAgeString: maxAgeStr}
		if dryRun {
			res.WouldDelete = deleted
		} else {
			res.Deleted = deleted
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if dryRun {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "would_delete=%d\n", deleted)
		return nil
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted=%d\n", deleted)
	return nil
}
