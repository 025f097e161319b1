package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/batchtools/qstatus/pkg/status"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <job_id>",
	Short: "Poll a job until it reaches a terminal status",
	Long: `Poll the status sources repeatedly and print each transition with a
timestamp. Exits once the job reports success or failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 10*time.Second, "Minimum time between polls")
}

func runWatch(cmd *cobra.Command, args []string) error {
	jobID := strings.TrimSpace(args[0])
	if jobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if watchInterval <= 0 {
		return fmt.Errorf("--interval must be > 0")
	}

	ctx := cmd.Context()
	res := newResolver(cfg)
	limiter := rate.NewLimiter(rate.Every(watchInterval), 1)

	var last status.Status
	for {
		if err := limiter.Wait(ctx); err != nil {
			// Interrupted; the job keeps its markers for the next poll.
			return nil
		}

		st, err := res.Resolve(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if st != last {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n",
				time.Now().UTC().Format(time.RFC3339), st)
			last = st
		}
		if st.Terminal() {
			return nil
		}
	}
}
