package resolver

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/batchtools/qstatus/pkg/gridengine"
	"github.com/batchtools/qstatus/pkg/status"
)

// LiveSource resolves status from the scheduler's live job table. A job
// the live query knows about is running unless its state carries an error
// marker or its usage shows it is hung. This source never reports
// success: a live, non-erroring job is by definition not terminal.
type LiveSource struct {
	client gridengine.Client
	hung   *HungDetector
	log    *zap.Logger
}

func NewLiveSource(client gridengine.Client, hung *HungDetector, log *zap.Logger) *LiveSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &LiveSource{client: client, hung: hung, log: log}
}

func (s *LiveSource) Name() string { return "live" }

func (s *LiveSource) Resolve(ctx context.Context, jobID string) (status.Status, error) {
	report, err := s.client.QueryLive(ctx, jobID)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.log.Debug("live query failed",
			zap.String("job_id", jobID),
			zap.Error(err))
		return "", notFound(s.Name(), jobID)
	}

	st := status.StatusRunning

	for _, line := range strings.Split(report, "\n") {
		if !gridengine.IsUsageLine(line) {
			continue
		}
		hung, err := s.hung.Evaluate(ctx, jobID, line)
		if err != nil {
			return "", &SourceError{Source: s.Name(), JobID: jobID, Err: err}
		}
		if hung {
			// The termination request races with the next poll; report
			// failed now instead of a stale running for a condemned job.
			st = status.StatusFailed
		}
	}

	if strings.Contains(gridengine.ExtractJobState(report), "E") {
		st = status.StatusFailed
	}

	return st, nil
}
