package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/batchtools/qstatus/pkg/status"
)

// Resolver walks the status sources in priority order and returns the
// first definitive answer.
//
// The order is fixed: the live table is authoritative and cheapest, the
// exit marker is exact but only appears once the job wrapper has exited,
// and accounting is only consulted through the missing tracker after the
// grace period, to avoid hammering the accounting subsystem every poll.
type Resolver struct {
	sources []Source
	tracker *MissingTracker
	log     *zap.Logger
}

func New(live, exitFile Source, tracker *MissingTracker, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		sources: []Source{live, exitFile},
		tracker: tracker,
		log:     log,
	}
}

// Resolve classifies a job as running, success, or failed. Any source
// resolving the job resets the missing tracker. Errors other than
// NotFound mean the scheduler's output contract has changed and are
// returned to the caller unchanged.
func (r *Resolver) Resolve(ctx context.Context, jobID string) (status.Status, error) {
	for _, src := range r.sources {
		st, err := src.Resolve(ctx, jobID)
		if err == nil {
			r.tracker.Reset(jobID)
			r.log.Debug("status resolved",
				zap.String("job_id", jobID),
				zap.String("source", src.Name()),
				zap.String("status", st.String()))
			return st, nil
		}
		if !IsNotFound(err) {
			return "", err
		}
	}
	return r.tracker.OnUnresolved(ctx, jobID)
}
