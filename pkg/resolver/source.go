// Package resolver classifies an already-submitted batch job as running,
// success, or failed by walking a prioritized chain of status sources.
package resolver

import (
	"context"

	"github.com/batchtools/qstatus/pkg/status"
)

// Source resolves a job's lifecycle status from one side channel.
//
// A source that cannot answer for a job right now returns an error
// matching IsNotFound; any other error means the scheduler produced
// output we can no longer parse and resolution must stop.
type Source interface {
	// Name identifies the source in errors and logs.
	Name() string

	// Resolve returns the job's status as seen by this source.
	Resolve(ctx context.Context, jobID string) (status.Status, error)
}
