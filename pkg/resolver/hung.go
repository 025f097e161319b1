package resolver

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/batchtools/qstatus/pkg/gridengine"
)

// HungDetector spots jobs that hold a scheduler allocation while making
// almost no CPU progress, and condemns them with a termination request so
// the allocation is released.
type HungDetector struct {
	minWait  time.Duration
	maxRatio float64
	client   gridengine.Client
	log      *zap.Logger
}

// NewHungDetector returns a detector that declares a job hung once its
// wallclock reaches minWaitMinutes and its cpu/wallclock ratio is below
// maxRatio.
func NewHungDetector(minWaitMinutes int, maxRatio float64, client gridengine.Client, log *zap.Logger) *HungDetector {
	if log == nil {
		log = zap.NewNop()
	}
	return &HungDetector{
		minWait:  time.Duration(minWaitMinutes) * time.Minute,
		maxRatio: maxRatio,
		client:   client,
		log:      log,
	}
}

// Evaluate inspects one qstat usage line for a job. When the line shows a
// hung job, Evaluate fires a best-effort termination request and returns
// true. Lines without both wallclock and cpu fields never count as hung;
// a field that no longer parses as a clock is a fatal error.
func (d *HungDetector) Evaluate(ctx context.Context, jobID, usageLine string) (bool, error) {
	fields := gridengine.ParseUsageFields(usageLine)
	wallStr, ok := fields["wallclock"]
	if !ok {
		return false, nil
	}
	cpuStr, ok := fields["cpu"]
	if !ok {
		return false, nil
	}

	wall, err := gridengine.ParseClock(wallStr)
	if err != nil {
		return false, err
	}
	cpu, err := gridengine.ParseClock(cpuStr)
	if err != nil {
		return false, err
	}

	// A zero wallclock cannot produce a meaningful ratio; the job has
	// only just started regardless of the configured minimum wait.
	if wall <= 0 {
		return false, nil
	}
	if wall < d.minWait {
		return false, nil
	}

	ratio := cpu.Seconds() / wall.Seconds()
	if ratio >= d.maxRatio {
		return false, nil
	}

	d.log.Warn("job appears hung, requesting termination",
		zap.String("job_id", jobID),
		zap.Duration("wallclock", wall),
		zap.Duration("cpu", cpu),
		zap.Float64("cpu_ratio", ratio))

	// The kill races with the next poll; failures just mean the job gets
	// re-evaluated on the next invocation.
	if err := d.client.Terminate(ctx, jobID); err != nil {
		d.log.Warn("termination request failed",
			zap.String("job_id", jobID),
			zap.Error(err))
	}
	return true, nil
}
