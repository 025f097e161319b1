package resolver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/batchtools/qstatus/pkg/status"
)

// MissingTracker persists a first-seen timestamp for jobs that have
// dropped out of every live source, and escalates to the accounting
// fallback once a grace period has elapsed.
//
// Marker layout: <dir>/<jobID>.missing, timestamp = file mtime. At most
// one marker exists per job; concurrent polls for the same job may race
// on creation and deletion, so both are idempotent and "file not found"
// is never an error.
type MissingTracker struct {
	dir      string
	grace    time.Duration
	fallback Source
	log      *zap.Logger
}

// NewMissingTracker returns a tracker that waits graceMinutes after first
// noticing a job is missing before consulting fallback for a verdict.
func NewMissingTracker(dir string, graceMinutes int, fallback Source, log *zap.Logger) *MissingTracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &MissingTracker{
		dir:      dir,
		grace:    time.Duration(graceMinutes) * time.Minute,
		fallback: fallback,
		log:      log,
	}
}

func (t *MissingTracker) markerPath(jobID string) string {
	return filepath.Join(t.dir, jobID+".missing")
}

// Reset deletes the missing marker for a job. It is idempotent: resetting
// a job with no marker is a no-op.
func (t *MissingTracker) Reset(jobID string) {
	if err := os.Remove(t.markerPath(jobID)); err != nil && !os.IsNotExist(err) {
		t.log.Warn("failed to remove missing marker",
			zap.String("job_id", jobID),
			zap.Error(err))
	}
}

// OnUnresolved decides what to report for a job no live source could
// answer for. The first sighting starts the grace timer and reports
// running, on the assumption that the job is in a transient scheduler
// table-update window. Once the grace period has elapsed the accounting
// fallback gets the last word; if even accounting has never heard of the
// job, it is presumed to have failed catastrophically.
func (t *MissingTracker) OnUnresolved(ctx context.Context, jobID string) (status.Status, error) {
	path := t.markerPath(jobID)

	fi, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("stat missing marker: %w", err)
		}
		if err := t.createMarker(path); err != nil {
			return "", err
		}
		t.log.Info("job missing from live sources, grace timer started",
			zap.String("job_id", jobID),
			zap.Duration("grace", t.grace))
		return status.StatusRunning, nil
	}

	elapsed := time.Since(fi.ModTime())
	if elapsed < t.grace {
		t.log.Debug("job still missing within grace period",
			zap.String("job_id", jobID),
			zap.Duration("elapsed", elapsed))
		return status.StatusRunning, nil
	}

	st, err := t.fallback.Resolve(ctx, jobID)
	if err != nil {
		if !IsNotFound(err) {
			return "", err
		}
		t.log.Warn("job missing beyond grace period with no accounting record",
			zap.String("job_id", jobID),
			zap.Duration("elapsed", elapsed))
		st = status.StatusFailed
	}

	t.Reset(jobID)
	return st, nil
}

func (t *MissingTracker) createMarker(path string) error {
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return fmt.Errorf("create marker dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create missing marker: %w", err)
	}
	return f.Close()
}
