package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/batchtools/qstatus/pkg/status"
)

func ageMarker(t *testing.T, path string, age time.Duration) {
	t.Helper()
	past := time.Now().Add(-age)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatalf("age marker: %v", err)
	}
}

func TestMissingTrackerFirstContactStartsTimer(t *testing.T) {
	dir := t.TempDir()
	tracker := NewMissingTracker(dir, 10, &stubSource{name: "accounting", err: ErrJobNotFound}, nil)

	st, err := tracker.OnUnresolved(context.Background(), "j1")
	if err != nil {
		t.Fatalf("OnUnresolved() error: %v", err)
	}
	if st != status.StatusRunning {
		t.Fatalf("first contact = %q, want running", st)
	}
	if _, err := os.Stat(filepath.Join(dir, "j1.missing")); err != nil {
		t.Fatalf("marker not created: %v", err)
	}
}

func TestMissingTrackerWithinGracePeriod(t *testing.T) {
	dir := t.TempDir()
	acct := &stubSource{name: "accounting", st: status.StatusSuccess}
	tracker := NewMissingTracker(dir, 10, acct, nil)

	if _, err := tracker.OnUnresolved(context.Background(), "j1"); err != nil {
		t.Fatalf("first OnUnresolved() error: %v", err)
	}

	st, err := tracker.OnUnresolved(context.Background(), "j1")
	if err != nil {
		t.Fatalf("second OnUnresolved() error: %v", err)
	}
	if st != status.StatusRunning {
		t.Fatalf("within grace = %q, want running", st)
	}
	if acct.calls != 0 {
		t.Fatalf("accounting consulted before grace period elapsed")
	}
	if _, err := os.Stat(filepath.Join(dir, "j1.missing")); err != nil {
		t.Fatalf("marker must survive within grace period: %v", err)
	}
}

func TestMissingTrackerEscalatesToAccountingSuccess(t *testing.T) {
	dir := t.TempDir()
	acct := &stubSource{name: "accounting", st: status.StatusSuccess}
	tracker := NewMissingTracker(dir, 10, acct, nil)

	marker := filepath.Join(dir, "j1.missing")
	if _, err := tracker.OnUnresolved(context.Background(), "j1"); err != nil {
		t.Fatalf("first OnUnresolved() error: %v", err)
	}
	ageMarker(t, marker, 11*time.Minute)

	st, err := tracker.OnUnresolved(context.Background(), "j1")
	if err != nil {
		t.Fatalf("OnUnresolved() after grace error: %v", err)
	}
	if st != status.StatusSuccess {
		t.Fatalf("status = %q, want accounting's success", st)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Fatalf("marker must be deleted on a terminal verdict")
	}
}

func TestMissingTrackerAccountingAbsentMeansFailed(t *testing.T) {
	dir := t.TempDir()
	tracker := NewMissingTracker(dir, 10, &stubSource{name: "accounting", err: ErrJobNotFound}, nil)

	marker := filepath.Join(dir, "j1.missing")
	if _, err := tracker.OnUnresolved(context.Background(), "j1"); err != nil {
		t.Fatalf("first OnUnresolved() error: %v", err)
	}
	ageMarker(t, marker, time.Hour)

	st, err := tracker.OnUnresolved(context.Background(), "j1")
	if err != nil {
		t.Fatalf("OnUnresolved() after grace error: %v", err)
	}
	if st != status.StatusFailed {
		t.Fatalf("status = %q, want failed when accounting has no record", st)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Fatalf("marker must be deleted after the failed verdict")
	}
}

func TestMissingTrackerResetIdempotent(t *testing.T) {
	tracker := NewMissingTracker(t.TempDir(), 10, nil, nil)

	// No marker exists; Reset must be a silent no-op, twice.
	tracker.Reset("never-seen")
	tracker.Reset("never-seen")
}

func TestMissingTrackerZeroGraceEscalatesImmediately(t *testing.T) {
	dir := t.TempDir()
	acct := &stubSource{name: "accounting", st: status.StatusFailed}
	tracker := NewMissingTracker(dir, 0, acct, nil)

	if _, err := tracker.OnUnresolved(context.Background(), "j1"); err != nil {
		t.Fatalf("first OnUnresolved() error: %v", err)
	}

	st, err := tracker.OnUnresolved(context.Background(), "j1")
	if err != nil {
		t.Fatalf("second OnUnresolved() error: %v", err)
	}
	if st != status.StatusFailed {
		t.Fatalf("status = %q, want failed", st)
	}
	if acct.calls != 1 {
		t.Fatalf("accounting calls = %d, want 1", acct.calls)
	}
}
