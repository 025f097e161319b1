package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/batchtools/qstatus/pkg/status"
)

func writeExitMarker(t *testing.T, dir, jobID, content string) string {
	t.Helper()
	path := filepath.Join(dir, jobID+".exit")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write exit marker: %v", err)
	}
	return path
}

func TestExitFileSourceSuccessAndConsumption(t *testing.T) {
	dir := t.TempDir()
	path := writeExitMarker(t, dir, "j1", "0\n")
	src := NewExitFileSource(dir, nil)

	st, err := src.Resolve(context.Background(), "j1")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if st != status.StatusSuccess {
		t.Fatalf("status = %q, want success", st)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("exit marker not consumed")
	}
}

func TestExitFileSourceNonZeroIsFailed(t *testing.T) {
	dir := t.TempDir()
	path := writeExitMarker(t, dir, "j1", "137\n")
	src := NewExitFileSource(dir, nil)

	st, err := src.Resolve(context.Background(), "j1")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if st != status.StatusFailed {
		t.Fatalf("status = %q, want failed", st)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("exit marker must be consumed on the failure path too")
	}
}

func TestExitFileSourceLastLineWins(t *testing.T) {
	dir := t.TempDir()
	// A retried wrapper appends one exit code per attempt.
	writeExitMarker(t, dir, "j1", "1\n0\n")
	src := NewExitFileSource(dir, nil)

	st, err := src.Resolve(context.Background(), "j1")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if st != status.StatusSuccess {
		t.Fatalf("status = %q, want success from last line", st)
	}
}

func TestExitFileSourceAbsentIsNotFound(t *testing.T) {
	src := NewExitFileSource(t.TempDir(), nil)

	_, err := src.Resolve(context.Background(), "j1")
	if !IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestExitFileSourceEmptyFileIsFailed(t *testing.T) {
	dir := t.TempDir()
	writeExitMarker(t, dir, "j1", "")
	src := NewExitFileSource(dir, nil)

	st, err := src.Resolve(context.Background(), "j1")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if st != status.StatusFailed {
		t.Fatalf("status = %q, want failed for empty marker", st)
	}
}
