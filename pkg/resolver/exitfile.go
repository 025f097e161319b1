package resolver

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/batchtools/qstatus/pkg/status"
)

// ExitFileSource resolves status from a per-job exit-code marker written
// by the job wrapper at <dir>/<jobID>.exit. The last line of the file is
// the authoritative exit code. Each marker is consumed at most once: the
// file is deleted after reading on both the success and failure paths.
type ExitFileSource struct {
	dir string
	log *zap.Logger
}

func NewExitFileSource(dir string, log *zap.Logger) *ExitFileSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExitFileSource{dir: dir, log: log}
}

func (s *ExitFileSource) Name() string { return "exit-file" }

func (s *ExitFileSource) markerPath(jobID string) string {
	return filepath.Join(s.dir, jobID+".exit")
}

func (s *ExitFileSource) Resolve(ctx context.Context, jobID string) (status.Status, error) {
	path := s.markerPath(jobID)
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			// Unreadable markers are treated like absent ones; the other
			// sources still get their chance.
			s.log.Warn("exit marker unreadable",
				zap.String("path", path),
				zap.Error(err))
		}
		return "", notFound(s.Name(), jobID)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("failed to remove consumed exit marker",
			zap.String("path", path),
			zap.Error(err))
	}

	lines := strings.Split(strings.TrimRight(string(b), "\r\n"), "\n")
	code := strings.TrimSpace(lines[len(lines)-1])

	s.log.Debug("consumed exit marker",
		zap.String("job_id", jobID),
		zap.String("exit_code", code))

	if code == "0" {
		return status.StatusSuccess, nil
	}
	return status.StatusFailed, nil
}
