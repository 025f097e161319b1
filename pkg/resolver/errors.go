package resolver

import (
	"errors"
	"fmt"
)

// ErrJobNotFound signals that a status source has no answer for a job
// right now. It is an expected, frequent outcome, not a failure: the
// resolver falls through to the next source.
var ErrJobNotFound = errors.New("job not found")

// SourceError wraps a source-level error with the source name and job id.
type SourceError struct {
	// Source is the source that produced the error (e.g. "live").
	Source string

	// JobID is the job being resolved.
	JobID string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: job %s: %v", e.Source, e.JobID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error means a source could not answer.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrJobNotFound)
}

func notFound(source, jobID string) error {
	return &SourceError{Source: source, JobID: jobID, Err: ErrJobNotFound}
}
