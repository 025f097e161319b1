// Package status defines the lifecycle states reported for a batch job.
package status

// Status is the lifecycle state of a scheduler job as seen by a poller.
//
// NOTE: These values are printed verbatim on stdout and consumed by
// workflow engines. They are part of the stable output contract.
type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Terminal reports whether the status is a final verdict. A terminal job
// will never transition again; pollers can stop once they see one.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

func (s Status) String() string {
	return string(s)
}
