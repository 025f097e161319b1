package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/batchtools/qstatus/pkg/gridengine"
	"github.com/batchtools/qstatus/pkg/status"
)

// notRecorded is the value assumed for accounting keys the record does
// not carry. It never equals "0", so an incomplete record reads as failed.
const notRecorded = "1"

// AccountingSource resolves status from the scheduler's historical
// accounting log. Accounting only has data once a job is terminal, so
// this source never reports running.
type AccountingSource struct {
	client gridengine.Client
	log    *zap.Logger
}

func NewAccountingSource(client gridengine.Client, log *zap.Logger) *AccountingSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountingSource{client: client, log: log}
}

func (s *AccountingSource) Name() string { return "accounting" }

func (s *AccountingSource) Resolve(ctx context.Context, jobID string) (status.Status, error) {
	report, err := s.client.QueryAccounting(ctx, jobID)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.log.Debug("accounting query failed",
			zap.String("job_id", jobID),
			zap.Error(err))
		return "", notFound(s.Name(), jobID)
	}

	props := gridengine.ParseAccounting(report)
	failed, ok := props["failed"]
	if !ok {
		failed = notRecorded
	}
	exitStatus, ok := props["exit_status"]
	if !ok {
		exitStatus = notRecorded
	}

	s.log.Debug("accounting record",
		zap.String("job_id", jobID),
		zap.String("failed", failed),
		zap.String("exit_status", exitStatus))

	if failed == "0" && exitStatus == "0" {
		return status.StatusSuccess, nil
	}
	return status.StatusFailed, nil
}
