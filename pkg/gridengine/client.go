// Package gridengine talks to an SGE/UGE-style batch scheduler through its
// command-line tools and parses the text they produce.
package gridengine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Client is the minimal scheduler surface the status resolver needs.
//
// Implementations must treat a job that is unknown to the underlying tool
// as an ordinary error return; callers decide whether that is fatal.
type Client interface {
	// QueryLive returns the scheduler's live-table report for a job
	// (qstat). An error means the job is not currently in the live table.
	QueryLive(ctx context.Context, jobID string) (string, error)

	// QueryAccounting returns the scheduler's historical accounting
	// record for a job (qacct). An error means no record exists yet.
	QueryAccounting(ctx context.Context, jobID string) (string, error)

	// Terminate asks the scheduler to kill a job (qdel). Best effort.
	Terminate(ctx context.Context, jobID string) error
}

const defaultQueryTimeout = 30 * time.Second

// CommandConfig configures a CommandClient. Zero values fall back to the
// plain tool names resolved via PATH and a 30s per-call timeout.
type CommandConfig struct {
	QstatPath    string
	QacctPath    string
	QdelPath     string
	QueryTimeout time.Duration
}

// CommandClient runs the scheduler tools as subprocesses. Every call gets
// its own deadline so a wedged scheduler daemon cannot hang the poller.
type CommandClient struct {
	qstat   string
	qacct   string
	qdel    string
	timeout time.Duration
}

func NewCommandClient(cfg CommandConfig) *CommandClient {
	c := &CommandClient{
		qstat:   strings.TrimSpace(cfg.QstatPath),
		qacct:   strings.TrimSpace(cfg.QacctPath),
		qdel:    strings.TrimSpace(cfg.QdelPath),
		timeout: cfg.QueryTimeout,
	}
	if c.qstat == "" {
		c.qstat = "qstat"
	}
	if c.qacct == "" {
		c.qacct = "qacct"
	}
	if c.qdel == "" {
		c.qdel = "qdel"
	}
	if c.timeout <= 0 {
		c.timeout = defaultQueryTimeout
	}
	return c
}

func (c *CommandClient) QueryLive(ctx context.Context, jobID string) (string, error) {
	return c.run(ctx, c.qstat, "-j", jobID)
}

func (c *CommandClient) QueryAccounting(ctx context.Context, jobID string) (string, error) {
	return c.run(ctx, c.qacct, "-j", jobID)
}

func (c *CommandClient) Terminate(ctx context.Context, jobID string) error {
	_, err := c.run(ctx, c.qdel, jobID)
	return err
}

func (c *CommandClient) run(ctx context.Context, path string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%s %s: %s: %w", path, strings.Join(args, " "), msg, err)
	}
	return stdout.String(), nil
}
