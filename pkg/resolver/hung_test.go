package resolver

import (
	"context"
	"testing"
)

func TestHungDetectorDeclaresHungAndTerminates(t *testing.T) {
	client := &fakeClient{}
	d := NewHungDetector(45, 0.05, client, nil)

	hung, err := d.Evaluate(context.Background(), "j1",
		"usage    1:                 cpu=00:00:05, mem=0.001 GBs, wallclock=01:00:00")
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if !hung {
		t.Fatalf("expected hung verdict")
	}
	if len(client.terminated) != 1 || client.terminated[0] != "j1" {
		t.Fatalf("expected termination request for j1, got %v", client.terminated)
	}
}

func TestHungDetectorBelowMinimumWait(t *testing.T) {
	client := &fakeClient{}
	d := NewHungDetector(45, 0.05, client, nil)

	hung, err := d.Evaluate(context.Background(), "j1",
		"usage    1:                 cpu=00:00:00, wallclock=00:10:00")
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if hung {
		t.Fatalf("job below minimum wait must not be hung")
	}
	if len(client.terminated) != 0 {
		t.Fatalf("unexpected termination request")
	}
}

func TestHungDetectorHealthyRatio(t *testing.T) {
	d := NewHungDetector(45, 0.05, &fakeClient{}, nil)

	hung, err := d.Evaluate(context.Background(), "j1",
		"usage    1:                 cpu=00:55:00, wallclock=01:00:00")
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if hung {
		t.Fatalf("busy job must not be hung")
	}
}

func TestHungDetectorZeroWallclockNeverHung(t *testing.T) {
	// Even a zero minimum wait cannot condemn a job with no elapsed time.
	d := NewHungDetector(0, 0.05, &fakeClient{}, nil)

	hung, err := d.Evaluate(context.Background(), "j1",
		"usage    1:                 cpu=00:00:00, wallclock=00:00:00")
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if hung {
		t.Fatalf("zero wallclock must never be hung")
	}
}

func TestHungDetectorMissingFieldsNotHung(t *testing.T) {
	d := NewHungDetector(0, 1.0, &fakeClient{}, nil)

	for _, line := range []string{
		"usage    1:                 cpu=00:00:00",
		"usage    1:                 wallclock=10:00:00",
		"usage    1:                 NA",
	} {
		hung, err := d.Evaluate(context.Background(), "j1", line)
		if err != nil {
			t.Fatalf("Evaluate(%q) error: %v", line, err)
		}
		if hung {
			t.Fatalf("Evaluate(%q) declared hung with insufficient data", line)
		}
	}
}

func TestHungDetectorMalformedClockIsFatal(t *testing.T) {
	d := NewHungDetector(45, 0.05, &fakeClient{}, nil)

	if _, err := d.Evaluate(context.Background(), "j1",
		"usage    1:                 cpu=garbage, wallclock=01:00:00"); err == nil {
		t.Fatalf("expected error for malformed cpu clock")
	}
}

func TestHungDetectorSwallowsTerminationFailure(t *testing.T) {
	client := &fakeClient{terminateErr: context.DeadlineExceeded}
	d := NewHungDetector(45, 0.05, client, nil)

	hung, err := d.Evaluate(context.Background(), "j1",
		"usage    1:                 cpu=00:00:01, wallclock=02:00:00")
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if !hung {
		t.Fatalf("expected hung verdict despite termination failure")
	}
}
