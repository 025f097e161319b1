package status

import "testing"

func TestTerminal(t *testing.T) {
	if StatusRunning.Terminal() {
		t.Fatalf("running must not be terminal")
	}
	if !StatusSuccess.Terminal() {
		t.Fatalf("success must be terminal")
	}
	if !StatusFailed.Terminal() {
		t.Fatalf("failed must be terminal")
	}
}

func TestString(t *testing.T) {
	if got := StatusSuccess.String(); got != "success" {
		t.Fatalf("unexpected string: %q", got)
	}
}
