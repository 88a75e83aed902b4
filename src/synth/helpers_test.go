package synth

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func expectEqual(t *testing.T, actual, expected interface{}) {
	t.Helper()
	if actual != expected {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func expectNearlyEqual(t *testing.T, actual, expected float64) {
	t.Helper()
	expectWithin(t, actual, expected, 0.0001)
}

func expectWithin(t *testing.T, actual, expected, tolerance float64) {
	t.Helper()
	if math.Abs(actual-expected) > tolerance {
		t.Errorf("expected %v (±%v), but got: %v", expected, tolerance, actual)
	}
}

func expectNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
}

func expectErrorCause(t *testing.T, err error, cause error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, but got no error", cause)
	}
	if errors.Cause(err) != cause {
		t.Errorf("expected %v, but got: %v", cause, err)
	}
}

func testConfig() Config {
	cfg := DesktopConfig()
	cfg.Polyphony = 4
	return cfg
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(testConfig())
	expectNoError(t, err)
	return e
}
