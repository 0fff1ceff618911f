package runtime

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestParallelDefaultOff(t *testing.T) {
	t.Setenv("LIGHT_PARALLEL", "")
	if Parallel() {
		t.Fatal("Parallel() should be false when LIGHT_PARALLEL is unset")
	}
}

func TestParallelOn(t *testing.T) {
	t.Setenv("LIGHT_PARALLEL", "1")
	if !Parallel() {
		t.Fatal("Parallel() should be true when LIGHT_PARALLEL=1")
	}
}

func TestRunBoundedSerial(t *testing.T) {
	t.Setenv("LIGHT_PARALLEL", "")
	var count atomic.Int32
	err := RunBounded(10, 4, func(i int) error {
		count.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("RunBounded: %v", err)
	}
	if count.Load() != 10 {
		t.Fatalf("count = %d, want 10", count.Load())
	}
}

func TestRunBoundedParallel(t *testing.T) {
	t.Setenv("LIGHT_PARALLEL", "1")
	var count atomic.Int32
	err := RunBounded(100, 8, func(i int) error {
		count.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("RunBounded: %v", err)
	}
	if count.Load() != 100 {
		t.Fatalf("count = %d, want 100", count.Load())
	}
}

func TestRunBoundedPropagatesError(t *testing.T) {
	t.Setenv("LIGHT_PARALLEL", "")
	sentinel := errors.New("boom")
	err := RunBounded(3, 1, func(i int) error {
		if i == 1 {
			return sentinel
		}
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("RunBounded error = %v, want %v", err, sentinel)
	}
}
