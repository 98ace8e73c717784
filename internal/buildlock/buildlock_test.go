package buildlock

import (
	"errors"
	"testing"
	"time"
)

func TestTryAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()
	l := New(dir)

	if err := l.TryAcquire(); err != nil {
		t.Fatalf("TryAcquire: %v", err)
	}
	if err := l.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestTryAcquireFailsWhenHeld(t *testing.T) {
	dir := t.TempDir()
	first := New(dir)
	second := New(dir)

	if err := first.TryAcquire(); err != nil {
		t.Fatalf("first.TryAcquire: %v", err)
	}
	defer first.Release()

	err := second.TryAcquire()
	if !errors.Is(err, ErrHeld) {
		t.Fatalf("second.TryAcquire error = %v, want ErrHeld", err)
	}
}

func TestAcquireTimesOutWhenHeld(t *testing.T) {
	dir := t.TempDir()
	first := New(dir)
	second := New(dir)

	if err := first.TryAcquire(); err != nil {
		t.Fatalf("first.TryAcquire: %v", err)
	}
	defer first.Release()

	err := second.Acquire(50*time.Millisecond, 10*time.Millisecond)
	if !errors.Is(err, ErrHeld) {
		t.Fatalf("second.Acquire error = %v, want wrapping ErrHeld", err)
	}
}

func TestAcquireSucceedsOnceReleased(t *testing.T) {
	dir := t.TempDir()
	first := New(dir)
	second := New(dir)

	if err := first.TryAcquire(); err != nil {
		t.Fatalf("first.TryAcquire: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- second.Acquire(2*time.Second, 10*time.Millisecond)
	}()

	time.Sleep(30 * time.Millisecond)
	if err := first.Release(); err != nil {
		t.Fatalf("first.Release: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("second.Acquire: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for second.Acquire")
	}
	second.Release()
}
