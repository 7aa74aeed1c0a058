package admission

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEventLocksTimeout(t *testing.T) {
	locks := newEventLocks()

	release, err := locks.acquire(context.Background(), 1, time.Second)
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	if _, err := locks.acquire(context.Background(), 1, 20*time.Millisecond); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	release()

	release2, err := locks.acquire(context.Background(), 1, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	release2()
}

func TestEventLocksContextCancel(t *testing.T) {
	locks := newEventLocks()

	release, err := locks.acquire(context.Background(), 1, time.Second)
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := locks.acquire(ctx, 1, time.Second); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEventLocksIndependentKeys(t *testing.T) {
	locks := newEventLocks()

	release1, err := locks.acquire(context.Background(), 1, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("acquire event 1 failed: %v", err)
	}
	defer release1()

	release2, err := locks.acquire(context.Background(), 2, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("acquire event 2 blocked on event 1: %v", err)
	}
	release2()
}

func TestEventLocksEntryCleanup(t *testing.T) {
	locks := newEventLocks()

	release, err := locks.acquire(context.Background(), 7, time.Second)
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	release()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	if len(locks.entries) != 0 {
		t.Errorf("expected lock table to be empty, got %d entries", len(locks.entries))
	}
}
