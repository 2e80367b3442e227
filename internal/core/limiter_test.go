package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIngestLimiter_AcquireRelease(t *testing.T) {
	l := NewIngestLimiter(2, time.Second)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("second Acquire() error = %v", err)
	}
	if got := l.Active(); got != 2 {
		t.Errorf("Active() = %d, want 2", got)
	}

	l.Release()
	if got := l.Active(); got != 1 {
		t.Errorf("Active() after Release = %d, want 1", got)
	}
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire() after Release error = %v", err)
	}
}

func TestIngestLimiter_FullRejectsAfterWait(t *testing.T) {
	l := NewIngestLimiter(1, 20*time.Millisecond)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	start := time.Now()
	err := l.Acquire(ctx)
	if !errors.Is(err, ErrTooManyUploads) {
		t.Fatalf("Acquire() on full limiter error = %v, want ErrTooManyUploads", err)
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("rejected after %v, want the full wait budget", elapsed)
	}
}

func TestIngestLimiter_ContextCancellation(t *testing.T) {
	l := NewIngestLimiter(1, time.Minute)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Acquire(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Acquire() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire() did not return after cancellation")
	}
}

func TestIngestLimiter_DefaultsApplied(t *testing.T) {
	l := NewIngestLimiter(0, 0)
	if cap(l.slots) != defaultMaxConcurrentIngests {
		t.Errorf("cap(slots) = %d, want %d", cap(l.slots), defaultMaxConcurrentIngests)
	}
	if l.maxWait != defaultIngestMaxWait {
		t.Errorf("maxWait = %v, want %v", l.maxWait, defaultIngestMaxWait)
	}
}
