package core

// limiter.go bounds concurrent file ingestion. Parsing and classifying a
// large spreadsheet is memory-heavy, so the service holds uploads beyond
// the configured parallelism in a short queue and rejects them once the
// wait budget is spent.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyUploads is returned when every ingest slot stays occupied for
// the whole wait budget. Clients should retry after a short delay.
var ErrTooManyUploads = errors.New("too many concurrent uploads, please try again later")

const (
	defaultMaxConcurrentIngests = 5
	defaultIngestMaxWait        = 30 * time.Second
)

// IngestLimiter is a semaphore over dataset ingestion.
type IngestLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.Mutex
	active int
}

// NewIngestLimiter creates a limiter allowing maxConcurrent simultaneous
// ingests; acquirers wait up to maxWait for a slot.
func NewIngestLimiter(maxConcurrent int, maxWait time.Duration) *IngestLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentIngests
	}
	if maxWait <= 0 {
		maxWait = defaultIngestMaxWait
	}
	return &IngestLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire blocks until a slot frees up, the wait budget runs out
// (ErrTooManyUploads), or ctx is cancelled. Callers must Release exactly
// once per successful Acquire.
func (l *IngestLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyUploads
	}
}

// Release frees a previously acquired slot.
func (l *IngestLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
	<-l.slots
}

// Active returns the number of ingests currently holding a slot.
func (l *IngestLimiter) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}
