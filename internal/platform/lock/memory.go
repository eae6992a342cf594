package lock

import (
	"context"
	"sync"
)

type memoryLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewMemoryLocker creates an in-process locker for single-instance
// deployments where Redis is not configured. Semantics match the Redis
// locker: a second batch for the same practitioner is rejected, not queued.
func NewMemoryLocker() Locker {
	return &memoryLocker{held: make(map[string]bool)}
}

func (l *memoryLocker) WithPractitionerLock(ctx context.Context, practitionerRef string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	if l.held[practitionerRef] {
		l.mu.Unlock()
		return ErrNotAcquired
	}
	l.held[practitionerRef] = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.held, practitionerRef)
		l.mu.Unlock()
	}()

	return fn(ctx)
}
