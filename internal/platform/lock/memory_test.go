package lock

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryLocker_RejectsConcurrentHolder(t *testing.T) {
	l := NewMemoryLocker()

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- l.WithPractitionerLock(context.Background(), "Practitioner/p1", func(ctx context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()

	<-entered
	err := l.WithPractitionerLock(context.Background(), "Practitioner/p1", func(ctx context.Context) error {
		t.Error("second batch must not enter the critical section")
		return nil
	})
	if !errors.Is(err, ErrNotAcquired) {
		t.Errorf("expected ErrNotAcquired, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error from first holder: %v", err)
	}
}

func TestMemoryLocker_DistinctPractitionersDoNotContend(t *testing.T) {
	l := NewMemoryLocker()

	err := l.WithPractitionerLock(context.Background(), "Practitioner/p1", func(ctx context.Context) error {
		return l.WithPractitionerLock(ctx, "Practitioner/p2", func(ctx context.Context) error {
			return nil
		})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMemoryLocker_ReleasedAfterError(t *testing.T) {
	l := NewMemoryLocker()
	sentinel := errors.New("commit failed")

	if err := l.WithPractitionerLock(context.Background(), "Practitioner/p1", func(ctx context.Context) error {
		return sentinel
	}); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}

	if err := l.WithPractitionerLock(context.Background(), "Practitioner/p1", func(ctx context.Context) error {
		return nil
	}); err != nil {
		t.Fatalf("lock not released after error: %v", err)
	}
}
