// Package lock serializes batch slot commits per practitioner. The overlap
// check is read-then-validate-then-write against the external store, so two
// concurrent batches for the same practitioner could both pass validation;
// holding an advisory lock for the duration of validate+commit closes that
// window. Concurrent batches for the same practitioner are rejected with
// ErrNotAcquired rather than queued.
package lock

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when another batch already holds the
// practitioner's lock.
var ErrNotAcquired = errors.New("practitioner lock not acquired")

// Locker guards the validate-then-commit critical section for one
// practitioner's scheduling universe.
type Locker interface {
	WithPractitionerLock(ctx context.Context, practitionerRef string, fn func(ctx context.Context) error) error
}
