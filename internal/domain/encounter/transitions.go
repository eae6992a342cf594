package encounter

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a status change is not permitted by
// the encounter lifecycle.
var ErrInvalidTransition = errors.New("invalid encounter status transition")

// transitions is the encounter status machine. An encounter only moves
// forward through its lifecycle; finished and cancelled encounters can only
// be retired with entered-in-error.
var transitions = map[string][]string{
	"planned":     {"arrived", "triaged", "in-progress", "cancelled", "entered-in-error"},
	"arrived":     {"triaged", "in-progress", "cancelled"},
	"triaged":     {"in-progress", "cancelled"},
	"in-progress": {"onleave", "finished", "cancelled"},
	"onleave":     {"in-progress", "finished", "cancelled"},
	"finished":    {"entered-in-error"},
	"cancelled":   {"entered-in-error"},
}

// ValidateTransition checks that from -> to is a permitted status change.
// The returned error names both statuses so the caller can surface it as-is.
func ValidateTransition(from, to string) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
