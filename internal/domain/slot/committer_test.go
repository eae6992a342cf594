package slot

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carelink/booking/internal/platform/fhir"
)

func TestCommit_PartialFailureIsolated(t *testing.T) {
	store := newMockStore()
	failStart := at(day, 11, 0)
	store.createErr = func(sl *fhir.Slot) error {
		if sl.Start.Equal(failStart) {
			return errors.New("store unavailable")
		}
		return nil
	}

	reqs := []CreationRequest{
		request("sched-a", at(day, 10, 0), at(day, 10, 30)),
		request("sched-a", failStart, at(day, 11, 30)),
		request("sched-a", at(day, 12, 0), at(day, 12, 30)),
	}

	c := NewCommitter(store, zerolog.Nop())
	outcomes := c.Commit(context.Background(), reqs)

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Err != nil || outcomes[2].Err != nil {
		t.Error("siblings of a failed commit must still succeed")
	}
	if outcomes[1].Err == nil {
		t.Error("expected commit error for the failing request")
	}
	if outcomes[0].Created == nil || !outcomes[0].Created.Start.Equal(reqs[0].Start) {
		t.Error("outcomes must line up with input order")
	}
}

func TestCommit_DefaultsStatusToFree(t *testing.T) {
	store := newMockStore()
	c := NewCommitter(store, zerolog.Nop())

	outcomes := c.Commit(context.Background(), []CreationRequest{
		request("sched-a", at(day, 9, 0), at(day, 9, 30)),
	})

	if outcomes[0].Err != nil {
		t.Fatalf("unexpected error: %v", outcomes[0].Err)
	}
	if outcomes[0].Created.Status != "free" {
		t.Errorf("expected default status free, got %q", outcomes[0].Created.Status)
	}
}

func TestCommit_EmptyInput(t *testing.T) {
	c := NewCommitter(newMockStore(), zerolog.Nop())
	if outcomes := c.Commit(context.Background(), nil); len(outcomes) != 0 {
		t.Errorf("expected no outcomes, got %d", len(outcomes))
	}
}
