package slot

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/carelink/booking/internal/platform/fhir"
)

// CommitOutcome is the per-item result of one creation attempt.
type CommitOutcome struct {
	Created *fhir.Slot
	Err     error
}

// Committer executes accepted creations against the store with per-item
// isolation: one slot failing to commit never cancels or rolls back its
// siblings.
type Committer struct {
	store  Store
	logger zerolog.Logger
}

func NewCommitter(store Store, logger zerolog.Logger) *Committer {
	return &Committer{store: store, logger: logger}
}

// Commit dispatches every accepted request concurrently and joins with
// all-settled semantics: each task runs to completion regardless of the
// others. Outcomes are returned in input order. A store timeout is an
// ordinary commit failure for that item, not an "unknown" state.
func (c *Committer) Commit(ctx context.Context, accepted []CreationRequest) []CommitOutcome {
	outcomes := make([]CommitOutcome, len(accepted))

	var wg sync.WaitGroup
	for i, req := range accepted {
		wg.Add(1)
		go func(i int, req CreationRequest) {
			defer wg.Done()

			status := req.Status
			if status == "" {
				status = "free"
			}
			created, err := c.store.CreateSlot(ctx, &fhir.Slot{
				Schedule: req.Schedule,
				Status:   status,
				Start:    req.Start,
				End:      req.End,
				Comment:  req.Comment,
			})
			if err != nil {
				c.logger.Error().
					Err(err).
					Str("schedule", req.Schedule.Reference).
					Time("start", req.Start).
					Msg("slot creation failed")
				outcomes[i] = CommitOutcome{Err: err}
				return
			}
			outcomes[i] = CommitOutcome{Created: created}
		}(i, req)
	}
	wg.Wait()

	return outcomes
}
