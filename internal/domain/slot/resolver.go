package slot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Universe is the set of schedules a batch must be checked against. Overlap
// detection is practitioner-wide: a practitioner must never hold two
// overlapping bookable intervals across any of their schedules.
type Universe struct {
	// PractitionerRef is "Practitioner/<id>", or empty when the resolver
	// degraded to the single seed schedule.
	PractitionerRef string
	ScheduleIDs     []string
}

// Resolver expands one seed schedule into the owning practitioner's full
// schedule set.
type Resolver struct {
	store  Store
	logger zerolog.Logger
}

func NewResolver(store Store, logger zerolog.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Resolve fetches the seed schedule, extracts its practitioner actor, and
// queries every schedule for that practitioner. When the seed schedule has
// no resolvable practitioner actor, it degrades to the single seed schedule
// instead of aborting the batch: an incomplete overlap universe is safer
// than rejecting valid work outright.
func (r *Resolver) Resolve(ctx context.Context, seedScheduleID string) (Universe, error) {
	sched, err := r.store.GetSchedule(ctx, seedScheduleID)
	if err != nil {
		return Universe{}, fmt.Errorf("fetch seed schedule %s: %w", seedScheduleID, err)
	}

	practitionerRef, ok := sched.PractitionerRef()
	if !ok {
		return r.fallbackToSingleSchedule(seedScheduleID, "no practitioner actor on schedule"), nil
	}

	scheds, err := r.store.SearchSchedulesByActor(ctx, practitionerRef)
	if err != nil {
		return Universe{}, fmt.Errorf("search schedules for %s: %w", practitionerRef, err)
	}

	seen := map[string]bool{seedScheduleID: true}
	ids := []string{seedScheduleID}
	for _, s := range scheds {
		if s.ID == "" || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		ids = append(ids, s.ID)
	}

	return Universe{PractitionerRef: practitionerRef, ScheduleIDs: ids}, nil
}

func (r *Resolver) fallbackToSingleSchedule(seedScheduleID, reason string) Universe {
	r.logger.Warn().
		Str("schedule_id", seedScheduleID).
		Str("reason", reason).
		Msg("overlap universe degraded to single schedule")
	return Universe{ScheduleIDs: []string{seedScheduleID}}
}
