package slot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/carelink/booking/pkg/interval"
)

// Candidate tracks one batch item through screening, conflict checking and
// commit. Rejection is nil while the item is still in the running.
type Candidate struct {
	Request   CreationRequest
	Interval  interval.Interval
	Rejection *Rejection
}

// Validator partitions a batch into accepted and rejected requests against
// the practitioner-wide slot universe.
type Validator struct {
	store  Store
	logger zerolog.Logger
}

func NewValidator(store Store, logger zerolog.Logger) *Validator {
	return &Validator{store: store, logger: logger}
}

// ScreenRequests runs per-item structural validation. No external calls are
// made: a malformed item is rejected here with a specific reason and never
// reaches the store.
func (v *Validator) ScreenRequests(reqs []CreationRequest) []Candidate {
	cands := make([]Candidate, len(reqs))
	for i, req := range reqs {
		cands[i] = Candidate{Request: req}

		scheduleID := req.ScheduleID()
		if scheduleID == "" {
			cands[i].Rejection = &Rejection{
				Slot:   req,
				Code:   ReasonValidation,
				Reason: "missing or malformed schedule reference",
			}
			continue
		}

		if req.Status != "" && !validStatuses[req.Status] {
			cands[i].Rejection = &Rejection{
				Slot:   req,
				Code:   ReasonValidation,
				Reason: fmt.Sprintf("invalid slot status: %s", req.Status),
			}
			continue
		}

		iv, err := interval.New(req.Start, req.End, scheduleID)
		if err != nil {
			cands[i].Rejection = &Rejection{
				Slot:   req,
				Code:   ReasonValidation,
				Reason: err.Error(),
			}
			continue
		}
		cands[i].Interval = iv
	}
	return cands
}

// CheckConflicts fetches the existing non-retired slots across the universe
// with one envelope-bounded query, then walks the candidates in input order:
// a candidate loses to any existing slot, then to any earlier accepted
// candidate in the same batch. First-in-batch wins; later colliding requests
// are rejected against the earlier accepted one.
func (v *Validator) CheckConflicts(ctx context.Context, universe Universe, cands []Candidate) error {
	var proposed []interval.Interval
	for _, cand := range cands {
		if cand.Rejection == nil {
			proposed = append(proposed, cand.Interval)
		}
	}
	from, to, ok := interval.Envelope(proposed)
	if !ok {
		return nil
	}

	existing, err := v.store.SearchSlots(ctx, universe.ScheduleIDs, from, to)
	if err != nil {
		return fmt.Errorf("fetch existing slots: %w", err)
	}

	existingIvs := make([]interval.Interval, 0, len(existing))
	for _, sl := range existing {
		if sl.Status == statusRetired {
			continue
		}
		iv, err := interval.New(sl.Start, sl.End, sl.ScheduleID())
		if err != nil {
			v.logger.Warn().Str("slot_id", sl.ID).Err(err).Msg("skipping stored slot with malformed interval")
			continue
		}
		existingIvs = append(existingIvs, iv)
	}

	var accepted []interval.Interval
	for i := range cands {
		if cands[i].Rejection != nil {
			continue
		}
		cand := &cands[i]

		if hit, ok := interval.AnyOverlap(cand.Interval, existingIvs); ok {
			code := ReasonConflictCrossSchedule
			scope := "another schedule"
			if hit.ScheduleID == cand.Interval.ScheduleID {
				code = ReasonConflictSameSchedule
				scope = "the same schedule"
			}
			cand.Rejection = &Rejection{
				Slot: cand.Request,
				Code: code,
				Reason: fmt.Sprintf("overlaps existing slot %s on %s (Schedule/%s)",
					hit, scope, hit.ScheduleID),
			}
			continue
		}

		if hit, ok := interval.AnyOverlap(cand.Interval, accepted); ok {
			cand.Rejection = &Rejection{
				Slot: cand.Request,
				Code: ReasonConflictInBatch,
				Reason: fmt.Sprintf("overlaps earlier accepted request %s in the same batch (Schedule/%s)",
					hit, hit.ScheduleID),
			}
			continue
		}

		accepted = append(accepted, cand.Interval)
	}
	return nil
}
