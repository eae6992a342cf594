package encounter

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/carelink/booking/internal/platform/fhir"
)

// Service guards encounter status changes with the lifecycle machine and
// stamps the encounter period at the transitions that bound it.
type Service struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id string) (*fhir.Encounter, error) {
	return s.store.GetEncounter(ctx, id)
}

// Patch forwards a JSON Patch to the store. A status replace inside the
// patch is validated against the current stored status before anything is
// written. Moving to in-progress stamps period.start and moving to finished
// stamps period.end, in both cases only when the field is not already set.
func (s *Service) Patch(ctx context.Context, id string, ops []fhir.PatchOperation) (*fhir.Encounter, error) {
	existing, err := s.store.GetEncounter(ctx, id)
	if err != nil {
		return nil, err
	}

	status := statusOp(ops)
	if status != "" {
		if err := ValidateTransition(existing.Status, status); err != nil {
			return nil, err
		}
		ops = append(ops, periodOps(existing, status, s.now().UTC())...)
	}

	updated, err := s.store.PatchEncounter(ctx, id, ops)
	if err != nil {
		return nil, err
	}

	if status != "" {
		s.logger.Info().
			Str("encounter_id", id).
			Str("from", existing.Status).
			Str("to", status).
			Msg("encounter status changed")
	}
	return updated, nil
}

// UpdateStatus moves the encounter to a new status through the same guarded
// path as a status-only patch.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*fhir.Encounter, error) {
	return s.Patch(ctx, id, fhir.ReplaceStatus(status))
}

// statusOp returns the value of the last replace on /status, if any.
func statusOp(ops []fhir.PatchOperation) string {
	status := ""
	for _, op := range ops {
		if op.Op == "replace" && op.Path == "/status" {
			if v, ok := op.Value.(string); ok {
				status = v
			}
		}
	}
	return status
}

// periodOps returns the patch operations that stamp the encounter period for
// the given target status.
func periodOps(existing *fhir.Encounter, status string, now time.Time) []fhir.PatchOperation {
	var ops []fhir.PatchOperation
	switch status {
	case "in-progress":
		if existing.Period == nil {
			ops = append(ops, fhir.PatchOperation{
				Op: "add", Path: "/period", Value: fhir.Period{Start: &now},
			})
		} else if existing.Period.Start == nil {
			ops = append(ops, fhir.PatchOperation{
				Op: "add", Path: "/period/start", Value: now,
			})
		}
	case "finished":
		if existing.Period == nil {
			ops = append(ops, fhir.PatchOperation{
				Op: "add", Path: "/period", Value: fhir.Period{End: &now},
			})
		} else if existing.Period.End == nil {
			ops = append(ops, fhir.PatchOperation{
				Op: "add", Path: "/period/end", Value: now,
			})
		}
	}
	return ops
}
