package slot

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/carelink/booking/internal/platform/fhir"
	"github.com/carelink/booking/internal/platform/lock"
)

var (
	// ErrEmptyBatch is returned for a submission with no slots.
	ErrEmptyBatch = errors.New("batch contains no slots")

	// ErrPractitionerBusy is returned when another batch currently holds
	// the practitioner's advisory lock. Callers should retry.
	ErrPractitionerBusy = errors.New("another slot batch is in progress for this practitioner")
)

// Service orchestrates batch slot creation: screen, resolve the
// practitioner-wide universe, then validate and commit under the
// practitioner's advisory lock so concurrent batches cannot interleave
// inside the read-then-write window.
type Service struct {
	store     Store
	resolver  *Resolver
	validator *Validator
	committer *Committer
	locker    lock.Locker
	logger    zerolog.Logger
}

func NewService(store Store, locker lock.Locker, logger zerolog.Logger) *Service {
	return &Service{
		store:     store,
		resolver:  NewResolver(store, logger),
		validator: NewValidator(store, logger),
		committer: NewCommitter(store, logger),
		locker:    locker,
		logger:    logger,
	}
}

// CreateBatch validates and commits a batch with per-item accept/reject
// semantics. All requests in one batch are assumed to belong to the same
// practitioner's scheduling universe; the universe is resolved from the
// first structurally valid request's schedule.
func (s *Service) CreateBatch(ctx context.Context, reqs []CreationRequest) (*BatchResult, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyBatch
	}

	cands := s.validator.ScreenRequests(reqs)

	seedScheduleID := ""
	for _, cand := range cands {
		if cand.Rejection == nil {
			seedScheduleID = cand.Interval.ScheduleID
			break
		}
	}
	if seedScheduleID == "" {
		// Nothing survived screening; no external call is made.
		return assembleResult(cands, nil), nil
	}

	universe, err := s.resolver.Resolve(ctx, seedScheduleID)
	if err != nil {
		return nil, err
	}

	lockKey := universe.PractitionerRef
	if lockKey == "" {
		lockKey = fhir.FormatReference("Schedule", seedScheduleID)
	}

	var result *BatchResult
	err = s.locker.WithPractitionerLock(ctx, lockKey, func(ctx context.Context) error {
		if err := s.validator.CheckConflicts(ctx, universe, cands); err != nil {
			return err
		}

		var accepted []CreationRequest
		var acceptedIdx []int
		for i, cand := range cands {
			if cand.Rejection == nil {
				accepted = append(accepted, cand.Request)
				acceptedIdx = append(acceptedIdx, i)
			}
		}

		outcomes := s.committer.Commit(ctx, accepted)

		created := make([]fhir.Slot, 0, len(outcomes))
		for j, out := range outcomes {
			if out.Err != nil {
				cands[acceptedIdx[j]].Rejection = &Rejection{
					Slot:   accepted[j],
					Code:   ReasonCommitFailed,
					Reason: out.Err.Error(),
				}
				continue
			}
			created = append(created, *out.Created)
		}

		result = assembleResult(cands, created)
		return nil
	})
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, ErrPractitionerBusy
		}
		return nil, err
	}

	s.logger.Info().
		Str("practitioner", universe.PractitionerRef).
		Int("created", len(result.Created)).
		Int("rejected", len(result.Rejected)).
		Msg("slot batch committed")

	return result, nil
}

// GetSlot reads one slot from the store.
func (s *Service) GetSlot(ctx context.Context, id string) (*fhir.Slot, error) {
	return s.store.GetSlot(ctx, id)
}

// assembleResult flattens candidates back into input-ordered lists.
func assembleResult(cands []Candidate, created []fhir.Slot) *BatchResult {
	result := &BatchResult{Created: created}
	for _, cand := range cands {
		if cand.Rejection != nil {
			result.Rejected = append(result.Rejected, *cand.Rejection)
		}
	}
	return result
}
