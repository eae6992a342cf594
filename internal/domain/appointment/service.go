package appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/carelink/booking/internal/platform/fhir"
)

// ErrInvalidStatus is returned when a write carries a status outside the
// FHIR appointment status set.
var ErrInvalidStatus = errors.New("invalid appointment status")

// Service forwards appointment reads and writes to the store and keeps the
// referenced slots' statuses in step with the appointment's status.
type Service struct {
	store  Store
	logger zerolog.Logger
}

func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) Get(ctx context.Context, id string) (*fhir.Appointment, error) {
	return s.store.GetAppointment(ctx, id)
}

// Create forwards a new appointment and then stamps its slots with the
// derived status. A new appointment has no prior status, so every referenced
// slot is written.
func (s *Service) Create(ctx context.Context, appt *fhir.Appointment) (*fhir.Appointment, error) {
	if appt.Status == "" {
		return nil, fmt.Errorf("%w: status is required", ErrInvalidStatus)
	}
	if !validStatuses[appt.Status] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, appt.Status)
	}

	created, err := s.store.CreateAppointment(ctx, appt)
	if err != nil {
		return nil, err
	}

	s.syncSlots(ctx, created, "")
	return created, nil
}

// Update replaces the appointment and synchronizes slot statuses when the
// status actually moved.
func (s *Service) Update(ctx context.Context, appt *fhir.Appointment) (*fhir.Appointment, error) {
	if !validStatuses[appt.Status] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, appt.Status)
	}

	existing, err := s.store.GetAppointment(ctx, appt.ID)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateAppointment(ctx, appt)
	if err != nil {
		return nil, err
	}

	s.syncSlots(ctx, updated, existing.Status)
	return updated, nil
}

// Patch forwards a JSON Patch to the store. Any status value in the patch is
// validated before the write goes out.
func (s *Service) Patch(ctx context.Context, id string, ops []fhir.PatchOperation) (*fhir.Appointment, error) {
	for _, op := range ops {
		if op.Path != "/status" {
			continue
		}
		status, ok := op.Value.(string)
		if !ok || !validStatuses[status] {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, op.Value)
		}
	}

	existing, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	patched, err := s.store.PatchAppointment(ctx, id, ops)
	if err != nil {
		return nil, err
	}

	s.syncSlots(ctx, patched, existing.Status)
	return patched, nil
}

// syncSlots writes the derived status to every slot the appointment
// references. When the old and new statuses derive to the same slot status
// nothing is written. Individual patch failures are logged and skipped; the
// appointment write has already succeeded and must not be reported as failed.
func (s *Service) syncSlots(ctx context.Context, appt *fhir.Appointment, oldStatus string) {
	slotIDs := appt.SlotIDs()
	if len(slotIDs) == 0 {
		return
	}

	derived, known := DeriveSlotStatus(appt.Status)
	if !known {
		s.logger.Warn().
			Str("appointment_id", appt.ID).
			Str("status", appt.Status).
			Msg("unrecognized appointment status, deriving slots to busy")
	}

	if oldStatus != "" {
		oldDerived, oldKnown := DeriveSlotStatus(oldStatus)
		if oldKnown && known && oldDerived == derived {
			return
		}
	}

	var wg sync.WaitGroup
	for _, slotID := range slotIDs {
		wg.Add(1)
		go func(slotID string) {
			defer wg.Done()
			if err := s.store.PatchSlotStatus(ctx, slotID, derived); err != nil {
				s.logger.Error().
					Err(err).
					Str("appointment_id", appt.ID).
					Str("slot_id", slotID).
					Str("status", derived).
					Msg("slot status sync failed")
			}
		}(slotID)
	}
	wg.Wait()
}
