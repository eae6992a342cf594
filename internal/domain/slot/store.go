package slot

import (
	"context"
	"time"

	"github.com/carelink/booking/internal/platform/fhir"
)

// Store is the slice of the external FHIR store the slot engine reads and
// writes. *fhir.Client satisfies it; tests substitute mocks.
type Store interface {
	GetSchedule(ctx context.Context, id string) (*fhir.Schedule, error)
	SearchSchedulesByActor(ctx context.Context, actorRef string) ([]fhir.Schedule, error)
	SearchSlots(ctx context.Context, scheduleIDs []string, from, to time.Time) ([]fhir.Slot, error)
	CreateSlot(ctx context.Context, sl *fhir.Slot) (*fhir.Slot, error)
	GetSlot(ctx context.Context, id string) (*fhir.Slot, error)
}
