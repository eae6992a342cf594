package appointment

import (
	"context"

	"github.com/carelink/booking/internal/platform/fhir"
)

// Store is the slice of the FHIR store the appointment service needs.
// *fhir.Client satisfies it.
type Store interface {
	GetAppointment(ctx context.Context, id string) (*fhir.Appointment, error)
	CreateAppointment(ctx context.Context, appt *fhir.Appointment) (*fhir.Appointment, error)
	UpdateAppointment(ctx context.Context, appt *fhir.Appointment) (*fhir.Appointment, error)
	PatchAppointment(ctx context.Context, id string, ops []fhir.PatchOperation) (*fhir.Appointment, error)
	PatchSlotStatus(ctx context.Context, id, status string) error
}
