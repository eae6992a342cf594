package encounter

import (
	"context"

	"github.com/carelink/booking/internal/platform/fhir"
)

// Store is the slice of the FHIR store the encounter service needs.
// *fhir.Client satisfies it.
type Store interface {
	GetEncounter(ctx context.Context, id string) (*fhir.Encounter, error)
	PatchEncounter(ctx context.Context, id string, ops []fhir.PatchOperation) (*fhir.Encounter, error)
}
