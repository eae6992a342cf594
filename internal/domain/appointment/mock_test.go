package appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/carelink/booking/internal/platform/fhir"
)

type slotPatch struct {
	SlotID string
	Status string
}

type mockStore struct {
	mu           sync.Mutex
	appointments map[string]*fhir.Appointment
	nextID       int

	slotPatches  []slotPatch
	slotPatchErr map[string]error
}

func newMockStore() *mockStore {
	return &mockStore{
		appointments: make(map[string]*fhir.Appointment),
		slotPatchErr: make(map[string]error),
	}
}

func (m *mockStore) add(appt *fhir.Appointment) *fhir.Appointment {
	m.nextID++
	appt.ResourceType = "Appointment"
	appt.ID = fmt.Sprintf("appt-%d", m.nextID)
	m.appointments[appt.ID] = appt
	return appt
}

func (m *mockStore) GetAppointment(_ context.Context, id string) (*fhir.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.appointments[id]
	if !ok {
		return nil, fhir.ErrNotFound
	}
	copied := *appt
	return &copied, nil
}

func (m *mockStore) CreateAppointment(_ context.Context, appt *fhir.Appointment) (*fhir.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *appt
	return m.add(&copied), nil
}

func (m *mockStore) UpdateAppointment(_ context.Context, appt *fhir.Appointment) (*fhir.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.appointments[appt.ID]; !ok {
		return nil, fhir.ErrNotFound
	}
	copied := *appt
	m.appointments[appt.ID] = &copied
	return &copied, nil
}

func (m *mockStore) PatchAppointment(_ context.Context, id string, ops []fhir.PatchOperation) (*fhir.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.appointments[id]
	if !ok {
		return nil, fhir.ErrNotFound
	}
	for _, op := range ops {
		if op.Op == "replace" && op.Path == "/status" {
			if status, ok := op.Value.(string); ok {
				appt.Status = status
			}
		}
	}
	copied := *appt
	return &copied, nil
}

func (m *mockStore) PatchSlotStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.slotPatchErr[id]; ok {
		return err
	}
	m.slotPatches = append(m.slotPatches, slotPatch{SlotID: id, Status: status})
	return nil
}

func (m *mockStore) patchesFor(slotID string) []slotPatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []slotPatch
	for _, p := range m.slotPatches {
		if p.SlotID == slotID {
			out = append(out, p)
		}
	}
	return out
}

var errSlotPatch = errors.New("slot patch failed")

func slotRefs(ids ...string) []fhir.Reference {
	refs := make([]fhir.Reference, len(ids))
	for i, id := range ids {
		refs[i] = fhir.Reference{Reference: fhir.FormatReference("Slot", id)}
	}
	return refs
}
