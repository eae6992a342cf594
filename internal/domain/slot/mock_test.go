package slot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/carelink/booking/internal/platform/fhir"
)

// mockStore is an in-memory stand-in for the external FHIR store.
type mockStore struct {
	mu        sync.Mutex
	schedules map[string]*fhir.Schedule
	slots     map[string]*fhir.Slot
	nextID    int

	slotSearches int
	searchErr    error
	createErr    func(sl *fhir.Slot) error
}

func newMockStore() *mockStore {
	return &mockStore{
		schedules: make(map[string]*fhir.Schedule),
		slots:     make(map[string]*fhir.Slot),
	}
}

func (m *mockStore) addSchedule(id, practitionerRef string) {
	sched := &fhir.Schedule{ResourceType: "Schedule", ID: id}
	if practitionerRef != "" {
		sched.Actor = []fhir.Reference{{Reference: practitionerRef}}
	}
	m.schedules[id] = sched
}

func (m *mockStore) addSlot(scheduleID, status string, start, end time.Time) *fhir.Slot {
	m.nextID++
	sl := &fhir.Slot{
		ResourceType: "Slot",
		ID:           fmt.Sprintf("slot-%d", m.nextID),
		Schedule:     fhir.Reference{Reference: fhir.FormatReference("Schedule", scheduleID)},
		Status:       status,
		Start:        start,
		End:          end,
	}
	m.slots[sl.ID] = sl
	return sl
}

func (m *mockStore) GetSchedule(_ context.Context, id string) (*fhir.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sched, ok := m.schedules[id]
	if !ok {
		return nil, fhir.ErrNotFound
	}
	return sched, nil
}

func (m *mockStore) SearchSchedulesByActor(_ context.Context, actorRef string) ([]fhir.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []fhir.Schedule
	for _, sched := range m.schedules {
		for _, a := range sched.Actor {
			if a.Reference == actorRef {
				result = append(result, *sched)
				break
			}
		}
	}
	return result, nil
}

func (m *mockStore) SearchSlots(_ context.Context, scheduleIDs []string, from, to time.Time) ([]fhir.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slotSearches++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	inUniverse := make(map[string]bool, len(scheduleIDs))
	for _, id := range scheduleIDs {
		inUniverse[id] = true
	}
	var result []fhir.Slot
	for _, sl := range m.slots {
		if !inUniverse[sl.ScheduleID()] {
			continue
		}
		if sl.Start.Before(from) || !sl.Start.Before(to) {
			continue
		}
		result = append(result, *sl)
	}
	return result, nil
}

func (m *mockStore) CreateSlot(_ context.Context, sl *fhir.Slot) (*fhir.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		if err := m.createErr(sl); err != nil {
			return nil, err
		}
	}
	m.nextID++
	created := *sl
	created.ResourceType = "Slot"
	created.ID = fmt.Sprintf("slot-%d", m.nextID)
	m.slots[created.ID] = &created
	return &created, nil
}

func (m *mockStore) GetSlot(_ context.Context, id string) (*fhir.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sl, ok := m.slots[id]
	if !ok {
		return nil, fhir.ErrNotFound
	}
	return sl, nil
}

func at(t time.Time, h, min int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), h, min, 0, 0, time.UTC)
}

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func request(scheduleID string, start, end time.Time) CreationRequest {
	return CreationRequest{
		Schedule: fhir.Reference{Reference: fhir.FormatReference("Schedule", scheduleID)},
		Start:    start,
		End:      end,
	}
}
