// Package fhir provides the wire types and REST client for the external FHIR
// store. The engine never persists clinical resources itself; everything here
// is a read or a targeted write against the upstream server.
package fhir

import (
	"encoding/json"
	"strings"
	"time"
)

type Meta struct {
	VersionID   string     `json:"versionId,omitempty"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

type Reference struct {
	Reference string `json:"reference,omitempty"`
	Type      string `json:"type,omitempty"`
	Display   string `json:"display,omitempty"`
}

type Period struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

type Extension struct {
	URL            string     `json:"url"`
	ValueString    string     `json:"valueString,omitempty"`
	ValueCode      string     `json:"valueCode,omitempty"`
	ValueReference *Reference `json:"valueReference,omitempty"`
}

// FormatReference renders "Type/id".
func FormatReference(resourceType, id string) string {
	return resourceType + "/" + id
}

// ReferenceID extracts the id from a "Type/id" reference. The second return
// is false when the reference does not point at the given type.
func ReferenceID(ref, resourceType string) (string, bool) {
	prefix := resourceType + "/"
	if !strings.HasPrefix(ref, prefix) {
		return "", false
	}
	id := strings.TrimPrefix(ref, prefix)
	if id == "" {
		return "", false
	}
	return id, true
}

// Schedule is the subset of the FHIR Schedule resource the engine reads.
// Schedules are never mutated by the engine.
type Schedule struct {
	ResourceType    string     `json:"resourceType"`
	ID              string     `json:"id"`
	Active          *bool      `json:"active,omitempty"`
	Actor           []Reference `json:"actor,omitempty"`
	PlanningHorizon *Period    `json:"planningHorizon,omitempty"`
	Meta            *Meta      `json:"meta,omitempty"`
}

// PractitionerRef returns the first Practitioner actor reference, if any.
func (s *Schedule) PractitionerRef() (string, bool) {
	for _, a := range s.Actor {
		if _, ok := ReferenceID(a.Reference, "Practitioner"); ok {
			return a.Reference, true
		}
	}
	return "", false
}

// Slot is the FHIR Slot resource as exchanged with the store.
type Slot struct {
	ResourceType string    `json:"resourceType"`
	ID           string    `json:"id,omitempty"`
	Schedule     Reference `json:"schedule"`
	Status       string    `json:"status"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Comment      string    `json:"comment,omitempty"`
	Meta         *Meta     `json:"meta,omitempty"`
}

// ScheduleID extracts the owning schedule id from the schedule reference.
func (sl *Slot) ScheduleID() string {
	id, _ := ReferenceID(sl.Schedule.Reference, "Schedule")
	return id
}

type AppointmentParticipant struct {
	Actor  *Reference `json:"actor,omitempty"`
	Status string     `json:"status,omitempty"`
}

// Appointment is the subset of the FHIR Appointment resource the engine
// reads and forwards. Its status drives slot state.
type Appointment struct {
	ResourceType string                   `json:"resourceType"`
	ID           string                   `json:"id,omitempty"`
	Status       string                   `json:"status"`
	Description  string                   `json:"description,omitempty"`
	Start        *time.Time               `json:"start,omitempty"`
	End          *time.Time               `json:"end,omitempty"`
	Slot         []Reference              `json:"slot,omitempty"`
	Participant  []AppointmentParticipant `json:"participant,omitempty"`
	Extension    []Extension              `json:"extension,omitempty"`
	Meta         *Meta                    `json:"meta,omitempty"`
}

// SlotIDs collects every referenced slot id: the direct slot array first,
// then any reference-typed extensions pointing at Slot resources.
func (a *Appointment) SlotIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(ref string) {
		id, ok := ReferenceID(ref, "Slot")
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}
	for _, ref := range a.Slot {
		add(ref.Reference)
	}
	for _, ext := range a.Extension {
		if ext.ValueReference != nil {
			add(ext.ValueReference.Reference)
		}
	}
	return ids
}

// Encounter is the subset of the FHIR Encounter resource the engine guards.
type Encounter struct {
	ResourceType string      `json:"resourceType"`
	ID           string      `json:"id,omitempty"`
	Status       string      `json:"status"`
	Class        *Coding     `json:"class,omitempty"`
	Subject      *Reference  `json:"subject,omitempty"`
	Appointment  []Reference `json:"appointment,omitempty"`
	Period       *Period     `json:"period,omitempty"`
	Meta         *Meta       `json:"meta,omitempty"`
}

// Bundle is a FHIR search result container.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	Type         string        `json:"type,omitempty"`
	Total        int           `json:"total,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

type BundleEntry struct {
	Resource json.RawMessage `json:"resource"`
}

// PatchOperation is a single JSON Patch operation (RFC 6902) as accepted by
// the store's PATCH endpoints.
type PatchOperation struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	Value interface{} `json:"value,omitempty"`
	From  string      `json:"from,omitempty"`
}

// ReplaceStatus builds the single-operation patch used for status-only writes.
func ReplaceStatus(status string) []PatchOperation {
	return []PatchOperation{{Op: "replace", Path: "/status", Value: status}}
}

// OperationOutcome represents a FHIR OperationOutcome for errors.
type OperationOutcome struct {
	ResourceType string                  `json:"resourceType"`
	Issue        []OperationOutcomeIssue `json:"issue"`
}

type OperationOutcomeIssue struct {
	Severity    string `json:"severity"`
	Code        string `json:"code"`
	Diagnostics string `json:"diagnostics,omitempty"`
}

func NewOperationOutcome(severity, code, diagnostics string) *OperationOutcome {
	return &OperationOutcome{
		ResourceType: "OperationOutcome",
		Issue: []OperationOutcomeIssue{
			{Severity: severity, Code: code, Diagnostics: diagnostics},
		},
	}
}

func ErrorOutcome(diagnostics string) *OperationOutcome {
	return NewOperationOutcome("error", "processing", diagnostics)
}

// Diagnostics flattens all issue diagnostics into one message.
func (o *OperationOutcome) Diagnostics() string {
	var parts []string
	for _, issue := range o.Issue {
		if issue.Diagnostics != "" {
			parts = append(parts, issue.Diagnostics)
		}
	}
	return strings.Join(parts, "; ")
}
