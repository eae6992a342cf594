package slot

import (
	"time"

	"github.com/carelink/booking/internal/platform/fhir"
)

// Slot statuses per FHIR R4. "entered-in-error" retires a slot; retired
// slots never participate in overlap checks.
var validStatuses = map[string]bool{
	"busy": true, "free": true, "busy-unavailable": true,
	"busy-tentative": true, "entered-in-error": true,
}

const statusRetired = "entered-in-error"

// CreationRequest is one proposed slot in a batch submission.
type CreationRequest struct {
	ResourceType string         `json:"resourceType,omitempty"`
	Schedule     fhir.Reference `json:"schedule"`
	Status       string         `json:"status,omitempty"`
	Start        time.Time      `json:"start"`
	End          time.Time      `json:"end"`
	Comment      string         `json:"comment,omitempty"`
}

// ScheduleID extracts the target schedule id from the request's reference.
func (r *CreationRequest) ScheduleID() string {
	id, _ := fhir.ReferenceID(r.Schedule.Reference, "Schedule")
	return id
}

// Rejection reason codes. Validation and conflict rejections happen before
// any write; commit rejections happen per item during fan-out.
const (
	ReasonValidation            = "validation"
	ReasonConflictSameSchedule  = "conflict-same-schedule"
	ReasonConflictCrossSchedule = "conflict-cross-schedule"
	ReasonConflictInBatch       = "conflict-in-batch"
	ReasonCommitFailed          = "commit-failed"
)

// Rejection pairs a request with why it was not created. No request is ever
// silently dropped: every submitted slot lands in Created or Rejected.
type Rejection struct {
	Slot   CreationRequest `json:"slot"`
	Code   string          `json:"code"`
	Reason string          `json:"reason"`
}

// BatchResult is the unified outcome of validation plus commit.
type BatchResult struct {
	Created  []fhir.Slot
	Rejected []Rejection
}

// BatchRequest is the wire shape accepted by POST /fhir/Slot/$batch.
type BatchRequest struct {
	Slots []CreationRequest `json:"slots"`
}

// BatchResponse is the wire shape returned for a batch submission.
type BatchResponse struct {
	Success  bool         `json:"success"`
	Total    int          `json:"total"`
	Created  int          `json:"created"`
	Rejected int          `json:"rejected"`
	Results  BatchResults `json:"results"`
}

type BatchResults struct {
	Created  []fhir.Slot `json:"created"`
	Rejected []Rejection `json:"rejected"`
}

// NewBatchResponse assembles the response envelope from a result.
func NewBatchResponse(result *BatchResult) *BatchResponse {
	created := result.Created
	if created == nil {
		created = []fhir.Slot{}
	}
	rejected := result.Rejected
	if rejected == nil {
		rejected = []Rejection{}
	}
	return &BatchResponse{
		Success:  len(created) > 0,
		Total:    len(created) + len(rejected),
		Created:  len(created),
		Rejected: len(rejected),
		Results:  BatchResults{Created: created, Rejected: rejected},
	}
}
