package fhir

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned when the store reports 404 for a resource read.
var ErrNotFound = errors.New("resource not found in FHIR store")

// StoreError carries a non-2xx response from the store, with the decoded
// OperationOutcome diagnostics when the body contained one.
type StoreError struct {
	StatusCode  int
	Diagnostics string
}

func (e *StoreError) Error() string {
	if e.Diagnostics == "" {
		return fmt.Sprintf("FHIR store returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("FHIR store returned status %d: %s", e.StatusCode, e.Diagnostics)
}

type tokenKey struct{}

// WithToken stores the caller's upstream bearer credential on the context.
// The outer layer has already authenticated the caller; the client only
// forwards the credential verbatim.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the bearer credential stored on the context, if any.
func TokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

// Client is a thin REST client for the external FHIR store. It is safe for
// concurrent use; all state is per-request.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/fhir+json")
	if body != nil {
		if contentType == "" {
			contentType = "application/fhir+json"
		}
		req.Header.Set("Content-Type", contentType)
	}
	if tok := TokenFrom(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	storeErr := &StoreError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(data) > 0 {
		var outcome OperationOutcome
		if json.Unmarshal(data, &outcome) == nil && outcome.ResourceType == "OperationOutcome" {
			storeErr.Diagnostics = outcome.Diagnostics()
		}
	}
	return storeErr
}

func decodeBundle[T any](bundle *Bundle) []T {
	out := make([]T, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		var res T
		if err := json.Unmarshal(entry.Resource, &res); err != nil {
			continue
		}
		out = append(out, res)
	}
	return out
}

// -- Schedule --

func (c *Client) GetSchedule(ctx context.Context, id string) (*Schedule, error) {
	var sched Schedule
	if err := c.do(ctx, http.MethodGet, "/Schedule/"+id, nil, "", nil, &sched); err != nil {
		return nil, err
	}
	return &sched, nil
}

// SearchSchedulesByActor returns every schedule whose actor matches the given
// reference (typically "Practitioner/<id>").
func (c *Client) SearchSchedulesByActor(ctx context.Context, actorRef string) ([]Schedule, error) {
	q := url.Values{}
	q.Set("actor", actorRef)

	var bundle Bundle
	if err := c.do(ctx, http.MethodGet, "/Schedule", q, "", nil, &bundle); err != nil {
		return nil, err
	}
	return decodeBundle[Schedule](&bundle), nil
}

// -- Slot --

func (c *Client) GetSlot(ctx context.Context, id string) (*Slot, error) {
	var sl Slot
	if err := c.do(ctx, http.MethodGet, "/Slot/"+id, nil, "", nil, &sl); err != nil {
		return nil, err
	}
	return &sl, nil
}

// SearchSlots issues the single wide query used by batch validation: all slots
// across the given schedules whose start falls within [from, to).
func (c *Client) SearchSlots(ctx context.Context, scheduleIDs []string, from, to time.Time) ([]Slot, error) {
	q := url.Values{}
	q.Set("schedule", strings.Join(scheduleIDs, ","))
	q.Add("start", "ge"+from.UTC().Format(time.RFC3339))
	q.Add("start", "lt"+to.UTC().Format(time.RFC3339))

	var bundle Bundle
	if err := c.do(ctx, http.MethodGet, "/Slot", q, "", nil, &bundle); err != nil {
		return nil, err
	}
	return decodeBundle[Slot](&bundle), nil
}

func (c *Client) CreateSlot(ctx context.Context, sl *Slot) (*Slot, error) {
	sl.ResourceType = "Slot"
	var created Slot
	if err := c.do(ctx, http.MethodPost, "/Slot", nil, "", sl, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// PatchSlotStatus issues the targeted status-only patch the synchronizer uses.
func (c *Client) PatchSlotStatus(ctx context.Context, id, status string) error {
	return c.do(ctx, http.MethodPatch, "/Slot/"+id, nil, "application/json-patch+json",
		ReplaceStatus(status), nil)
}

// -- Appointment --

func (c *Client) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	var appt Appointment
	if err := c.do(ctx, http.MethodGet, "/Appointment/"+id, nil, "", nil, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (c *Client) CreateAppointment(ctx context.Context, appt *Appointment) (*Appointment, error) {
	appt.ResourceType = "Appointment"
	var created Appointment
	if err := c.do(ctx, http.MethodPost, "/Appointment", nil, "", appt, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateAppointment(ctx context.Context, appt *Appointment) (*Appointment, error) {
	appt.ResourceType = "Appointment"
	var updated Appointment
	if err := c.do(ctx, http.MethodPut, "/Appointment/"+appt.ID, nil, "", appt, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) PatchAppointment(ctx context.Context, id string, ops []PatchOperation) (*Appointment, error) {
	var updated Appointment
	if err := c.do(ctx, http.MethodPatch, "/Appointment/"+id, nil, "application/json-patch+json", ops, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// -- Encounter --

func (c *Client) GetEncounter(ctx context.Context, id string) (*Encounter, error) {
	var enc Encounter
	if err := c.do(ctx, http.MethodGet, "/Encounter/"+id, nil, "", nil, &enc); err != nil {
		return nil, err
	}
	return &enc, nil
}

func (c *Client) PatchEncounter(ctx context.Context, id string, ops []PatchOperation) (*Encounter, error) {
	var updated Encounter
	if err := c.do(ctx, http.MethodPatch, "/Encounter/"+id, nil, "application/json-patch+json", ops, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Ping checks upstream reachability via the capability statement.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/metadata", nil, "", nil, nil)
}
