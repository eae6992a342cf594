package encounter

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{"planned", "arrived"},
		{"planned", "in-progress"},
		{"planned", "entered-in-error"},
		{"arrived", "triaged"},
		{"triaged", "in-progress"},
		{"in-progress", "onleave"},
		{"in-progress", "finished"},
		{"onleave", "in-progress"},
		{"onleave", "finished"},
		{"finished", "entered-in-error"},
		{"cancelled", "entered-in-error"},
	}
	for _, tc := range allowed {
		if err := ValidateTransition(tc.from, tc.to); err != nil {
			t.Errorf("%s -> %s should be allowed: %v", tc.from, tc.to, err)
		}
	}

	denied := []struct{ from, to string }{
		{"finished", "in-progress"},
		{"finished", "planned"},
		{"cancelled", "in-progress"},
		{"arrived", "finished"},
		{"triaged", "arrived"},
		{"in-progress", "planned"},
		{"entered-in-error", "planned"},
		{"planned", "planned"},
	}
	for _, tc := range denied {
		err := ValidateTransition(tc.from, tc.to)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s -> %s should be denied, got %v", tc.from, tc.to, err)
		}
	}
}

func TestValidateTransition_ErrorNamesBothStatuses(t *testing.T) {
	err := ValidateTransition("finished", "in-progress")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "finished") || !strings.Contains(err.Error(), "in-progress") {
		t.Errorf("error must name both statuses: %v", err)
	}
}
