package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

// scheduleRequest builds a POST to the schedule endpoint with the given body
// and the run id already bound as a route variable.
func scheduleRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/runs/1/schedule", strings.NewReader(body))
	return mux.SetURLVars(r, map[string]string{"id": "1"})
}

func TestScheduleRejectsNonFutureInstant(t *testing.T) {
	// A nil service would panic if the handler got past validation, so these
	// cases also prove the request is rejected before any state change.
	h := &RunHandler{}

	tests := []struct {
		name string
		body string
	}{
		{"missing body", ``},
		{"missing scheduled_for", `{}`},
		{"zero timestamp", `{"scheduled_for": "0001-01-01T00:00:00Z"}`},
		{
			"past instant",
			fmt.Sprintf(`{"scheduled_for": %q}`, time.Now().Add(-time.Hour).Format(time.RFC3339)),
		},
		{
			"current instant",
			fmt.Sprintf(`{"scheduled_for": %q}`, time.Now().Add(-time.Second).Format(time.RFC3339)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Schedule(rec, scheduleRequest(tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}
