package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"route-backend/internal/models"
)

func TestWriteServiceErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"run not found", models.ErrRunNotFound, http.StatusNotFound},
		{"pick entry not found", models.ErrPickEntryNotFound, http.StatusNotFound},
		{"sku not found", models.ErrSKUNotFound, http.StatusNotFound},
		{"locked run", models.ErrRunLocked, http.StatusConflict},
		{"duplicate box number", models.ErrDuplicateBoxNumber, http.StatusConflict},
		{"sku already in coil", models.ErrSKUAlreadyInCoil, http.StatusConflict},
		{
			"bad run transition",
			&models.TransitionError{From: models.RunCompleted, Event: models.RunEventCancelled},
			http.StatusConflict,
		},
		{
			"invalid override",
			&models.InvalidOverrideError{Value: -1, Reason: "must be positive"},
			http.StatusUnprocessableEntity,
		},
		{
			"store gave up",
			fmt.Errorf("%w: dial tcp refused", models.ErrStoreUnavailable),
			http.StatusServiceUnavailable,
		},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
		})
	}
}

func TestCompanyIDHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"absent defaults to first company", "", 1},
		{"valid header", "7", 7},
		{"garbage falls back", "abc", 1},
		{"non-positive falls back", "0", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
			if tt.header != "" {
				r.Header.Set("X-Company-ID", tt.header)
			}
			if got := companyID(r); got != tt.want {
				t.Errorf("companyID = %d, want %d", got, tt.want)
			}
		})
	}
}
