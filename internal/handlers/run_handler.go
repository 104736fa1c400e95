package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"route-backend/internal/live"
	"route-backend/internal/models"
	"route-backend/internal/services"
	"route-backend/pkg/utils"
)

type RunHandler struct {
	Runs  *services.RunService
	Picks *services.PickService
	Hub   *live.Hub
}

func NewRunHandler(runs *services.RunService, picks *services.PickService, hub *live.Hub) *RunHandler {
	return &RunHandler{Runs: runs, Picks: picks, Hub: hub}
}

func (h *RunHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	run, err := h.Runs.Create(r.Context(), companyID(r), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, run)
}

// List returns runs, optionally filtered by a comma-separated status list.
func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	var statuses []models.RunStatus
	if v := r.URL.Query().Get("status"); v != "" {
		for _, s := range strings.Split(v, ",") {
			statuses = append(statuses, models.RunStatus(strings.ToUpper(strings.TrimSpace(s))))
		}
	}
	runs, err := h.Runs.List(r.Context(), companyID(r), statuses)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, runs)
}

// Get returns the full run snapshot with entries and tallies.
func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, mux.Vars(r), "id")
	if !ok {
		utils.Error(w, http.StatusBadRequest, "invalid run id")
		return
	}
	snap, err := h.Picks.Snapshot(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, snap)
}

func (h *RunHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, mux.Vars(r), "id")
	if !ok {
		utils.Error(w, http.StatusBadRequest, "invalid run id")
		return
	}
	var req models.ScheduleRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ScheduledFor.IsZero() {
		utils.Error(w, http.StatusBadRequest, "scheduled_for is required")
		return
	}
	if !req.ScheduledFor.After(time.Now()) {
		utils.Error(w, http.StatusBadRequest, "scheduled_for must be in the future")
		return
	}
	h.respondTransition(w, r, id, func(ctx context.Context) (*models.Run, error) {
		return h.Runs.Schedule(ctx, id, &req)
	})
}

func (h *RunHandler) StartDelivery(w http.ResponseWriter, r *http.Request) {
	h.event(w, r, h.Runs.StartDelivery)
}

func (h *RunHandler) CompleteDelivery(w http.ResponseWriter, r *http.Request) {
	h.event(w, r, h.Runs.CompleteDelivery)
}

func (h *RunHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.event(w, r, h.Runs.Cancel)
}

func (h *RunHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.event(w, r, h.Runs.Archive)
}

func (h *RunHandler) event(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int) (*models.Run, error)) {
	id, ok := pathInt(r, mux.Vars(r), "id")
	if !ok {
		utils.Error(w, http.StatusBadRequest, "invalid run id")
		return
	}
	h.respondTransition(w, r, id, func(ctx context.Context) (*models.Run, error) {
		return fn(ctx, id)
	})
}

func (h *RunHandler) respondTransition(w http.ResponseWriter, r *http.Request, id int, fn func(ctx context.Context) (*models.Run, error)) {
	run, err := fn(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.Hub.Notify(live.RunUpdate{RunID: id, Kind: "status", Status: string(run.Status)})
	utils.JSON(w, http.StatusOK, run)
}
