package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"route-backend/internal/live"
	"route-backend/internal/models"
	"route-backend/internal/services"
	"route-backend/internal/storage"
	"route-backend/pkg/utils"
)

type PickHandler struct {
	Imports  *services.ImportService
	Picks    *services.PickService
	Sheets   *services.SheetService
	Exporter *storage.Exporter
	Hub      *live.Hub
}

func NewPickHandler(
	imports *services.ImportService,
	picks *services.PickService,
	sheets *services.SheetService,
	exporter *storage.Exporter,
	hub *live.Hub,
) *PickHandler {
	return &PickHandler{
		Imports:  imports,
		Picks:    picks,
		Sheets:   sheets,
		Exporter: exporter,
		Hub:      hub,
	}
}

// Generate reconciles the posted rows and freezes pick lines for the run in
// one request. The reconcile result rides along in the response next to the
// run snapshot so clients can show row failures immediately.
func (h *PickHandler) Generate(w http.ResponseWriter, r *http.Request) {
	runID, ok := pathInt(r, mux.Vars(r), "id")
	if !ok {
		utils.Error(w, http.StatusBadRequest, "invalid run id")
		return
	}

	var req models.ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.RunID = &runID

	result, err := h.Imports.Reconcile(r.Context(), companyID(r), "", &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	snap, err := h.Picks.Generate(r.Context(), runID, result.Resolved)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.notify(runID)
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"reconcile": result,
		"snapshot":  snap,
	})
}

// SetStatus toggles entries to PICKED or SKIPPED.
func (h *PickHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, runID int) (*models.RunSnapshot, error) {
		var req models.SetPickStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, errBadBody
		}
		return h.Picks.SetStatuses(ctx, runID, &req)
	})
}

// Reset forces entries back to PENDING.
func (h *PickHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, runID int) (*models.RunSnapshot, error) {
		var req models.ResetPicksRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, errBadBody
		}
		return h.Picks.Reset(ctx, runID, &req)
	})
}

// SetOverride sets or clears a pick entry's manual count override.
func (h *PickHandler) SetOverride(w http.ResponseWriter, r *http.Request) {
	h.mutateEntry(w, r, func(ctx context.Context, runID, pickID int) (*models.RunSnapshot, error) {
		var req models.SetOverrideRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, errBadBody
		}
		return h.Picks.SetOverride(ctx, runID, pickID, &req)
	})
}

// SetExpiries replaces a pick entry's expiry overrides.
func (h *PickHandler) SetExpiries(w http.ResponseWriter, r *http.Request) {
	h.mutateEntry(w, r, func(ctx context.Context, runID, pickID int) (*models.RunSnapshot, error) {
		var req models.SetExpiriesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, errBadBody
		}
		return h.Picks.SetExpiries(ctx, runID, pickID, &req)
	})
}

// Substitute swaps the SKU behind a pick entry.
func (h *PickHandler) Substitute(w http.ResponseWriter, r *http.Request) {
	h.mutateEntry(w, r, func(ctx context.Context, runID, pickID int) (*models.RunSnapshot, error) {
		var req models.SubstituteSKURequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewSKUID <= 0 {
			return nil, errBadBody
		}
		return h.Picks.Substitute(ctx, runID, pickID, &req)
	})
}

// SheetPDF streams the run's pick sheet as PDF, uploading a copy to the
// export bucket when one is configured.
func (h *PickHandler) SheetPDF(w http.ResponseWriter, r *http.Request) {
	h.sheet(w, r, "pdf", "application/pdf", h.Sheets.GeneratePickSheetPDF)
}

// SheetCSV streams the run's pick sheet as CSV.
func (h *PickHandler) SheetCSV(w http.ResponseWriter, r *http.Request) {
	h.sheet(w, r, "csv", "text/csv", h.Sheets.GeneratePickSheetCSV)
}

func (h *PickHandler) sheet(w http.ResponseWriter, r *http.Request, ext, contentType string, fn func(ctx context.Context, runID int) ([]byte, error)) {
	runID, ok := pathInt(r, mux.Vars(r), "id")
	if !ok {
		utils.Error(w, http.StatusBadRequest, "invalid run id")
		return
	}

	data, err := fn(r.Context(), runID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if h.Exporter != nil {
		if _, err := h.Exporter.UploadPickSheet(r.Context(), runID, ext, data); err != nil {
			// Upload failure doesn't block the download.
			_ = err
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="pick-sheet-run-%d.%s"`, runID, ext))
	w.Write(data)
}

var errBadBody = fmt.Errorf("invalid request body")

func (h *PickHandler) mutate(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, runID int) (*models.RunSnapshot, error)) {
	runID, ok := pathInt(r, mux.Vars(r), "id")
	if !ok {
		utils.Error(w, http.StatusBadRequest, "invalid run id")
		return
	}
	h.respond(w, r, runID, func(ctx context.Context) (*models.RunSnapshot, error) {
		return fn(ctx, runID)
	})
}

func (h *PickHandler) mutateEntry(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, runID, pickID int) (*models.RunSnapshot, error)) {
	vars := mux.Vars(r)
	runID, ok := pathInt(r, vars, "id")
	if !ok {
		utils.Error(w, http.StatusBadRequest, "invalid run id")
		return
	}
	pickID, ok := pathInt(r, vars, "pickId")
	if !ok {
		utils.Error(w, http.StatusBadRequest, "invalid pick id")
		return
	}
	h.respond(w, r, runID, func(ctx context.Context) (*models.RunSnapshot, error) {
		return fn(ctx, runID, pickID)
	})
}

func (h *PickHandler) respond(w http.ResponseWriter, r *http.Request, runID int, fn func(ctx context.Context) (*models.RunSnapshot, error)) {
	snap, err := fn(r.Context())
	if err != nil {
		if err == errBadBody {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}
	h.notify(runID)
	utils.JSON(w, http.StatusOK, snap)
}

func (h *PickHandler) notify(runID int) {
	h.Hub.Notify(live.RunUpdate{RunID: runID, Kind: "picks"})
}
