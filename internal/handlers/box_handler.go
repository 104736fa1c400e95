package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"route-backend/internal/models"
	"route-backend/internal/repositories"
	"route-backend/pkg/utils"
)

// BoxHandler manages the numbered chocolate boxes riding along with a run.
type BoxHandler struct {
	BoxRepo *repositories.ChocolateBoxRepository
	RunRepo *repositories.RunRepository
}

func NewBoxHandler(boxRepo *repositories.ChocolateBoxRepository, runRepo *repositories.RunRepository) *BoxHandler {
	return &BoxHandler{BoxRepo: boxRepo, RunRepo: runRepo}
}

func (h *BoxHandler) Create(w http.ResponseWriter, r *http.Request) {
	runID, ok := pathInt(r, mux.Vars(r), "id")
	if !ok {
		utils.Error(w, http.StatusBadRequest, "invalid run id")
		return
	}
	var req models.CreateBoxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Number <= 0 || req.MachineID <= 0 {
		utils.Error(w, http.StatusBadRequest, "number and machine_id are required")
		return
	}

	run, err := h.RunRepo.Get(r.Context(), runID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if run.Status.IsLocked() || run.Status.IsTerminal() {
		writeServiceError(w, models.ErrRunLocked)
		return
	}

	box := &models.ChocolateBox{RunID: runID, Number: req.Number, MachineID: req.MachineID}
	if err := h.BoxRepo.Create(r.Context(), box); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, box)
}

func (h *BoxHandler) List(w http.ResponseWriter, r *http.Request) {
	runID, ok := pathInt(r, mux.Vars(r), "id")
	if !ok {
		utils.Error(w, http.StatusBadRequest, "invalid run id")
		return
	}
	boxes, err := h.BoxRepo.ListByRun(r.Context(), runID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, boxes)
}

func (h *BoxHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	runID, ok := pathInt(r, vars, "id")
	if !ok {
		utils.Error(w, http.StatusBadRequest, "invalid run id")
		return
	}
	boxID, ok := pathInt(r, vars, "boxId")
	if !ok {
		utils.Error(w, http.StatusBadRequest, "invalid box id")
		return
	}
	if err := h.BoxRepo.Delete(r.Context(), runID, boxID); err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}
	utils.JSON(w, http.StatusNoContent, nil)
}
