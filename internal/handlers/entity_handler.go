package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"route-backend/internal/models"
	"route-backend/internal/repositories"
	"route-backend/pkg/utils"
)

// EntityHandler serves read endpoints over the canonical entity graph and
// the curated SKU settings (count pointer, shelf life).
type EntityHandler struct {
	LocationRepo *repositories.LocationRepository
	MachineRepo  *repositories.MachineRepository
	SKURepo      *repositories.SKURepository
}

func NewEntityHandler(
	locationRepo *repositories.LocationRepository,
	machineRepo *repositories.MachineRepository,
	skuRepo *repositories.SKURepository,
) *EntityHandler {
	return &EntityHandler{
		LocationRepo: locationRepo,
		MachineRepo:  machineRepo,
		SKURepo:      skuRepo,
	}
}

func (h *EntityHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.LocationRepo.List(r.Context(), companyID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, locations)
}

func (h *EntityHandler) ListMachines(w http.ResponseWriter, r *http.Request) {
	machines, err := h.MachineRepo.List(r.Context(), companyID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, machines)
}

func (h *EntityHandler) ListSKUs(w http.ResponseWriter, r *http.Request) {
	skus, err := h.SKURepo.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, skus)
}

// UpdatePointer changes a SKU's count pointer. Only future pick generation
// is affected; existing frozen counts stay as they are.
func (h *EntityHandler) UpdatePointer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, mux.Vars(r), "id")
	if !ok {
		utils.Error(w, http.StatusBadRequest, "invalid sku id")
		return
	}
	var req models.UpdatePointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !models.ValidCountPointer(req.CountPointer) {
		utils.Error(w, http.StatusBadRequest, "count_pointer must be current, par, need, forecast or total")
		return
	}

	sku, err := h.SKURepo.UpdatePointer(r.Context(), id, req.CountPointer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, sku)
}

// UpdateExpiryDays sets or clears a SKU's default shelf life in days.
func (h *EntityHandler) UpdateExpiryDays(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, mux.Vars(r), "id")
	if !ok {
		utils.Error(w, http.StatusBadRequest, "invalid sku id")
		return
	}
	var req struct {
		ExpiryDays *int `json:"expiry_days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ExpiryDays != nil && *req.ExpiryDays <= 0 {
		utils.Error(w, http.StatusBadRequest, "expiry_days must be positive")
		return
	}

	sku, err := h.SKURepo.UpdateExpiryDays(r.Context(), id, req.ExpiryDays)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, sku)
}
