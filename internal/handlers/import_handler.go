package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"route-backend/internal/models"
	"route-backend/internal/repositories"
	"route-backend/internal/services"
	"route-backend/pkg/utils"
)

// maxUploadBytes caps spreadsheet uploads at 10 MB.
const maxUploadBytes = 10 << 20

type ImportHandler struct {
	Imports       *services.ImportService
	RunImportRepo *repositories.RunImportRepository
}

func NewImportHandler(imports *services.ImportService, runImportRepo *repositories.RunImportRepository) *ImportHandler {
	return &ImportHandler{Imports: imports, RunImportRepo: runImportRepo}
}

// Reconcile accepts rows as JSON and reconciles them against the entity
// graph. Returns 200 with partial results even when some rows fail.
func (h *ImportHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req models.ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Imports.Reconcile(r.Context(), companyID(r), "", &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

// Upload accepts an xlsx file as multipart form data, parses it, and runs
// the same reconciliation as the JSON endpoint.
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	rows, err := services.ParseSpreadsheet(file)
	if err != nil {
		utils.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	req := &models.ReconcileRequest{Rows: rows}
	if v := r.FormValue("run_id"); v != "" {
		if runID, err := strconv.Atoi(v); err == nil && runID > 0 {
			req.RunID = &runID
		}
	}

	result, err := h.Imports.Reconcile(r.Context(), companyID(r), header.Filename, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

// List returns recent import batch headers for audit.
func (h *ImportHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	imports, err := h.RunImportRepo.ListImports(r.Context(), companyID(r), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, imports)
}
