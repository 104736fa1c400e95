package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"route-backend/internal/models"
	"route-backend/pkg/utils"
)

// writeServiceError maps domain errors onto HTTP statuses in one place so
// every handler reports the same way.
func writeServiceError(w http.ResponseWriter, err error) {
	var transitionErr *models.TransitionError
	var pickTransitionErr *models.PickTransitionError
	var overrideErr *models.InvalidOverrideError

	switch {
	case errors.Is(err, models.ErrRunNotFound),
		errors.Is(err, models.ErrPickEntryNotFound),
		errors.Is(err, models.ErrSKUNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrRunLocked),
		errors.Is(err, models.ErrDuplicateBoxNumber),
		errors.Is(err, models.ErrSKUAlreadyInCoil):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.As(err, &transitionErr), errors.As(err, &pickTransitionErr):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.As(err, &overrideErr):
		utils.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrStoreUnavailable):
		utils.Error(w, http.StatusServiceUnavailable, err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

// companyID reads the acting company from the X-Company-ID header, defaulting
// to the first company for single-tenant deployments.
func companyID(r *http.Request) int {
	if v := r.Header.Get("X-Company-ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil && id > 0 {
			return id
		}
	}
	return 1
}

func pathInt(r *http.Request, vars map[string]string, name string) (int, bool) {
	id, err := strconv.Atoi(vars[name])
	return id, err == nil && id > 0
}
