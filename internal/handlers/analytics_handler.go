package handlers

import (
	"net/http"

	"route-backend/internal/models"
	"route-backend/internal/services"
	"route-backend/pkg/utils"
)

type AnalyticsHandler struct {
	Analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{Analytics: analytics}
}

// Breakdown serves the time-bucketed picked-quantity series.
// Query: aggregation (day|week|month|quarter), focus (sku|machine|location),
// tz (IANA zone, optional).
func (h *AnalyticsHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	agg := models.Aggregation(r.URL.Query().Get("aggregation"))
	if agg == "" {
		agg = models.AggWeek
	}
	focus := models.Focus(r.URL.Query().Get("focus"))
	if focus == "" {
		focus = models.FocusSKU
	}
	if !models.ValidAggregation(agg) {
		utils.Error(w, http.StatusBadRequest, "aggregation must be day, week, month or quarter")
		return
	}
	if !models.ValidFocus(focus) {
		utils.Error(w, http.StatusBadRequest, "focus must be sku, machine or location")
		return
	}

	series, err := h.Analytics.Breakdown(r.Context(), agg, focus, r.URL.Query().Get("tz"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, series)
}

// Momentum serves the week-over-week leaders across all entity dimensions.
func (h *AnalyticsHandler) Momentum(w http.ResponseWriter, r *http.Request) {
	report, err := h.Analytics.Momentum(r.Context(), r.URL.Query().Get("tz"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, report)
}
