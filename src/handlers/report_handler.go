package handlers

import (
	"net/http"

	"github.com/username/networth/backend/src/models"
	"github.com/username/networth/backend/src/security/validation"
	"github.com/username/networth/backend/src/services"
	"github.com/username/networth/backend/src/utils"
)

const defaultTrendMonths = 6

type ReportHandler struct {
	reports services.ReportService
}

func NewReportHandler(reports services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// asOfParam reads ?as_of=YYYY-MM-DD, defaulting to today.
func asOfParam(r *http.Request) (models.Date, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return models.Today(), nil
	}
	return validation.ValidateDateString(raw, "as_of")
}

func (h *ReportHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	asOf, err := asOfParam(r)
	if err != nil {
		sendServiceError(w, r, err, "Invalid as_of")
		return
	}
	overview, err := h.reports.GetOverview(r.Context(), userID, asOf)
	if err != nil {
		sendServiceError(w, r, err, "Failed to compute overview")
		return
	}
	utils.SendJSON(w, http.StatusOK, overview)
}

func (h *ReportHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	months, err := queryInt(r, "months", defaultTrendMonths)
	if err != nil {
		sendServiceError(w, r, err, "Invalid months")
		return
	}
	asOf, err := asOfParam(r)
	if err != nil {
		sendServiceError(w, r, err, "Invalid as_of")
		return
	}
	trend, err := h.reports.GetTrend(r.Context(), userID, months, asOf)
	if err != nil {
		sendServiceError(w, r, err, "Failed to compute trend")
		return
	}
	utils.SendJSON(w, http.StatusOK, trend)
}

func (h *ReportHandler) GetAllocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	slices, err := h.reports.GetAllocation(r.Context(), userID)
	if err != nil {
		sendServiceError(w, r, err, "Failed to compute allocation")
		return
	}
	utils.SendJSON(w, http.StatusOK, slices)
}
