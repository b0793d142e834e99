package handlers

import (
	"context"
	"net/http"

	"github.com/username/networth/backend/src/models"
	"github.com/username/networth/backend/src/security/validation"
	"github.com/username/networth/backend/src/services"
	"github.com/username/networth/backend/src/utils"
)

// PropertyHandler serves the address and valuation history of REAL_ESTATE accounts.
type PropertyHandler struct {
	properties services.PropertyService
}

func NewPropertyHandler(properties services.PropertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	accountID, ok := idParam(w, r, "accountID")
	if !ok {
		return
	}
	p, err := h.properties.GetProperty(r.Context(), userID, accountID)
	if err != nil {
		sendServiceError(w, r, err, "Failed to retrieve property")
		return
	}
	utils.SendJSON(w, http.StatusOK, p)
}

func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	h.saveProperty(w, r, http.StatusCreated, h.properties.CreateProperty)
}

func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	h.saveProperty(w, r, http.StatusOK, h.properties.UpdateProperty)
}

type propertySaver func(ctx context.Context, userID, accountID int64, input services.PropertyInput) (*models.RealEstateProperty, error)

func (h *PropertyHandler) saveProperty(w http.ResponseWriter, r *http.Request, status int, save propertySaver) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	accountID, ok := idParam(w, r, "accountID")
	if !ok {
		return
	}
	var req services.PropertyInput
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := save(r.Context(), userID, accountID, req)
	if err != nil {
		sendServiceError(w, r, err, "Failed to save property")
		return
	}
	utils.SendJSON(w, status, p)
}

// ListValuations takes either ?limit=N or both ?from= and ?to=.
func (h *PropertyHandler) ListValuations(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	accountID, ok := idParam(w, r, "accountID")
	if !ok {
		return
	}

	var query services.ValuationQuery
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		sendServiceError(w, r, err, "Invalid limit")
		return
	}
	query.Limit = limit
	for _, p := range []struct {
		name string
		dst  **models.Date
	}{{"from", &query.From}, {"to", &query.To}} {
		raw := r.URL.Query().Get(p.name)
		if raw == "" {
			continue
		}
		d, err := validation.ValidateDateString(raw, p.name)
		if err != nil {
			sendServiceError(w, r, err, "Invalid date")
			return
		}
		*p.dst = &d
	}

	vals, err := h.properties.ListValuations(r.Context(), userID, accountID, query)
	if err != nil {
		sendServiceError(w, r, err, "Failed to retrieve valuations")
		return
	}
	utils.SendJSON(w, http.StatusOK, vals)
}

func (h *PropertyHandler) AddValuation(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	accountID, ok := idParam(w, r, "accountID")
	if !ok {
		return
	}
	var req services.ValuationInput
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := h.properties.AddValuation(r.Context(), userID, accountID, req)
	if err != nil {
		sendServiceError(w, r, err, "Failed to save valuation")
		return
	}
	utils.SendJSON(w, http.StatusCreated, v)
}
