package handlers

import (
	"net/http"

	"github.com/username/networth/backend/src/services"
	"github.com/username/networth/backend/src/utils"
)

// HoldingsHandler serves standalone assets and liabilities.
type HoldingsHandler struct {
	holdings services.HoldingsService
}

func NewHoldingsHandler(holdings services.HoldingsService) *HoldingsHandler {
	return &HoldingsHandler{holdings: holdings}
}

func (h *HoldingsHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	assets, err := h.holdings.ListAssets(r.Context(), userID)
	if err != nil {
		sendServiceError(w, r, err, "Failed to retrieve assets")
		return
	}
	utils.SendJSON(w, http.StatusOK, assets)
}

func (h *HoldingsHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	var req services.AssetInput
	if !decodeJSON(w, r, &req) {
		return
	}
	asset, err := h.holdings.CreateAsset(r.Context(), userID, req)
	if err != nil {
		sendServiceError(w, r, err, "Failed to create asset")
		return
	}
	utils.SendJSON(w, http.StatusCreated, asset)
}

func (h *HoldingsHandler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	assetID, ok := idParam(w, r, "assetID")
	if !ok {
		return
	}
	var req services.AssetInput
	if !decodeJSON(w, r, &req) {
		return
	}
	asset, err := h.holdings.UpdateAsset(r.Context(), userID, assetID, req)
	if err != nil {
		sendServiceError(w, r, err, "Failed to update asset")
		return
	}
	utils.SendJSON(w, http.StatusOK, asset)
}

func (h *HoldingsHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	assetID, ok := idParam(w, r, "assetID")
	if !ok {
		return
	}
	if err := h.holdings.DeleteAsset(r.Context(), userID, assetID); err != nil {
		sendServiceError(w, r, err, "Failed to delete asset")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HoldingsHandler) ListLiabilities(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	liabilities, err := h.holdings.ListLiabilities(r.Context(), userID)
	if err != nil {
		sendServiceError(w, r, err, "Failed to retrieve liabilities")
		return
	}
	utils.SendJSON(w, http.StatusOK, liabilities)
}

func (h *HoldingsHandler) CreateLiability(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	var req services.LiabilityInput
	if !decodeJSON(w, r, &req) {
		return
	}
	liability, err := h.holdings.CreateLiability(r.Context(), userID, req)
	if err != nil {
		sendServiceError(w, r, err, "Failed to create liability")
		return
	}
	utils.SendJSON(w, http.StatusCreated, liability)
}

func (h *HoldingsHandler) UpdateLiability(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	liabilityID, ok := idParam(w, r, "liabilityID")
	if !ok {
		return
	}
	var req services.LiabilityInput
	if !decodeJSON(w, r, &req) {
		return
	}
	liability, err := h.holdings.UpdateLiability(r.Context(), userID, liabilityID, req)
	if err != nil {
		sendServiceError(w, r, err, "Failed to update liability")
		return
	}
	utils.SendJSON(w, http.StatusOK, liability)
}

func (h *HoldingsHandler) DeleteLiability(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	liabilityID, ok := idParam(w, r, "liabilityID")
	if !ok {
		return
	}
	if err := h.holdings.DeleteLiability(r.Context(), userID, liabilityID); err != nil {
		sendServiceError(w, r, err, "Failed to delete liability")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
