package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/username/networth/backend/src/logger"
	"github.com/username/networth/backend/src/security/validation"
	"github.com/username/networth/backend/src/services"
	"github.com/username/networth/backend/src/utils"
)

const maxBodyBytes = 1 << 20

// sendServiceError maps service errors onto status codes. Anything
// unrecognised is logged and reported as a generic failure.
func sendServiceError(w http.ResponseWriter, r *http.Request, err error, failMsg string) {
	var refErr *services.ReferentialIntegrityError
	switch {
	case errors.Is(err, validation.ErrValidationFailed):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound):
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &refErr):
		utils.SendJSONError(w, refErr.Error(), http.StatusConflict)
	default:
		logger.FromContext(r.Context()).Error(failMsg, "path", r.URL.Path, "error", err)
		utils.SendJSONError(w, failMsg, http.StatusInternalServerError)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

// idParam parses a positive integer chi path parameter.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Invalid %s", name), http.StatusBadRequest)
		return 0, false
	}
	if err := validation.ValidateID(id, name); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// scopedUser returns the user resolved by UserScopeMiddleware.
func scopedUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User scope missing", http.StatusInternalServerError)
	}
	return userID, ok
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", validation.ErrValidationFailed, name)
	}
	return v, nil
}
