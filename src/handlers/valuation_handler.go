package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/username/networth/backend/src/logger"
	"github.com/username/networth/backend/src/services"
	"github.com/username/networth/backend/src/utils"
)

// ValuationHandler exposes the property revaluation job to operators and the scheduler.
type ValuationHandler struct {
	job        services.ValuationJob
	cronSecret string
}

func NewValuationHandler(job services.ValuationJob, cronSecret string) *ValuationHandler {
	return &ValuationHandler{job: job, cronSecret: cronSecret}
}

type triggerValuationsRequest struct {
	Action    string `json:"action"`
	AccountID int64  `json:"account_id"`
}

// TriggerValuations runs the job for every property or for one account.
func (h *ValuationHandler) TriggerValuations(w http.ResponseWriter, r *http.Request) {
	var req triggerValuationsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	switch req.Action {
	case "all":
		summary, err := h.job.ProcessAllProperties(r.Context())
		if err != nil {
			sendServiceError(w, r, err, "Valuation run failed")
			return
		}
		utils.SendJSON(w, http.StatusOK, summary)
	case "single":
		if req.AccountID <= 0 {
			utils.SendJSONError(w, "account_id is required for a single valuation", http.StatusBadRequest)
			return
		}
		result, err := h.job.ProcessSingleProperty(r.Context(), req.AccountID)
		if err != nil {
			sendServiceError(w, r, err, "Valuation failed")
			return
		}
		utils.SendJSON(w, http.StatusOK, result)
	default:
		utils.SendJSONError(w, `action must be "all" or "single"`, http.StatusBadRequest)
	}
}

// CronValuations is the scheduler entry point. When a cron secret is
// configured the caller must present it as a bearer token.
func (h *ValuationHandler) CronValuations(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	if h.cronSecret != "" {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.cronSecret)) != 1 {
			ctxLogger.Warn("Rejected cron request with bad credentials")
			utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	ctxLogger.Info("Scheduled property valuation started")
	summary, err := h.job.ProcessAllProperties(r.Context())
	if err != nil {
		sendServiceError(w, r, err, "Valuation run failed")
		return
	}
	utils.SendJSON(w, http.StatusOK, summary)
}
