package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/username/networth/backend/src/models"
	"github.com/username/networth/backend/src/security/validation"
	"github.com/username/networth/backend/src/services"
	"github.com/username/networth/backend/src/utils"
)

type TransactionHandler struct {
	transactions services.TransactionService
}

func NewTransactionHandler(transactions services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	var filter models.TransactionFilter
	if raw := r.URL.Query().Get("account_id"); raw != "" {
		accountID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			sendServiceError(w, r, fmt.Errorf("%w: account_id must be an integer", validation.ErrValidationFailed), "")
			return
		}
		filter.AccountID = &accountID
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		sendServiceError(w, r, err, "")
		return
	}
	filter.Limit = limit

	txs, err := h.transactions.ListTransactions(r.Context(), userID, filter)
	if err != nil {
		sendServiceError(w, r, err, "Failed to retrieve transactions")
		return
	}
	utils.SendJSON(w, http.StatusOK, txs)
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	var req models.NewTransaction
	if !decodeJSON(w, r, &req) {
		return
	}
	tx, err := h.transactions.CreateTransaction(r.Context(), userID, req)
	if err != nil {
		sendServiceError(w, r, err, "Failed to create transaction")
		return
	}
	utils.SendJSON(w, http.StatusCreated, tx)
}

// ExportTransactions streams the ledger as CSV. The body is buffered so a
// failure can still be reported as JSON.
func (h *TransactionHandler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.transactions.ExportTransactionsCSV(r.Context(), userID, &buf); err != nil {
		sendServiceError(w, r, err, "Failed to export transactions")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="transactions-%d.csv"`, userID))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
