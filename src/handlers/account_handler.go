package handlers

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/username/networth/backend/src/models"
	"github.com/username/networth/backend/src/security/validation"
	"github.com/username/networth/backend/src/services"
	"github.com/username/networth/backend/src/utils"
)

type AccountHandler struct {
	accounts services.AccountService
}

func NewAccountHandler(accounts services.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type createAccountRequest struct {
	Name           string                  `json:"name"`
	Type           string                  `json:"type"`
	InitialBalance decimal.Decimal         `json:"initial_balance"`
	Property       *services.PropertyInput `json:"property,omitempty"`
}

type updateAccountRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	accounts, err := h.accounts.ListAccounts(r.Context(), userID)
	if err != nil {
		sendServiceError(w, r, err, "Failed to retrieve accounts")
		return
	}
	utils.SendJSON(w, http.StatusOK, accounts)
}

// CreateAccount opens an account with its initial balance. A property may
// only accompany a REAL_ESTATE account.
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	var req createAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	accountType, err := models.ParseAccountType(req.Type)
	if err != nil {
		sendServiceError(w, r, fmt.Errorf("%w: %v", validation.ErrValidationFailed, err), "Failed to create account")
		return
	}

	var account *models.AccountWithBalance
	switch {
	case req.Property != nil && accountType != models.AccountTypeRealEstate:
		utils.SendJSONError(w, "Only real estate accounts can have a property", http.StatusBadRequest)
		return
	case req.Property != nil:
		account, err = h.accounts.CreateRealEstateAccount(r.Context(), userID, req.Name, req.InitialBalance, *req.Property)
	default:
		account, err = h.accounts.CreateAccountWithInitialBalance(r.Context(), userID, req.Name, accountType, req.InitialBalance)
	}
	if err != nil {
		sendServiceError(w, r, err, "Failed to create account")
		return
	}
	utils.SendJSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	accountID, ok := idParam(w, r, "accountID")
	if !ok {
		return
	}
	account, err := h.accounts.GetAccount(r.Context(), userID, accountID)
	if err != nil {
		sendServiceError(w, r, err, "Failed to retrieve account")
		return
	}
	utils.SendJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	accountID, ok := idParam(w, r, "accountID")
	if !ok {
		return
	}
	var req updateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	accountType, err := models.ParseAccountType(req.Type)
	if err != nil {
		sendServiceError(w, r, fmt.Errorf("%w: %v", validation.ErrValidationFailed, err), "Failed to update account")
		return
	}
	account, err := h.accounts.UpdateAccount(r.Context(), userID, accountID, req.Name, accountType)
	if err != nil {
		sendServiceError(w, r, err, "Failed to update account")
		return
	}
	utils.SendJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := scopedUser(w, r)
	if !ok {
		return
	}
	accountID, ok := idParam(w, r, "accountID")
	if !ok {
		return
	}
	if err := h.accounts.DeleteAccount(r.Context(), userID, accountID); err != nil {
		sendServiceError(w, r, err, "Failed to delete account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAccountTypes serves the closed set of account types with their categories.
func ListAccountTypes(w http.ResponseWriter, r *http.Request) {
	type accountTypeInfo struct {
		Type        models.AccountType `json:"type"`
		Category    models.Category    `json:"category"`
		DisplayName string             `json:"display_name"`
	}
	types := models.AccountTypes()
	out := make([]accountTypeInfo, 0, len(types))
	for _, t := range types {
		out = append(out, accountTypeInfo{Type: t, Category: t.Category(), DisplayName: t.DisplayName()})
	}
	utils.SendJSON(w, http.StatusOK, out)
}
