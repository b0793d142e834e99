package models

import "github.com/shopspring/decimal"

// Transaction moves Amount out of FromAccountID and into ToAccountID.
// A nil side is an external party: to-only is income, from-only is an expense.
type Transaction struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	FromAccountID *int64          `json:"from_account_id"`
	ToAccountID   *int64          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          Date            `json:"date"`
}

func (t Transaction) IsFrom(accountID int64) bool {
	return t.FromAccountID != nil && *t.FromAccountID == accountID
}

func (t Transaction) IsTo(accountID int64) bool {
	return t.ToAccountID != nil && *t.ToAccountID == accountID
}

// IsIncome reports a deposit from outside the ledger.
func (t Transaction) IsIncome() bool { return t.FromAccountID == nil && t.ToAccountID != nil }

// IsExpense reports a payment to outside the ledger.
func (t Transaction) IsExpense() bool { return t.FromAccountID != nil && t.ToAccountID == nil }

// TransactionWithAccounts is a transaction with its account names resolved for display.
type TransactionWithAccounts struct {
	Transaction
	FromAccountName *string `json:"from_account_name"`
	ToAccountName   *string `json:"to_account_name"`
}

// NewTransaction is the input for recording a transaction. A zero Date means today.
type NewTransaction struct {
	FromAccountID *int64          `json:"from_account_id"`
	ToAccountID   *int64          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          Date            `json:"date"`
}

type TransactionFilter struct {
	AccountID *int64
	Limit     int
}
