package services

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/username/networth/backend/src/logger"
	"github.com/username/networth/backend/src/model"
	"github.com/username/networth/backend/src/models"
	"github.com/username/networth/backend/src/security/validation"
)

const MaxTransactionListLimit = 1000

type transactionServiceImpl struct {
	db *sql.DB
}

func NewTransactionService(db *sql.DB) TransactionService {
	return &transactionServiceImpl{db: db}
}

// CreateTransaction validates input against the ledger rules before storing it.
// Every account named on either side must belong to the user.
func (s *transactionServiceImpl) CreateTransaction(ctx context.Context, userID int64, input models.NewTransaction) (*models.Transaction, error) {
	log := logger.FromContext(ctx)

	if err := validation.ValidateAmount(input.Amount, "amount", validation.Positive); err != nil {
		return nil, err
	}
	if input.FromAccountID == nil && input.ToAccountID == nil {
		return nil, fmt.Errorf("%w: a transaction needs a from account, a to account, or both", validation.ErrValidationFailed)
	}
	if input.FromAccountID != nil && input.ToAccountID != nil && *input.FromAccountID == *input.ToAccountID {
		return nil, fmt.Errorf("%w: from and to accounts must differ", validation.ErrValidationFailed)
	}
	if err := ensureUser(ctx, s.db, userID); err != nil {
		return nil, err
	}
	for _, side := range []*int64{input.FromAccountID, input.ToAccountID} {
		if side == nil {
			continue
		}
		if err := s.checkOwnedAccount(ctx, userID, *side); err != nil {
			return nil, err
		}
	}

	tx := &models.Transaction{
		UserID:        userID,
		FromAccountID: input.FromAccountID,
		ToAccountID:   input.ToAccountID,
		Amount:        input.Amount,
		Date:          input.Date,
	}
	if tx.Date.IsZero() {
		tx.Date = models.Today()
	}
	if err := model.InsertTransaction(ctx, s.db, tx); err != nil {
		log.Error("Failed to insert transaction", "userID", userID, "error", err)
		return nil, fmt.Errorf("creating transaction: %w", err)
	}
	log.Info("Transaction created", "userID", userID, "transactionID", tx.ID, "amount", tx.Amount.StringFixed(2))
	return tx, nil
}

func (s *transactionServiceImpl) checkOwnedAccount(ctx context.Context, userID, accountID int64) error {
	_, err := model.GetAccount(ctx, s.db, userID, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: account %d does not exist", validation.ErrValidationFailed, accountID)
	}
	if err != nil {
		return fmt.Errorf("loading account %d: %w", accountID, err)
	}
	return nil
}

func (s *transactionServiceImpl) ListTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) ([]models.TransactionWithAccounts, error) {
	if filter.Limit < 0 || filter.Limit > MaxTransactionListLimit {
		return nil, fmt.Errorf("%w: limit must be between 0 and %d", validation.ErrValidationFailed, MaxTransactionListLimit)
	}
	txs, err := model.ListTransactionsWithAccounts(ctx, s.db, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	return txs, nil
}

// ExportTransactionsCSV writes the user's full ledger, newest first.
func (s *transactionServiceImpl) ExportTransactionsCSV(ctx context.Context, userID int64, w io.Writer) error {
	txs, err := model.ListTransactionsWithAccounts(ctx, s.db, userID, models.TransactionFilter{})
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "date", "from_account", "to_account", "amount", "kind"}); err != nil {
		return err
	}
	for _, tx := range txs {
		record := []string{
			fmt.Sprint(tx.ID),
			tx.Date.String(),
			csvName(tx.FromAccountName),
			csvName(tx.ToAccountName),
			tx.Amount.StringFixed(2),
			kindOf(tx.Transaction),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvName(name *string) string {
	if name == nil {
		return ""
	}
	return validation.SanitizeForFormulaInjection(*name)
}

func kindOf(tx models.Transaction) string {
	switch {
	case tx.IsIncome():
		return "income"
	case tx.IsExpense():
		return "expense"
	default:
		return "transfer"
	}
}
