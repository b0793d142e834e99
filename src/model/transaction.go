package model

import (
	"context"
	"database/sql"
	"strings"

	"github.com/username/networth/backend/src/database"
	"github.com/username/networth/backend/src/models"
)

// InsertTransaction stores the amount as fixed two-decimal text.
func InsertTransaction(ctx context.Context, db database.DBTX, tx *models.Transaction) error {
	res, err := db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, from_account_id, to_account_id, amount, date) VALUES (?, ?, ?, ?, ?)`,
		tx.UserID, nullableID(tx.FromAccountID), nullableID(tx.ToAccountID), tx.Amount.StringFixed(2), tx.Date)
	if err != nil {
		return err
	}
	tx.ID, err = res.LastInsertId()
	return err
}

// ListTransactionsByUser returns the full ledger of a user, oldest first.
func ListTransactionsByUser(ctx context.Context, db database.DBTX, userID int64) ([]models.Transaction, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, from_account_id, to_account_id, amount, date
		FROM transactions
		WHERE user_id = ?
		ORDER BY date ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		var from, to sql.NullInt64
		if err := rows.Scan(&tx.ID, &tx.UserID, &from, &to, &tx.Amount, &tx.Date); err != nil {
			return nil, err
		}
		tx.FromAccountID, tx.ToAccountID = idPtr(from), idPtr(to)
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// ListTransactionsWithAccounts returns transactions newest first with account names resolved.
func ListTransactionsWithAccounts(ctx context.Context, db database.DBTX, userID int64, filter models.TransactionFilter) ([]models.TransactionWithAccounts, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT t.id, t.user_id, t.from_account_id, t.to_account_id, t.amount, t.date, fa.name, ta.name
		FROM transactions t
		LEFT JOIN accounts fa ON fa.id = t.from_account_id
		LEFT JOIN accounts ta ON ta.id = t.to_account_id
		WHERE t.user_id = ?`)
	args := []any{userID}
	if filter.AccountID != nil {
		sb.WriteString(` AND (t.from_account_id = ? OR t.to_account_id = ?)`)
		args = append(args, *filter.AccountID, *filter.AccountID)
	}
	sb.WriteString(` ORDER BY t.date DESC, t.id DESC`)
	if filter.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TransactionWithAccounts{}
	for rows.Next() {
		var tx models.TransactionWithAccounts
		var from, to sql.NullInt64
		var fromName, toName sql.NullString
		if err := rows.Scan(&tx.ID, &tx.UserID, &from, &to, &tx.Amount, &tx.Date, &fromName, &toName); err != nil {
			return nil, err
		}
		tx.FromAccountID, tx.ToAccountID = idPtr(from), idPtr(to)
		tx.FromAccountName, tx.ToAccountName = stringPtr(fromName), stringPtr(toName)
		out = append(out, tx)
	}
	return out, rows.Err()
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func idPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
