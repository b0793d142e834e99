package model

import (
	"context"
	"database/sql"

	"github.com/username/networth/backend/src/database"
	"github.com/username/networth/backend/src/models"
)

func InsertAccount(ctx context.Context, db database.DBTX, a *models.Account) error {
	res, err := db.ExecContext(ctx, `INSERT INTO accounts (user_id, name, type) VALUES (?, ?, ?)`, a.UserID, a.Name, string(a.Type))
	if err != nil {
		return err
	}
	a.ID, err = res.LastInsertId()
	return err
}

// GetAccount returns sql.ErrNoRows when the account does not exist or belongs to another user.
func GetAccount(ctx context.Context, db database.DBTX, userID, accountID int64) (*models.Account, error) {
	var a models.Account
	var typ string
	err := db.QueryRowContext(ctx, `SELECT id, user_id, name, type FROM accounts WHERE id = ? AND user_id = ?`, accountID, userID).
		Scan(&a.ID, &a.UserID, &a.Name, &typ)
	if err != nil {
		return nil, err
	}
	a.Type = models.AccountType(typ)
	return &a, nil
}

func ListAccountsByUser(ctx context.Context, db database.DBTX, userID int64) ([]models.Account, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, user_id, name, type FROM accounts WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		var typ string
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &typ); err != nil {
			return nil, err
		}
		a.Type = models.AccountType(typ)
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func UpdateAccount(ctx context.Context, db database.DBTX, a *models.Account) error {
	res, err := db.ExecContext(ctx, `UPDATE accounts SET name = ?, type = ? WHERE id = ? AND user_id = ?`, a.Name, string(a.Type), a.ID, a.UserID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func DeleteAccount(ctx context.Context, db database.DBTX, userID, accountID int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ? AND user_id = ?`, accountID, userID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// CountAccountTransactions counts transactions referencing the account on either side.
func CountAccountTransactions(ctx context.Context, db database.DBTX, accountID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE from_account_id = ? OR to_account_id = ?`,
		accountID, accountID).Scan(&count)
	return count, err
}

// expectOneRow maps a no-op UPDATE/DELETE to sql.ErrNoRows.
func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
