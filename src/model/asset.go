package model

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/username/networth/backend/src/database"
	"github.com/username/networth/backend/src/models"
)

func InsertAsset(ctx context.Context, db database.DBTX, a *models.Asset) error {
	res, err := db.ExecContext(ctx, `INSERT INTO assets (user_id, name, type, value) VALUES (?, ?, ?, ?)`,
		a.UserID, a.Name, string(a.Type), a.Value.StringFixed(2))
	if err != nil {
		return err
	}
	a.ID, err = res.LastInsertId()
	return err
}

// ListAssetsByUser orders by value, largest first. Values are compared
// numerically since they are stored as text.
func ListAssetsByUser(ctx context.Context, db database.DBTX, userID int64) ([]models.Asset, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, name, type, value FROM assets
		WHERE user_id = ?
		ORDER BY CAST(value AS REAL) DESC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		var a models.Asset
		var typ string
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &typ, &a.Value); err != nil {
			return nil, err
		}
		a.Type = models.AssetType(typ)
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func GetAsset(ctx context.Context, db database.DBTX, userID, assetID int64) (*models.Asset, error) {
	var a models.Asset
	var typ string
	err := db.QueryRowContext(ctx, `SELECT id, user_id, name, type, value FROM assets WHERE id = ? AND user_id = ?`, assetID, userID).
		Scan(&a.ID, &a.UserID, &a.Name, &typ, &a.Value)
	if err != nil {
		return nil, err
	}
	a.Type = models.AssetType(typ)
	return &a, nil
}

func UpdateAsset(ctx context.Context, db database.DBTX, a *models.Asset) error {
	res, err := db.ExecContext(ctx, `UPDATE assets SET name = ?, type = ?, value = ? WHERE id = ? AND user_id = ?`,
		a.Name, string(a.Type), a.Value.StringFixed(2), a.ID, a.UserID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func DeleteAsset(ctx context.Context, db database.DBTX, userID, assetID int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM assets WHERE id = ? AND user_id = ?`, assetID, userID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func InsertLiability(ctx context.Context, db database.DBTX, l *models.Liability) error {
	res, err := db.ExecContext(ctx, `
		INSERT INTO liabilities (user_id, name, type, current_balance, original_amount, interest_rate)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.UserID, l.Name, string(l.Type), l.CurrentBalance.StringFixed(2), l.OriginalAmount.StringFixed(2), nullableRate(l.InterestRate))
	if err != nil {
		return err
	}
	l.ID, err = res.LastInsertId()
	return err
}

// ListLiabilitiesByUser orders by current balance, largest first.
func ListLiabilitiesByUser(ctx context.Context, db database.DBTX, userID int64) ([]models.Liability, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, name, type, current_balance, original_amount, interest_rate FROM liabilities
		WHERE user_id = ?
		ORDER BY CAST(current_balance AS REAL) DESC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	liabilities := []models.Liability{}
	for rows.Next() {
		l, err := scanLiability(rows)
		if err != nil {
			return nil, err
		}
		liabilities = append(liabilities, *l)
	}
	return liabilities, rows.Err()
}

func GetLiability(ctx context.Context, db database.DBTX, userID, liabilityID int64) (*models.Liability, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, user_id, name, type, current_balance, original_amount, interest_rate FROM liabilities
		WHERE id = ? AND user_id = ?`, liabilityID, userID)
	return scanLiability(row)
}

func UpdateLiability(ctx context.Context, db database.DBTX, l *models.Liability) error {
	res, err := db.ExecContext(ctx, `
		UPDATE liabilities SET name = ?, type = ?, current_balance = ?, original_amount = ?, interest_rate = ?
		WHERE id = ? AND user_id = ?`,
		l.Name, string(l.Type), l.CurrentBalance.StringFixed(2), l.OriginalAmount.StringFixed(2), nullableRate(l.InterestRate), l.ID, l.UserID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func DeleteLiability(ctx context.Context, db database.DBTX, userID, liabilityID int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM liabilities WHERE id = ? AND user_id = ?`, liabilityID, userID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLiability(s scanner) (*models.Liability, error) {
	var l models.Liability
	var typ string
	var rate decimal.NullDecimal
	if err := s.Scan(&l.ID, &l.UserID, &l.Name, &typ, &l.CurrentBalance, &l.OriginalAmount, &rate); err != nil {
		return nil, err
	}
	l.Type = models.LiabilityType(typ)
	if rate.Valid {
		r := rate.Decimal
		l.InterestRate = &r
	}
	return &l, nil
}

// Interest rates keep their full precision, e.g. 6.125.
func nullableRate(rate *decimal.Decimal) any {
	if rate == nil {
		return nil
	}
	return rate.String()
}
