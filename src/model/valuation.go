package model

import (
	"context"
	"database/sql"

	"github.com/username/networth/backend/src/database"
	"github.com/username/networth/backend/src/models"
)

// InsertProperty creates the property row of a REAL_ESTATE account.
func InsertProperty(ctx context.Context, db database.DBTX, p *models.RealEstateProperty) error {
	res, err := db.ExecContext(ctx, `
		INSERT INTO real_estate_properties
			(account_id, auto_valuation_enabled, address_line1, address_line2, city, state_province, postal_code, country)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.AccountID, p.AutoValuationEnabled, p.AddressLine1, p.AddressLine2, p.City, p.StateProvince, p.PostalCode, p.Country)
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

// GetPropertyByAccount returns sql.ErrNoRows when the account has no property.
func GetPropertyByAccount(ctx context.Context, db database.DBTX, accountID int64) (*models.RealEstateProperty, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, account_id, auto_valuation_enabled, address_line1, address_line2, city, state_province, postal_code, country
		FROM real_estate_properties WHERE account_id = ?`, accountID)
	var p models.RealEstateProperty
	var line2 sql.NullString
	if err := row.Scan(&p.ID, &p.AccountID, &p.AutoValuationEnabled, &p.AddressLine1, &line2, &p.City, &p.StateProvince, &p.PostalCode, &p.Country); err != nil {
		return nil, err
	}
	p.AddressLine2 = stringPtr(line2)
	return &p, nil
}

func UpdateProperty(ctx context.Context, db database.DBTX, p *models.RealEstateProperty) error {
	res, err := db.ExecContext(ctx, `
		UPDATE real_estate_properties
		SET auto_valuation_enabled = ?, address_line1 = ?, address_line2 = ?, city = ?, state_province = ?, postal_code = ?, country = ?
		WHERE account_id = ?`,
		p.AutoValuationEnabled, p.AddressLine1, p.AddressLine2, p.City, p.StateProvince, p.PostalCode, p.Country, p.AccountID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

const realEstateQuery = `
	SELECT a.id, a.user_id, a.name,
	       p.id, p.auto_valuation_enabled, p.address_line1, p.address_line2, p.city, p.state_province, p.postal_code, p.country
	FROM accounts a
	JOIN real_estate_properties p ON p.account_id = a.id
	WHERE a.type = ?`

// ListRealEstateAccountsWithProperties returns every REAL_ESTATE account that
// has a property row, across all users.
func ListRealEstateAccountsWithProperties(ctx context.Context, db database.DBTX) ([]models.RealEstateAccount, error) {
	return queryRealEstateAccounts(ctx, db, realEstateQuery+` ORDER BY a.id`, string(models.AccountTypeRealEstate))
}

// GetRealEstateAccount returns sql.ErrNoRows unless accountID is a REAL_ESTATE
// account with a property row.
func GetRealEstateAccount(ctx context.Context, db database.DBTX, accountID int64) (*models.RealEstateAccount, error) {
	out, err := queryRealEstateAccounts(ctx, db, realEstateQuery+` AND a.id = ?`, string(models.AccountTypeRealEstate), accountID)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, sql.ErrNoRows
	}
	return &out[0], nil
}

func queryRealEstateAccounts(ctx context.Context, db database.DBTX, query string, args ...any) ([]models.RealEstateAccount, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.RealEstateAccount{}
	for rows.Next() {
		var ra models.RealEstateAccount
		var line2 sql.NullString
		p := &ra.Property
		if err := rows.Scan(&ra.AccountID, &ra.UserID, &ra.AccountName,
			&p.ID, &p.AutoValuationEnabled, &p.AddressLine1, &line2, &p.City, &p.StateProvince, &p.PostalCode, &p.Country); err != nil {
			return nil, err
		}
		p.AccountID = ra.AccountID
		p.AddressLine2 = stringPtr(line2)
		out = append(out, ra)
	}
	return out, rows.Err()
}

// InsertValuation appends a valuation. Valuations are never updated or deleted.
func InsertValuation(ctx context.Context, db database.DBTX, v *models.AssetValuation) error {
	res, err := db.ExecContext(ctx,
		`INSERT INTO asset_valuations (account_id, value, source, valuation_date) VALUES (?, ?, ?, ?)`,
		v.AccountID, v.Value.StringFixed(2), string(v.Source), v.ValuationDate)
	if err != nil {
		return err
	}
	v.ID, err = res.LastInsertId()
	return err
}

const valuationColumns = `id, account_id, value, source, valuation_date`

// ListValuations returns valuations newest first; limit <= 0 means no limit.
func ListValuations(ctx context.Context, db database.DBTX, accountID int64, limit int) ([]models.AssetValuation, error) {
	query := `SELECT ` + valuationColumns + ` FROM asset_valuations WHERE account_id = ? ORDER BY valuation_date DESC, id DESC`
	args := []any{accountID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return queryValuations(ctx, db, query, args...)
}

// ListValuationsInRange returns valuations dated within [from, to], oldest first.
func ListValuationsInRange(ctx context.Context, db database.DBTX, accountID int64, from, to models.Date) ([]models.AssetValuation, error) {
	return queryValuations(ctx, db, `
		SELECT `+valuationColumns+` FROM asset_valuations
		WHERE account_id = ? AND valuation_date >= ? AND valuation_date <= ?
		ORDER BY valuation_date ASC, id ASC`, accountID, from, to)
}

// LatestValuation returns sql.ErrNoRows when the account has never been valued.
func LatestValuation(ctx context.Context, db database.DBTX, accountID int64) (*models.AssetValuation, error) {
	return queryOneValuation(ctx, db, `
		SELECT `+valuationColumns+` FROM asset_valuations
		WHERE account_id = ?
		ORDER BY valuation_date DESC, id DESC LIMIT 1`, accountID)
}

// LatestAutomatedValuation is the newest market_estimate, the source the refresh job writes averages with.
func LatestAutomatedValuation(ctx context.Context, db database.DBTX, accountID int64) (*models.AssetValuation, error) {
	return queryOneValuation(ctx, db, `
		SELECT `+valuationColumns+` FROM asset_valuations
		WHERE account_id = ? AND source = ?
		ORDER BY valuation_date DESC, id DESC LIMIT 1`, accountID, string(models.ValuationSourceMarketEstimate))
}

func queryOneValuation(ctx context.Context, db database.DBTX, query string, args ...any) (*models.AssetValuation, error) {
	vals, err := queryValuations(ctx, db, query, args...)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, sql.ErrNoRows
	}
	return &vals[0], nil
}

func queryValuations(ctx context.Context, db database.DBTX, query string, args ...any) ([]models.AssetValuation, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vals := []models.AssetValuation{}
	for rows.Next() {
		var v models.AssetValuation
		var source string
		if err := rows.Scan(&v.ID, &v.AccountID, &v.Value, &source, &v.ValuationDate); err != nil {
			return nil, err
		}
		v.Source = models.ValuationSource(source)
		vals = append(vals, v)
	}
	return vals, rows.Err()
}
