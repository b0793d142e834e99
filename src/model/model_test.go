package model

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/networth/backend/src/database"
	"github.com/username/networth/backend/src/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func mustUser(t *testing.T, db *sql.DB, name string) *models.User {
	t.Helper()
	u, err := CreateUser(context.Background(), db, name)
	require.NoError(t, err)
	return u
}

func mustAccount(t *testing.T, db *sql.DB, userID int64, name string, typ models.AccountType) *models.Account {
	t.Helper()
	a := &models.Account{UserID: userID, Name: name, Type: typ}
	require.NoError(t, InsertAccount(context.Background(), db, a))
	return a
}

func TestUserRoundTrip(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	u := mustUser(t, db, "Ada")
	got, err := GetUserByID(ctx, db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.WithinDuration(t, u.CreatedAt, got.CreatedAt, 1e9)

	_, err = GetUserByID(ctx, db, 999)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAccounts_ScopedByUser(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	alice := mustUser(t, db, "alice")
	bob := mustUser(t, db, "bob")
	acct := mustAccount(t, db, alice.ID, "Checking", models.AccountTypeChecking)

	_, err := GetAccount(ctx, db, bob.ID, acct.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	acct.Name = "Main"
	require.NoError(t, UpdateAccount(ctx, db, acct))
	got, err := GetAccount(ctx, db, alice.ID, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main", got.Name)
	assert.Equal(t, models.AccountTypeChecking, got.Type)

	assert.ErrorIs(t, DeleteAccount(ctx, db, bob.ID, acct.ID), sql.ErrNoRows)
	require.NoError(t, DeleteAccount(ctx, db, alice.ID, acct.ID))

	list, err := ListAccountsByUser(ctx, db, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTransactions_ListingAndCounting(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	u := mustUser(t, db, "u")
	checking := mustAccount(t, db, u.ID, "Checking", models.AccountTypeChecking)
	card := mustAccount(t, db, u.ID, "Card", models.AccountTypeCreditCard)

	for _, tx := range []*models.Transaction{
		{UserID: u.ID, ToAccountID: &checking.ID, Amount: decimal.RequireFromString("1000"), Date: models.MustParseDate("2024-01-01")},
		{UserID: u.ID, FromAccountID: &checking.ID, ToAccountID: &card.ID, Amount: decimal.RequireFromString("200.5"), Date: models.MustParseDate("2024-01-05")},
		{UserID: u.ID, FromAccountID: &card.ID, Amount: decimal.RequireFromString("30"), Date: models.MustParseDate("2024-01-03")},
	} {
		require.NoError(t, InsertTransaction(ctx, db, tx))
	}

	var stored string
	require.NoError(t, db.QueryRow("SELECT amount FROM transactions WHERE id = 2").Scan(&stored))
	assert.Equal(t, "200.50", stored)

	ledger, err := ListTransactionsByUser(ctx, db, u.ID)
	require.NoError(t, err)
	require.Len(t, ledger, 3)
	assert.Equal(t, "2024-01-01", ledger[0].Date.String())
	assert.Nil(t, ledger[0].FromAccountID)
	assert.True(t, ledger[0].Amount.Equal(decimal.NewFromInt(1000)))

	listed, err := ListTransactionsWithAccounts(ctx, db, u.ID, models.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "2024-01-05", listed[0].Date.String())
	require.NotNil(t, listed[0].FromAccountName)
	assert.Equal(t, "Checking", *listed[0].FromAccountName)
	assert.Equal(t, "Card", *listed[0].ToAccountName)
	assert.Nil(t, listed[2].FromAccountName)

	filtered, err := ListTransactionsWithAccounts(ctx, db, u.ID, models.TransactionFilter{AccountID: &card.ID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "2024-01-05", filtered[0].Date.String())

	count, err := CountAccountTransactions(ctx, db, checking.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAssetsAndLiabilities(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	u := mustUser(t, db, "u")

	for _, a := range []*models.Asset{
		{UserID: u.ID, Name: "Bonds", Type: models.AssetTypeBonds, Value: decimal.RequireFromString("900")},
		{UserID: u.ID, Name: "Index fund", Type: models.AssetTypeStocks, Value: decimal.RequireFromString("12000.10")},
	} {
		require.NoError(t, InsertAsset(ctx, db, a))
	}
	assets, err := ListAssetsByUser(ctx, db, u.ID)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "Index fund", assets[0].Name)

	rate := decimal.RequireFromString("6.125")
	l := &models.Liability{UserID: u.ID, Name: "Loan", Type: models.LiabilityTypePersonalLoan,
		CurrentBalance: decimal.RequireFromString("800"), OriginalAmount: decimal.RequireFromString("1000"), InterestRate: &rate}
	require.NoError(t, InsertLiability(ctx, db, l))

	got, err := GetLiability(ctx, db, u.ID, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got.InterestRate)
	assert.True(t, got.InterestRate.Equal(rate))

	got.InterestRate = nil
	require.NoError(t, UpdateLiability(ctx, db, got))
	got, err = GetLiability(ctx, db, u.ID, l.ID)
	require.NoError(t, err)
	assert.Nil(t, got.InterestRate)

	require.NoError(t, DeleteLiability(ctx, db, u.ID, l.ID))
	_, err = GetLiability(ctx, db, u.ID, l.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestValuations(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	u := mustUser(t, db, "u")
	house := mustAccount(t, db, u.ID, "House", models.AccountTypeRealEstate)
	mustAccount(t, db, u.ID, "Checking", models.AccountTypeChecking)

	require.NoError(t, InsertProperty(ctx, db, &models.RealEstateProperty{
		AccountID:            house.ID,
		AutoValuationEnabled: true,
		PropertyAddress: models.PropertyAddress{
			AddressLine1: "1 Main St", City: "Austin", StateProvince: "Texas", PostalCode: "78701", Country: "United States",
		},
	}))

	_, err := LatestValuation(ctx, db, house.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	insert := func(value string, source models.ValuationSource, date string) {
		require.NoError(t, InsertValuation(ctx, db, &models.AssetValuation{
			AccountID: house.ID, Value: decimal.RequireFromString(value), Source: source, ValuationDate: models.MustParseDate(date),
		}))
	}
	insert("400000", models.ValuationSourcePurchase, "2020-06-01")
	insert("450000", models.ValuationSourceMarketEstimate, "2024-01-01")
	insert("455000", models.ValuationSourceAppraisal, "2024-01-01")
	insert("452000", models.ValuationSourceMarketEstimate, "2023-12-01")

	latest, err := LatestValuation(ctx, db, house.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ValuationSourceAppraisal, latest.Source, "same date breaks ties on id")

	automated, err := LatestAutomatedValuation(ctx, db, house.ID)
	require.NoError(t, err)
	assert.True(t, automated.Value.Equal(decimal.NewFromInt(450000)))

	limited, err := ListValuations(ctx, db, house.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	ranged, err := ListValuationsInRange(ctx, db, house.ID, models.MustParseDate("2023-01-01"), models.MustParseDate("2023-12-31"))
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "2023-12-01", ranged[0].ValuationDate.String())

	props, err := ListRealEstateAccountsWithProperties(ctx, db)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "House", props[0].AccountName)
	assert.Equal(t, house.ID, props[0].Property.AccountID)
	assert.True(t, props[0].Property.AutoValuationEnabled)
	assert.Nil(t, props[0].Property.AddressLine2)

	require.NoError(t, DeleteAccount(ctx, db, u.ID, house.ID))
	all, err := ListValuations(ctx, db, house.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, all, "valuations go with their account")
}
