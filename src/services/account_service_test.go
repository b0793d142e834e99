package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/networth/backend/src/database"
	"github.com/username/networth/backend/src/model"
	"github.com/username/networth/backend/src/models"
	"github.com/username/networth/backend/src/security/validation"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "networth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func mustUser(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	u, err := NewUserService(db).CreateUser(context.Background(), "Test User")
	require.NoError(t, err)
	return u.ID
}

func mustCreate(t *testing.T, svc AccountService, userID int64, name string, typ models.AccountType, initial string) *models.AccountWithBalance {
	t.Helper()
	a, err := svc.CreateAccountWithInitialBalance(context.Background(), userID, name, typ, dec(initial))
	require.NoError(t, err)
	return a
}

func TestCreateAccountWithInitialBalance_Seeds(t *testing.T) {
	tests := []struct {
		name        string
		typ         models.AccountType
		initial     string
		wantBalance string
		wantSeed    bool
		wantTo      bool
	}{
		{"asset positive goes in", models.AccountTypeChecking, "1000", "1000", true, true},
		{"asset overdrawn goes out", models.AccountTypeChecking, "-50.25", "-50.25", true, false},
		{"liability owed goes out", models.AccountTypeCreditCard, "500", "500", true, false},
		{"liability overpaid goes in", models.AccountTypeCreditCard, "-20", "-20", true, true},
		{"zero creates no seed", models.AccountTypeSavings, "0", "0", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupDB(t)
			ctx := context.Background()
			userID := mustUser(t, db)
			svc := NewAccountService(db)

			acct := mustCreate(t, svc, userID, "Account", tt.typ, tt.initial)
			assertDecimal(t, tt.wantBalance, acct.Balance)
			assert.Equal(t, tt.typ.Category(), acct.Category)

			txs, err := model.ListTransactionsByUser(ctx, db, userID)
			require.NoError(t, err)
			if !tt.wantSeed {
				assert.Empty(t, txs)
				return
			}
			require.Len(t, txs, 1)
			seed := txs[0]
			assertDecimal(t, dec(tt.initial).Abs().String(), seed.Amount)
			assert.Equal(t, models.Today(), seed.Date)
			if tt.wantTo {
				assert.True(t, seed.IsTo(acct.ID))
				assert.Nil(t, seed.FromAccountID)
			} else {
				assert.True(t, seed.IsFrom(acct.ID))
				assert.Nil(t, seed.ToAccountID)
			}

			reloaded, err := svc.GetAccount(ctx, userID, acct.ID)
			require.NoError(t, err)
			assertDecimal(t, tt.wantBalance, reloaded.Balance)
		})
	}
}

func TestCreateAccountWithInitialBalance_Rejects(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	userID := mustUser(t, db)
	svc := NewAccountService(db)

	tests := []struct {
		name    string
		userID  int64
		acct    string
		typ     models.AccountType
		initial string
		wantErr error
	}{
		{"empty name", userID, "   ", models.AccountTypeChecking, "1", validation.ErrValidationFailed},
		{"unknown type", userID, "Jar", models.AccountType("PIGGY_BANK"), "1", validation.ErrValidationFailed},
		{"too many decimals", userID, "Checking", models.AccountTypeChecking, "1.005", validation.ErrValidationFailed},
		{"unknown user", 999, "Checking", models.AccountTypeChecking, "1", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAccountWithInitialBalance(ctx, tt.userID, tt.acct, tt.typ, dec(tt.initial))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	accounts, err := svc.ListAccounts(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestCreateAccountWithInitialBalance_IsAtomic(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	userID := mustUser(t, db)
	svc := NewAccountService(db)

	_, err := db.Exec(`CREATE TRIGGER reject_transactions BEFORE INSERT ON transactions BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	_, err = svc.CreateAccountWithInitialBalance(ctx, userID, "Checking", models.AccountTypeChecking, dec("100"))
	require.Error(t, err)

	accounts, err := model.ListAccountsByUser(ctx, db, userID)
	require.NoError(t, err)
	assert.Empty(t, accounts, "account row must not survive a failed seed")

	// Without a seed nothing touches the transactions table.
	acct, err := svc.CreateAccountWithInitialBalance(ctx, userID, "Checking", models.AccountTypeChecking, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, acct.Balance.IsZero())
}

func TestRealEstateAccounts(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	userID := mustUser(t, db)
	svc := NewAccountService(db)

	t.Run("placeholder property", func(t *testing.T) {
		acct := mustCreate(t, svc, userID, "Cabin", models.AccountTypeRealEstate, "300000")
		assertDecimal(t, "300000", acct.Balance)

		p, err := model.GetPropertyByAccount(ctx, db, acct.ID)
		require.NoError(t, err)
		assert.True(t, p.AutoValuationEnabled)
		assert.Equal(t, placeholderAddressLine1, p.AddressLine1)
		assert.Equal(t, defaultCountry, p.Country)
	})

	t.Run("with address", func(t *testing.T) {
		acct, err := svc.CreateRealEstateAccount(ctx, userID, "Home", dec("450000"), PropertyInput{
			AddressLine1:  "1 Main St",
			City:          "Austin",
			StateProvince: "Texas",
			PostalCode:    "78701",
		})
		require.NoError(t, err)

		p, err := model.GetPropertyByAccount(ctx, db, acct.ID)
		require.NoError(t, err)
		assert.True(t, p.AutoValuationEnabled)
		assert.Equal(t, "Austin", p.City)
		assert.Equal(t, defaultCountry, p.Country)
	})

	t.Run("bad address creates nothing", func(t *testing.T) {
		before, err := model.ListAccountsByUser(ctx, db, userID)
		require.NoError(t, err)

		_, err = svc.CreateRealEstateAccount(ctx, userID, "Lot", dec("1"), PropertyInput{City: "Nowhere"})
		assert.ErrorIs(t, err, validation.ErrValidationFailed)

		after, err := model.ListAccountsByUser(ctx, db, userID)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("latest valuation is attached", func(t *testing.T) {
		acct := mustCreate(t, svc, userID, "Condo", models.AccountTypeRealEstate, "0")
		require.NoError(t, model.InsertValuation(ctx, db, &models.AssetValuation{
			AccountID: acct.ID, Value: dec("210000"), Source: models.ValuationSourceAppraisal, ValuationDate: models.MustParseDate("2024-05-01"),
		}))

		got, err := svc.GetAccount(ctx, userID, acct.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LatestValuation)
		assertDecimal(t, "210000", got.LatestValuation.Value)
		assert.True(t, got.Balance.IsZero(), "valuations never move the ledger balance")
	})
}

func TestListAccounts_OrderedByBalance(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	userID := mustUser(t, db)
	svc := NewAccountService(db)

	mustCreate(t, svc, userID, "Small", models.AccountTypeChecking, "10")
	mustCreate(t, svc, userID, "Large", models.AccountTypeSavings, "5000")
	mustCreate(t, svc, userID, "Card", models.AccountTypeCreditCard, "250")

	accounts, err := svc.ListAccounts(ctx, userID)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "Large", accounts[0].Name)
	assert.Equal(t, "Card", accounts[1].Name)
	assert.Equal(t, "Small", accounts[2].Name)
	assert.Equal(t, "Credit Card", accounts[1].TypeName)

	other := mustUser(t, db)
	theirs, err := svc.ListAccounts(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestUpdateAccount(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	userID := mustUser(t, db)
	svc := NewAccountService(db)

	checking := mustCreate(t, svc, userID, "Checking", models.AccountTypeChecking, "100")
	house := mustCreate(t, svc, userID, "House", models.AccountTypeRealEstate, "0")

	updated, err := svc.UpdateAccount(ctx, userID, checking.ID, "Rainy Day", models.AccountTypeSavings)
	require.NoError(t, err)
	assert.Equal(t, "Rainy Day", updated.Name)
	assert.Equal(t, models.AccountTypeSavings, updated.Type)
	assertDecimal(t, "100", updated.Balance)

	tests := []struct {
		name    string
		id      int64
		typ     models.AccountType
		wantErr error
	}{
		{"asset to liability", checking.ID, models.AccountTypeCreditCard, validation.ErrValidationFailed},
		{"out of real estate", house.ID, models.AccountTypeVehicle, validation.ErrValidationFailed},
		{"into real estate", checking.ID, models.AccountTypeRealEstate, validation.ErrValidationFailed},
		{"missing account", 999, models.AccountTypeChecking, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateAccount(ctx, userID, tt.id, "Renamed", tt.typ)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDeleteAccount(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	userID := mustUser(t, db)
	svc := NewAccountService(db)

	t.Run("blocked by transactions", func(t *testing.T) {
		acct := mustCreate(t, svc, userID, "Checking", models.AccountTypeChecking, "100")
		err := svc.DeleteAccount(ctx, userID, acct.ID)

		var refErr *ReferentialIntegrityError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, 1, refErr.Count)
		assert.Equal(t, acct.ID, refErr.AccountID)

		_, err = svc.GetAccount(ctx, userID, acct.ID)
		assert.NoError(t, err)
	})

	t.Run("unreferenced account goes", func(t *testing.T) {
		acct := mustCreate(t, svc, userID, "Empty", models.AccountTypeSavings, "0")
		require.NoError(t, svc.DeleteAccount(ctx, userID, acct.ID))

		_, err := svc.GetAccount(ctx, userID, acct.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("property and valuations cascade", func(t *testing.T) {
		acct := mustCreate(t, svc, userID, "Lot", models.AccountTypeRealEstate, "0")
		require.NoError(t, model.InsertValuation(ctx, db, &models.AssetValuation{
			AccountID: acct.ID, Value: dec("1000"), Source: models.ValuationSourceManual, ValuationDate: models.Today(),
		}))
		require.NoError(t, svc.DeleteAccount(ctx, userID, acct.ID))

		_, err := model.GetPropertyByAccount(ctx, db, acct.ID)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		vals, err := model.ListValuations(ctx, db, acct.ID, 0)
		require.NoError(t, err)
		assert.Empty(t, vals)
	})

	t.Run("another user's account", func(t *testing.T) {
		acct := mustCreate(t, svc, userID, "Mine", models.AccountTypeSavings, "0")
		other := mustUser(t, db)
		assert.ErrorIs(t, svc.DeleteAccount(ctx, other, acct.ID), ErrNotFound)
	})
}
