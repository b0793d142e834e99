package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/username/networth/backend/src/database"
	"github.com/username/networth/backend/src/logger"
	"github.com/username/networth/backend/src/model"
	"github.com/username/networth/backend/src/models"
	"github.com/username/networth/backend/src/processors"
	"github.com/username/networth/backend/src/security/validation"
)

// Placeholder address for REAL_ESTATE accounts created without one.
// Auto-valuation stays off until the owner fills in a real address.
const (
	placeholderAddressLine1 = "Address to be updated"
	placeholderCity         = "City to be updated"
	placeholderState        = "State/Province to be updated"
	placeholderPostalCode   = "00000"
	defaultCountry          = "United States"
)

type accountServiceImpl struct {
	db *sql.DB
}

func NewAccountService(db *sql.DB) AccountService {
	return &accountServiceImpl{db: db}
}

func (s *accountServiceImpl) CreateAccountWithInitialBalance(ctx context.Context, userID int64, name string, accountType models.AccountType, initialBalance decimal.Decimal) (*models.AccountWithBalance, error) {
	var property *models.RealEstateProperty
	if accountType == models.AccountTypeRealEstate {
		property = &models.RealEstateProperty{
			AutoValuationEnabled: true,
			PropertyAddress: models.PropertyAddress{
				AddressLine1:  placeholderAddressLine1,
				City:          placeholderCity,
				StateProvince: placeholderState,
				PostalCode:    placeholderPostalCode,
				Country:       defaultCountry,
			},
		}
	}
	return s.createAccount(ctx, userID, name, accountType, initialBalance, property)
}

func (s *accountServiceImpl) CreateRealEstateAccount(ctx context.Context, userID int64, name string, initialBalance decimal.Decimal, input PropertyInput) (*models.AccountWithBalance, error) {
	property, err := cleanProperty(input)
	if err != nil {
		return nil, err
	}
	return s.createAccount(ctx, userID, name, models.AccountTypeRealEstate, initialBalance, property)
}

// createAccount inserts the account, its seed transaction and its property
// row in one database transaction.
func (s *accountServiceImpl) createAccount(ctx context.Context, userID int64, name string, accountType models.AccountType, initialBalance decimal.Decimal, property *models.RealEstateProperty) (*models.AccountWithBalance, error) {
	log := logger.FromContext(ctx)

	cleanedName, err := validation.CleanName(name, "account name", validation.MaxNameLength)
	if err != nil {
		return nil, err
	}
	if !accountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", validation.ErrValidationFailed, accountType)
	}
	if err := validation.ValidateAmount(initialBalance, "initial balance", validation.AnySign); err != nil {
		return nil, err
	}
	if err := ensureUser(ctx, s.db, userID); err != nil {
		return nil, err
	}

	account := &models.Account{UserID: userID, Name: cleanedName, Type: accountType}
	var seeded []models.Transaction

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := model.InsertAccount(ctx, tx, account); err != nil {
			return fmt.Errorf("inserting account: %w", err)
		}

		if asTo, amount, ok := processors.SeedDirection(accountType.Category(), initialBalance); ok {
			seed := &models.Transaction{UserID: userID, Amount: amount, Date: models.Today()}
			if asTo {
				seed.ToAccountID = &account.ID
			} else {
				seed.FromAccountID = &account.ID
			}
			if err := model.InsertTransaction(ctx, tx, seed); err != nil {
				return fmt.Errorf("inserting seed transaction: %w", err)
			}
			seeded = append(seeded, *seed)
		}

		if property != nil {
			property.AccountID = account.ID
			if err := model.InsertProperty(ctx, tx, property); err != nil {
				return fmt.Errorf("inserting property: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to create account", "userID", userID, "type", accountType, "error", err)
		return nil, fmt.Errorf("creating account: %w", err)
	}

	log.Info("Account created", "userID", userID, "accountID", account.ID, "type", accountType, "seeded", len(seeded) > 0)
	return withBalance(*account, processors.ComputeAccountBalance(*account, seeded)), nil
}

func (s *accountServiceImpl) GetAccount(ctx context.Context, userID, accountID int64) (*models.AccountWithBalance, error) {
	account, err := model.GetAccount(ctx, s.db, userID, accountID)
	if err != nil {
		return nil, notFound(err, "account", accountID)
	}
	txs, err := model.ListTransactionsByUser(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	out := withBalance(*account, processors.ComputeAccountBalance(*account, txs))
	if err := s.attachLatestValuation(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAccounts returns the user's accounts ordered by balance, largest first.
func (s *accountServiceImpl) ListAccounts(ctx context.Context, userID int64) ([]models.AccountWithBalance, error) {
	accounts, err := model.ListAccountsByUser(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	txs, err := model.ListTransactionsByUser(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	balances := processors.ComputeAccountBalances(accounts, txs)
	out := make([]models.AccountWithBalance, 0, len(accounts))
	for _, a := range accounts {
		awb := withBalance(a, balances[a.ID])
		if err := s.attachLatestValuation(ctx, awb); err != nil {
			return nil, err
		}
		out = append(out, *awb)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Balance.GreaterThan(out[j].Balance) })
	return out, nil
}

// UpdateAccount renames an account and may change its type within the same
// category. REAL_ESTATE accounts keep their type since they own a property row.
func (s *accountServiceImpl) UpdateAccount(ctx context.Context, userID, accountID int64, name string, accountType models.AccountType) (*models.AccountWithBalance, error) {
	cleanedName, err := validation.CleanName(name, "account name", validation.MaxNameLength)
	if err != nil {
		return nil, err
	}
	if !accountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", validation.ErrValidationFailed, accountType)
	}

	account, err := model.GetAccount(ctx, s.db, userID, accountID)
	if err != nil {
		return nil, notFound(err, "account", accountID)
	}
	if account.Category() != accountType.Category() {
		return nil, fmt.Errorf("%w: cannot change a %s account into a %s account", validation.ErrValidationFailed, account.Category(), accountType.Category())
	}
	if account.Type != accountType && (account.Type == models.AccountTypeRealEstate || accountType == models.AccountTypeRealEstate) {
		return nil, fmt.Errorf("%w: real estate accounts cannot change type", validation.ErrValidationFailed)
	}

	account.Name = cleanedName
	account.Type = accountType
	if err := model.UpdateAccount(ctx, s.db, account); err != nil {
		return nil, notFound(err, "account", accountID)
	}
	logger.FromContext(ctx).Info("Account updated", "userID", userID, "accountID", accountID, "type", accountType)
	return s.GetAccount(ctx, userID, accountID)
}

// DeleteAccount refuses while any transaction references the account.
// The property row and valuations of a REAL_ESTATE account go with it.
func (s *accountServiceImpl) DeleteAccount(ctx context.Context, userID, accountID int64) error {
	log := logger.FromContext(ctx)
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := model.GetAccount(ctx, tx, userID, accountID); err != nil {
			return notFound(err, "account", accountID)
		}
		count, err := model.CountAccountTransactions(ctx, tx, accountID)
		if err != nil {
			return fmt.Errorf("counting transactions: %w", err)
		}
		if count > 0 {
			return &ReferentialIntegrityError{AccountID: accountID, Count: count}
		}
		if err := model.DeleteAccount(ctx, tx, userID, accountID); err != nil {
			return notFound(err, "account", accountID)
		}
		return nil
	})
	if err != nil {
		var refErr *ReferentialIntegrityError
		if errors.As(err, &refErr) {
			log.Warn("Account deletion blocked by transactions", "userID", userID, "accountID", accountID, "count", refErr.Count)
		}
		return err
	}
	log.Info("Account deleted", "userID", userID, "accountID", accountID)
	return nil
}

func (s *accountServiceImpl) attachLatestValuation(ctx context.Context, a *models.AccountWithBalance) error {
	if a.Type != models.AccountTypeRealEstate {
		return nil
	}
	v, err := model.LatestValuation(ctx, s.db, a.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading latest valuation for account %d: %w", a.ID, err)
	}
	a.LatestValuation = v
	return nil
}

func withBalance(a models.Account, balance decimal.Decimal) *models.AccountWithBalance {
	return &models.AccountWithBalance{
		Account:  a,
		Category: a.Category(),
		TypeName: a.Type.DisplayName(),
		Balance:  balance,
	}
}
