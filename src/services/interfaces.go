package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/username/networth/backend/src/models"
)

var ErrNotFound = errors.New("not found")

// ReferentialIntegrityError blocks deleting an account that transactions still reference.
type ReferentialIntegrityError struct {
	AccountID int64
	Count     int
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("account %d is referenced by %d transaction(s) and cannot be deleted", e.AccountID, e.Count)
}

type UserService interface {
	CreateUser(ctx context.Context, name string) (*models.User, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
}

// AccountService manages ledger accounts. Balances are derived on every read.
type AccountService interface {
	CreateAccountWithInitialBalance(ctx context.Context, userID int64, name string, accountType models.AccountType, initialBalance decimal.Decimal) (*models.AccountWithBalance, error)
	CreateRealEstateAccount(ctx context.Context, userID int64, name string, initialBalance decimal.Decimal, property PropertyInput) (*models.AccountWithBalance, error)
	GetAccount(ctx context.Context, userID, accountID int64) (*models.AccountWithBalance, error)
	ListAccounts(ctx context.Context, userID int64) ([]models.AccountWithBalance, error)
	UpdateAccount(ctx context.Context, userID, accountID int64, name string, accountType models.AccountType) (*models.AccountWithBalance, error)
	DeleteAccount(ctx context.Context, userID, accountID int64) error
}

type TransactionService interface {
	CreateTransaction(ctx context.Context, userID int64, input models.NewTransaction) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) ([]models.TransactionWithAccounts, error)
	ExportTransactionsCSV(ctx context.Context, userID int64, w io.Writer) error
}

// HoldingsService manages standalone assets and liabilities, whose values are set directly.
type HoldingsService interface {
	ListAssets(ctx context.Context, userID int64) ([]models.Asset, error)
	CreateAsset(ctx context.Context, userID int64, input AssetInput) (*models.Asset, error)
	UpdateAsset(ctx context.Context, userID, assetID int64, input AssetInput) (*models.Asset, error)
	DeleteAsset(ctx context.Context, userID, assetID int64) error

	ListLiabilities(ctx context.Context, userID int64) ([]models.Liability, error)
	CreateLiability(ctx context.Context, userID int64, input LiabilityInput) (*models.Liability, error)
	UpdateLiability(ctx context.Context, userID, liabilityID int64, input LiabilityInput) (*models.Liability, error)
	DeleteLiability(ctx context.Context, userID, liabilityID int64) error
}

type ReportService interface {
	GetOverview(ctx context.Context, userID int64, asOf models.Date) (*models.PortfolioOverview, error)
	GetTrend(ctx context.Context, userID int64, months int, asOf models.Date) ([]models.TrendPoint, error)
	GetAllocation(ctx context.Context, userID int64) ([]models.AllocationSlice, error)
}

type PropertyService interface {
	GetProperty(ctx context.Context, userID, accountID int64) (*models.RealEstateProperty, error)
	CreateProperty(ctx context.Context, userID, accountID int64, input PropertyInput) (*models.RealEstateProperty, error)
	UpdateProperty(ctx context.Context, userID, accountID int64, input PropertyInput) (*models.RealEstateProperty, error)
	ListValuations(ctx context.Context, userID, accountID int64, query ValuationQuery) ([]models.AssetValuation, error)
	AddValuation(ctx context.Context, userID, accountID int64, input ValuationInput) (*models.AssetValuation, error)
}

// ValuationJob refreshes property estimates. Per-property failures are
// reported in the results, never returned as errors.
type ValuationJob interface {
	ProcessAllProperties(ctx context.Context) (*models.ValuationSummary, error)
	ProcessSingleProperty(ctx context.Context, accountID int64) (*models.ValuationResult, error)
}

type AssetInput struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value decimal.Decimal `json:"value"`
}

type LiabilityInput struct {
	Name           string           `json:"name"`
	Type           string           `json:"type"`
	CurrentBalance decimal.Decimal  `json:"current_balance"`
	OriginalAmount decimal.Decimal  `json:"original_amount"`
	InterestRate   *decimal.Decimal `json:"interest_rate"`
}

type PropertyInput struct {
	AutoValuationEnabled *bool   `json:"auto_valuation_enabled"`
	AddressLine1         string  `json:"address_line1"`
	AddressLine2         *string `json:"address_line2"`
	City                 string  `json:"city"`
	StateProvince        string  `json:"state_province"`
	PostalCode           string  `json:"postal_code"`
	Country              string  `json:"country"`
}

type ValuationInput struct {
	Value         decimal.Decimal `json:"value"`
	Source        string          `json:"source"`
	ValuationDate models.Date     `json:"valuation_date"`
}

// ValuationQuery selects either the newest Limit valuations or, when both
// bounds are set, every valuation dated within [From, To].
type ValuationQuery struct {
	Limit int
	From  *models.Date
	To    *models.Date
}
