package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnknownAccountType = errors.New("unknown account type")

// Category splits accounts into what the user owns and what the user owes.
type Category string

const (
	CategoryAsset     Category = "ASSET"
	CategoryLiability Category = "LIABILITY"
)

type AccountType string

const (
	AccountTypeChecking       AccountType = "CHECKING"
	AccountTypeSavings        AccountType = "SAVINGS"
	AccountTypeMoneyMarket    AccountType = "MONEY_MARKET"
	AccountTypeCD             AccountType = "CD"
	AccountTypeInvestment     AccountType = "INVESTMENT"
	AccountTypeCrypto         AccountType = "CRYPTO"
	AccountTypeRealEstate     AccountType = "REAL_ESTATE"
	AccountTypeVehicle        AccountType = "VEHICLE"
	AccountTypeOtherAsset     AccountType = "OTHER_ASSET"
	AccountTypeCreditCard     AccountType = "CREDIT_CARD"
	AccountTypeMortgage       AccountType = "MORTGAGE"
	AccountTypeAutoLoan       AccountType = "AUTO_LOAN"
	AccountTypeLease          AccountType = "LEASE"
	AccountTypeStudentLoan    AccountType = "STUDENT_LOAN"
	AccountTypePersonalLoan   AccountType = "PERSONAL_LOAN"
	AccountTypeLineOfCredit   AccountType = "LINE_OF_CREDIT"
	AccountTypeOtherLiability AccountType = "OTHER_LIABILITY"
)

type accountTypeInfo struct {
	category    Category
	displayName string
}

// accountTypes is the single source of truth for type -> category.
var accountTypes = map[AccountType]accountTypeInfo{
	AccountTypeChecking:       {CategoryAsset, "Checking"},
	AccountTypeSavings:        {CategoryAsset, "Savings"},
	AccountTypeMoneyMarket:    {CategoryAsset, "Money Market"},
	AccountTypeCD:             {CategoryAsset, "Certificate of Deposit"},
	AccountTypeInvestment:     {CategoryAsset, "Investment"},
	AccountTypeCrypto:         {CategoryAsset, "Crypto"},
	AccountTypeRealEstate:     {CategoryAsset, "Real Estate"},
	AccountTypeVehicle:        {CategoryAsset, "Vehicle"},
	AccountTypeOtherAsset:     {CategoryAsset, "Other Asset"},
	AccountTypeCreditCard:     {CategoryLiability, "Credit Card"},
	AccountTypeMortgage:       {CategoryLiability, "Mortgage"},
	AccountTypeAutoLoan:       {CategoryLiability, "Auto Loan"},
	AccountTypeLease:          {CategoryLiability, "Lease"},
	AccountTypeStudentLoan:    {CategoryLiability, "Student Loan"},
	AccountTypePersonalLoan:   {CategoryLiability, "Personal Loan"},
	AccountTypeLineOfCredit:   {CategoryLiability, "Line of Credit"},
	AccountTypeOtherLiability: {CategoryLiability, "Other Liability"},
}

// accountTypeOrder keeps listings stable: assets first, then liabilities.
var accountTypeOrder = []AccountType{
	AccountTypeChecking, AccountTypeSavings, AccountTypeMoneyMarket, AccountTypeCD,
	AccountTypeInvestment, AccountTypeCrypto, AccountTypeRealEstate, AccountTypeVehicle,
	AccountTypeOtherAsset, AccountTypeCreditCard, AccountTypeMortgage, AccountTypeAutoLoan,
	AccountTypeLease, AccountTypeStudentLoan, AccountTypePersonalLoan, AccountTypeLineOfCredit,
	AccountTypeOtherLiability,
}

// ParseAccountType normalizes s and rejects anything outside the closed set.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := accountTypes[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAccountType, s)
	}
	return t, nil
}

// AccountTypes returns every known account type in display order.
func AccountTypes() []AccountType {
	out := make([]AccountType, len(accountTypeOrder))
	copy(out, accountTypeOrder)
	return out
}

func (t AccountType) Valid() bool {
	_, ok := accountTypes[t]
	return ok
}

// Category returns the category of t, or "" for an unknown type.
func (t AccountType) Category() Category { return accountTypes[t].category }

func (t AccountType) DisplayName() string {
	if info, ok := accountTypes[t]; ok {
		return info.displayName
	}
	return string(t)
}

// IsCash reports whether balances of this type count as cash on hand.
func (t AccountType) IsCash() bool {
	return t == AccountTypeChecking || t == AccountTypeSavings || t == AccountTypeMoneyMarket
}

// Account is a ledger account. Its balance is never stored.
type Account struct {
	ID     int64       `json:"id"`
	UserID int64       `json:"user_id"`
	Name   string      `json:"name"`
	Type   AccountType `json:"type"`
}

func (a Account) Category() Category { return a.Type.Category() }

// AccountWithBalance is an account together with its derived ledger balance.
type AccountWithBalance struct {
	Account
	Category Category        `json:"category"`
	TypeName string          `json:"type_name"`
	Balance  decimal.Decimal `json:"balance"`
	// Set for REAL_ESTATE accounts that have been valued at least once.
	LatestValuation *AssetValuation `json:"latest_valuation,omitempty"`
}
