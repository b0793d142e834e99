package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type ValuationSource string

const (
	ValuationSourceAppraisal      ValuationSource = "appraisal"
	ValuationSourceMarketEstimate ValuationSource = "market_estimate"
	ValuationSourceManual         ValuationSource = "manual"
	ValuationSourcePurchase       ValuationSource = "purchase"
)

func ParseValuationSource(s string) (ValuationSource, error) {
	switch v := ValuationSource(strings.ToLower(strings.TrimSpace(s))); v {
	case ValuationSourceAppraisal, ValuationSourceMarketEstimate, ValuationSourceManual, ValuationSourcePurchase:
		return v, nil
	}
	return "", fmt.Errorf("unknown valuation source %q", s)
}

// AssetValuation is one point-in-time estimate for an account. Valuations are append-only.
type AssetValuation struct {
	ID            int64           `json:"id"`
	AccountID     int64           `json:"account_id"`
	Value         decimal.Decimal `json:"value"`
	Source        ValuationSource `json:"source"`
	ValuationDate Date            `json:"valuation_date"`
}

type PropertyAddress struct {
	AddressLine1  string  `json:"address_line1"`
	AddressLine2  *string `json:"address_line2,omitempty"`
	City          string  `json:"city"`
	StateProvince string  `json:"state_province"`
	PostalCode    string  `json:"postal_code"`
	Country       string  `json:"country"`
}

// Short renders the address the way valuation reports display it.
func (a PropertyAddress) Short() string {
	return fmt.Sprintf("%s, %s, %s", a.AddressLine1, a.City, a.StateProvince)
}

// Lookup is the single-line address sent to valuation sources.
func (a PropertyAddress) Lookup() string {
	return fmt.Sprintf("%s, %s, %s %s", a.AddressLine1, a.City, a.StateProvince, a.PostalCode)
}

// RealEstateProperty holds the address of a REAL_ESTATE account, one per account.
type RealEstateProperty struct {
	ID                   int64 `json:"id"`
	AccountID            int64 `json:"account_id"`
	AutoValuationEnabled bool  `json:"auto_valuation_enabled"`
	PropertyAddress
}

// RealEstateAccount joins a REAL_ESTATE account with its property row.
type RealEstateAccount struct {
	AccountID   int64              `json:"account_id"`
	UserID      int64              `json:"user_id"`
	AccountName string             `json:"account_name"`
	Property    RealEstateProperty `json:"property"`
}

// ValuationResult reports the outcome of revaluing one property.
type ValuationResult struct {
	AccountID      int64            `json:"account_id"`
	AccountName    string           `json:"account_name"`
	Address        string           `json:"address"`
	PreviousValue  *decimal.Decimal `json:"previous_value,omitempty"`
	NewValue       decimal.Decimal  `json:"new_value"`
	ValuationCount int              `json:"valuation_count"`
	Success        bool             `json:"success"`
	Skipped        bool             `json:"skipped,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// ValuationSummary aggregates a batch run. Skipped properties count as neither success nor error.
type ValuationSummary struct {
	Results        []ValuationResult `json:"results"`
	TotalProcessed int               `json:"total_processed"`
	SuccessCount   int               `json:"success_count"`
	ErrorCount     int               `json:"error_count"`
}
