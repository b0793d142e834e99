package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type AssetType string

const (
	AssetTypeStocks     AssetType = "stocks"
	AssetTypeBonds      AssetType = "bonds"
	AssetTypeRealEstate AssetType = "real_estate"
	AssetTypeVehicle    AssetType = "vehicle"
	AssetTypeCrypto     AssetType = "crypto"
)

var assetTypes = []AssetType{AssetTypeStocks, AssetTypeBonds, AssetTypeRealEstate, AssetTypeVehicle, AssetTypeCrypto}

func ParseAssetType(s string) (AssetType, error) {
	t := AssetType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range assetTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown asset type %q", s)
}

// Asset is a standalone holding whose value is set directly, outside the ledger.
type Asset struct {
	ID     int64           `json:"id"`
	UserID int64           `json:"user_id"`
	Name   string          `json:"name"`
	Type   AssetType       `json:"type"`
	Value  decimal.Decimal `json:"value"`
}

type LiabilityType string

const (
	LiabilityTypeMortgage     LiabilityType = "mortgage"
	LiabilityTypeStudentLoan  LiabilityType = "student_loan"
	LiabilityTypePersonalLoan LiabilityType = "personal_loan"
)

var liabilityTypes = []LiabilityType{LiabilityTypeMortgage, LiabilityTypeStudentLoan, LiabilityTypePersonalLoan}

func ParseLiabilityType(s string) (LiabilityType, error) {
	t := LiabilityType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range liabilityTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown liability type %q", s)
}

// Liability is a standalone debt. CurrentBalance is the amount still owed.
type Liability struct {
	ID             int64            `json:"id"`
	UserID         int64            `json:"user_id"`
	Name           string           `json:"name"`
	Type           LiabilityType    `json:"type"`
	CurrentBalance decimal.Decimal  `json:"current_balance"`
	OriginalAmount decimal.Decimal  `json:"original_amount"`
	InterestRate   *decimal.Decimal `json:"interest_rate,omitempty"`
}
