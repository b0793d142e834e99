package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioOverview is the dashboard summary for one user.
type PortfolioOverview struct {
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	NetWorth         decimal.Decimal `json:"net_worth"`
	MonthlyIncome    decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses  decimal.Decimal `json:"monthly_expenses"`
	TotalCashBalance decimal.Decimal `json:"total_cash_balance"`
	AsOf             Date            `json:"as_of"`
}

// TrendPoint is one calendar month of the net worth trend.
type TrendPoint struct {
	Month       string          `json:"month"` // YYYY-MM
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	NetWorth    decimal.Decimal `json:"net_worth"`
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
}

// AllocationSlice is the share of total assets held in one bucket.
type AllocationSlice struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Value   decimal.Decimal `json:"value"`
	Percent decimal.Decimal `json:"percent"`
}

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
