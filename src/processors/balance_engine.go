package processors

import (
	"github.com/shopspring/decimal"
	"github.com/username/networth/backend/src/models"
)

// Balances are always derived from the transaction ledger and never stored.
//
// Sign convention: an ASSET balance grows when money flows into the account
// (to side) and shrinks when it flows out (from side). A LIABILITY balance is
// the amount owed, so it shrinks when money is paid into it and grows when
// money is drawn from it. A positive liability balance means the user owes.

// ComputeAccountBalance derives the balance of account from txs. Transactions
// that do not touch the account contribute nothing.
func ComputeAccountBalance(account models.Account, txs []models.Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range txs {
		var delta decimal.Decimal
		if tx.IsTo(account.ID) {
			delta = delta.Add(tx.Amount)
		}
		if tx.IsFrom(account.ID) {
			delta = delta.Sub(tx.Amount)
		}
		balance = balance.Add(orient(account.Category(), delta))
	}
	return balance
}

// ComputeAccountBalances derives every account's balance in a single pass over txs.
func ComputeAccountBalances(accounts []models.Account, txs []models.Transaction) map[int64]decimal.Decimal {
	categories := make(map[int64]models.Category, len(accounts))
	balances := make(map[int64]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		categories[a.ID] = a.Category()
		balances[a.ID] = decimal.Zero
	}

	apply := func(id *int64, inflow decimal.Decimal) {
		if id == nil {
			return
		}
		category, ok := categories[*id]
		if !ok {
			return
		}
		balances[*id] = balances[*id].Add(orient(category, inflow))
	}

	for _, tx := range txs {
		apply(tx.ToAccountID, tx.Amount)
		apply(tx.FromAccountID, tx.Amount.Neg())
	}
	return balances
}

// orient turns a net inflow into a balance change for the given category.
func orient(category models.Category, inflow decimal.Decimal) decimal.Decimal {
	if category == models.CategoryLiability {
		return inflow.Neg()
	}
	return inflow
}

// SeedDirection returns which side of a seed transaction the new account
// takes so that ComputeAccountBalance over that single transaction equals
// initialBalance. The returned amount is always positive. ok is false when
// initialBalance is zero and no seed transaction is needed.
func SeedDirection(category models.Category, initialBalance decimal.Decimal) (asTo bool, amount decimal.Decimal, ok bool) {
	if initialBalance.IsZero() {
		return false, decimal.Zero, false
	}
	positive := initialBalance.IsPositive()
	if category == models.CategoryLiability {
		// Owing money is drawn from the liability.
		return !positive, initialBalance.Abs(), true
	}
	return positive, initialBalance.Abs(), true
}

// ComputePortfolioOverview aggregates ledger balances with standalone assets
// and liabilities. Liability ledger balances are summed signed, so an
// overpaid liability reduces TotalLiabilities. Monthly income and expenses
// cover the calendar month containing asOf.
func ComputePortfolioOverview(accounts []models.Account, txs []models.Transaction, assets []models.Asset, liabilities []models.Liability, asOf models.Date) models.PortfolioOverview {
	balances := ComputeAccountBalances(accounts, txs)

	overview := models.PortfolioOverview{
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		MonthlyIncome:    decimal.Zero,
		MonthlyExpenses:  decimal.Zero,
		TotalCashBalance: decimal.Zero,
		AsOf:             asOf,
	}

	for _, a := range accounts {
		balance := balances[a.ID]
		switch a.Category() {
		case models.CategoryLiability:
			overview.TotalLiabilities = overview.TotalLiabilities.Add(balance)
		default:
			overview.TotalAssets = overview.TotalAssets.Add(balance)
			if a.Type.IsCash() {
				overview.TotalCashBalance = overview.TotalCashBalance.Add(balance)
			}
		}
	}
	for _, asset := range assets {
		overview.TotalAssets = overview.TotalAssets.Add(asset.Value)
	}
	for _, l := range liabilities {
		overview.TotalLiabilities = overview.TotalLiabilities.Add(l.CurrentBalance)
	}
	overview.NetWorth = overview.TotalAssets.Sub(overview.TotalLiabilities)

	overview.MonthlyIncome, overview.MonthlyExpenses = monthFlows(txs, asOf)
	return overview
}

// monthFlows sums external inflows and outflows dated in the month of on.
func monthFlows(txs []models.Transaction, on models.Date) (income, expenses decimal.Decimal) {
	income, expenses = decimal.Zero, decimal.Zero
	for _, tx := range txs {
		if !tx.Date.SameMonth(on) {
			continue
		}
		switch {
		case tx.IsIncome():
			income = income.Add(tx.Amount)
		case tx.IsExpense():
			expenses = expenses.Add(tx.Amount)
		}
	}
	return income, expenses
}
