package processors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/networth/backend/src/models"
)

var hundred = decimal.NewFromInt(100)

// ComputeMonthlyTrend returns one point per calendar month, oldest first,
// ending with the month of asOf. Ledger balances are taken as of each month
// end; standalone assets and liabilities have no history, so their current
// values apply to every month.
func ComputeMonthlyTrend(accounts []models.Account, txs []models.Transaction, assets []models.Asset, liabilities []models.Liability, months int, asOf models.Date) []models.TrendPoint {
	if months <= 0 {
		return []models.TrendPoint{}
	}

	// Sorting once lets each month extend the previous prefix.
	sorted := make([]models.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	points := make([]models.TrendPoint, 0, months)
	first := asOf.StartOfMonth().AddMonths(-(months - 1))
	cut := 0
	for i := 0; i < months; i++ {
		month := first.AddMonths(i)
		end := month.EndOfMonth()
		for cut < len(sorted) && !sorted[cut].Date.After(end) {
			cut++
		}

		overview := ComputePortfolioOverview(accounts, sorted[:cut], assets, liabilities, month)
		points = append(points, models.TrendPoint{
			Month:       fmt.Sprintf("%04d-%02d", month.Year(), int(month.Month())),
			Assets:      overview.TotalAssets,
			Liabilities: overview.TotalLiabilities,
			NetWorth:    overview.NetWorth,
			Income:      overview.MonthlyIncome,
			Expenses:    overview.MonthlyExpenses,
		})
	}
	return points
}

// ComputeAllocation breaks positive asset-side holdings down by ledger
// account type and standalone asset type. Percentages are rounded to two
// places and slices are ordered by value, largest first.
func ComputeAllocation(accounts []models.Account, txs []models.Transaction, assets []models.Asset) []models.AllocationSlice {
	balances := ComputeAccountBalances(accounts, txs)
	totals := make(map[string]decimal.Decimal)
	labels := make(map[string]string)

	add := func(key, label string, v decimal.Decimal) {
		if !v.IsPositive() {
			return
		}
		totals[key] = totals[key].Add(v)
		labels[key] = label
	}
	for _, a := range accounts {
		if a.Category() != models.CategoryAsset {
			continue
		}
		add("account:"+string(a.Type), a.Type.DisplayName(), balances[a.ID])
	}
	for _, asset := range assets {
		add("asset:"+string(asset.Type), assetLabel(asset.Type), asset.Value)
	}

	grand := decimal.Zero
	for _, v := range totals {
		grand = grand.Add(v)
	}

	slices := make([]models.AllocationSlice, 0, len(totals))
	for key, v := range totals {
		slices = append(slices, models.AllocationSlice{
			Key:     key,
			Label:   labels[key],
			Value:   v,
			Percent: v.Mul(hundred).Div(grand).Round(2),
		})
	}
	sort.Slice(slices, func(i, j int) bool {
		if c := slices[i].Value.Cmp(slices[j].Value); c != 0 {
			return c > 0
		}
		return slices[i].Key < slices[j].Key
	})
	return slices
}

func assetLabel(t models.AssetType) string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
