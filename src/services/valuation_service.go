package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/username/networth/backend/src/database"
	"github.com/username/networth/backend/src/logger"
	"github.com/username/networth/backend/src/model"
	"github.com/username/networth/backend/src/models"
	"github.com/username/networth/backend/src/utils"
	"golang.org/x/time/rate"
)

const (
	errAutoValuationDisabled = "Auto-valuation disabled"
	errNoValuations          = "No valuations available from any source"
)

// Estimate is one provider's opinion of a property's value.
type Estimate struct {
	Provider string
	Source   models.ValuationSource
	Value    decimal.Decimal
}

// ValuationProvider fetches a market estimate for an address.
// A nil estimate with a nil error means the provider had no opinion.
type ValuationProvider interface {
	Name() string
	Estimate(ctx context.Context, address models.PropertyAddress) (*Estimate, error)
}

type valuationJobImpl struct {
	db        *sql.DB
	providers []ValuationProvider
	limiter   *rate.Limiter
	cache     *cache.Cache
	cacheTTL  time.Duration
	currency  string
}

// NewValuationJob builds the refresh job. delay paces properties in a batch
// run; cacheTTL bounds how long a provider's estimate for an address is reused,
// and a non-positive cacheTTL turns the cache off.
func NewValuationJob(db *sql.DB, providers []ValuationProvider, delay, cacheTTL time.Duration, currency string) ValuationJob {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &valuationJobImpl{
		db:        db,
		providers: providers,
		limiter:   rate.NewLimiter(limit, 1),
		cache:     cache.New(cacheTTL, 2*cacheTTL),
		cacheTTL:  cacheTTL,
		currency:  currency,
	}
}

// ProcessAllProperties revalues every property, one at a time.
func (j *valuationJobImpl) ProcessAllProperties(ctx context.Context) (*models.ValuationSummary, error) {
	log := logger.FromContext(ctx)

	accounts, err := model.ListRealEstateAccountsWithProperties(ctx, j.db)
	if err != nil {
		return nil, fmt.Errorf("loading properties: %w", err)
	}
	log.Info("Starting property valuation run", "properties", len(accounts))

	summary := &models.ValuationSummary{Results: make([]models.ValuationResult, 0, len(accounts))}
	for _, ra := range accounts {
		if ra.Property.AutoValuationEnabled {
			if err := j.limiter.Wait(ctx); err != nil {
				return summary, fmt.Errorf("valuation run interrupted: %w", err)
			}
		}
		result := j.valueProperty(ctx, ra)
		summary.Results = append(summary.Results, result)
		summary.TotalProcessed++
		switch {
		case result.Success:
			summary.SuccessCount++
		case !result.Skipped:
			summary.ErrorCount++
		}
	}

	log.Info("Property valuation run finished",
		"processed", summary.TotalProcessed, "succeeded", summary.SuccessCount, "failed", summary.ErrorCount)
	return summary, nil
}

func (j *valuationJobImpl) ProcessSingleProperty(ctx context.Context, accountID int64) (*models.ValuationResult, error) {
	ra, err := model.GetRealEstateAccount(ctx, j.db, accountID)
	if err != nil {
		return nil, notFound(err, "property for account", accountID)
	}
	result := j.valueProperty(ctx, *ra)
	return &result, nil
}

func (j *valuationJobImpl) valueProperty(ctx context.Context, ra models.RealEstateAccount) models.ValuationResult {
	log := logger.FromContext(ctx).With("accountID", ra.AccountID)
	result := models.ValuationResult{
		AccountID:   ra.AccountID,
		AccountName: ra.AccountName,
		Address:     ra.Property.Short(),
	}
	if !ra.Property.AutoValuationEnabled {
		result.Skipped = true
		result.Error = errAutoValuationDisabled
		return result
	}

	previous, err := model.LatestAutomatedValuation(ctx, j.db, ra.AccountID)
	switch {
	case err == nil:
		result.PreviousValue = &previous.Value
	case !errors.Is(err, sql.ErrNoRows):
		log.Warn("Could not load previous valuation", "error", err)
	}

	estimates := j.fetchEstimates(ctx, ra.Property.PropertyAddress)
	if len(estimates) == 0 {
		result.Error = errNoValuations
		log.Warn("No valuation sources returned a value", "address", result.Address)
		return result
	}

	average := averageEstimate(estimates)
	today := models.Today()
	err = database.WithTx(ctx, j.db, func(tx *sql.Tx) error {
		for _, e := range estimates {
			v := &models.AssetValuation{AccountID: ra.AccountID, Value: e.Value, Source: e.Source, ValuationDate: today}
			if err := model.InsertValuation(ctx, tx, v); err != nil {
				return fmt.Errorf("saving %s estimate: %w", e.Provider, err)
			}
		}
		v := &models.AssetValuation{AccountID: ra.AccountID, Value: average, Source: models.ValuationSourceMarketEstimate, ValuationDate: today}
		return model.InsertValuation(ctx, tx, v)
	})
	if err != nil {
		log.Error("Failed to save valuations", "error", err)
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.NewValue = average
	result.ValuationCount = len(estimates)
	log.Info("Property revalued", "value", utils.FormatCurrency(average, j.currency), "sources", len(estimates))
	return result
}

// fetchEstimates queries every provider concurrently. Failing providers are
// logged and left out, as are non-positive estimates.
func (j *valuationJobImpl) fetchEstimates(ctx context.Context, address models.PropertyAddress) []Estimate {
	results := make([]*Estimate, len(j.providers))
	var wg sync.WaitGroup
	for i, p := range j.providers {
		wg.Add(1)
		go func(i int, p ValuationProvider) {
			defer wg.Done()
			e, err := j.cachedEstimate(ctx, p, address)
			if err != nil {
				logger.FromContext(ctx).Warn("Valuation source failed", "source", p.Name(), "error", err)
				return
			}
			results[i] = e
		}(i, p)
	}
	wg.Wait()

	estimates := make([]Estimate, 0, len(results))
	for _, e := range results {
		if e != nil && e.Value.IsPositive() {
			estimates = append(estimates, *e)
		}
	}
	return estimates
}

func (j *valuationJobImpl) cachedEstimate(ctx context.Context, p ValuationProvider, address models.PropertyAddress) (*Estimate, error) {
	key := fmt.Sprintf("valuation-%s-%s", p.Name(), strings.ToLower(address.Lookup()))
	if cached, found := j.cache.Get(key); found {
		return cached.(*Estimate), nil
	}
	e, err := p.Estimate(ctx, address)
	if err != nil {
		return nil, err
	}
	if e != nil && j.cacheTTL > 0 {
		j.cache.Set(key, e, j.cacheTTL)
	}
	return e, nil
}

// averageEstimate is the mean of the estimates rounded to whole currency units.
func averageEstimate(estimates []Estimate) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range estimates {
		sum = sum.Add(e.Value)
	}
	return sum.Div(decimal.NewFromInt(int64(len(estimates)))).Round(0)
}

// simulatedProvider derives a stable estimate from the address. It stands in
// for the listing sites until real API credentials are configured.
type simulatedProvider struct {
	name   string
	source models.ValuationSource
}

func (p simulatedProvider) Name() string { return p.name }

func (p simulatedProvider) Estimate(ctx context.Context, address models.PropertyAddress) (*Estimate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lookup := strings.ToLower(address.Lookup())
	low, spread := baseRange(lookup)

	// Base value within the location's range, then +/-10% per source.
	base := low.Add(spread.Mul(decimal.New(int64(hashOf(lookup)%1000), -3)))
	variance := decimal.New(int64(hashOf(p.name+"|"+lookup)%2001)-1000, -4)
	value := base.Mul(decimal.NewFromInt(1).Add(variance)).Round(0)

	return &Estimate{Provider: p.name, Source: p.source, Value: value}, nil
}

var locationTiers = []struct {
	keywords  []string
	low, high int64
}{
	{[]string{"new york", "san francisco", "los angeles"}, 800_000, 2_000_000},
	{[]string{"texas", "florida", "arizona"}, 300_000, 800_000},
	{[]string{"chicago", "boston", "seattle"}, 500_000, 1_200_000},
}

func baseRange(lookup string) (low, spread decimal.Decimal) {
	for _, tier := range locationTiers {
		for _, kw := range tier.keywords {
			if strings.Contains(lookup, kw) {
				return decimal.NewFromInt(tier.low), decimal.NewFromInt(tier.high - tier.low)
			}
		}
	}
	return decimal.NewFromInt(250_000), decimal.NewFromInt(400_000)
}

func hashOf(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// DefaultValuationProviders are the sources the scheduled job queries.
func DefaultValuationProviders() []ValuationProvider {
	return []ValuationProvider{
		simulatedProvider{name: "zillow", source: models.ValuationSourceMarketEstimate},
		simulatedProvider{name: "realtor", source: models.ValuationSourceAppraisal},
		simulatedProvider{name: "rentspotter", source: models.ValuationSourceMarketEstimate},
	}
}
