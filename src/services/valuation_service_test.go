package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/networth/backend/src/model"
	"github.com/username/networth/backend/src/models"
)

type fakeProvider struct {
	name   string
	source models.ValuationSource
	value  string
	err    error
	calls  atomic.Int32
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Estimate(ctx context.Context, address models.PropertyAddress) (*Estimate, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if f.value == "" {
		return nil, nil
	}
	return &Estimate{Provider: f.name, Source: f.source, Value: dec(f.value)}, nil
}

func newHouse(t *testing.T, accounts AccountService, userID int64, name string, input PropertyInput) int64 {
	t.Helper()
	acct, err := accounts.CreateRealEstateAccount(context.Background(), userID, name, dec("400000"), input)
	require.NoError(t, err)
	return acct.ID
}

func TestValuationJob_ProcessAllProperties(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	userID := mustUser(t, db)
	accounts := NewAccountService(db)

	active := newHouse(t, accounts, userID, "Active", austinHome())
	off := false
	disabledInput := austinHome()
	disabledInput.AutoValuationEnabled = &off
	disabled := newHouse(t, accounts, userID, "Disabled", disabledInput)

	providers := []ValuationProvider{
		&fakeProvider{name: "a", source: models.ValuationSourceMarketEstimate, value: "400000"},
		&fakeProvider{name: "b", source: models.ValuationSourceAppraisal, value: "410001"},
		&fakeProvider{name: "broken", err: errors.New("service unavailable")},
	}
	job := NewValuationJob(db, providers, 0, time.Minute, "USD")

	summary, err := job.ProcessAllProperties(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalProcessed)
	assert.Equal(t, 1, summary.SuccessCount)
	assert.Equal(t, 0, summary.ErrorCount)
	require.Len(t, summary.Results, 2)

	ok := summary.Results[0]
	assert.Equal(t, active, ok.AccountID)
	assert.True(t, ok.Success)
	assert.Equal(t, 2, ok.ValuationCount)
	assertDecimal(t, "405001", ok.NewValue)
	assert.Nil(t, ok.PreviousValue)
	assert.Equal(t, "500 Congress Ave, Austin, Texas", ok.Address)

	skipped := summary.Results[1]
	assert.Equal(t, disabled, skipped.AccountID)
	assert.True(t, skipped.Skipped)
	assert.False(t, skipped.Success)
	assert.Equal(t, "Auto-valuation disabled", skipped.Error)

	vals, err := model.ListValuations(ctx, db, active, 0)
	require.NoError(t, err)
	require.Len(t, vals, 3)
	assertDecimal(t, "405001", vals[0].Value)
	assert.Equal(t, models.ValuationSourceMarketEstimate, vals[0].Source)
	assert.Equal(t, models.Today(), vals[0].ValuationDate)

	none, err := model.ListValuations(ctx, db, disabled, 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	acct, err := accounts.GetAccount(ctx, userID, active)
	require.NoError(t, err)
	assertDecimal(t, "400000", acct.Balance)
	require.NotNil(t, acct.LatestValuation)
	assertDecimal(t, "405001", acct.LatestValuation.Value)
}

func TestValuationJob_PreviousValueAndCache(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	userID := mustUser(t, db)
	house := newHouse(t, NewAccountService(db), userID, "House", austinHome())

	provider := &fakeProvider{name: "a", source: models.ValuationSourceAppraisal, value: "250000.40"}
	job := NewValuationJob(db, []ValuationProvider{provider}, 0, time.Hour, "USD")

	first, err := job.ProcessSingleProperty(ctx, house)
	require.NoError(t, err)
	assert.True(t, first.Success)
	assertDecimal(t, "250000", first.NewValue)

	second, err := job.ProcessSingleProperty(ctx, house)
	require.NoError(t, err)
	require.NotNil(t, second.PreviousValue)
	assertDecimal(t, "250000", *second.PreviousValue)
	assert.Equal(t, int32(1), provider.calls.Load(), "estimate should come from cache")
}

func TestValuationJob_ZeroCacheTTLAlwaysAsks(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	userID := mustUser(t, db)
	house := newHouse(t, NewAccountService(db), userID, "House", austinHome())

	provider := &fakeProvider{name: "a", source: models.ValuationSourceAppraisal, value: "250000"}
	job := NewValuationJob(db, []ValuationProvider{provider}, 0, 0, "USD")

	for i := 0; i < 3; i++ {
		result, err := job.ProcessSingleProperty(ctx, house)
		require.NoError(t, err)
		assert.True(t, result.Success)
	}
	assert.Equal(t, int32(3), provider.calls.Load())
}

func TestValuationJob_NoEstimates(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	userID := mustUser(t, db)
	house := newHouse(t, NewAccountService(db), userID, "House", austinHome())

	providers := []ValuationProvider{
		&fakeProvider{name: "silent"},
		&fakeProvider{name: "zero", source: models.ValuationSourceMarketEstimate, value: "0"},
		&fakeProvider{name: "broken", err: errors.New("timeout")},
	}
	job := NewValuationJob(db, providers, 0, time.Minute, "USD")

	summary, err := job.ProcessAllProperties(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalProcessed)
	assert.Equal(t, 0, summary.SuccessCount)
	assert.Equal(t, 1, summary.ErrorCount)
	assert.Equal(t, "No valuations available from any source", summary.Results[0].Error)

	vals, err := model.ListValuations(ctx, db, house, 0)
	require.NoError(t, err)
	assert.Empty(t, vals)
}

func TestValuationJob_SingleProperty_NotFound(t *testing.T) {
	db := setupDB(t)
	userID := mustUser(t, db)
	checking := mustCreate(t, NewAccountService(db), userID, "Checking", models.AccountTypeChecking, "0")

	job := NewValuationJob(db, DefaultValuationProviders(), 0, time.Minute, "USD")
	for _, id := range []int64{checking.ID, 12345} {
		_, err := job.ProcessSingleProperty(context.Background(), id)
		assert.ErrorIs(t, err, ErrNotFound)
	}
}

func TestSimulatedProviders(t *testing.T) {
	ctx := context.Background()
	nyc := models.PropertyAddress{AddressLine1: "1 Park Ave", City: "New York", StateProvince: "NY", PostalCode: "10016"}
	elsewhere := models.PropertyAddress{AddressLine1: "9 Elm St", City: "Springfield", StateProvince: "IL", PostalCode: "62701"}

	for _, p := range DefaultValuationProviders() {
		first, err := p.Estimate(ctx, nyc)
		require.NoError(t, err)
		again, err := p.Estimate(ctx, nyc)
		require.NoError(t, err)
		assert.True(t, first.Value.Equal(again.Value), "%s must be deterministic", p.Name())
		assert.True(t, first.Value.GreaterThanOrEqual(decimal.NewFromInt(720_000)), "%s: %s", p.Name(), first.Value)
		assert.True(t, first.Value.LessThanOrEqual(decimal.NewFromInt(2_200_000)), "%s: %s", p.Name(), first.Value)
		assert.True(t, first.Value.Equal(first.Value.Round(0)))

		other, err := p.Estimate(ctx, elsewhere)
		require.NoError(t, err)
		assert.True(t, other.Value.GreaterThanOrEqual(decimal.NewFromInt(225_000)))
		assert.True(t, other.Value.LessThanOrEqual(decimal.NewFromInt(715_000)))
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err := DefaultValuationProviders()[0].Estimate(cancelled, nyc)
	assert.Error(t, err)
}
