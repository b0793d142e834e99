package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/username/networth/backend/src/logger"
	"github.com/username/networth/backend/src/model"
	"github.com/username/networth/backend/src/models"
	"github.com/username/networth/backend/src/security/validation"
)

const DefaultValuationListLimit = 50

type propertyServiceImpl struct {
	db *sql.DB
}

func NewPropertyService(db *sql.DB) PropertyService {
	return &propertyServiceImpl{db: db}
}

// realEstateAccount loads an account owned by userID and checks it is REAL_ESTATE.
func (s *propertyServiceImpl) realEstateAccount(ctx context.Context, userID, accountID int64) (*models.Account, error) {
	account, err := model.GetAccount(ctx, s.db, userID, accountID)
	if err != nil {
		return nil, notFound(err, "account", accountID)
	}
	if account.Type != models.AccountTypeRealEstate {
		return nil, fmt.Errorf("%w: account %d is not a real estate account", validation.ErrValidationFailed, accountID)
	}
	return account, nil
}

func (s *propertyServiceImpl) GetProperty(ctx context.Context, userID, accountID int64) (*models.RealEstateProperty, error) {
	if _, err := s.realEstateAccount(ctx, userID, accountID); err != nil {
		return nil, err
	}
	p, err := model.GetPropertyByAccount(ctx, s.db, accountID)
	if err != nil {
		return nil, notFound(err, "property for account", accountID)
	}
	return p, nil
}

// CreateProperty attaches an address to a REAL_ESTATE account that has none.
func (s *propertyServiceImpl) CreateProperty(ctx context.Context, userID, accountID int64, input PropertyInput) (*models.RealEstateProperty, error) {
	if _, err := s.realEstateAccount(ctx, userID, accountID); err != nil {
		return nil, err
	}
	p, err := cleanProperty(input)
	if err != nil {
		return nil, err
	}
	_, err = model.GetPropertyByAccount(ctx, s.db, accountID)
	if err == nil {
		return nil, fmt.Errorf("%w: account %d already has a property", validation.ErrValidationFailed, accountID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading property: %w", err)
	}

	p.AccountID = accountID
	if err := model.InsertProperty(ctx, s.db, p); err != nil {
		return nil, fmt.Errorf("creating property: %w", err)
	}
	logger.FromContext(ctx).Info("Property created", "userID", userID, "accountID", accountID)
	return p, nil
}

func (s *propertyServiceImpl) UpdateProperty(ctx context.Context, userID, accountID int64, input PropertyInput) (*models.RealEstateProperty, error) {
	if _, err := s.realEstateAccount(ctx, userID, accountID); err != nil {
		return nil, err
	}
	p, err := cleanProperty(input)
	if err != nil {
		return nil, err
	}
	p.AccountID = accountID
	if err := model.UpdateProperty(ctx, s.db, p); err != nil {
		return nil, notFound(err, "property for account", accountID)
	}
	logger.FromContext(ctx).Info("Property updated", "userID", userID, "accountID", accountID, "autoValuation", p.AutoValuationEnabled)
	return model.GetPropertyByAccount(ctx, s.db, accountID)
}

func (s *propertyServiceImpl) ListValuations(ctx context.Context, userID, accountID int64, query ValuationQuery) ([]models.AssetValuation, error) {
	if _, err := model.GetAccount(ctx, s.db, userID, accountID); err != nil {
		return nil, notFound(err, "account", accountID)
	}
	if (query.From == nil) != (query.To == nil) {
		return nil, fmt.Errorf("%w: from and to must be given together", validation.ErrValidationFailed)
	}
	if query.From != nil {
		if query.To.Before(*query.From) {
			return nil, fmt.Errorf("%w: from must not be after to", validation.ErrValidationFailed)
		}
		return model.ListValuationsInRange(ctx, s.db, accountID, *query.From, *query.To)
	}
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultValuationListLimit
	}
	return model.ListValuations(ctx, s.db, accountID, limit)
}

// AddValuation records a user-entered valuation. Valuations never change the
// ledger balance; they are reported next to it.
func (s *propertyServiceImpl) AddValuation(ctx context.Context, userID, accountID int64, input ValuationInput) (*models.AssetValuation, error) {
	if _, err := s.realEstateAccount(ctx, userID, accountID); err != nil {
		return nil, err
	}
	if err := validation.ValidateAmount(input.Value, "value", validation.Positive); err != nil {
		return nil, err
	}
	source := models.ValuationSourceManual
	if input.Source != "" {
		parsed, err := models.ParseValuationSource(input.Source)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", validation.ErrValidationFailed, err)
		}
		source = parsed
	}
	date := input.ValuationDate
	if date.IsZero() {
		date = models.Today()
	}

	v := &models.AssetValuation{AccountID: accountID, Value: input.Value, Source: source, ValuationDate: date}
	if err := model.InsertValuation(ctx, s.db, v); err != nil {
		return nil, fmt.Errorf("saving valuation: %w", err)
	}
	logger.FromContext(ctx).Info("Valuation recorded", "userID", userID, "accountID", accountID, "source", source)
	return v, nil
}

// cleanProperty validates an address. Auto-valuation defaults to enabled.
func cleanProperty(input PropertyInput) (*models.RealEstateProperty, error) {
	var err error
	p := &models.RealEstateProperty{AutoValuationEnabled: true}
	if input.AutoValuationEnabled != nil {
		p.AutoValuationEnabled = *input.AutoValuationEnabled
	}
	if p.AddressLine1, err = validation.CleanName(input.AddressLine1, "address line 1", validation.MaxAddressLength); err != nil {
		return nil, err
	}
	if p.AddressLine2, err = validation.CleanOptional(input.AddressLine2, "address line 2", validation.MaxAddressLength); err != nil {
		return nil, err
	}
	if p.City, err = validation.CleanName(input.City, "city", validation.MaxCityLength); err != nil {
		return nil, err
	}
	if p.StateProvince, err = validation.CleanName(input.StateProvince, "state/province", validation.MaxCityLength); err != nil {
		return nil, err
	}
	if p.PostalCode, err = validation.CleanName(input.PostalCode, "postal code", validation.MaxPostalCodeLength); err != nil {
		return nil, err
	}
	p.Country = defaultCountry
	if input.Country != "" {
		if p.Country, err = validation.CleanName(input.Country, "country", validation.MaxCityLength); err != nil {
			return nil, err
		}
	}
	return p, nil
}
