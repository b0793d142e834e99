package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/username/networth/backend/src/logger"
	"github.com/username/networth/backend/src/model"
	"github.com/username/networth/backend/src/models"
	"github.com/username/networth/backend/src/security/validation"
)

var hundredPercent = decimal.NewFromInt(100)

type holdingsServiceImpl struct {
	db *sql.DB
}

func NewHoldingsService(db *sql.DB) HoldingsService {
	return &holdingsServiceImpl{db: db}
}

func (s *holdingsServiceImpl) ListAssets(ctx context.Context, userID int64) ([]models.Asset, error) {
	assets, err := model.ListAssetsByUser(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}
	return assets, nil
}

func (s *holdingsServiceImpl) CreateAsset(ctx context.Context, userID int64, input AssetInput) (*models.Asset, error) {
	asset, err := cleanAsset(input)
	if err != nil {
		return nil, err
	}
	if err := ensureUser(ctx, s.db, userID); err != nil {
		return nil, err
	}
	asset.UserID = userID
	if err := model.InsertAsset(ctx, s.db, asset); err != nil {
		return nil, fmt.Errorf("creating asset: %w", err)
	}
	logger.FromContext(ctx).Info("Asset created", "userID", userID, "assetID", asset.ID, "type", asset.Type)
	return asset, nil
}

func (s *holdingsServiceImpl) UpdateAsset(ctx context.Context, userID, assetID int64, input AssetInput) (*models.Asset, error) {
	asset, err := cleanAsset(input)
	if err != nil {
		return nil, err
	}
	asset.ID, asset.UserID = assetID, userID
	if err := model.UpdateAsset(ctx, s.db, asset); err != nil {
		return nil, notFound(err, "asset", assetID)
	}
	return asset, nil
}

func (s *holdingsServiceImpl) DeleteAsset(ctx context.Context, userID, assetID int64) error {
	if err := model.DeleteAsset(ctx, s.db, userID, assetID); err != nil {
		return notFound(err, "asset", assetID)
	}
	logger.FromContext(ctx).Info("Asset deleted", "userID", userID, "assetID", assetID)
	return nil
}

func (s *holdingsServiceImpl) ListLiabilities(ctx context.Context, userID int64) ([]models.Liability, error) {
	liabilities, err := model.ListLiabilitiesByUser(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("loading liabilities: %w", err)
	}
	return liabilities, nil
}

func (s *holdingsServiceImpl) CreateLiability(ctx context.Context, userID int64, input LiabilityInput) (*models.Liability, error) {
	liability, err := cleanLiability(input)
	if err != nil {
		return nil, err
	}
	if err := ensureUser(ctx, s.db, userID); err != nil {
		return nil, err
	}
	liability.UserID = userID
	if err := model.InsertLiability(ctx, s.db, liability); err != nil {
		return nil, fmt.Errorf("creating liability: %w", err)
	}
	logger.FromContext(ctx).Info("Liability created", "userID", userID, "liabilityID", liability.ID, "type", liability.Type)
	return liability, nil
}

func (s *holdingsServiceImpl) UpdateLiability(ctx context.Context, userID, liabilityID int64, input LiabilityInput) (*models.Liability, error) {
	liability, err := cleanLiability(input)
	if err != nil {
		return nil, err
	}
	liability.ID, liability.UserID = liabilityID, userID
	if err := model.UpdateLiability(ctx, s.db, liability); err != nil {
		return nil, notFound(err, "liability", liabilityID)
	}
	return liability, nil
}

func (s *holdingsServiceImpl) DeleteLiability(ctx context.Context, userID, liabilityID int64) error {
	if err := model.DeleteLiability(ctx, s.db, userID, liabilityID); err != nil {
		return notFound(err, "liability", liabilityID)
	}
	logger.FromContext(ctx).Info("Liability deleted", "userID", userID, "liabilityID", liabilityID)
	return nil
}

func cleanAsset(input AssetInput) (*models.Asset, error) {
	name, err := validation.CleanName(input.Name, "asset name", validation.MaxNameLength)
	if err != nil {
		return nil, err
	}
	typ, err := models.ParseAssetType(input.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", validation.ErrValidationFailed, err)
	}
	if err := validation.ValidateAmount(input.Value, "value", validation.NonNegative); err != nil {
		return nil, err
	}
	return &models.Asset{Name: name, Type: typ, Value: input.Value}, nil
}

func cleanLiability(input LiabilityInput) (*models.Liability, error) {
	name, err := validation.CleanName(input.Name, "liability name", validation.MaxNameLength)
	if err != nil {
		return nil, err
	}
	typ, err := models.ParseLiabilityType(input.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", validation.ErrValidationFailed, err)
	}
	if err := validation.ValidateAmount(input.CurrentBalance, "current balance", validation.NonNegative); err != nil {
		return nil, err
	}
	if err := validation.ValidateAmount(input.OriginalAmount, "original amount", validation.NonNegative); err != nil {
		return nil, err
	}
	if input.InterestRate != nil && (input.InterestRate.IsNegative() || input.InterestRate.GreaterThan(hundredPercent)) {
		return nil, fmt.Errorf("%w: interest rate must be between 0 and 100", validation.ErrValidationFailed)
	}
	return &models.Liability{
		Name:           name,
		Type:           typ,
		CurrentBalance: input.CurrentBalance,
		OriginalAmount: input.OriginalAmount,
		InterestRate:   input.InterestRate,
	}, nil
}
