package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/username/networth/backend/src/model"
	"github.com/username/networth/backend/src/models"
	"github.com/username/networth/backend/src/processors"
	"github.com/username/networth/backend/src/security/validation"
)

const MaxTrendMonths = 120

type reportServiceImpl struct {
	db *sql.DB
}

func NewReportService(db *sql.DB) ReportService {
	return &reportServiceImpl{db: db}
}

// ledgerSnapshot is everything the engine needs for one user, read fresh.
type ledgerSnapshot struct {
	accounts    []models.Account
	txs         []models.Transaction
	assets      []models.Asset
	liabilities []models.Liability
}

func (s *reportServiceImpl) load(ctx context.Context, userID int64) (*ledgerSnapshot, error) {
	if err := ensureUser(ctx, s.db, userID); err != nil {
		return nil, err
	}
	var snap ledgerSnapshot
	var err error
	if snap.accounts, err = model.ListAccountsByUser(ctx, s.db, userID); err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	if snap.txs, err = model.ListTransactionsByUser(ctx, s.db, userID); err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	if snap.assets, err = model.ListAssetsByUser(ctx, s.db, userID); err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}
	if snap.liabilities, err = model.ListLiabilitiesByUser(ctx, s.db, userID); err != nil {
		return nil, fmt.Errorf("loading liabilities: %w", err)
	}
	return &snap, nil
}

// GetOverview reports the ledger as it stood at the end of asOf. Transactions
// dated later are left out of balances and monthly flows alike.
func (s *reportServiceImpl) GetOverview(ctx context.Context, userID int64, asOf models.Date) (*models.PortfolioOverview, error) {
	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	overview := processors.ComputePortfolioOverview(snap.accounts, transactionsThrough(snap.txs, asOf), snap.assets, snap.liabilities, asOf)
	return &overview, nil
}

func transactionsThrough(txs []models.Transaction, asOf models.Date) []models.Transaction {
	kept := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Date.After(asOf) {
			kept = append(kept, tx)
		}
	}
	return kept
}

func (s *reportServiceImpl) GetTrend(ctx context.Context, userID int64, months int, asOf models.Date) ([]models.TrendPoint, error) {
	if months < 1 || months > MaxTrendMonths {
		return nil, fmt.Errorf("%w: months must be between 1 and %d", validation.ErrValidationFailed, MaxTrendMonths)
	}
	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return processors.ComputeMonthlyTrend(snap.accounts, snap.txs, snap.assets, snap.liabilities, months, asOf), nil
}

func (s *reportServiceImpl) GetAllocation(ctx context.Context, userID int64) ([]models.AllocationSlice, error) {
	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return processors.ComputeAllocation(snap.accounts, snap.txs, snap.assets), nil
}
