package service

import (
	"context"

	"github.com/campus-aura/backend/internal/domain"
	"github.com/campus-aura/backend/internal/repository"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

const (
	// DefaultRecentTransactions is used when no positive limit is given.
	DefaultRecentTransactions = 10
	maxRecentTransactions     = 100
)

// TransactionService reports on payments. Transactions are written elsewhere.
type TransactionService struct {
	transactions repository.TransactionRepository
}

func NewTransactionService(repo repository.TransactionRepository) *TransactionService {
	return &TransactionService{transactions: repo}
}

// List returns every transaction, newest first.
func (s *TransactionService) List(ctx context.Context) ([]*domain.Transaction, error) {
	list, err := s.transactions.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return list, nil
}

// Recent returns the latest transactions.
func (s *TransactionService) Recent(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = DefaultRecentTransactions
	}
	list, err := s.transactions.Recent(ctx, clamp(limit, 1, maxRecentTransactions))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return list, nil
}

// RevenueByType sums completed transaction amounts per type.
func (s *TransactionService) RevenueByType(ctx context.Context) (map[domain.TransactionType]float64, error) {
	completed, err := s.transactions.ListCompleted(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	revenue := map[domain.TransactionType]float64{
		domain.TransactionTypeTicket:      0,
		domain.TransactionTypeMarketplace: 0,
	}
	for _, t := range completed {
		revenue[t.Type] += t.Amount
	}
	return revenue, nil
}

// PaymentStats aggregates completed revenue and the recent transactions.
func (s *TransactionService) PaymentStats(ctx context.Context) (*domain.PaymentStats, error) {
	revenue, err := s.RevenueByType(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.Recent(ctx, DefaultRecentTransactions)
	if err != nil {
		return nil, err
	}
	stats := &domain.PaymentStats{
		TicketRevenue:      revenue[domain.TransactionTypeTicket],
		MarketplaceRevenue: revenue[domain.TransactionTypeMarketplace],
		RecentTransactions: recent,
	}
	stats.TotalRevenue = stats.TicketRevenue + stats.MarketplaceRevenue
	return stats, nil
}
