package service

import (
	"context"
	"time"

	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultRecentLimit = 100
	MaxRecentLimit     = 500
	DefaultTopN        = 10
	MaxTopN            = 100
	DefaultTrendDays   = 30
	MaxTrendDays       = 366
)

// RecentTransactionsQuery filters RecentTransactions. Zero values mean defaults.
// Since is inclusive and Until exclusive, both compared against occurred_at.
type RecentTransactionsQuery struct {
	Limit     int
	ProductID *uuid.UUID
	Type      model.TransactionType
	Since     *time.Time
	Until     *time.Time
}

// DashboardService computes read-only views over committed state. Nothing is cached.
type DashboardService interface {
	Summary(ctx context.Context, ownerID uuid.UUID) (*repository.StockSummary, error)
	LowStockList(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error)
	RecentTransactions(ctx context.Context, ownerID uuid.UUID, query RecentTransactionsQuery) ([]model.TransactionView, error)
	CategoryDistribution(ctx context.Context, ownerID uuid.UUID) ([]repository.CategoryCount, error)
	TopValueProducts(ctx context.Context, ownerID uuid.UUID, n int) ([]repository.ProductValue, error)
	TransactionTrend(ctx context.Context, ownerID uuid.UUID, days int) ([]repository.StockMovementData, error)
	MovementTotals(ctx context.Context, ownerID uuid.UUID, days int) (*repository.MovementTotals, error)
	Inventory(ctx context.Context, ownerID uuid.UUID) ([]model.ProductStatus, error)
}

type dashboardService struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	now         func() time.Time
}

func NewDashboardService(productRepo repository.ProductRepository, txRepo repository.TransactionRepository) DashboardService {
	return &dashboardService{productRepo: productRepo, txRepo: txRepo, now: time.Now}
}

// Summary values stock at each product's current unit price.
func (s *dashboardService) Summary(ctx context.Context, ownerID uuid.UUID) (*repository.StockSummary, error) {
	summary, err := s.productRepo.Summary(ctx, ownerID)
	if err != nil {
		return nil, persistenceFailure(err, "loading summary")
	}
	return summary, nil
}

func (s *dashboardService) LowStockList(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error) {
	products, err := s.productRepo.ListLowStock(ctx, ownerID)
	if err != nil {
		return nil, persistenceFailure(err, "listing low stock")
	}
	return products, nil
}

func (s *dashboardService) RecentTransactions(ctx context.Context, ownerID uuid.UUID, query RecentTransactionsQuery) ([]model.TransactionView, error) {
	if query.Type != "" && !query.Type.IsValid() {
		return nil, ErrInvalidTransactionType
	}
	if query.Since != nil && query.Until != nil && !query.Since.Before(*query.Until) {
		return nil, ErrInvalidDateRange
	}

	views, err := s.txRepo.List(ctx, ownerID, repository.TransactionFilter{
		ProductID: query.ProductID,
		Type:      query.Type,
		Since:     query.Since,
		Until:     query.Until,
		Limit:     clamp(query.Limit, DefaultRecentLimit, MaxRecentLimit),
	})
	if err != nil {
		return nil, persistenceFailure(err, "listing transactions")
	}
	return views, nil
}

func (s *dashboardService) CategoryDistribution(ctx context.Context, ownerID uuid.UUID) ([]repository.CategoryCount, error) {
	counts, err := s.productRepo.CategoryCounts(ctx, ownerID)
	if err != nil {
		return nil, persistenceFailure(err, "counting categories")
	}
	return counts, nil
}

func (s *dashboardService) TopValueProducts(ctx context.Context, ownerID uuid.UUID, n int) ([]repository.ProductValue, error) {
	values, err := s.productRepo.TopByValue(ctx, ownerID, clamp(n, DefaultTopN, MaxTopN))
	if err != nil {
		return nil, persistenceFailure(err, "ranking products")
	}
	return values, nil
}

// TransactionTrend returns per-day quantities for the last days days including today.
// Days without movement are omitted.
func (s *dashboardService) TransactionTrend(ctx context.Context, ownerID uuid.UUID, days int) ([]repository.StockMovementData, error) {
	movement, err := s.txRepo.GetStockMovement(ctx, ownerID, s.windowStart(days))
	if err != nil {
		return nil, persistenceFailure(err, "loading trend")
	}
	return movement, nil
}

func (s *dashboardService) MovementTotals(ctx context.Context, ownerID uuid.UUID, days int) (*repository.MovementTotals, error) {
	totals, err := s.txRepo.GetMovementTotals(ctx, ownerID, s.windowStart(days))
	if err != nil {
		return nil, persistenceFailure(err, "loading movement totals")
	}
	return totals, nil
}

func (s *dashboardService) Inventory(ctx context.Context, ownerID uuid.UUID) ([]model.ProductStatus, error) {
	products, err := s.productRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, persistenceFailure(err, "listing inventory")
	}
	statuses := make([]model.ProductStatus, len(products))
	for i := range products {
		statuses[i] = products[i].Status()
	}
	return statuses, nil
}

func (s *dashboardService) windowStart(days int) time.Time {
	days = clamp(days, DefaultTrendDays, MaxTrendDays)
	today := s.now().UTC().Truncate(24 * time.Hour)
	return today.AddDate(0, 0, -(days - 1))
}

// clamp applies def to non-positive values and caps at upper.
func clamp(value, def, upper int) int {
	if value <= 0 {
		return def
	}
	if value > upper {
		return upper
	}
	return value
}
