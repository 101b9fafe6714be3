package repository

import (
	"context"
	"time"

	"go-inventory-tracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	WithTx(tx *gorm.DB) TransactionRepository
	Create(ctx context.Context, transaction *model.Transaction) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.TransactionView, error)
	List(ctx context.Context, ownerID uuid.UUID, filter TransactionFilter) ([]model.TransactionView, error)
	GetStockMovement(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]StockMovementData, error)
	GetMovementTotals(ctx context.Context, ownerID uuid.UUID, since time.Time) (*MovementTotals, error)
}

// TransactionFilter narrows List. Zero values mean no restriction, except Limit which must be set.
type TransactionFilter struct {
	ProductID *uuid.UUID
	Type      model.TransactionType
	Since     *time.Time
	Until     *time.Time
	Limit     int
}

// StockMovementData untuk chart data
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type MovementTotals struct {
	InboundAmount  int64 `json:"inbound_amount"`
	OutboundAmount int64 `json:"outbound_amount"`
}

const viewColumns = "t.*, p.name AS product_name, p.sku AS product_sku"

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) WithTx(tx *gorm.DB) TransactionRepository {
	return &transactionRepo{tx}
}

func (r *transactionRepo) Create(ctx context.Context, transaction *model.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

// views joins products without requiring them: deleted products leave NULL name and sku.
func (r *transactionRepo) views(ctx context.Context, ownerID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("transactions AS t").
		Select(viewColumns).
		Joins("LEFT JOIN products AS p ON p.id = t.product_id AND p.owner_id = t.owner_id").
		Where("t.owner_id = ?", ownerID)
}

func (r *transactionRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.TransactionView, error) {
	var views []model.TransactionView
	if err := r.views(ctx, ownerID).Where("t.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	view := views[0]
	view.ProductLabel = view.DisplayProductName()
	return &view, nil
}

func (r *transactionRepo) List(ctx context.Context, ownerID uuid.UUID, filter TransactionFilter) ([]model.TransactionView, error) {
	query := r.views(ctx, ownerID)
	if filter.ProductID != nil {
		query = query.Where("t.product_id = ?", *filter.ProductID)
	}
	if filter.Type != "" {
		query = query.Where("t.type = ?", filter.Type)
	}
	if filter.Since != nil {
		query = query.Where("t.occurred_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		query = query.Where("t.occurred_at < ?", *filter.Until)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	views := []model.TransactionView{}
	err := query.
		Order("t.occurred_at DESC, t.created_at DESC, t.id DESC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].ProductLabel = views[i].DisplayProductName()
	}
	return views, nil
}

// GetStockMovement sums quantities per occurrence day (UTC), oldest day first.
// Days are bucketed here rather than in SQL so the result is identical on every driver.
func (r *transactionRepo) GetStockMovement(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]StockMovementData, error) {
	rows, err := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Select("type, quantity, occurred_at").
		Where("owner_id = ? AND occurred_at >= ?", ownerID, since).
		Order("occurred_at ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []StockMovementData{}
	index := map[string]int{}
	for rows.Next() {
		var (
			txType     model.TransactionType
			quantity   int
			occurredAt time.Time
		)
		if err := rows.Scan(&txType, &quantity, &occurredAt); err != nil {
			return nil, err
		}

		date := occurredAt.UTC().Format("2006-01-02")
		i, ok := index[date]
		if !ok {
			results = append(results, StockMovementData{Date: date})
			i = len(results) - 1
			index[date] = i
		}
		if txType == model.TxIn {
			results[i].Inbound += quantity
		} else {
			results[i].Outbound += quantity
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

func (r *transactionRepo) GetMovementTotals(ctx context.Context, ownerID uuid.UUID, since time.Time) (*MovementTotals, error) {
	var totals MovementTotals
	err := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Select(`
			CAST(COALESCE(SUM(CASE WHEN type = ? THEN total_amount ELSE 0 END), 0) AS BIGINT) AS inbound_amount,
			CAST(COALESCE(SUM(CASE WHEN type = ? THEN total_amount ELSE 0 END), 0) AS BIGINT) AS outbound_amount
		`, model.TxIn, model.TxOut).
		Where("owner_id = ? AND occurred_at >= ?", ownerID, since).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
