package repository

import (
	"context"

	"go-inventory-tracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, ownerID uuid.UUID, sku string) (*model.Product, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error)
	ListLowStock(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error)
	UpdateDetails(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) (int64, error)
	AdjustStock(ctx context.Context, ownerID, id uuid.UUID, delta int) (int64, error)
	Summary(ctx context.Context, ownerID uuid.UUID) (*StockSummary, error)
	CategoryCounts(ctx context.Context, ownerID uuid.UUID) ([]CategoryCount, error)
	TopByValue(ctx context.Context, ownerID uuid.UUID, limit int) ([]ProductValue, error)
}

// StockSummary untuk overview stats
type StockSummary struct {
	ProductCount    int64 `json:"product_count"`
	TotalStockValue int64 `json:"total_stock_value"`
	LowStockCount   int64 `json:"low_stock_count"`
}

type CategoryCount struct {
	Category model.Category `json:"category"`
	Count    int64          `gorm:"column:product_count" json:"count"`
}

type ProductValue struct {
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	StockValue int64     `json:"stock_value"`
}

// Columns editable through UpdateDetails. current_stock is deliberately absent.
var productDetailColumns = []string{"name", "sku", "category", "unit", "unit_price", "min_stock"}

const newestFirst = "created_at DESC, id DESC"

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// WithTx returns a repository bound to tx so it can join a running transaction.
func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySKU returns the first match; the (owner_id, sku) index keeps matches unique.
func (r *productRepo) FindBySKU(ctx context.Context, ownerID uuid.UUID, sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND sku = ?", ownerID, sku).
		Order(newestFirst).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error) {
	products := []model.Product{}
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order(newestFirst).
		Find(&products).Error
	return products, err
}

func (r *productRepo) ListLowStock(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error) {
	products := []model.Product{}
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND current_stock < min_stock", ownerID).
		Order(newestFirst).
		Find(&products).Error
	return products, err
}

// UpdateDetails writes the metadata columns of product. It returns gorm.ErrRecordNotFound
// when no row of the owner matches.
func (r *productRepo) UpdateDetails(ctx context.Context, product *model.Product) error {
	result := r.db.WithContext(ctx).
		Model(product).
		Where("owner_id = ?", product.OwnerID).
		Select(productDetailColumns).
		Updates(product)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Product{})
	return result.RowsAffected, result.Error
}

// AdjustStock applies delta in a single conditional write. Zero rows affected means
// the product is gone or the result would be negative; nothing changes in that case.
func (r *productRepo) AdjustStock(ctx context.Context, ownerID, id uuid.UUID, delta int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND owner_id = ? AND current_stock + ? >= 0", id, ownerID, delta).
		UpdateColumns(map[string]interface{}{
			"current_stock": gorm.Expr("current_stock + ?", delta),
			"updated_at":    r.db.NowFunc(),
		})
	return result.RowsAffected, result.Error
}

func (r *productRepo) Summary(ctx context.Context, ownerID uuid.UUID) (*StockSummary, error) {
	var summary StockSummary
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select(`
			COUNT(*) AS product_count,
			CAST(COALESCE(SUM(CAST(current_stock AS BIGINT) * unit_price), 0) AS BIGINT) AS total_stock_value,
			CAST(COALESCE(SUM(CASE WHEN current_stock < min_stock THEN 1 ELSE 0 END), 0) AS BIGINT) AS low_stock_count
		`).
		Where("owner_id = ?", ownerID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *productRepo) CategoryCounts(ctx context.Context, ownerID uuid.UUID) ([]CategoryCount, error) {
	counts := []CategoryCount{}
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("category, COUNT(*) AS product_count").
		Where("owner_id = ?", ownerID).
		Group("category").
		Order("product_count DESC, category ASC").
		Scan(&counts).Error
	return counts, err
}

func (r *productRepo) TopByValue(ctx context.Context, ownerID uuid.UUID, limit int) ([]ProductValue, error) {
	values := []ProductValue{}
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("id AS product_id, name, CAST(CAST(current_stock AS BIGINT) * unit_price AS BIGINT) AS stock_value").
		Where("owner_id = ?", ownerID).
		Order("stock_value DESC, name ASC").
		Limit(limit).
		Scan(&values).Error
	return values, err
}
