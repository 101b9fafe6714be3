package repository

import (
	"testing"
	"time"

	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory("repository_" + uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func strPtr(s string) *string { return &s }

type productOption func(*model.Product)

func withStock(stock, minStock int) productOption {
	return func(p *model.Product) {
		p.CurrentStock = stock
		p.MinStock = minStock
	}
}

func withSKU(sku string) productOption {
	return func(p *model.Product) { p.SKU = strPtr(sku) }
}

func withCategory(c model.Category) productOption {
	return func(p *model.Product) { p.Category = c }
}

func withCreatedAt(at time.Time) productOption {
	return func(p *model.Product) { p.CreatedAt = at }
}

func seedProduct(t *testing.T, repo ProductRepository, ownerID uuid.UUID, name string, price int64, opts ...productOption) *model.Product {
	t.Helper()
	p := &model.Product{
		OwnerID:   ownerID,
		Name:      name,
		Category:  model.CategoryOther,
		Unit:      model.UnitEach,
		UnitPrice: price,
		MinStock:  model.DefaultMinStock,
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, repo.Create(t.Context(), p))
	return p
}
