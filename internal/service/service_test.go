package service

import (
	"sync"
	"testing"

	"go-inventory-tracker/internal/metrics"
	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/repository"
	"go-inventory-tracker/pkg/database"
	"go-inventory-tracker/pkg/logger"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type publishedEvent struct {
	ownerID uuid.UUID
	action  string
	data    any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(ownerID uuid.UUID, action string, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{ownerID: ownerID, action: action, data: data})
}

func (p *fakePublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	actions := make([]string, len(p.events))
	for i, e := range p.events {
		actions[i] = e.action
	}
	return actions
}

type fixture struct {
	db        *gorm.DB
	inventory *inventoryService
	dashboard *dashboardService
	events    *fakePublisher
	metrics   *metrics.LedgerMetrics
	owner     uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenMemory("service_" + uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	products := repository.NewProductRepo(db)
	transactions := repository.NewTransactionRepo(db)
	events := &fakePublisher{}
	ledgerMetrics := metrics.NewLedgerMetrics(prometheus.NewRegistry())

	return &fixture{
		db:        db,
		inventory: NewInventoryService(db, products, transactions, events, ledgerMetrics, logger.Nop()).(*inventoryService),
		dashboard: NewDashboardService(products, transactions).(*dashboardService),
		events:    events,
		metrics:   ledgerMetrics,
		owner:     uuid.New(),
	}
}

func intPtr(v int) *int { return &v }

// createProduct registers a product whose stock comes from an opening ledger entry.
func (f *fixture) createProduct(t *testing.T, name string, price int64, stock, minStock int) *model.Product {
	t.Helper()
	product, err := f.inventory.CreateProduct(t.Context(), f.owner, ProductInput{
		Name:         name,
		Category:     string(model.CategoryOther),
		Unit:         string(model.UnitEach),
		UnitPrice:    price,
		MinStock:     intPtr(minStock),
		InitialStock: stock,
	})
	require.NoError(t, err)
	return product
}

func (f *fixture) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()
	product, err := f.inventory.GetProduct(t.Context(), f.owner, id)
	require.NoError(t, err)
	return product.CurrentStock
}

func (f *fixture) transactionCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&model.Transaction{}).Count(&count).Error)
	return count
}
