package service

import (
	"math"
	"testing"

	"go-inventory-tracker/internal/model"
	apperr "go-inventory-tracker/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() ProductInput {
	return ProductInput{
		Name:      "Cola 500ml",
		SKU:       "8801234567890",
		Category:  string(model.CategoryBeverage),
		Unit:      string(model.UnitEach),
		UnitPrice: 1500,
	}
}

func TestCreateProduct_Defaults(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.Unit = ""

	p, err := f.inventory.CreateProduct(t.Context(), f.owner, in)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultMinStock, p.MinStock)
	assert.Equal(t, model.UnitEach, p.Unit)
	assert.Equal(t, 0, p.CurrentStock)
	assert.Equal(t, f.owner, p.OwnerID)
	assert.Equal(t, []string{EventProductCreated}, f.events.actions())
}

func TestCreateProduct_OpeningStockIsLedgered(t *testing.T) {
	f := newFixture(t)
	in := validInput()
	in.InitialStock = 24

	p, err := f.inventory.CreateProduct(t.Context(), f.owner, in)
	require.NoError(t, err)
	assert.Equal(t, 24, p.CurrentStock)

	views, err := f.dashboard.RecentTransactions(t.Context(), f.owner, RecentTransactionsQuery{ProductID: &p.ID})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, model.TxIn, views[0].Type)
	assert.Equal(t, 24, views[0].Quantity)
	assert.EqualValues(t, 24*1500, views[0].TotalAmount)
	require.NotNil(t, views[0].Memo)
	assert.Equal(t, OpeningStockMemo, *views[0].Memo)
	assert.Equal(t, []string{EventProductCreated, EventTransactionCreated}, f.events.actions())
}

func TestCreateProduct_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*ProductInput)
	}{
		{"blank name", func(in *ProductInput) { in.Name = "  " }},
		{"unknown category", func(in *ProductInput) { in.Category = "weapons" }},
		{"unknown unit", func(in *ProductInput) { in.Unit = "pallet" }},
		{"negative price", func(in *ProductInput) { in.UnitPrice = -1 }},
		{"negative min stock", func(in *ProductInput) { in.MinStock = intPtr(-1) }},
		{"negative initial stock", func(in *ProductInput) { in.InitialStock = -5 }},
		{"initial stock above int32", func(in *ProductInput) { in.InitialStock = math.MaxInt32 + 1 }},
		{"min stock above int32", func(in *ProductInput) { in.MinStock = intPtr(math.MaxInt32 + 1) }},
		{"opening value overflows", func(in *ProductInput) { in.UnitPrice, in.InitialStock = math.MaxInt64/2, 4 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := f.inventory.CreateProduct(t.Context(), f.owner, in)
			require.Error(t, err)
			assert.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err))
		})
	}

	products, err := f.inventory.ListProducts(t.Context(), f.owner)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCreateProduct_DuplicateSKURejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.inventory.CreateProduct(t.Context(), f.owner, validInput())
	require.NoError(t, err)

	dup := validInput()
	dup.Name = "Cola copy"
	dup.SKU = " 8801234567890 "
	_, err = f.inventory.CreateProduct(t.Context(), f.owner, dup)
	assert.ErrorIs(t, err, ErrDuplicateSKU)

	// Scoped per owner.
	_, err = f.inventory.CreateProduct(t.Context(), uuid.New(), validInput())
	assert.NoError(t, err)

	// No SKU never conflicts.
	for i := 0; i < 2; i++ {
		in := validInput()
		in.SKU = ""
		p, err := f.inventory.CreateProduct(t.Context(), f.owner, in)
		require.NoError(t, err)
		assert.Nil(t, p.SKU)
	}
}

func TestUpdateProduct_MetadataOnly(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Soap", 300, 8, 2)

	in := validInput()
	in.Name = "Hand soap"
	in.Category = string(model.CategoryHousehold)
	in.UnitPrice = 350
	in.InitialStock = 1000

	updated, err := f.inventory.UpdateProduct(t.Context(), f.owner, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Hand soap", updated.Name)
	assert.Equal(t, model.CategoryHousehold, updated.Category)
	assert.EqualValues(t, 350, updated.UnitPrice)
	assert.Equal(t, 2, updated.MinStock, "nil min stock keeps the current threshold")
	assert.Equal(t, 8, updated.CurrentStock)
	assert.Equal(t, 8, f.stockOf(t, p.ID))

	_, err = f.inventory.UpdateProduct(t.Context(), f.owner, uuid.New(), in)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateProduct_SKUConflict(t *testing.T) {
	f := newFixture(t)
	first, err := f.inventory.CreateProduct(t.Context(), f.owner, validInput())
	require.NoError(t, err)

	other := validInput()
	other.SKU = "OTHER"
	second, err := f.inventory.CreateProduct(t.Context(), f.owner, other)
	require.NoError(t, err)

	// Keeping its own SKU is fine.
	_, err = f.inventory.UpdateProduct(t.Context(), f.owner, first.ID, validInput())
	require.NoError(t, err)

	_, err = f.inventory.UpdateProduct(t.Context(), f.owner, second.ID, validInput())
	assert.ErrorIs(t, err, ErrDuplicateSKU)
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t, "Soap", 300, 0, 0)

	assert.ErrorIs(t, f.inventory.DeleteProduct(t.Context(), uuid.New(), p.ID), ErrProductNotFound)
	require.NoError(t, f.inventory.DeleteProduct(t.Context(), f.owner, p.ID))
	assert.ErrorIs(t, f.inventory.DeleteProduct(t.Context(), f.owner, p.ID), ErrProductNotFound)

	_, err := f.inventory.GetProduct(t.Context(), f.owner, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Contains(t, f.events.actions(), EventProductDeleted)
}

func TestFindProductBySKU(t *testing.T) {
	f := newFixture(t)
	created, err := f.inventory.CreateProduct(t.Context(), f.owner, validInput())
	require.NoError(t, err)

	found, err := f.inventory.FindProductBySKU(t.Context(), f.owner, " 8801234567890 ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = f.inventory.FindProductBySKU(t.Context(), f.owner, "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = f.inventory.FindProductBySKU(t.Context(), f.owner, "  ")
	assert.ErrorIs(t, err, ErrSKURequired)
}
