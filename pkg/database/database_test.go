package database

import (
	"testing"

	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/pkg/config"
	"go-inventory-tracker/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemory_AppliesSchema(t *testing.T) {
	db, err := OpenMemory("database_" + uuid.NewString())
	require.NoError(t, err)

	for _, table := range []any{&model.User{}, &model.Product{}, &model.Transaction{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}
}

func TestOpenMemory_StockCheckConstraint(t *testing.T) {
	db, err := OpenMemory("database_" + uuid.NewString())
	require.NoError(t, err)

	product := model.Product{
		OwnerID:      uuid.New(),
		Name:         "Cola",
		Category:     model.CategoryBeverage,
		Unit:         model.UnitEach,
		CurrentStock: -1,
	}
	assert.Error(t, db.Create(&product).Error)
}

func TestOpenMemory_StoresUTC(t *testing.T) {
	db, err := OpenMemory("database_" + uuid.NewString())
	require.NoError(t, err)

	user := model.User{Email: "a@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	assert.Equal(t, "UTC", user.CreatedAt.Location().String())
}

func TestConnect_RejectsUnknownDriver(t *testing.T) {
	_, err := Connect(config.DBConfig{Driver: "mysql"}, logger.Nop())
	require.Error(t, err)
}
