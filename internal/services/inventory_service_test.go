package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/repository"
	"github.com/aibek-k/erp-admin/internal/testutil"
)

func newInventoryService(t *testing.T) *InventoryService {
	t.Helper()
	return NewInventoryService(repository.NewInventoryRepository(testutil.NewTestDB(t)))
}

func TestCreateItem(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, &models.InventoryItem{
		SKU:         "BOLT-M8",
		Name:        "M8 bolt",
		Quantity:    100,
		MinQuantity: 20,
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, "pcs", item.Unit, "unit defaults to pcs")

	_, err = svc.CreateItem(ctx, &models.InventoryItem{Name: "no sku"})
	assert.Error(t, err)

	_, err = svc.CreateItem(ctx, &models.InventoryItem{SKU: "X", Name: "neg", Quantity: -1})
	assert.Error(t, err)
}

func TestAdjustQuantity_ClampsAtZero(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, &models.InventoryItem{
		SKU: "BOLT-M8", Name: "M8 bolt", Quantity: 5,
	})
	require.NoError(t, err)

	item, err = svc.AdjustQuantity(ctx, item.ID, -10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), item.Quantity, "stock never goes negative")

	item, err = svc.AdjustQuantity(ctx, item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), item.Quantity)
}

func TestUpdateItem_RejectsUnknownFields(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, &models.InventoryItem{
		SKU: "BOLT-M8", Name: "M8 bolt", Quantity: 5, UnitPrice: 2.5,
	})
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, item.ID, map[string]interface{}{
		"unit_price = 0, name": "hacked",
	})
	require.Error(t, err, "crafted field names must never reach the query builder")

	got, err := svc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "M8 bolt", got.Name)
	assert.Equal(t, 2.5, got.UnitPrice)

	// Known columns still update normally.
	got, err = svc.UpdateItem(ctx, item.ID, map[string]interface{}{"name": "M8 hex bolt"})
	require.NoError(t, err)
	assert.Equal(t, "M8 hex bolt", got.Name)
}

func TestGetLowStockItems(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, &models.InventoryItem{
		SKU: "LOW-1", Name: "Running out", Quantity: 2, MinQuantity: 5,
	})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, &models.InventoryItem{
		SKU: "OK-1", Name: "At minimum", Quantity: 5, MinQuantity: 5,
	})
	require.NoError(t, err)

	low, err := svc.GetLowStockItems(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1, "only items strictly below minimum are low")
	assert.Equal(t, "LOW-1", low[0].SKU)
	assert.True(t, low[0].LowStock())
}
