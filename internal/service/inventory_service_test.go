package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/stock"
)

func TestInventorySaveValidatesAgainstCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		patch domain.InventoryPatch
	}{
		{"unknown sku", domain.InventoryPatch{SKU: "NOPE", OpeningBalance: domain.IntPtr(1)}},
		{"untracked product", domain.InventoryPatch{SKU: "ICE", OpeningBalance: domain.IntPtr(1)}},
		{"crate tier missing", domain.InventoryPatch{SKU: "CHIP", WithdrawnCrates: domain.IntPtr(1)}},
		{"negative count", domain.InventoryPatch{SKU: "COKE", PhysicalCount: domain.IntPtr(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.inventory.Save(ctx, today, []domain.InventoryPatch{tt.patch})
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)
		})
	}

	records, err := f.inventory.GetRecords(ctx, today)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestInventorySaveFillsName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.inventory.Save(ctx, today, []domain.InventoryPatch{
		{SKU: " COKE ", WithdrawnCrates: domain.IntPtr(1)},
	}))

	records, err := f.inventory.GetRecords(ctx, today)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "COKE", records[0].SKU)
	assert.Equal(t, "โค้ก", records[0].Name)
	assert.Equal(t, 1, records[0].WithdrawnCrates)
	assert.False(t, records[0].Counted())
}

func TestInventorySaveLeavesCallerPatchesUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	patches := []domain.InventoryPatch{{SKU: " COKE ", OpeningBalance: domain.IntPtr(12)}}
	require.NoError(t, f.inventory.Save(ctx, today, patches))

	assert.Equal(t, " COKE ", patches[0].SKU)
	assert.Empty(t, patches[0].Name)
}

func TestInventoryCarryOver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	yesterday := today.Previous()

	require.NoError(t, f.inventory.Save(ctx, yesterday, []domain.InventoryPatch{
		{SKU: "COKE", PhysicalCount: domain.IntPtr(7)},
		{SKU: "CHIP", OpeningBalance: domain.IntPtr(3)},
	}))

	n, err := f.inventory.CarryOver(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	records, err := f.inventory.GetRecords(ctx, today)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "COKE", records[0].SKU)
	assert.Equal(t, 7, records[0].OpeningBalance)

	again, err := f.inventory.CarryOver(ctx, today)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestInventoryReconcile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.sell(t, CheckoutItem{SKU: "COKE", Quantity: 2}, CheckoutItem{SKU: "ICE", Quantity: 5})
	require.NoError(t, f.inventory.Save(ctx, today, []domain.InventoryPatch{
		{SKU: "COKE", OpeningBalance: domain.IntPtr(7), WithdrawnPieces: domain.IntPtr(3), PhysicalCount: domain.IntPtr(8)},
	}))

	day, err := f.inventory.Reconcile(ctx, today)
	require.NoError(t, err)
	require.Len(t, day.Rows, 2)

	coke := day.Rows[0]
	assert.Equal(t, "COKE", coke.SKU)
	assert.Equal(t, 2, coke.SoldPieces)
	assert.Equal(t, 8, coke.ExpectedRemainingPieces)
	assert.Equal(t, stock.StatusReconciled, coke.Status)

	chip := day.Rows[1]
	assert.Equal(t, "CHIP", chip.SKU)
	assert.Equal(t, stock.StatusNotCounted, chip.Status)
	assert.Nil(t, chip.VarianceFromCount)

	assert.Equal(t, stock.DayTotals{Products: 2, Counted: 1, NotCounted: 1, Reconciled: 1, SoldPieces: 2}, day.Totals)
}

func TestInventoryHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.sell(t, CheckoutItem{SKU: "CHIP", Quantity: 1})
	require.NoError(t, f.inventory.Save(ctx, today.Previous(), []domain.InventoryPatch{
		{SKU: "CHIP", OpeningBalance: domain.IntPtr(4), PhysicalCount: domain.IntPtr(3)},
	}))

	lines, err := f.inventory.History(ctx, today.Previous(), today)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, today.Previous(), lines[0].Date)
	assert.Equal(t, "0.00", lines[0].Revenue)
	assert.Equal(t, 1, lines[0].Shortage)
	assert.Equal(t, -1, lines[0].NetVariance)

	assert.Equal(t, today, lines[1].Date)
	assert.Equal(t, "20.00", lines[1].Revenue)
	assert.Equal(t, 0, lines[1].Counted)
	assert.Equal(t, 1, lines[1].SoldPieces)
}

func TestInventoryHistoryRejectsBadRanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.inventory.History(ctx, today, today.Previous())
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	from := today
	for i := 0; i < MaxHistoryDays; i++ {
		from = from.Previous()
	}
	_, err = f.inventory.History(ctx, from, today)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.inventory.History(ctx, domain.BusinessDate{}, today)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
