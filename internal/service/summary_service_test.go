package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/repository"
)

func TestSummaryCachesSettledDaysOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sales := repository.NewSalesRepository(f.store)

	require.NoError(t, sales.AppendSale(ctx, lastWeek, []domain.SaleLine{
		{BillID: "090000", SKU: "ICE", ProductName: "น้ำแข็ง", Quantity: 1,
			UnitPrice: dec(10), LineTotal: dec(10), BillTotal: dec(10), PaymentMethod: domain.PaymentCash},
	}))

	first, err := f.summaries.GetSummary(ctx, lastWeek)
	require.NoError(t, err)
	assert.True(t, dec(10).Equal(first.Totals.Revenue))
	assert.Equal(t, 1, f.cache.sets)

	// A later edit to a settled day is not seen until the cache entry goes.
	require.NoError(t, sales.AppendSale(ctx, lastWeek, []domain.SaleLine{
		{BillID: "100000", SKU: "ICE", ProductName: "น้ำแข็ง", Quantity: 1,
			UnitPrice: dec(10), LineTotal: dec(10), BillTotal: dec(10), PaymentMethod: domain.PaymentCash},
	}))
	second, err := f.summaries.GetSummary(ctx, lastWeek)
	require.NoError(t, err)
	assert.True(t, dec(10).Equal(second.Totals.Revenue))

	f.sell(t, CheckoutItem{SKU: "ICE", Quantity: 1})
	f.sell(t, CheckoutItem{SKU: "ICE", Quantity: 1})
	_, err = f.summaries.GetSummary(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.sets, "today must not be cached")
}

func TestSummaryEmptyDay(t *testing.T) {
	f := newFixture(t)

	day, err := f.summaries.GetSummary(context.Background(), lastWeek)
	require.NoError(t, err)
	assert.Equal(t, lastWeek, day.Date)
	assert.Empty(t, day.Products)
	assert.Empty(t, day.Bills)
	assert.True(t, day.Totals.Revenue.IsZero())
}

func TestSummaryFlushCacheSeesHandEdits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sales := repository.NewSalesRepository(f.store)
	earlier := today.Previous()

	for _, d := range []domain.BusinessDate{lastWeek, earlier} {
		require.NoError(t, sales.AppendSale(ctx, d, []domain.SaleLine{
			{BillID: "090000", SKU: "ICE", ProductName: "น้ำแข็ง", Quantity: 1,
				UnitPrice: dec(10), LineTotal: dec(10), BillTotal: dec(10), PaymentMethod: domain.PaymentCash},
		}))
		_, err := f.summaries.GetSummary(ctx, d)
		require.NoError(t, err)
	}
	require.NoError(t, sales.AppendSale(ctx, lastWeek, []domain.SaleLine{
		{BillID: "100000", SKU: "ICE", ProductName: "น้ำแข็ง", Quantity: 2,
			UnitPrice: dec(10), LineTotal: dec(20), BillTotal: dec(20), PaymentMethod: domain.PaymentCash},
	}))

	n, err := f.summaries.FlushCache(ctx, &lastWeek)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	day, err := f.summaries.GetSummary(ctx, lastWeek)
	require.NoError(t, err)
	assert.True(t, dec(30).Equal(day.Totals.Revenue))

	n, err = f.summaries.FlushCache(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, ok, err := f.cache.GetSummary(ctx, earlier)
	require.NoError(t, err)
	assert.False(t, ok)
}
