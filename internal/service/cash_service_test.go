package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/shoppos/backend-go/internal/cashcount"
	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
)

func TestCashGetWithoutRecord(t *testing.T) {
	f := newFixture(t)
	f.sell(t, CheckoutItem{SKU: "COKE", Quantity: 2})

	day, err := f.cash.Get(context.Background(), today)
	require.NoError(t, err)
	assert.False(t, day.Counted)
	assert.True(t, day.StartingFloat.IsZero())
	assert.True(t, dec(30).Equal(day.CashSalesRevenue))
	assert.True(t, dec(30).Equal(day.ExpectedCash))
	assert.Empty(t, day.Status)
}

func TestCashSaveAndRecompute(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.sell(t, CheckoutItem{SKU: "CHIP", Quantity: 2})

	float := dec(500)
	result, err := f.cash.Save(ctx, today, &float, domain.DenominationCount{500: 1, 20: 2})
	require.NoError(t, err)
	assert.True(t, dec(540).Equal(result.ExpectedCash))
	assert.Equal(t, cashcount.StatusBalanced, result.Status)

	// A later sale moves the expectation; the stored float stays.
	f.sell(t, CheckoutItem{SKU: "ICE", Quantity: 1})
	day, err := f.cash.Get(ctx, today)
	require.NoError(t, err)
	assert.True(t, day.Counted)
	assert.True(t, dec(500).Equal(day.StartingFloat))
	assert.True(t, dec(50).Equal(day.CashSalesRevenue))
	assert.True(t, dec(-10).Equal(day.Variance))
	assert.Equal(t, cashcount.StatusShortage, day.Status)

	recount, err := f.cash.Save(ctx, today, nil, domain.DenominationCount{500: 1, 50: 1})
	require.NoError(t, err)
	assert.True(t, dec(500).Equal(recount.StartingFloat))
	assert.Equal(t, cashcount.StatusBalanced, recount.Status)
}

func TestCashSaveRejectsBadCounts(t *testing.T) {
	f := newFixture(t)

	_, err := f.cash.Save(context.Background(), today, nil, domain.DenominationCount{3: 1})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	negative := dec(-1)
	_, err = f.cash.Save(context.Background(), today, &negative, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	day, err := f.cash.Get(context.Background(), today)
	require.NoError(t, err)
	assert.False(t, day.Counted)
}
