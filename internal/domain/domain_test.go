package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBusinessDate(t *testing.T) {
	d, err := ParseBusinessDate("14-02-2025")
	require.NoError(t, err)
	assert.Equal(t, "14-02-2025", d.String())
	assert.Equal(t, "13-02-2025", d.Previous().String())
	assert.Equal(t, "01-03-2025", NewBusinessDate(2025, time.February, 28).Next().String())

	for _, bad := range []string{"", "2025-02-14", "14/02/2025", "32-01-2025", "1-2-2025"} {
		_, err := ParseBusinessDate(bad)
		assert.True(t, errors.Is(err, ErrInvalidInput), "input %q", bad)
	}
}

func TestTodayUsesBusinessTimezone(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*60*60)
	// 18:30 UTC on the 14th is already the 15th in Bangkok.
	now := time.Date(2025, time.February, 14, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "15-02-2025", Today(now, bangkok).String())
	assert.Equal(t, "14-02-2025", Today(now, nil).String())
}

func TestDaysBetween(t *testing.T) {
	from := NewBusinessDate(2025, time.January, 30)
	to := NewBusinessDate(2025, time.February, 2)

	days := from.DaysBetween(to)
	require.Len(t, days, 4)
	assert.Equal(t, "30-01-2025", days[0].String())
	assert.Equal(t, "02-02-2025", days[3].String())
	assert.Empty(t, to.DaysBetween(from))
}

func TestBusinessDateJSON(t *testing.T) {
	var payload struct {
		Date BusinessDate `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"05-06-2025"}`), &payload))
	assert.Equal(t, "05-06-2025", payload.Date.String())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"05-06-2025"}`, string(out))

	err = json.Unmarshal([]byte(`{"date":"2025-06-05"}`), &payload)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestParsePaymentMethod(t *testing.T) {
	cases := []struct {
		raw  string
		want PaymentMethod
		ok   bool
	}{
		{"", PaymentCash, true},
		{"เงินสด", PaymentCash, true},
		{"CASH", PaymentCash, true},
		{"โอน", PaymentTransfer, true},
		{" transfer ", PaymentTransfer, true},
		{"บัตรเครดิต", "", false},
	}
	for _, tc := range cases {
		got, ok := ParsePaymentMethod(tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.raw)
		}
	}

	assert.Equal(t, "โอน", PaymentTransfer.Label())
	assert.Equal(t, "เงินสด", PaymentCash.Label())
}

func TestPaymentMethodJSON(t *testing.T) {
	var m PaymentMethod
	require.NoError(t, json.Unmarshal([]byte(`"transfer"`), &m))
	assert.Equal(t, PaymentTransfer, m)
	assert.True(t, errors.Is(json.Unmarshal([]byte(`"cheque"`), &m), ErrInvalidInput))
}

func TestInventoryPatchApply(t *testing.T) {
	date := NewBusinessDate(2025, time.February, 14)

	t.Run("new record defaults to zero and not counted", func(t *testing.T) {
		rec := InventoryPatch{SKU: "A", Name: "น้ำดื่ม", WithdrawnPacks: IntPtr(2)}.Apply(date, nil)
		assert.Equal(t, "A", rec.SKU)
		assert.Equal(t, "น้ำดื่ม", rec.Name)
		assert.Equal(t, 2, rec.WithdrawnPacks)
		assert.Zero(t, rec.OpeningBalance)
		assert.Zero(t, rec.SplitPacksIntoPieces)
		assert.False(t, rec.Counted())
	})

	t.Run("present fields overwrite and absent fields keep", func(t *testing.T) {
		existing := &InventoryDayRecord{
			Date: date, SKU: "A", Name: "เดิม",
			OpeningBalance: 5, WithdrawnPacks: 2, SplitPacksIntoPieces: 1,
		}
		rec := InventoryPatch{SKU: "A", Name: "ใหม่", SplitPacksIntoPieces: IntPtr(2), PhysicalCount: IntPtr(0)}.Apply(date, existing)

		assert.Equal(t, "เดิม", rec.Name)
		assert.Equal(t, 5, rec.OpeningBalance)
		assert.Equal(t, 2, rec.WithdrawnPacks)
		assert.Equal(t, 2, rec.SplitPacksIntoPieces)
		require.True(t, rec.Counted())
		assert.Equal(t, 0, *rec.PhysicalCount)
		assert.Equal(t, 1, existing.SplitPacksIntoPieces, "existing record must not be mutated")
	})

	t.Run("absent count keeps the stored count", func(t *testing.T) {
		existing := &InventoryDayRecord{SKU: "A", PhysicalCount: IntPtr(9)}
		rec := InventoryPatch{SKU: "A", WithdrawnPieces: IntPtr(3)}.Apply(date, existing)
		require.True(t, rec.Counted())
		assert.Equal(t, 9, *rec.PhysicalCount)
	})
}

func TestDenominationCount(t *testing.T) {
	counts := DenominationCount{1000: 5, 500: 1, 100: 3}
	require.NoError(t, counts.Validate())
	assert.True(t, decimal.NewFromInt(5800).Equal(counts.Total()))

	assert.True(t, errors.Is(DenominationCount{25: 1}.Validate(), ErrInvalidInput))
	assert.True(t, errors.Is(DenominationCount{100: -1}.Validate(), ErrInvalidInput))
	assert.True(t, DenominationCount{}.Total().IsZero())
}

func TestProductTiers(t *testing.T) {
	p := Product{Name: "โค้ก", UnitPrice: decimal.NewFromInt(15), PiecesPerPack: 12}
	assert.True(t, p.Sellable())
	assert.True(t, p.HasPackTier())
	assert.False(t, p.HasCrateTier())
	assert.False(t, Product{Name: "x"}.Sellable())
}
