package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/rowstore/memory"
)

var day = domain.NewBusinessDate(2025, time.February, 14)

func TestCatalogCleanup(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.EnsureTable(ctx, ProductsTable, append(ProductHeaders, "รหัสสินค้า", "ราคา")))
	require.NoError(t, store.AddRows(ctx, ProductsTable, []map[string]string{
		{"รหัส SKU": "8.85029E+12", "ชื่อสินค้า": "โค้ก", "ราคา (บาท)": "15", "Path รูปภาพ": "coke_8850999320014.jpg", "นับสต็อก": "TRUE", "ชิ้นต่อแพ็ค": "12"},
		{"รหัส SKU": "", "ชื่อสินค้า": "ไม่มีราคา", "ราคา (บาท)": "0"},
		{"รหัส SKU": "", "ชื่อสินค้า": "น้ำแข็ง", "ราคา": "10", "Path รูปภาพ": "/static/ice.png"},
		{"รหัสสินค้า": "1.2E+9", "ชื่อสินค้า": "ขนม", "ราคา (บาท)": "5.50", "Path รูปภาพ": "https://cdn/x.png"},
		{"รหัส SKU": "A1", "ชื่อสินค้า": "", "ราคา (บาท)": "20"},
	}))

	products, err := NewCatalogRepository(store).ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, "8850999320014", products[0].SKU)
	assert.Equal(t, "image/coke_8850999320014.jpg", products[0].Image)
	assert.True(t, products[0].IsInventoryTracked)
	assert.Equal(t, 12, products[0].PiecesPerPack)
	assert.Equal(t, 0, products[0].PacksPerCrate)

	assert.Equal(t, synthesizeSKU("น้ำแข็ง", false), products[1].SKU)
	assert.Regexp(t, `^ITEM_[0-9A-F]{8}$`, products[1].SKU)
	assert.Equal(t, "/static/ice.png", products[1].Image)
	assert.False(t, products[1].IsInventoryTracked)

	assert.Equal(t, "1200000000", products[2].SKU)
	assert.True(t, decimal.RequireFromString("5.5").Equal(products[2].UnitPrice))
}

func TestSynthesizedSKUSurvivesInsertedRows(t *testing.T) {
	ctx := context.Background()

	list := func(rows ...map[string]string) []domain.Product {
		store := memory.New()
		require.NoError(t, store.EnsureTable(ctx, ProductsTable, ProductHeaders))
		require.NoError(t, store.AddRows(ctx, ProductsTable, rows))
		products, err := NewCatalogRepository(store).ListProducts(ctx)
		require.NoError(t, err)
		return products
	}
	ice := map[string]string{"ชื่อสินค้า": "น้ำแข็ง", "ราคา (บาท)": "10"}

	before := list(ice)
	after := list(
		map[string]string{"รหัส SKU": "NEW", "ชื่อสินค้า": "ใหม่", "ราคา (บาท)": "5"},
		map[string]string{"ชื่อสินค้า": "ถุง", "ราคา (บาท)": "1"},
		ice,
	)

	require.Len(t, before, 1)
	require.Len(t, after, 3)
	assert.Equal(t, before[0].SKU, after[2].SKU)
	assert.NotEqual(t, after[1].SKU, after[2].SKU)
}

func TestSynthesizedSKUCollisionUsesLongForm(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	short := synthesizeSKU("น้ำแข็ง", false)
	require.NoError(t, store.EnsureTable(ctx, ProductsTable, ProductHeaders))
	require.NoError(t, store.AddRows(ctx, ProductsTable, []map[string]string{
		{"รหัส SKU": short, "ชื่อสินค้า": "อื่น", "ราคา (บาท)": "3"},
		{"ชื่อสินค้า": "น้ำแข็ง", "ราคา (บาท)": "10"},
		{"ชื่อสินค้า": "น้ำแข็ง", "ราคา (บาท)": "12"},
	}))

	products, err := NewCatalogRepository(store).ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, short, products[0].SKU)
	assert.Equal(t, synthesizeSKU("น้ำแข็ง", true), products[1].SKU)
	assert.True(t, decimal.NewFromInt(10).Equal(products[1].UnitPrice))
}

func TestCatalogMissingSheet(t *testing.T) {
	_, err := NewCatalogRepository(memory.New()).ListProducts(context.Background())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSalesRoundTripAndDates(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := NewSalesRepository(store)

	lines, err := repo.GetSalesForDate(ctx, day)
	require.NoError(t, err)
	assert.Empty(t, lines)

	require.NoError(t, repo.AppendSale(ctx, day, []domain.SaleLine{{
		BillID: "143055", Time: "14:30:55", SKU: "A", ProductName: "โค้ก", Quantity: 2,
		UnitPrice: decimal.NewFromInt(15), LineTotal: decimal.NewFromInt(30), BillTotal: decimal.NewFromInt(30),
		Received: decimal.NewFromInt(30), PaymentMethod: domain.PaymentTransfer,
	}}))
	require.NoError(t, repo.AppendSale(ctx, day.Previous(), []domain.SaleLine{{BillID: "1", Quantity: 1}}))
	require.NoError(t, store.EnsureTable(ctx, ProductsTable, ProductHeaders))
	require.NoError(t, repo.AppendSale(ctx, day.Next().Next(), []domain.SaleLine{{BillID: "2", Quantity: 1}}))

	lines, err = repo.GetSalesForDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, domain.PaymentTransfer, lines[0].PaymentMethod)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(30).Equal(lines[0].BillTotal))

	dates, err := repo.ListAvailableDates(ctx)
	require.NoError(t, err)
	require.Len(t, dates, 3)
	assert.Equal(t, "16-02-2025", dates[0].String())
	assert.Equal(t, "14-02-2025", dates[1].String())
	assert.Equal(t, "13-02-2025", dates[2].String())
}

func TestSalesUnknownPaymentAndBadNumbers(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.EnsureTable(ctx, day.String(), SalesHeaders))
	require.NoError(t, store.AddRows(ctx, day.String(), []map[string]string{
		{"บิล": "1", "จำนวน": "two", "ยอดรวมทั้งบิล": "", "การชำระเงิน": "บัตร"},
		{"บิล": "2", "จำนวน": "1", "ยอดรวมทั้งบิล": "20"},
	}))

	lines, err := NewSalesRepository(store).GetSalesForDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, domain.PaymentUnknown, lines[0].PaymentMethod)
	assert.Equal(t, 0, lines[0].Quantity)
	assert.True(t, lines[0].BillTotal.IsZero())
	assert.Equal(t, domain.PaymentCash, lines[1].PaymentMethod)
}

func TestInventorySparseUpsert(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := NewInventoryRepository(store)

	require.NoError(t, repo.PutInventoryForDate(ctx, day, []domain.InventoryPatch{
		{SKU: "A", Name: "โค้ก", OpeningBalance: domain.IntPtr(5), WithdrawnPacks: domain.IntPtr(2)},
	}))
	require.NoError(t, repo.PutInventoryForDate(ctx, day.Previous(), []domain.InventoryPatch{
		{SKU: "A", Name: "โค้ก", PhysicalCount: domain.IntPtr(5)},
	}))

	records, err := repo.GetInventoryForDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 5, records[0].OpeningBalance)
	assert.False(t, records[0].Counted())

	require.NoError(t, repo.PutInventoryForDate(ctx, day, []domain.InventoryPatch{
		{SKU: "A", SplitPacksIntoPieces: domain.IntPtr(2), PhysicalCount: domain.IntPtr(0)},
		{SKU: "B", WithdrawnPieces: domain.IntPtr(3)},
		{SKU: "B", PhysicalCount: domain.IntPtr(1)},
	}))

	records, err = repo.GetInventoryForDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, records, 2)

	a := records[0]
	assert.Equal(t, "A", a.SKU)
	assert.Equal(t, "โค้ก", a.Name)
	assert.Equal(t, 5, a.OpeningBalance)
	assert.Equal(t, 2, a.WithdrawnPacks)
	assert.Equal(t, 2, a.SplitPacksIntoPieces)
	require.True(t, a.Counted())
	assert.Equal(t, 0, *a.PhysicalCount)

	b := records[1]
	assert.Equal(t, 3, b.WithdrawnPieces)
	require.True(t, b.Counted())
	assert.Equal(t, 1, *b.PhysicalCount)

	rows, err := store.GetRows(ctx, InventoryTable)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestInventoryRejectsMissingSKU(t *testing.T) {
	err := NewInventoryRepository(memory.New()).PutInventoryForDate(context.Background(), day,
		[]domain.InventoryPatch{{Name: "x"}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCashUpsert(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := NewCashRepository(store)

	rec, err := repo.GetCashForDate(ctx, day)
	require.NoError(t, err)
	assert.Nil(t, rec)

	put := domain.CashDayRecord{
		Date:             day,
		StartingFloat:    decimal.NewFromInt(1000),
		CashSalesRevenue: decimal.NewFromInt(5000),
		ExpectedCash:     decimal.NewFromInt(6000),
		ActualCash:       decimal.NewFromInt(5800),
		Variance:         decimal.NewFromInt(-200),
	}
	require.NoError(t, repo.PutCashForDate(ctx, put))
	put.ActualCash = decimal.NewFromInt(6000)
	put.Variance = decimal.Zero
	require.NoError(t, repo.PutCashForDate(ctx, put))

	rows, err := store.GetRows(ctx, CashTable)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rec, err = repo.GetCashForDate(ctx, day)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, decimal.NewFromInt(1000).Equal(rec.StartingFloat))
	assert.True(t, decimal.NewFromInt(6000).Equal(rec.ActualCash))
	assert.True(t, rec.Variance.IsZero())
}
