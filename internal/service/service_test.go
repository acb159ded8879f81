package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/repository"
	"github.com/andresuchdata/shoppos/backend-go/internal/rowstore/memory"
	"github.com/andresuchdata/shoppos/backend-go/internal/summary"
)

var (
	ict      = time.FixedZone("ICT", 7*60*60)
	shopNow  = time.Date(2025, time.February, 14, 14, 30, 55, 0, ict)
	today    = domain.NewBusinessDate(2025, time.February, 14)
	lastWeek = domain.NewBusinessDate(2025, time.February, 7)
)

type fixture struct {
	store     *memory.Store
	cache     *recordingCache
	clock     Clock
	catalog   *CatalogService
	checkout  *CheckoutService
	summaries *SummaryService
	inventory *InventoryService
	cash      *CashService
	reports   *ReportService
	rung      int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.New()
	require.NoError(t, store.EnsureTable(ctx, repository.ProductsTable, repository.ProductHeaders))
	require.NoError(t, store.AddRows(ctx, repository.ProductsTable, []map[string]string{
		{"รหัส SKU": "COKE", "ชื่อสินค้า": "โค้ก", "ราคา (บาท)": "15", "นับสต็อก": "1", "ชิ้นต่อแพ็ค": "6", "แพ็คต่อลัง": "4"},
		{"รหัส SKU": "ICE", "ชื่อสินค้า": "น้ำแข็ง", "ราคา (บาท)": "10"},
		{"รหัส SKU": "CHIP", "ชื่อสินค้า": "ขนม", "ราคา (บาท)": "20", "นับสต็อก": "1"},
	}))

	f := &fixture{
		store: store,
		cache: newRecordingCache(),
		clock: Clock{Now: func() time.Time { return shopNow }, Location: ict},
	}

	catalogRepo := repository.NewCatalogRepository(store)
	salesRepo := repository.NewSalesRepository(store)

	f.catalog = NewCatalogService(catalogRepo)
	f.summaries = NewSummaryService(salesRepo, f.cache, f.clock)
	f.checkout = NewCheckoutService(catalogRepo, salesRepo, f.cache, f.clock)
	f.inventory = NewInventoryService(catalogRepo, repository.NewInventoryRepository(store), f.summaries)
	f.cash = NewCashService(repository.NewCashRepository(store), f.summaries)
	f.reports = NewReportService(f.inventory, f.cash)
	return f
}

// sell rings up one cash bill, one second after the previous one.
func (f *fixture) sell(t *testing.T, items ...CheckoutItem) *Receipt {
	t.Helper()
	f.rung++
	at := shopNow.Add(time.Duration(f.rung) * time.Second)
	receipt, err := f.checkout.Checkout(context.Background(), at, CheckoutRequest{
		Items:    items,
		Received: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	return receipt
}

type recordingCache struct {
	mu          sync.Mutex
	days        map[string]summary.DailySummary
	sets        int
	invalidated []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{days: make(map[string]summary.DailySummary)}
}

func (c *recordingCache) GetSummary(_ context.Context, date domain.BusinessDate) (*summary.DailySummary, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.days[date.String()]
	if !ok {
		return nil, false, nil
	}
	return &s, true, nil
}

func (c *recordingCache) SetSummary(_ context.Context, s summary.DailySummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.days[s.Date.String()] = s
	return nil
}

func (c *recordingCache) InvalidateSummary(_ context.Context, date domain.BusinessDate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, date.String())
	delete(c.days, date.String())
	return nil
}

func (c *recordingCache) InvalidateAll(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.days)
	c.days = make(map[string]summary.DailySummary)
	return n, nil
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
