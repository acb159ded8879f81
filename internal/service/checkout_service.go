package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/andresuchdata/shoppos/backend-go/internal/cache"
	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/repository"
)

const (
	billIDLayout   = "150405"
	billTimeLayout = "15:04:05"
)

type CheckoutItem struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	// UnitPrice overrides the catalog price when set.
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

type CheckoutRequest struct {
	Items         []CheckoutItem       `json:"items"`
	Staff         string               `json:"staff"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Received      decimal.Decimal      `json:"received"`
}

type Receipt struct {
	Date          domain.BusinessDate  `json:"date"`
	BillID        string               `json:"bill_id"`
	Time          string               `json:"time"`
	Staff         string               `json:"staff,omitempty"`
	Lines         []domain.SaleLine    `json:"lines"`
	Total         decimal.Decimal      `json:"total"`
	Received      decimal.Decimal      `json:"received"`
	Change        decimal.Decimal      `json:"change"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
}

type CheckoutService struct {
	// mu serializes picking a bill id and appending the bill.
	mu      sync.Mutex
	catalog repository.CatalogRepository
	sales   repository.SalesRepository
	cache   cache.SummaryCache
	clock   Clock
}

func NewCheckoutService(catalog repository.CatalogRepository, sales repository.SalesRepository, cacheImpl cache.SummaryCache, clock Clock) *CheckoutService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSummaryCache()
	}
	return &CheckoutService{catalog: catalog, sales: sales, cache: cacheImpl, clock: clock}
}

// Checkout records one bill taken at the given instant.
func (s *CheckoutService) Checkout(ctx context.Context, at time.Time, req CheckoutRequest) (*Receipt, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domain.ErrInvalidInput)
	}

	method := req.PaymentMethod
	if method == "" {
		method = domain.PaymentCash
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: payment method %q", domain.ErrInvalidInput, method)
	}

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading catalog: %w", err)
	}
	bySKU := make(map[string]domain.Product, len(products))
	for _, p := range products {
		bySKU[p.SKU] = p
	}

	local := s.clock.Local(at)
	date := domain.NewBusinessDate(local.Year(), local.Month(), local.Day())
	receipt := &Receipt{
		Date:          date,
		BillID:        local.Format(billIDLayout),
		Time:          local.Format(billTimeLayout),
		Staff:         strings.TrimSpace(req.Staff),
		PaymentMethod: method,
		Total:         decimal.Zero,
	}

	for i, item := range req.Items {
		line, err := saleLine(i, item, bySKU)
		if err != nil {
			return nil, err
		}
		receipt.Total = receipt.Total.Add(line.LineTotal)
		receipt.Lines = append(receipt.Lines, line)
	}

	switch method {
	case domain.PaymentTransfer:
		receipt.Received = receipt.Total
		receipt.Change = decimal.Zero
	default:
		if req.Received.LessThan(receipt.Total) {
			return nil, fmt.Errorf("%w: received %s is less than total %s",
				domain.ErrInvalidInput, req.Received.StringFixed(2), receipt.Total.StringFixed(2))
		}
		receipt.Received = req.Received
		receipt.Change = req.Received.Sub(receipt.Total)
	}

	for i := range receipt.Lines {
		l := &receipt.Lines[i]
		l.BillID = receipt.BillID
		l.Time = receipt.Time
		l.Staff = receipt.Staff
		l.BillTotal = receipt.Total
		l.Received = receipt.Received
		l.Change = receipt.Change
		l.PaymentMethod = method
	}

	if err := s.record(ctx, receipt); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateSummary(ctx, date); err != nil {
		log.Warn().Err(err).Str("date", date.String()).Msg("checkout: cache invalidate failed")
	}

	log.Info().
		Str("date", date.String()).
		Str("bill_id", receipt.BillID).
		Str("payment", string(method)).
		Str("total", receipt.Total.String()).
		Int("lines", len(receipt.Lines)).
		Msg("checkout: bill recorded")

	return receipt, nil
}

// record appends the bill under an id not yet used that day. A second bill in
// the same second becomes "143055-2", then "143055-3".
func (s *CheckoutService) record(ctx context.Context, receipt *Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken, err := s.sales.BillIDs(ctx, receipt.Date)
	if err != nil {
		return err
	}
	receipt.BillID = uniqueBillID(receipt.BillID, taken)
	for i := range receipt.Lines {
		receipt.Lines[i].BillID = receipt.BillID
	}

	if err := s.sales.AppendSale(ctx, receipt.Date, receipt.Lines); err != nil {
		return fmt.Errorf("error recording bill %s: %w", receipt.BillID, err)
	}
	return nil
}

func uniqueBillID(base string, taken map[string]bool) string {
	if !taken[base] {
		return base
	}
	for n := 2; ; n++ {
		id := base + "-" + strconv.Itoa(n)
		if !taken[id] {
			return id
		}
	}
}

func saleLine(pos int, item CheckoutItem, bySKU map[string]domain.Product) (domain.SaleLine, error) {
	if item.Quantity <= 0 {
		return domain.SaleLine{}, fmt.Errorf("%w: item %d quantity must be positive", domain.ErrInvalidInput, pos+1)
	}

	sku := strings.TrimSpace(item.SKU)
	name := strings.TrimSpace(item.Name)
	var price decimal.Decimal
	if p, ok := bySKU[sku]; ok && sku != "" {
		price = p.UnitPrice
		if name == "" {
			name = p.Name
		}
	}
	if item.UnitPrice != nil {
		price = *item.UnitPrice
	}

	if name == "" {
		return domain.SaleLine{}, fmt.Errorf("%w: item %d has no name and is not in the catalog", domain.ErrInvalidInput, pos+1)
	}
	if !price.IsPositive() {
		return domain.SaleLine{}, fmt.Errorf("%w: item %d price must be positive", domain.ErrInvalidInput, pos+1)
	}

	return domain.SaleLine{
		SKU:         sku,
		ProductName: name,
		Quantity:    item.Quantity,
		UnitPrice:   price,
		LineTotal:   price.Mul(decimal.NewFromInt(int64(item.Quantity))),
	}, nil
}
