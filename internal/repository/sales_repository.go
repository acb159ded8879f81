// backend-go/internal/repository/sales_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/rowstore"
)

type SalesRepository interface {
	GetSalesForDate(ctx context.Context, date domain.BusinessDate) ([]domain.SaleLine, error)
	AppendSale(ctx context.Context, date domain.BusinessDate, lines []domain.SaleLine) error
	BillIDs(ctx context.Context, date domain.BusinessDate) (map[string]bool, error)
	ListAvailableDates(ctx context.Context) ([]domain.BusinessDate, error)
}

type salesRepository struct {
	store rowstore.Store
}

func NewSalesRepository(store rowstore.Store) SalesRepository {
	return &salesRepository{store: store}
}

// GetSalesForDate returns the lines of the day's tab. A day without a tab had
// no sales, which is not an error.
func (r *salesRepository) GetSalesForDate(ctx context.Context, date domain.BusinessDate) ([]domain.SaleLine, error) {
	rows, err := r.store.GetRows(ctx, date.String())
	if errors.Is(err, rowstore.ErrTableNotFound) {
		return []domain.SaleLine{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading sales for %s: %w", date, err)
	}

	lines := make([]domain.SaleLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, saleLineFromRow(date, row))
	}
	return lines, nil
}

func saleLineFromRow(date domain.BusinessDate, row rowstore.Row) domain.SaleLine {
	raw := row.String(colSalePayment)
	method, ok := domain.ParsePaymentMethod(raw)
	if !ok {
		log.Warn().
			Str("date", date.String()).
			Int("row", row.Index).
			Str("payment", raw).
			Msg("sales: unrecognized payment method")
		method = domain.PaymentUnknown
	}

	return domain.SaleLine{
		BillID:        row.String(colSaleBill),
		Time:          row.String(colSaleTime),
		Staff:         row.String(colSaleStaff),
		SKU:           row.String(colSaleSKU),
		ProductName:   row.String(colSaleName),
		Quantity:      row.Int(colSaleQty),
		UnitPrice:     row.Decimal(colSaleUnitPrice),
		LineTotal:     row.Decimal(colSaleLineTotal),
		BillTotal:     row.Decimal(colSaleBillTotal),
		Received:      row.Decimal(colSaleReceived),
		Change:        row.Decimal(colSaleChange),
		PaymentMethod: method,
	}
}

// BillIDs returns the bill ids already used on date.
func (r *salesRepository) BillIDs(ctx context.Context, date domain.BusinessDate) (map[string]bool, error) {
	rows, err := r.store.GetRows(ctx, date.String())
	if errors.Is(err, rowstore.ErrTableNotFound) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading bills for %s: %w", date, err)
	}

	ids := make(map[string]bool, len(rows))
	for _, row := range rows {
		if id := row.String(colSaleBill); id != "" {
			ids[id] = true
		}
	}
	return ids, nil
}

func (r *salesRepository) AppendSale(ctx context.Context, date domain.BusinessDate, lines []domain.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}
	if err := r.store.EnsureTable(ctx, date.String(), SalesHeaders); err != nil {
		return fmt.Errorf("error preparing sales sheet %s: %w", date, err)
	}

	rows := make([]map[string]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, map[string]string{
			colSaleTime:      l.Time,
			colSaleBill:      l.BillID,
			colSaleStaff:     l.Staff,
			colSaleSKU:       l.SKU,
			colSaleName:      l.ProductName,
			colSaleQty:       rowstore.FormatInt(l.Quantity),
			colSaleUnitPrice: rowstore.FormatDecimal(l.UnitPrice),
			colSaleLineTotal: rowstore.FormatDecimal(l.LineTotal),
			colSaleBillTotal: rowstore.FormatDecimal(l.BillTotal),
			colSaleReceived:  rowstore.FormatDecimal(l.Received),
			colSaleChange:    rowstore.FormatDecimal(l.Change),
			colSalePayment:   l.PaymentMethod.Label(),
		})
	}

	if err := r.store.AddRows(ctx, date.String(), rows); err != nil {
		return fmt.Errorf("error appending sale to %s: %w", date, err)
	}
	return nil
}

// ListAvailableDates returns every day that has a sales tab, newest first.
func (r *salesRepository) ListAvailableDates(ctx context.Context) ([]domain.BusinessDate, error) {
	titles, err := r.store.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing sheets: %w", err)
	}

	dates := make([]domain.BusinessDate, 0, len(titles))
	for _, title := range titles {
		d, err := domain.ParseBusinessDate(title)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}

	sort.SliceStable(dates, func(i, j int) bool {
		return dates[i].After(dates[j])
	})
	return dates, nil
}
