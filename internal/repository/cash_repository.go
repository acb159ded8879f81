// backend-go/internal/repository/cash_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/rowstore"
)

type CashRepository interface {
	// GetCashForDate returns nil, nil when the day has no record yet.
	GetCashForDate(ctx context.Context, date domain.BusinessDate) (*domain.CashDayRecord, error)
	PutCashForDate(ctx context.Context, record domain.CashDayRecord) error
}

type cashRepository struct {
	store rowstore.Store
}

func NewCashRepository(store rowstore.Store) CashRepository {
	return &cashRepository{store: store}
}

func (r *cashRepository) GetCashForDate(ctx context.Context, date domain.BusinessDate) (*domain.CashDayRecord, error) {
	row, err := r.find(ctx, date)
	if err != nil || row == nil {
		return nil, err
	}

	return &domain.CashDayRecord{
		Date:             date,
		StartingFloat:    row.Decimal(colCashFloat),
		CashSalesRevenue: row.Decimal(colCashSales),
		ExpectedCash:     row.Decimal(colCashExpected),
		ActualCash:       row.Decimal(colCashActual),
		Variance:         row.Decimal(colCashVariance),
	}, nil
}

// PutCashForDate writes every field of the record, replacing the day's row.
func (r *cashRepository) PutCashForDate(ctx context.Context, record domain.CashDayRecord) error {
	if record.Date.IsZero() {
		return fmt.Errorf("%w: cash record without date", domain.ErrInvalidInput)
	}
	if err := r.store.EnsureTable(ctx, CashTable, CashHeaders); err != nil {
		return fmt.Errorf("error preparing cash sheet: %w", err)
	}

	row, err := r.find(ctx, record.Date)
	if err != nil {
		return err
	}

	values := map[string]string{
		colCashDate:     record.Date.String(),
		colCashFloat:    rowstore.FormatDecimal(record.StartingFloat),
		colCashSales:    rowstore.FormatDecimal(record.CashSalesRevenue),
		colCashExpected: rowstore.FormatDecimal(record.ExpectedCash),
		colCashActual:   rowstore.FormatDecimal(record.ActualCash),
		colCashVariance: rowstore.FormatDecimal(record.Variance),
	}

	if row == nil {
		if err := r.store.AddRows(ctx, CashTable, []map[string]string{values}); err != nil {
			return fmt.Errorf("error adding cash record %s: %w", record.Date, err)
		}
		return nil
	}

	for k, v := range values {
		row.Values[k] = v
	}
	if err := r.store.UpdateRow(ctx, CashTable, *row); err != nil {
		return fmt.Errorf("error updating cash record %s: %w", record.Date, err)
	}
	return nil
}

func (r *cashRepository) find(ctx context.Context, date domain.BusinessDate) (*rowstore.Row, error) {
	rows, err := r.store.GetRows(ctx, CashTable)
	if errors.Is(err, rowstore.ErrTableNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading cash records: %w", err)
	}

	key := date.String()
	for i := range rows {
		if rows[i].String(colCashDate) == key {
			return &rows[i], nil
		}
	}
	return nil, nil
}
