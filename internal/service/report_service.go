package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/report"
)

type ReportService struct {
	inventory *InventoryService
	cash      *CashService
}

func NewReportService(inventory *InventoryService, cash *CashService) *ReportService {
	return &ReportService{inventory: inventory, cash: cash}
}

// Workbook renders the day's sales, stock and drawer into an .xlsx file.
func (s *ReportService) Workbook(ctx context.Context, date domain.BusinessDate) ([]byte, error) {
	var (
		stockDay *DayReconciliation
		cashDay  *CashDay
		data     = report.Data{Date: date}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		day, sales, err := s.inventory.reconcile(gctx, date)
		if err != nil {
			return err
		}
		stockDay = day
		data.Summary = *sales
		return nil
	})
	g.Go(func() error {
		var err error
		cashDay, err = s.cash.Get(gctx, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data.Stock = stockDay.Rows
	data.StockTotals = stockDay.Totals
	data.Cash = report.Cash{
		StartingFloat:    cashDay.StartingFloat,
		CashSalesRevenue: cashDay.CashSalesRevenue,
		ExpectedCash:     cashDay.ExpectedCash,
		ActualCash:       cashDay.ActualCash,
		Variance:         cashDay.Variance,
		Counted:          cashDay.Counted,
	}

	out, err := report.Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("error building report for %s: %w", date, err)
	}
	return out, nil
}

// WorkbookName is the download name of a day's report.
func WorkbookName(date domain.BusinessDate) string {
	return fmt.Sprintf("shop-%s.xlsx", date)
}
