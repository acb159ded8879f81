package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/repository"
	"github.com/andresuchdata/shoppos/backend-go/internal/stock"
	"github.com/andresuchdata/shoppos/backend-go/internal/summary"
)

const (
	// MaxHistoryDays bounds one history request.
	MaxHistoryDays  = 62
	historyParallel = 4
)

// DayReconciliation is the full stock picture for one business day.
type DayReconciliation struct {
	Date   domain.BusinessDate    `json:"date"`
	Rows   []stock.Reconciliation `json:"rows"`
	Totals stock.DayTotals        `json:"totals"`
}

// HistoryLine is one day of the reconciliation history.
type HistoryLine struct {
	Date    domain.BusinessDate `json:"date"`
	Revenue string              `json:"revenue"`
	stock.DayTotals
}

type InventoryService struct {
	catalog   repository.CatalogRepository
	inventory repository.InventoryRepository
	summaries *SummaryService
}

func NewInventoryService(catalog repository.CatalogRepository, inventory repository.InventoryRepository, summaries *SummaryService) *InventoryService {
	return &InventoryService{catalog: catalog, inventory: inventory, summaries: summaries}
}

func (s *InventoryService) GetRecords(ctx context.Context, date domain.BusinessDate) ([]domain.InventoryDayRecord, error) {
	return s.inventory.GetInventoryForDate(ctx, date)
}

// Save validates every patch against the catalog before anything is written.
func (s *InventoryService) Save(ctx context.Context, date domain.BusinessDate, patches []domain.InventoryPatch) error {
	if len(patches) == 0 {
		return nil
	}

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("error loading catalog: %w", err)
	}
	bySKU := make(map[string]domain.Product, len(products))
	for _, p := range products {
		bySKU[p.SKU] = p
	}

	patches = append([]domain.InventoryPatch(nil), patches...)
	for i := range patches {
		patches[i].SKU = strings.TrimSpace(patches[i].SKU)
		p, ok := bySKU[patches[i].SKU]
		if !ok {
			return fmt.Errorf("%w: sku %q is not in the catalog", domain.ErrInvalidInput, patches[i].SKU)
		}
		if !p.IsInventoryTracked {
			return fmt.Errorf("%w: sku %q is not stock tracked", domain.ErrInvalidInput, p.SKU)
		}
		if err := stock.Validate(p, patches[i]); err != nil {
			return err
		}
		if patches[i].Name == "" {
			patches[i].Name = p.Name
		}
	}

	if err := s.inventory.PutInventoryForDate(ctx, date, patches); err != nil {
		return fmt.Errorf("error saving inventory for %s: %w", date, err)
	}
	log.Info().Str("date", date.String()).Int("items", len(patches)).Msg("inventory: saved")
	return nil
}

// CarryOver seeds the opening balance of every tracked product without a row
// on date from the previous day's physical count. Uncounted products are left
// alone. It returns the number of rows written.
func (s *InventoryService) CarryOver(ctx context.Context, date domain.BusinessDate) (int, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("error loading catalog: %w", err)
	}

	var (
		current, previous []domain.InventoryDayRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.inventory.GetInventoryForDate(gctx, date)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = s.inventory.GetInventoryForDate(gctx, date.Previous())
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("error loading inventory around %s: %w", date, err)
	}

	existing := make(map[string]bool, len(current))
	for _, r := range current {
		existing[r.SKU] = true
	}
	counts := make(map[string]int, len(previous))
	for _, r := range previous {
		if r.Counted() {
			counts[r.SKU] = *r.PhysicalCount
		}
	}

	var patches []domain.InventoryPatch
	for _, p := range products {
		if !p.IsInventoryTracked || existing[p.SKU] {
			continue
		}
		count, ok := counts[p.SKU]
		if !ok {
			continue
		}
		patches = append(patches, domain.InventoryPatch{
			SKU:            p.SKU,
			Name:           p.Name,
			OpeningBalance: domain.IntPtr(count),
		})
	}
	if len(patches) == 0 {
		return 0, nil
	}

	if err := s.inventory.PutInventoryForDate(ctx, date, patches); err != nil {
		return 0, fmt.Errorf("error carrying over inventory to %s: %w", date, err)
	}
	log.Info().Str("date", date.String()).Int("items", len(patches)).Msg("inventory: carried over opening balances")
	return len(patches), nil
}

// Reconcile joins the catalog, the day's ledger and the day's sales.
func (s *InventoryService) Reconcile(ctx context.Context, date domain.BusinessDate) (*DayReconciliation, error) {
	day, _, err := s.reconcile(ctx, date)
	return day, err
}

func (s *InventoryService) reconcile(ctx context.Context, date domain.BusinessDate) (*DayReconciliation, *summary.DailySummary, error) {
	var (
		products []domain.Product
		records  []domain.InventoryDayRecord
		sales    *summary.DailySummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.catalog.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.inventory.GetInventoryForDate(gctx, date)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = s.summaries.GetSummary(gctx, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("error reconciling stock for %s: %w", date, err)
	}

	rows := stock.ReconcileDay(products, records, *sales)
	for _, r := range rows {
		if len(r.Flags) > 0 {
			log.Warn().
				Str("date", date.String()).
				Str("sku", r.SKU).
				Strs("flags", r.Flags).
				Msg("stock: ledger inconsistency")
		}
	}

	return &DayReconciliation{Date: date, Rows: rows, Totals: stock.Summarize(rows)}, sales, nil
}

// History reconciles every day from..to, oldest first.
func (s *InventoryService) History(ctx context.Context, from, to domain.BusinessDate) ([]HistoryLine, error) {
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: both from and to are required", domain.ErrInvalidInput)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: from %s is after to %s", domain.ErrInvalidInput, from, to)
	}
	days := from.DaysBetween(to)
	if len(days) > MaxHistoryDays {
		return nil, fmt.Errorf("%w: range of %d days exceeds %d", domain.ErrInvalidInput, len(days), MaxHistoryDays)
	}

	lines := make([]HistoryLine, len(days))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(historyParallel)
	for i, d := range days {
		i, d := i, d
		g.Go(func() error {
			day, sales, err := s.reconcile(gctx, d)
			if err != nil {
				return err
			}
			lines[i] = HistoryLine{
				Date:      d,
				Revenue:   sales.Totals.Revenue.StringFixed(2),
				DayTotals: day.Totals,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lines, nil
}
