package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/shoppos/backend-go/internal/cache"
	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/repository"
	"github.com/andresuchdata/shoppos/backend-go/internal/summary"
)

type SummaryService struct {
	sales repository.SalesRepository
	cache cache.SummaryCache
	clock Clock
}

func NewSummaryService(sales repository.SalesRepository, cacheImpl cache.SummaryCache, clock Clock) *SummaryService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSummaryCache()
	}
	return &SummaryService{sales: sales, cache: cacheImpl, clock: clock}
}

// GetSummary aggregates the day's sales. Past days are served from the cache;
// today and later are always read fresh.
func (s *SummaryService) GetSummary(ctx context.Context, date domain.BusinessDate) (*summary.DailySummary, error) {
	settled := date.Before(s.clock.Today())

	if settled {
		if cached, ok, err := s.cache.GetSummary(ctx, date); err == nil && ok {
			return cached, nil
		} else if err != nil {
			log.Warn().Err(err).Str("date", date.String()).Msg("summary: cache get failed")
		}
	}

	lines, err := s.sales.GetSalesForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("error loading sales for %s: %w", date, err)
	}

	day := summary.Of(date, lines)
	for _, p := range day.Products {
		if p.PriceVaries {
			log.Warn().
				Str("date", date.String()).
				Str("sku", p.SKU).
				Str("unit_price", p.UnitPrice.String()).
				Msg("summary: product sold at more than one price")
		}
	}

	if settled {
		if err := s.cache.SetSummary(ctx, day); err != nil {
			log.Warn().Err(err).Str("date", date.String()).Msg("summary: cache set failed")
		}
	}

	return &day, nil
}

// ListAvailableDates returns the days with a sales tab, newest first.
func (s *SummaryService) ListAvailableDates(ctx context.Context) ([]domain.BusinessDate, error) {
	return s.sales.ListAvailableDates(ctx)
}

// FlushCache drops cached summaries, for one day or, with a nil date, all of
// them. Needed after past sales tabs are edited by hand.
func (s *SummaryService) FlushCache(ctx context.Context, date *domain.BusinessDate) (int, error) {
	if date != nil {
		if err := s.cache.InvalidateSummary(ctx, *date); err != nil {
			return 0, fmt.Errorf("error dropping cached summary for %s: %w", date, err)
		}
		log.Info().Str("date", date.String()).Msg("summary: cached day dropped")
		return 1, nil
	}

	n, err := s.cache.InvalidateAll(ctx)
	if err != nil {
		return n, fmt.Errorf("error flushing summary cache: %w", err)
	}
	log.Info().Int("days", n).Msg("summary: cache flushed")
	return n, nil
}
