package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/andresuchdata/shoppos/backend-go/internal/cashcount"
	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/repository"
)

// CashDay is the drawer view of one day. Status is empty until counted.
type CashDay struct {
	Date             domain.BusinessDate `json:"date"`
	Counted          bool                `json:"counted"`
	StartingFloat    decimal.Decimal     `json:"starting_float"`
	CashSalesRevenue decimal.Decimal     `json:"cash_sales_revenue"`
	ExpectedCash     decimal.Decimal     `json:"expected_cash"`
	ActualCash       decimal.Decimal     `json:"actual_cash"`
	Variance         decimal.Decimal     `json:"variance"`
	Status           cashcount.Status    `json:"status,omitempty"`
}

type CashService struct {
	cash      repository.CashRepository
	summaries *SummaryService
}

func NewCashService(cash repository.CashRepository, summaries *SummaryService) *CashService {
	return &CashService{cash: cash, summaries: summaries}
}

// Get returns the stored record with cash sales and expectations recomputed
// from the current sales. A day without a record starts from a zero float.
func (s *CashService) Get(ctx context.Context, date domain.BusinessDate) (*CashDay, error) {
	record, err := s.cash.GetCashForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("error loading cash for %s: %w", date, err)
	}
	revenue, err := s.cashRevenue(ctx, date)
	if err != nil {
		return nil, err
	}

	day := &CashDay{Date: date, StartingFloat: decimal.Zero, CashSalesRevenue: revenue}
	if record != nil {
		day.Counted = true
		day.StartingFloat = record.StartingFloat
		day.ActualCash = record.ActualCash
	}
	day.ExpectedCash = day.StartingFloat.Add(revenue)
	if day.Counted {
		day.Variance = day.ActualCash.Sub(day.ExpectedCash)
		day.Status = cashcount.StatusOf(day.Variance)
	}
	return day, nil
}

// Save reconciles a drawer count and stores it. A nil startingFloat keeps the
// float already on record.
func (s *CashService) Save(ctx context.Context, date domain.BusinessDate, startingFloat *decimal.Decimal, counts domain.DenominationCount) (*cashcount.Result, error) {
	float := decimal.Zero
	if startingFloat != nil {
		float = *startingFloat
	} else {
		record, err := s.cash.GetCashForDate(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("error loading cash for %s: %w", date, err)
		}
		if record != nil {
			float = record.StartingFloat
		}
	}

	revenue, err := s.cashRevenue(ctx, date)
	if err != nil {
		return nil, err
	}

	result, err := cashcount.Reconcile(float, revenue, counts)
	if err != nil {
		return nil, err
	}

	if err := s.cash.PutCashForDate(ctx, result.Record(date)); err != nil {
		return nil, fmt.Errorf("error saving cash for %s: %w", date, err)
	}

	log.Info().
		Str("date", date.String()).
		Str("expected", result.ExpectedCash.String()).
		Str("actual", result.ActualCash.String()).
		Str("variance", result.Variance.String()).
		Msg("cash: drawer counted")
	return &result, nil
}

func (s *CashService) cashRevenue(ctx context.Context, date domain.BusinessDate) (decimal.Decimal, error) {
	day, err := s.summaries.GetSummary(ctx, date)
	if err != nil {
		return decimal.Zero, err
	}
	return day.Totals.CashRevenue, nil
}
