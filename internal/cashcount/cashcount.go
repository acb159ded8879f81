// Package cashcount reconciles the cash drawer against the day's cash sales.
package cashcount

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
)

type Status string

const (
	StatusBalanced Status = "balanced"
	StatusSurplus  Status = "surplus"
	StatusShortage Status = "shortage"
)

type Result struct {
	StartingFloat    decimal.Decimal `json:"starting_float"`
	CashSalesRevenue decimal.Decimal `json:"cash_sales_revenue"`
	ExpectedCash     decimal.Decimal `json:"expected_cash"`
	ActualCash       decimal.Decimal `json:"actual_cash"`
	Variance         decimal.Decimal `json:"variance"`
	Status           Status          `json:"status"`
}

// Reconcile compares the counted drawer against float plus cash sales.
// cashSalesRevenue must be the cash-only figure; transfers never reach the drawer.
func Reconcile(startingFloat, cashSalesRevenue decimal.Decimal, counts domain.DenominationCount) (Result, error) {
	if err := Validate(startingFloat, counts); err != nil {
		return Result{}, err
	}

	expected := startingFloat.Add(cashSalesRevenue)
	actual := counts.Total()
	variance := actual.Sub(expected)

	return Result{
		StartingFloat:    startingFloat,
		CashSalesRevenue: cashSalesRevenue,
		ExpectedCash:     expected,
		ActualCash:       actual,
		Variance:         variance,
		Status:           StatusOf(variance),
	}, nil
}

// StatusOf classifies a variance of counted minus expected cash.
func StatusOf(variance decimal.Decimal) Status {
	switch variance.Sign() {
	case 1:
		return StatusSurplus
	case -1:
		return StatusShortage
	}
	return StatusBalanced
}

// Validate rejects a negative float and any count outside the known denominations.
func Validate(startingFloat decimal.Decimal, counts domain.DenominationCount) error {
	if startingFloat.IsNegative() {
		return fmt.Errorf("%w: starting float must not be negative", domain.ErrInvalidInput)
	}
	return counts.Validate()
}

// Record turns a result into the persisted day record.
func (r Result) Record(date domain.BusinessDate) domain.CashDayRecord {
	return domain.CashDayRecord{
		Date:             date,
		StartingFloat:    r.StartingFloat,
		CashSalesRevenue: r.CashSalesRevenue,
		ExpectedCash:     r.ExpectedCash,
		ActualCash:       r.ActualCash,
		Variance:         r.Variance,
	}
}
