// Package summary folds a day's sale lines into product, bill and payment totals.
package summary

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
)

type ProductTotal struct {
	Key           string          `json:"key"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	PriceVaries   bool            `json:"price_varies"`
	TotalQuantity int             `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

type BillTotal struct {
	BillID        string               `json:"bill_id"`
	Time          string               `json:"time"`
	Staff         string               `json:"staff,omitempty"`
	Total         decimal.Decimal      `json:"total"`
	ItemCount     int                  `json:"item_count"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
}

type StaffTotal struct {
	Staff   string          `json:"staff"`
	Bills   int             `json:"bills"`
	Revenue decimal.Decimal `json:"revenue"`
}

type Totals struct {
	BillCount       int             `json:"bill_count"`
	Revenue         decimal.Decimal `json:"revenue"`
	Items           int             `json:"items"`
	CashRevenue     decimal.Decimal `json:"cash_revenue"`
	TransferRevenue decimal.Decimal `json:"transfer_revenue"`
}

// DailySummary is the aggregate of one business day.
type DailySummary struct {
	Date     domain.BusinessDate `json:"date"`
	Products []ProductTotal      `json:"products"`
	Bills    []BillTotal         `json:"bills"`
	Staff    []StaffTotal        `json:"staff"`
	Totals   Totals              `json:"totals"`
}

// SoldPieces returns the quantity sold under key (SKU, or name for lines
// without one), 0 when nothing was sold.
func (s DailySummary) SoldPieces(key string) int {
	for _, p := range s.Products {
		if p.Key == key {
			return p.TotalQuantity
		}
	}
	return 0
}

// Aggregate groups lines that all belong to one business day.
//
// Revenue is taken from each bill's own total, never from summing line totals.
// Each product keeps the price of the first line seen for it; PriceVaries is
// set when a later line disagrees.
func Aggregate(lines []domain.SaleLine) DailySummary {
	productIdx := make(map[string]int)
	billIdx := make(map[string]int)
	var products []ProductTotal
	var bills []BillTotal

	totals := Totals{
		Revenue:         decimal.Zero,
		CashRevenue:     decimal.Zero,
		TransferRevenue: decimal.Zero,
	}

	for _, l := range lines {
		totals.Items += l.Quantity

		key := l.GroupKey()
		if i, ok := productIdx[key]; ok {
			p := &products[i]
			p.TotalQuantity += l.Quantity
			p.TotalRevenue = p.TotalRevenue.Add(l.LineTotal)
			if !p.UnitPrice.Equal(l.UnitPrice) {
				p.PriceVaries = true
			}
		} else {
			productIdx[key] = len(products)
			products = append(products, ProductTotal{
				Key:           key,
				SKU:           l.SKU,
				Name:          l.ProductName,
				UnitPrice:     l.UnitPrice,
				TotalQuantity: l.Quantity,
				TotalRevenue:  l.LineTotal,
			})
		}

		if i, ok := billIdx[l.BillID]; ok {
			bills[i].ItemCount += l.Quantity
		} else {
			billIdx[l.BillID] = len(bills)
			bills = append(bills, BillTotal{
				BillID:        l.BillID,
				Time:          l.Time,
				Staff:         l.Staff,
				Total:         l.BillTotal,
				ItemCount:     l.Quantity,
				PaymentMethod: l.PaymentMethod,
			})
		}
	}

	staffIdx := make(map[string]int)
	var staff []StaffTotal
	for _, b := range bills {
		totals.Revenue = totals.Revenue.Add(b.Total)
		switch b.PaymentMethod {
		case domain.PaymentCash:
			totals.CashRevenue = totals.CashRevenue.Add(b.Total)
		case domain.PaymentTransfer:
			totals.TransferRevenue = totals.TransferRevenue.Add(b.Total)
		}

		if b.Staff == "" {
			continue
		}
		if i, ok := staffIdx[b.Staff]; ok {
			staff[i].Bills++
			staff[i].Revenue = staff[i].Revenue.Add(b.Total)
		} else {
			staffIdx[b.Staff] = len(staff)
			staff = append(staff, StaffTotal{Staff: b.Staff, Bills: 1, Revenue: b.Total})
		}
	}
	totals.BillCount = len(bills)

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].TotalRevenue.GreaterThan(products[j].TotalRevenue)
	})
	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].Time > bills[j].Time
	})
	sort.SliceStable(staff, func(i, j int) bool {
		return staff[i].Revenue.GreaterThan(staff[j].Revenue)
	})

	if products == nil {
		products = []ProductTotal{}
	}
	if bills == nil {
		bills = []BillTotal{}
	}
	if staff == nil {
		staff = []StaffTotal{}
	}

	return DailySummary{
		Products: products,
		Bills:    bills,
		Staff:    staff,
		Totals:   totals,
	}
}

// Of aggregates lines and stamps the summary with date.
func Of(date domain.BusinessDate, lines []domain.SaleLine) DailySummary {
	s := Aggregate(lines)
	s.Date = date
	return s
}
