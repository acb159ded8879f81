// backend-go/internal/domain/models.go
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidInput marks a request the caller must fix before retrying.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a lookup that matched nothing.
	ErrNotFound = errors.New("not found")
)

// Product represents a sellable / stockable catalog item
type Product struct {
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	Category           string          `json:"category"`
	Image              string          `json:"image,omitempty"`
	IsInventoryTracked bool            `json:"is_inventory_tracked"`
	PiecesPerPack      int             `json:"pieces_per_pack"`
	PacksPerCrate      int             `json:"packs_per_crate"`
}

// Sellable reports whether the product can be put in a cart.
func (p Product) Sellable() bool {
	return p.Name != "" && p.UnitPrice.IsPositive()
}

// HasPackTier reports whether packs exist for this product.
func (p Product) HasPackTier() bool {
	return p.PiecesPerPack > 0
}

// HasCrateTier reports whether crates exist for this product.
func (p Product) HasCrateTier() bool {
	return p.PacksPerCrate > 0
}

// SaleLine is one product line within one bill. Lines are append-only.
type SaleLine struct {
	BillID        string          `json:"bill_id"`
	Time          string          `json:"time"`
	Staff         string          `json:"staff,omitempty"`
	SKU           string          `json:"sku"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	LineTotal     decimal.Decimal `json:"line_total"`
	BillTotal     decimal.Decimal `json:"bill_total"`
	Received      decimal.Decimal `json:"received"`
	Change        decimal.Decimal `json:"change"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
}

// GroupKey is the per-product aggregation key: the SKU, or the product name
// for lines recorded without a catalog code.
func (l SaleLine) GroupKey() string {
	if l.SKU != "" {
		return l.SKU
	}
	return l.ProductName
}

// CashDayRecord is the persisted cash drawer entry for one business day.
type CashDayRecord struct {
	Date             BusinessDate    `json:"date"`
	StartingFloat    decimal.Decimal `json:"starting_float"`
	CashSalesRevenue decimal.Decimal `json:"cash_sales_revenue"`
	ExpectedCash     decimal.Decimal `json:"expected_cash"`
	ActualCash       decimal.Decimal `json:"actual_cash"`
	Variance         decimal.Decimal `json:"variance"`
}
