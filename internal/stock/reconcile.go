// Package stock reconciles the front-of-house stock ledger against sales and
// the end-of-day count, across the crate, pack and piece tiers.
package stock

import (
	"fmt"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/summary"
)

type Status string

const (
	StatusNotCounted Status = "not_counted"
	StatusReconciled Status = "reconciled"
	StatusSurplus    Status = "surplus"
	StatusShortage   Status = "shortage"
)

// Diagnostic flags. They describe operator data, they never change the numbers.
const (
	FlagOverSplitCrates  = "over_split_crates"
	FlagOverSplitPacks   = "over_split_packs"
	FlagMissingPackTier  = "missing_pack_tier"
	FlagMissingCrateTier = "missing_crate_tier"
)

// Reconciliation is one product's stock position for one day. Pieces figures
// cover loose pieces only; sealed packs and crates are reported separately.
type Reconciliation struct {
	SKU                     string `json:"sku"`
	Name                    string `json:"name"`
	Category                string `json:"category,omitempty"`
	InCatalog               bool   `json:"in_catalog"`
	PiecesPerPack           int    `json:"pieces_per_pack"`
	PacksPerCrate           int    `json:"packs_per_crate"`
	OpeningBalance          int    `json:"opening_balance"`
	ReadyToSellGainPieces   int    `json:"ready_to_sell_gain_pieces"`
	TotalAvailablePieces    int    `json:"total_available_pieces"`
	SoldPieces              int    `json:"sold_pieces"`
	ExpectedRemainingPieces int    `json:"expected_remaining_pieces"`
	RemainingCrates         int    `json:"remaining_crates"`
	RemainingPacks          int    `json:"remaining_packs"`
	// PhysicalCount and VarianceFromCount are nil until the day is counted.
	PhysicalCount     *int     `json:"physical_count"`
	VarianceFromCount *int     `json:"variance_from_count"`
	Status            Status   `json:"status"`
	Flags             []string `json:"flags,omitempty"`
}

// Alert reports whether the row needs the operator's attention.
func (r Reconciliation) Alert() bool {
	return r.Status == StatusSurplus || r.Status == StatusShortage
}

// Reconcile computes the position of product given its day record and the
// pieces sold that day. Negative remainders are returned as they are and
// flagged, never clamped.
func Reconcile(product domain.Product, record domain.InventoryDayRecord, soldPieces int) Reconciliation {
	gain := record.SplitPacksIntoPieces*product.PiecesPerPack + record.WithdrawnPieces
	available := record.OpeningBalance + gain
	expected := available - soldPieces

	r := Reconciliation{
		SKU:                     product.SKU,
		Name:                    product.Name,
		Category:                product.Category,
		PiecesPerPack:           product.PiecesPerPack,
		PacksPerCrate:           product.PacksPerCrate,
		OpeningBalance:          record.OpeningBalance,
		ReadyToSellGainPieces:   gain,
		TotalAvailablePieces:    available,
		SoldPieces:              soldPieces,
		ExpectedRemainingPieces: expected,
		RemainingCrates:         record.WithdrawnCrates - record.SplitCratesIntoPacks,
		RemainingPacks:          record.WithdrawnPacks + record.SplitCratesIntoPacks*product.PacksPerCrate - record.SplitPacksIntoPieces,
		Status:                  StatusNotCounted,
	}
	if r.Name == "" {
		r.Name = record.Name
	}

	if record.PhysicalCount != nil {
		count := *record.PhysicalCount
		variance := count - expected
		r.PhysicalCount = &count
		r.VarianceFromCount = &variance
		switch {
		case variance > 0:
			r.Status = StatusSurplus
		case variance < 0:
			r.Status = StatusShortage
		default:
			r.Status = StatusReconciled
		}
	}

	r.Flags = diagnose(product, record, r)
	return r
}

func diagnose(product domain.Product, record domain.InventoryDayRecord, r Reconciliation) []string {
	var flags []string
	if r.RemainingCrates < 0 {
		flags = append(flags, FlagOverSplitCrates)
	}
	if r.RemainingPacks < 0 {
		flags = append(flags, FlagOverSplitPacks)
	}
	if !product.HasPackTier() && (record.WithdrawnPacks != 0 || record.SplitPacksIntoPieces != 0) {
		flags = append(flags, FlagMissingPackTier)
	}
	if !product.HasCrateTier() && (record.WithdrawnCrates != 0 || record.SplitCratesIntoPacks != 0) {
		flags = append(flags, FlagMissingCrateTier)
	}
	return flags
}

// ReconcileDay reconciles every tracked product plus any ledger row whose SKU
// is not in the catalog. Untracked catalog products are skipped. Rows come
// back in catalog order, then unknown SKUs in ledger order.
func ReconcileDay(products []domain.Product, records []domain.InventoryDayRecord, day summary.DailySummary) []Reconciliation {
	bySKU := make(map[string]domain.InventoryDayRecord, len(records))
	for _, rec := range records {
		bySKU[rec.SKU] = rec
	}

	known := make(map[string]bool, len(products))
	out := make([]Reconciliation, 0, len(products))
	for _, p := range products {
		known[p.SKU] = true
		if !p.IsInventoryTracked {
			continue
		}
		rec, ok := bySKU[p.SKU]
		if !ok {
			rec = domain.InventoryDayRecord{SKU: p.SKU, Name: p.Name}
		}
		r := Reconcile(p, rec, soldFor(day, p.SKU, p.Name))
		r.InCatalog = true
		out = append(out, r)
	}

	for _, rec := range records {
		if known[rec.SKU] {
			continue
		}
		known[rec.SKU] = true
		orphan := domain.Product{SKU: rec.SKU, Name: rec.Name, IsInventoryTracked: true}
		out = append(out, Reconcile(orphan, rec, soldFor(day, rec.SKU, rec.Name)))
	}
	return out
}

// soldFor looks sales up by SKU, falling back to the name for lines that were
// rung up without a code.
func soldFor(day summary.DailySummary, sku, name string) int {
	sold := day.SoldPieces(sku)
	if sold == 0 && name != "" && name != sku {
		sold = day.SoldPieces(name)
	}
	return sold
}

// Validate checks a patch against the product's tiers before it is written.
func Validate(product domain.Product, patch domain.InventoryPatch) error {
	fields := []struct {
		name string
		v    *int
	}{
		{"opening_balance", patch.OpeningBalance},
		{"withdrawn_pieces", patch.WithdrawnPieces},
		{"withdrawn_packs", patch.WithdrawnPacks},
		{"withdrawn_crates", patch.WithdrawnCrates},
		{"split_packs_into_pieces", patch.SplitPacksIntoPieces},
		{"split_crates_into_packs", patch.SplitCratesIntoPacks},
		{"physical_count", patch.PhysicalCount},
	}
	for _, f := range fields {
		if f.v != nil && *f.v < 0 {
			return fmt.Errorf("%w: %s for %s must not be negative", domain.ErrInvalidInput, f.name, product.SKU)
		}
	}

	nonZero := func(v *int) bool { return v != nil && *v != 0 }
	if !product.HasPackTier() && (nonZero(patch.WithdrawnPacks) || nonZero(patch.SplitPacksIntoPieces)) {
		return fmt.Errorf("%w: %s is not sold in packs", domain.ErrInvalidInput, product.SKU)
	}
	if !product.HasCrateTier() && (nonZero(patch.WithdrawnCrates) || nonZero(patch.SplitCratesIntoPacks)) {
		return fmt.Errorf("%w: %s is not stocked in crates", domain.ErrInvalidInput, product.SKU)
	}
	return nil
}
