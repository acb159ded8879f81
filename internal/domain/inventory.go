package domain

// InventoryDayRecord is one product's stock ledger row for one business day.
// Quantities are in their native tier units; OpeningBalance and PhysicalCount
// are in pieces.
type InventoryDayRecord struct {
	Date                 BusinessDate `json:"date"`
	SKU                  string       `json:"sku"`
	Name                 string       `json:"name"`
	OpeningBalance       int          `json:"opening_balance"`
	WithdrawnPieces      int          `json:"withdrawn_pieces"`
	WithdrawnPacks       int          `json:"withdrawn_packs"`
	WithdrawnCrates      int          `json:"withdrawn_crates"`
	SplitPacksIntoPieces int          `json:"split_packs_into_pieces"`
	SplitCratesIntoPacks int          `json:"split_crates_into_packs"`
	// PhysicalCount is nil until the end-of-day count has been entered.
	// A counted zero is a non-nil pointer to 0.
	PhysicalCount *int `json:"physical_count"`
}

// Counted reports whether the physical count has been entered.
func (r InventoryDayRecord) Counted() bool {
	return r.PhysicalCount != nil
}

// InventoryPatch is a sparse update of an InventoryDayRecord. Nil fields are
// left untouched on an existing record and default to zero on a new one.
type InventoryPatch struct {
	SKU                  string `json:"sku"`
	Name                 string `json:"name"`
	OpeningBalance       *int   `json:"opening_balance,omitempty"`
	WithdrawnPieces      *int   `json:"withdrawn_pieces,omitempty"`
	WithdrawnPacks       *int   `json:"withdrawn_packs,omitempty"`
	WithdrawnCrates      *int   `json:"withdrawn_crates,omitempty"`
	SplitPacksIntoPieces *int   `json:"split_packs_into_pieces,omitempty"`
	SplitCratesIntoPacks *int   `json:"split_crates_into_packs,omitempty"`
	PhysicalCount        *int   `json:"physical_count,omitempty"`
}

// Apply merges the patch onto existing (which may be nil) and returns the
// resulting record for date.
func (p InventoryPatch) Apply(date BusinessDate, existing *InventoryDayRecord) InventoryDayRecord {
	var rec InventoryDayRecord
	if existing != nil {
		rec = *existing
	}
	rec.Date = date
	rec.SKU = p.SKU
	// The stored name wins once a row exists.
	if existing == nil || rec.Name == "" {
		rec.Name = p.Name
	}

	overwrite := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	overwrite(&rec.OpeningBalance, p.OpeningBalance)
	overwrite(&rec.WithdrawnPieces, p.WithdrawnPieces)
	overwrite(&rec.WithdrawnPacks, p.WithdrawnPacks)
	overwrite(&rec.WithdrawnCrates, p.WithdrawnCrates)
	overwrite(&rec.SplitPacksIntoPieces, p.SplitPacksIntoPieces)
	overwrite(&rec.SplitCratesIntoPacks, p.SplitCratesIntoPacks)

	if p.PhysicalCount != nil {
		count := *p.PhysicalCount
		rec.PhysicalCount = &count
	}
	return rec
}

// IntPtr is a small helper for building patches.
func IntPtr(v int) *int {
	return &v
}
