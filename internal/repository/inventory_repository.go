// backend-go/internal/repository/inventory_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/rowstore"
)

type InventoryRepository interface {
	GetInventoryForDate(ctx context.Context, date domain.BusinessDate) ([]domain.InventoryDayRecord, error)
	PutInventoryForDate(ctx context.Context, date domain.BusinessDate, patches []domain.InventoryPatch) error
}

type inventoryRepository struct {
	store rowstore.Store
}

func NewInventoryRepository(store rowstore.Store) InventoryRepository {
	return &inventoryRepository{store: store}
}

type inventoryRow struct {
	index  int
	values map[string]string
	record domain.InventoryDayRecord
}

func (r *inventoryRepository) GetInventoryForDate(ctx context.Context, date domain.BusinessDate) ([]domain.InventoryDayRecord, error) {
	rows, err := r.rowsForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	records := make([]domain.InventoryDayRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record)
	}
	return records, nil
}

// PutInventoryForDate upserts one row per (date, sku). Only fields present in
// a patch are written to an existing row; a new row gets zeros and a blank
// count for everything the patch leaves out.
func (r *inventoryRepository) PutInventoryForDate(ctx context.Context, date domain.BusinessDate, patches []domain.InventoryPatch) error {
	if len(patches) == 0 {
		return nil
	}
	if err := r.store.EnsureTable(ctx, InventoryTable, InventoryHeaders); err != nil {
		return fmt.Errorf("error preparing inventory sheet: %w", err)
	}

	rows, err := r.rowsForDate(ctx, date)
	if err != nil {
		return err
	}
	bySKU := make(map[string]*inventoryRow, len(rows))
	for i := range rows {
		bySKU[rows[i].record.SKU] = &rows[i]
	}

	var inserts []map[string]string
	pending := make(map[string]int)
	for _, patch := range patches {
		if patch.SKU == "" {
			return fmt.Errorf("%w: inventory item without sku", domain.ErrInvalidInput)
		}

		if existing, ok := bySKU[patch.SKU]; ok {
			merged := patch.Apply(date, &existing.record)
			values := inventoryValues(merged, existing.values)
			if err := r.store.UpdateRow(ctx, InventoryTable, rowstore.Row{Index: existing.index, Values: values}); err != nil {
				return fmt.Errorf("error updating inventory %s/%s: %w", date, patch.SKU, err)
			}
			existing.record = merged
			existing.values = values
			continue
		}

		// Two patches for the same new SKU in one call collapse into one row.
		if pos, ok := pending[patch.SKU]; ok {
			prev := inventoryFromRow(date, rowstore.Row{Values: inserts[pos]})
			inserts[pos] = inventoryValues(patch.Apply(date, &prev), nil)
			continue
		}
		pending[patch.SKU] = len(inserts)
		inserts = append(inserts, inventoryValues(patch.Apply(date, nil), nil))
	}

	if len(inserts) > 0 {
		if err := r.store.AddRows(ctx, InventoryTable, inserts); err != nil {
			return fmt.Errorf("error adding inventory rows for %s: %w", date, err)
		}
	}

	log.Debug().Str("date", date.String()).Int("items", len(patches)).Int("created", len(inserts)).Msg("inventory: saved")
	return nil
}

func (r *inventoryRepository) rowsForDate(ctx context.Context, date domain.BusinessDate) ([]inventoryRow, error) {
	rows, err := r.store.GetRows(ctx, InventoryTable)
	if errors.Is(err, rowstore.ErrTableNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading inventory: %w", err)
	}

	key := date.String()
	var out []inventoryRow
	for _, row := range rows {
		if row.String(colInvDate) != key {
			continue
		}
		out = append(out, inventoryRow{
			index:  row.Index,
			values: row.Values,
			record: inventoryFromRow(date, row),
		})
	}
	return out, nil
}

func inventoryFromRow(date domain.BusinessDate, row rowstore.Row) domain.InventoryDayRecord {
	rec := domain.InventoryDayRecord{
		Date:                 date,
		SKU:                  row.String(colInvSKU),
		Name:                 row.String(colInvName),
		OpeningBalance:       row.Int(colInvOpening),
		WithdrawnPieces:      row.Int(colInvWithdrawPieces),
		WithdrawnPacks:       row.Int(colInvWithdrawPacks),
		WithdrawnCrates:      row.Int(colInvWithdrawCrates),
		SplitPacksIntoPieces: row.Int(colInvSplitPacks),
		SplitCratesIntoPacks: row.Int(colInvSplitCrates),
	}
	if count, ok := row.OptionalInt(colInvCount); ok {
		rec.PhysicalCount = &count
	}
	return rec
}

// inventoryValues renders rec over base so columns we do not own survive an update.
func inventoryValues(rec domain.InventoryDayRecord, base map[string]string) map[string]string {
	values := make(map[string]string, len(base)+len(InventoryHeaders))
	for k, v := range base {
		values[k] = v
	}
	values[colInvDate] = rec.Date.String()
	values[colInvSKU] = rec.SKU
	values[colInvName] = rec.Name
	values[colInvOpening] = rowstore.FormatInt(rec.OpeningBalance)
	values[colInvWithdrawPieces] = rowstore.FormatInt(rec.WithdrawnPieces)
	values[colInvWithdrawPacks] = rowstore.FormatInt(rec.WithdrawnPacks)
	values[colInvWithdrawCrates] = rowstore.FormatInt(rec.WithdrawnCrates)
	values[colInvSplitPacks] = rowstore.FormatInt(rec.SplitPacksIntoPieces)
	values[colInvSplitCrates] = rowstore.FormatInt(rec.SplitCratesIntoPacks)
	values[colInvCount] = ""
	if rec.PhysicalCount != nil {
		values[colInvCount] = rowstore.FormatInt(*rec.PhysicalCount)
	}
	return values
}
