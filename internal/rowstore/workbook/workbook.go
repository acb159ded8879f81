// Package workbook serves a local .xlsx file as a row store, one sheet per
// table. It opens spreadsheet backups offline with the same ledgers.
package workbook

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/shoppos/backend-go/internal/rowstore"
)

type Store struct {
	mu   sync.Mutex
	file *excelize.File
	path string
}

// Open loads path, or starts an empty workbook when the file does not exist yet.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f := excelize.NewFile()
		return &Store{file: f, path: path}, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", path, err)
	}
	return &Store{file: f, path: path}, nil
}

// Close releases the workbook without saving.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

func (s *Store) ListTables(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, name := range s.file.GetSheetList() {
		if s.hasHeader(name) {
			out = append(out, name)
		}
	}
	return out, nil
}

func (s *Store) EnsureTable(_ context.Context, table string, headers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exists(table) && s.hasHeader(table) {
		return nil
	}
	if !s.exists(table) {
		if _, err := s.file.NewSheet(table); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", table, err)
		}
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := s.file.SetSheetRow(table, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row for %s: %w", table, err)
	}

	// A fresh excelize file carries a blank default sheet.
	if s.exists("Sheet1") && table != "Sheet1" && !s.hasHeader("Sheet1") {
		if err := s.file.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}
	return s.save()
}

func (s *Store) GetRows(_ context.Context, table string) ([]rowstore.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.rows(table)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	headers := trimmed(raw[0])
	out := make([]rowstore.Row, 0, len(raw)-1)
	for i, record := range raw[1:] {
		if blank(record) {
			continue
		}
		row := rowstore.Row{Index: i + 2, Values: make(map[string]string, len(headers))}
		for col, h := range headers {
			if h == "" || col >= len(record) {
				continue
			}
			row.Values[h] = record[col]
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Store) AddRows(_ context.Context, table string, rows []map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.rows(table)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return fmt.Errorf("sheet %s has no header row", table)
	}
	headers := trimmed(raw[0])

	next := len(raw) + 1
	for i, values := range rows {
		if err := s.writeRow(table, next+i, headers, values); err != nil {
			return err
		}
	}
	return s.save()
}

func (s *Store) UpdateRow(_ context.Context, table string, row rowstore.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.rows(table)
	if err != nil {
		return err
	}
	if row.Index < 2 || row.Index > len(raw) {
		return fmt.Errorf("row %d out of range for table %s", row.Index, table)
	}
	if err := s.writeRow(table, row.Index, trimmed(raw[0]), row.Values); err != nil {
		return err
	}
	return s.save()
}

// SaveTo writes the workbook to path regardless of where it was opened from.
func (s *Store) SaveTo(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.SaveAs(path)
}

func (s *Store) writeRow(table string, index int, headers []string, values map[string]string) error {
	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		cells[i] = values[h]
	}
	cell, err := excelize.CoordinatesToCellName(1, index)
	if err != nil {
		return err
	}
	if err := s.file.SetSheetRow(table, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", index, table, err)
	}
	return nil
}

func (s *Store) rows(table string) ([][]string, error) {
	if !s.exists(table) {
		return nil, fmt.Errorf("%w: %s", rowstore.ErrTableNotFound, table)
	}
	raw, err := s.file.GetRows(table)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", table, err)
	}
	return raw, nil
}

func (s *Store) exists(table string) bool {
	idx, err := s.file.GetSheetIndex(table)
	return err == nil && idx >= 0
}

func (s *Store) hasHeader(table string) bool {
	raw, err := s.file.GetRows(table)
	return err == nil && len(raw) > 0 && !blank(raw[0])
}

func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.path, err)
	}
	return nil
}

func trimmed(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func blank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

var _ rowstore.Store = (*Store)(nil)
