package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/andresuchdata/shoppos/backend-go/internal/rowstore"
)

type table struct {
	headers []string
	rows    []map[string]string
}

// Store keeps tables in process memory. Row indexes start at 2 so they line
// up with the sheet adapter (row 1 being the header).
type Store struct {
	mu     sync.RWMutex
	order  []string
	tables map[string]*table
}

func New() *Store {
	return &Store{tables: make(map[string]*table)}
}

func (s *Store) ListTables(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out, nil
}

func (s *Store) EnsureTable(_ context.Context, name string, headers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[name]; ok {
		return nil
	}
	s.tables[name] = &table{headers: append([]string(nil), headers...)}
	s.order = append(s.order, name)
	return nil
}

func (s *Store) GetRows(_ context.Context, name string) ([]rowstore.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", rowstore.ErrTableNotFound, name)
	}

	rows := make([]rowstore.Row, 0, len(t.rows))
	for i, values := range t.rows {
		rows = append(rows, rowstore.Row{Index: i + 2, Values: copyValues(values)})
	}
	return rows, nil
}

func (s *Store) AddRows(_ context.Context, name string, rows []map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[name]
	if !ok {
		return fmt.Errorf("%w: %s", rowstore.ErrTableNotFound, name)
	}
	for _, values := range rows {
		t.rows = append(t.rows, t.project(values))
	}
	return nil
}

func (s *Store) UpdateRow(_ context.Context, name string, row rowstore.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[name]
	if !ok {
		return fmt.Errorf("%w: %s", rowstore.ErrTableNotFound, name)
	}
	pos := row.Index - 2
	if pos < 0 || pos >= len(t.rows) {
		return fmt.Errorf("row %d out of range for table %s", row.Index, name)
	}
	t.rows[pos] = t.project(row.Values)
	return nil
}

// project drops values whose column is not part of the header, the same way a
// sheet write would ignore them.
func (t *table) project(values map[string]string) map[string]string {
	out := make(map[string]string, len(t.headers))
	for _, h := range t.headers {
		if v, ok := values[h]; ok {
			out[h] = v
		}
	}
	return out
}

func copyValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

var _ rowstore.Store = (*Store)(nil)
