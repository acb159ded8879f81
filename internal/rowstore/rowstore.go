package rowstore

import (
	"context"
	"errors"
)

// ErrTableNotFound is returned by GetRows / UpdateRow when the named table does not exist.
var ErrTableNotFound = errors.New("table not found")

// Row is one data row of a table. Index is the store's own row address
// (for Sheets the 1-based sheet row, header being row 1).
type Row struct {
	Index  int
	Values map[string]string
}

// Store captures the tabular operations the ledgers need: named tables with a
// header row, read-all, append and overwrite-by-address. Writes are last-write-wins.
type Store interface {
	ListTables(ctx context.Context) ([]string, error)
	EnsureTable(ctx context.Context, table string, headers []string) error
	GetRows(ctx context.Context, table string) ([]Row, error)
	AddRows(ctx context.Context, table string, rows []map[string]string) error
	UpdateRow(ctx context.Context, table string, row Row) error
}
