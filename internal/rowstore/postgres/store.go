package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/andresuchdata/shoppos/backend-go/internal/rowstore"
)

// Schema creates the two tables backing the generic row store.
const Schema = `
CREATE TABLE IF NOT EXISTS row_tables (
    name       TEXT PRIMARY KEY,
    headers    TEXT[] NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS row_values (
    table_name TEXT NOT NULL REFERENCES row_tables(name) ON DELETE CASCADE,
    row_index  INTEGER NOT NULL,
    data       JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (table_name, row_index)
);
`

// Store keeps spreadsheet-shaped tables in PostgreSQL, one JSONB document per row.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Migrate applies Schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply row store schema: %w", err)
	}
	return nil
}

func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, `SELECT name FROM row_tables ORDER BY created_at, name`); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return names, nil
}

func (s *Store) EnsureTable(ctx context.Context, table string, headers []string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO row_tables (name, headers) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		table, pq.Array(headers))
	if err != nil {
		return fmt.Errorf("ensure table %s: %w", table, err)
	}
	return nil
}

type rowRecord struct {
	RowIndex int    `db:"row_index"`
	Data     []byte `db:"data"`
}

func (s *Store) GetRows(ctx context.Context, table string) ([]rowstore.Row, error) {
	if _, err := s.headers(ctx, s.db, table, false); err != nil {
		return nil, err
	}

	var records []rowRecord
	err := s.db.SelectContext(ctx, &records,
		`SELECT row_index, data FROM row_values WHERE table_name = $1 ORDER BY row_index`, table)
	if err != nil {
		return nil, fmt.Errorf("get rows of %s: %w", table, err)
	}

	rows := make([]rowstore.Row, 0, len(records))
	for _, rec := range records {
		values := make(map[string]string)
		if err := json.Unmarshal(rec.Data, &values); err != nil {
			return nil, fmt.Errorf("decode row %d of %s: %w", rec.RowIndex, table, err)
		}
		rows = append(rows, rowstore.Row{Index: rec.RowIndex, Values: values})
	}
	return rows, nil
}

func (s *Store) AddRows(ctx context.Context, table string, rows []map[string]string) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		headers, err := s.headers(ctx, tx, table, true)
		if err != nil {
			return err
		}

		var next int
		if err := tx.GetContext(ctx, &next,
			`SELECT COALESCE(MAX(row_index), 1) + 1 FROM row_values WHERE table_name = $1`, table); err != nil {
			return fmt.Errorf("next row index of %s: %w", table, err)
		}

		for i, values := range rows {
			data, err := json.Marshal(project(headers, values))
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO row_values (table_name, row_index, data) VALUES ($1, $2, $3)`,
				table, next+i, data); err != nil {
				return fmt.Errorf("insert row into %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *Store) UpdateRow(ctx context.Context, table string, row rowstore.Row) error {
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		headers, err := s.headers(ctx, tx, table, false)
		if err != nil {
			return err
		}
		data, err := json.Marshal(project(headers, row.Values))
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE row_values SET data = $3, updated_at = NOW() WHERE table_name = $1 AND row_index = $2`,
			table, row.Index, data)
		if err != nil {
			return fmt.Errorf("update row %d of %s: %w", row.Index, table, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("row %d out of range for table %s", row.Index, table)
		}
		return nil
	})
}

func (s *Store) headers(ctx context.Context, q sqlx.QueryerContext, table string, lock bool) ([]string, error) {
	query := `SELECT headers FROM row_tables WHERE name = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var headers []string
	err := q.QueryRowxContext(ctx, query, table).Scan(pq.Array(&headers))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", rowstore.ErrTableNotFound, table)
	}
	if err != nil {
		return nil, fmt.Errorf("read headers of %s: %w", table, err)
	}
	return headers, nil
}

func project(headers []string, values map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		if v, ok := values[h]; ok {
			out[h] = v
		}
	}
	return out
}

var _ rowstore.Store = (*Store)(nil)
