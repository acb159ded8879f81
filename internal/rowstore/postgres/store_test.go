package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/shoppos/backend-go/internal/rowstore"
)

func TestProjectDropsUnknownColumns(t *testing.T) {
	got := project([]string{"a", "b"}, map[string]string{"a": "1", "c": "3"})
	assert.Equal(t, map[string]string{"a": "1"}, got)
}

// TestStoreAgainstDatabase runs only when SHOPPOS_TEST_DATABASE_URL points at
// a scratch database.
func TestStoreAgainstDatabase(t *testing.T) {
	dsn := os.Getenv("SHOPPOS_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("SHOPPOS_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	conn, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	defer conn.Close()

	store := NewStore(Wrap(conn, 2))
	require.NoError(t, store.Migrate(ctx))
	for _, stmt := range []string{`DELETE FROM row_values`, `DELETE FROM row_tables`} {
		_, err = conn.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	_, err = store.GetRows(ctx, "14-02-2025")
	assert.True(t, errors.Is(err, rowstore.ErrTableNotFound))

	require.NoError(t, store.EnsureTable(ctx, "14-02-2025", []string{"บิล", "จำนวน"}))
	require.NoError(t, store.EnsureTable(ctx, "14-02-2025", []string{"บิล", "จำนวน"}))
	require.NoError(t, store.AddRows(ctx, "14-02-2025", []map[string]string{
		{"บิล": "143055", "จำนวน": "2", "อื่น": "x"},
		{"บิล": "143100", "จำนวน": "1"},
	}))
	require.NoError(t, store.UpdateRow(ctx, "14-02-2025", rowstore.Row{
		Index:  3,
		Values: map[string]string{"บิล": "143100", "จำนวน": "4"},
	}))

	rows, err := store.GetRows(ctx, "14-02-2025")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Index)
	assert.Equal(t, map[string]string{"บิล": "143055", "จำนวน": "2"}, rows[0].Values)
	assert.Equal(t, "4", rows[1].Values["จำนวน"])

	tables, err := store.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"14-02-2025"}, tables)
}
