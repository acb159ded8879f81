package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/shoppos/backend-go/internal/rowstore"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.EnsureTable(ctx, "t", []string{"a", "b"}))
	require.NoError(t, s.EnsureTable(ctx, "t", []string{"ignored"}))
	require.NoError(t, s.AddRows(ctx, "t", []map[string]string{
		{"a": "1", "b": "2", "c": "dropped"},
		{"a": "3"},
	}))

	rows, err := s.GetRows(ctx, "t")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Index)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, rows[0].Values)

	rows[1].Values["b"] = "4"
	require.NoError(t, s.UpdateRow(ctx, "t", rows[1]))

	rows, err = s.GetRows(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "4", rows[1].Values["b"])

	tables, err := s.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t"}, tables)
}

func TestStoreMissingTable(t *testing.T) {
	_, err := New().GetRows(context.Background(), "nope")
	assert.True(t, errors.Is(err, rowstore.ErrTableNotFound))
}

func TestUpdateRowOutOfRange(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.EnsureTable(ctx, "t", []string{"a"}))
	assert.Error(t, s.UpdateRow(ctx, "t", rowstore.Row{Index: 9}))
}
