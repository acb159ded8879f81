package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/shoppos/backend-go/internal/config"
	"github.com/andresuchdata/shoppos/backend-go/internal/repository"
)

func TestNewWorkbookBackend(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{
		Backend:      BackendWorkbook,
		WorkbookPath: filepath.Join(t.TempDir(), "shop.xlsx"),
		Timezone:     "Asia/Bangkok",
	}}

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Migrate(context.Background()))
	assert.NotNil(t, a.Services.Summary)
	assert.Nil(t, a.Services.Archive)

	require.NoError(t, a.Store.EnsureTable(context.Background(), repository.CashTable, repository.CashHeaders))
	tables, err := a.Store.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{repository.CashTable}, tables)
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), &config.Config{Store: config.StoreConfig{Backend: "csv"}})
	assert.Error(t, err)
}

func TestNewSheetsNeedsCredentials(t *testing.T) {
	_, err := New(context.Background(), &config.Config{Store: config.StoreConfig{Backend: BackendSheets}})
	assert.Error(t, err)
}
