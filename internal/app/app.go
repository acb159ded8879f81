// Package app wires configuration into a running set of services.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/shoppos/backend-go/internal/api"
	"github.com/andresuchdata/shoppos/backend-go/internal/cache"
	"github.com/andresuchdata/shoppos/backend-go/internal/config"
	"github.com/andresuchdata/shoppos/backend-go/internal/drive"
	"github.com/andresuchdata/shoppos/backend-go/internal/repository"
	"github.com/andresuchdata/shoppos/backend-go/internal/rowstore"
	"github.com/andresuchdata/shoppos/backend-go/internal/rowstore/memory"
	"github.com/andresuchdata/shoppos/backend-go/internal/rowstore/postgres"
	"github.com/andresuchdata/shoppos/backend-go/internal/rowstore/sheets"
	"github.com/andresuchdata/shoppos/backend-go/internal/rowstore/workbook"
	"github.com/andresuchdata/shoppos/backend-go/internal/service"
	"github.com/andresuchdata/shoppos/backend-go/internal/storage"
)

const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
	BackendWorkbook = "xlsx"
	BackendMemory   = "memory"
)

type App struct {
	Config   *config.Config
	Store    rowstore.Store
	Services *api.Services

	pg      *postgres.Store
	closers []func() error
}

// New builds the row store selected by cfg and every service on top of it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	var exporter service.SpreadsheetExporter
	switch strings.ToLower(cfg.Store.Backend) {
	case BackendSheets, "":
		creds, err := cfg.Store.Credentials()
		if err != nil {
			return nil, err
		}
		if cfg.Store.SpreadsheetID == "" {
			return nil, fmt.Errorf("SPREADSHEET_ID must be set for the sheets backend")
		}
		store, err := sheets.New(ctx, creds, cfg.Store.SpreadsheetID, cfg.Store.RequestsPerMinute)
		if err != nil {
			return nil, err
		}
		a.Store = store

		driveService, err := drive.NewService(ctx, creds)
		if err != nil {
			log.Warn().Err(err).Msg("app: drive unavailable, spreadsheet backups disabled")
		} else {
			exporter = driveService
		}

	case BackendPostgres:
		db, err := postgres.NewDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.pg = postgres.NewStore(db)
		a.Store = a.pg

	case BackendWorkbook:
		store, err := workbook.Open(cfg.Store.WorkbookPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		a.Store = store

	case BackendMemory:
		a.Store = memory.New()

	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}

	summaryCache, err := cache.NewSummaryCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("app: redis unavailable, summary cache disabled")
		summaryCache = cache.NewNoopSummaryCache()
	}

	var objects storage.ObjectStorage
	if cfg.Archive.Enabled() {
		client, err := storage.NewMinioClient(ctx, cfg.Archive)
		if err != nil {
			log.Warn().Err(err).Msg("app: archive bucket unavailable, archiving disabled")
		} else {
			objects = client
		}
	}

	a.Services = NewServices(a.Store, summaryCache, objects, exporter, cfg.Store.SpreadsheetID, cfg.Archive.Prefix,
		service.NewClock(cfg.Store.Location()))

	log.Info().
		Str("backend", cfg.Store.Backend).
		Bool("cache", cfg.Cache.Enabled).
		Bool("archive", objects != nil).
		Msg("app: services ready")
	return a, nil
}

// NewServices builds the service graph over store. objects and exporter may be nil.
func NewServices(store rowstore.Store, summaryCache cache.SummaryCache, objects storage.ObjectStorage, exporter service.SpreadsheetExporter, spreadsheetID, archivePrefix string, clock service.Clock) *api.Services {
	catalogRepo := repository.NewCatalogRepository(store)
	salesRepo := repository.NewSalesRepository(store)

	summaries := service.NewSummaryService(salesRepo, summaryCache, clock)
	inventory := service.NewInventoryService(catalogRepo, repository.NewInventoryRepository(store), summaries)
	cash := service.NewCashService(repository.NewCashRepository(store), summaries)
	reports := service.NewReportService(inventory, cash)

	services := &api.Services{
		Clock:     clock,
		Catalog:   service.NewCatalogService(catalogRepo),
		Checkout:  service.NewCheckoutService(catalogRepo, salesRepo, summaryCache, clock),
		Summary:   summaries,
		Inventory: inventory,
		Cash:      cash,
		Reports:   reports,
	}
	if objects != nil {
		services.Archive = service.NewArchiveService(objects, reports, exporter, spreadsheetID, archivePrefix, clock)
	}
	return services
}

// Migrate prepares the backing schema. Only the postgres backend has one.
func (a *App) Migrate(ctx context.Context) error {
	if a.pg == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := a.pg.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate row store: %w", err)
	}
	log.Info().Msg("app: row store schema is up to date")
	return nil
}

func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}
