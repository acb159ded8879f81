package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/storage"
)

// SpreadsheetExporter downloads the live spreadsheet as a workbook.
type SpreadsheetExporter interface {
	ExportXLSX(ctx context.Context, fileID string, w io.Writer) error
}

type ArchiveService struct {
	storage       storage.ObjectStorage
	reports       *ReportService
	exporter      SpreadsheetExporter
	spreadsheetID string
	prefix        string
	clock         Clock
}

// NewArchiveService wires the archive. exporter may be nil when the store is
// not backed by a Google spreadsheet; Backup then fails.
func NewArchiveService(store storage.ObjectStorage, reports *ReportService, exporter SpreadsheetExporter, spreadsheetID, prefix string, clock Clock) *ArchiveService {
	return &ArchiveService{
		storage:       store,
		reports:       reports,
		exporter:      exporter,
		spreadsheetID: spreadsheetID,
		prefix:        strings.Trim(prefix, "/"),
		clock:         clock,
	}
}

// ArchiveDay uploads the day's report and returns its object key.
func (s *ArchiveService) ArchiveDay(ctx context.Context, date domain.BusinessDate) (string, error) {
	data, err := s.reports.Workbook(ctx, date)
	if err != nil {
		return "", err
	}

	key := s.key("reports", WorkbookName(date))
	if err := s.storage.UploadObject(ctx, key, data); err != nil {
		return "", fmt.Errorf("error uploading %s: %w", key, err)
	}
	log.Info().Str("date", date.String()).Str("key", key).Int("bytes", len(data)).Msg("archive: report uploaded")
	return key, nil
}

// Backup exports the whole spreadsheet and uploads it under a timestamped key.
func (s *ArchiveService) Backup(ctx context.Context) (string, error) {
	if s.exporter == nil || s.spreadsheetID == "" {
		return "", errors.New("spreadsheet backup is not configured")
	}

	var buf bytes.Buffer
	if err := s.exporter.ExportXLSX(ctx, s.spreadsheetID, &buf); err != nil {
		return "", err
	}

	stamp := s.clock.Local(s.clock.Current()).Format("20060102-150405")
	key := s.key("backups", "spreadsheet-"+stamp+".xlsx")
	if err := s.storage.UploadObject(ctx, key, buf.Bytes()); err != nil {
		return "", fmt.Errorf("error uploading %s: %w", key, err)
	}
	log.Info().Str("key", key).Int("bytes", buf.Len()).Msg("archive: spreadsheet backed up")
	return key, nil
}

// List returns archived objects of the given kind ("reports" or "backups").
func (s *ArchiveService) List(ctx context.Context, kind string) ([]storage.ObjectInfo, error) {
	return s.storage.ListObjects(ctx, s.key(kind, ""))
}

func (s *ArchiveService) key(kind, name string) string {
	k := path.Join(s.prefix, kind) + "/"
	return strings.TrimPrefix(k, "/") + name
}
