package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/andresuchdata/shoppos/backend-go/internal/rowstore"
)

// lastColumn bounds every read; the ledgers are far narrower than this.
const lastColumn = "ZZ"

// Store is a rowstore.Store over one Google spreadsheet. Each table is a tab
// whose first row holds the column headers.
type Store struct {
	srv           *sheets.Service
	spreadsheetID string
	limiter       *rate.Limiter

	mu      sync.RWMutex
	headers map[string][]string
}

// New authenticates with a service-account key and returns a Store for spreadsheetID.
// requestsPerMinute throttles calls client-side so bursts stay under the API quota.
func New(ctx context.Context, credentialsJSON []byte, spreadsheetID string, requestsPerMinute int) (*Store, error) {
	cfg, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets client: %w", err)
	}
	return NewWithService(srv, spreadsheetID, requestsPerMinute), nil
}

// NewWithService wraps an already configured client.
func NewWithService(srv *sheets.Service, spreadsheetID string, requestsPerMinute int) *Store {
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Limit(float64(requestsPerMinute) / 60)
	}
	return &Store{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		limiter:       rate.NewLimiter(limit, 5),
		headers:       make(map[string][]string),
	}
}

func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	doc, err := s.srv.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}

	titles := make([]string, 0, len(doc.Sheets))
	for _, sh := range doc.Sheets {
		if sh.Properties != nil {
			titles = append(titles, sh.Properties.Title)
		}
	}
	return titles, nil
}

func (s *Store) EnsureTable(ctx context.Context, table string, headers []string) error {
	titles, err := s.ListTables(ctx)
	if err != nil {
		return err
	}
	for _, title := range titles {
		if title == table {
			return nil
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: table},
			},
		}},
	}
	if _, err := s.srv.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", table, err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	header := &sheets.ValueRange{Values: [][]interface{}{toCells(headers)}}
	if _, err := s.srv.Spreadsheets.Values.Update(s.spreadsheetID, a1(table, "A1"), header).
		ValueInputOption("RAW").
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("write header row for %s: %w", table, err)
	}

	s.mu.Lock()
	s.headers[table] = append([]string(nil), headers...)
	s.mu.Unlock()

	log.Info().Str("table", table).Msg("created sheet")
	return nil
}

func (s *Store) GetRows(ctx context.Context, table string) ([]rowstore.Row, error) {
	values, err := s.readRange(ctx, table, "A1:"+lastColumn)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	headers := make([]string, len(values[0]))
	for i, cell := range values[0] {
		headers[i] = strings.TrimSpace(cellString(cell))
	}
	s.mu.Lock()
	s.headers[table] = headers
	s.mu.Unlock()

	rows := make([]rowstore.Row, 0, len(values)-1)
	for i, raw := range values[1:] {
		if isBlank(raw) {
			continue
		}
		row := rowstore.Row{Index: i + 2, Values: make(map[string]string, len(headers))}
		for col, h := range headers {
			if h == "" || col >= len(raw) {
				continue
			}
			row.Values[h] = cellString(raw[col])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) AddRows(ctx context.Context, table string, rows []map[string]string) error {
	if len(rows) == 0 {
		return nil
	}
	headers, err := s.headerRow(ctx, table)
	if err != nil {
		return err
	}

	vr := &sheets.ValueRange{Values: make([][]interface{}, 0, len(rows))}
	for _, values := range rows {
		vr.Values = append(vr.Values, ordered(headers, values))
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	// RAW keeps barcodes and leading-zero SKUs from being reformatted as numbers.
	_, err = s.srv.Spreadsheets.Values.Append(s.spreadsheetID, a1(table, "A1"), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append rows to %s: %w", table, translate(err, table))
	}
	return nil
}

func (s *Store) UpdateRow(ctx context.Context, table string, row rowstore.Row) error {
	if row.Index < 2 {
		return fmt.Errorf("row %d of %s is not a data row", row.Index, table)
	}
	headers, err := s.headerRow(ctx, table)
	if err != nil {
		return err
	}

	rng := fmt.Sprintf("A%d:%s%d", row.Index, ColumnName(len(headers)), row.Index)
	vr := &sheets.ValueRange{Values: [][]interface{}{ordered(headers, row.Values)}}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err = s.srv.Spreadsheets.Values.Update(s.spreadsheetID, a1(table, rng), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update row %d of %s: %w", row.Index, table, translate(err, table))
	}
	return nil
}

func (s *Store) headerRow(ctx context.Context, table string) ([]string, error) {
	s.mu.RLock()
	cached, ok := s.headers[table]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	values, err := s.readRange(ctx, table, "1:1")
	if err != nil {
		return nil, err
	}
	var headers []string
	if len(values) > 0 {
		for _, cell := range values[0] {
			headers = append(headers, strings.TrimSpace(cellString(cell)))
		}
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row", table)
	}

	s.mu.Lock()
	s.headers[table] = headers
	s.mu.Unlock()
	return headers, nil
}

func (s *Store) readRange(ctx context.Context, table, rng string) ([][]interface{}, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, a1(table, rng)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, translate(err, table))
	}
	return resp.Values, nil
}

// translate maps the API's "Unable to parse range" answer for a missing tab
// onto rowstore.ErrTableNotFound.
func translate(err error, table string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest &&
		strings.Contains(apiErr.Message, "Unable to parse range") {
		return fmt.Errorf("%w: %s", rowstore.ErrTableNotFound, table)
	}
	return err
}

func a1(table, rng string) string {
	return "'" + strings.ReplaceAll(table, "'", "''") + "'!" + rng
}

// ColumnName converts a 1-based column number to its A1 letters.
func ColumnName(n int) string {
	if n < 1 {
		return "A"
	}
	var name []byte
	for n > 0 {
		n--
		name = append([]byte{byte('A' + n%26)}, name...)
		n /= 26
	}
	return string(name)
}

func ordered(headers []string, values map[string]string) []interface{} {
	out := make([]interface{}, len(headers))
	for i, h := range headers {
		out[i] = values[h]
	}
	return out
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func cellString(cell interface{}) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return s
	}
	return fmt.Sprint(cell)
}

func isBlank(raw []interface{}) bool {
	for _, cell := range raw {
		if strings.TrimSpace(cellString(cell)) != "" {
			return false
		}
	}
	return true
}

var _ rowstore.Store = (*Store)(nil)
