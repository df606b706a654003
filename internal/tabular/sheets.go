package tabular

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/alvaro-reta/solari-market/internal/apperror"
)

// callTimeout bounds every remote spreadsheet call. The Sheets API is
// rate-limited and occasionally slow; without a bound, one stuck call would
// hold its request (and any settlement locks) indefinitely.
const callTimeout = 15 * time.Second

// columnRange is the fixed range every table is addressed by. All our
// tables fit comfortably inside 26 columns.
const columnRange = "A:Z"

// SheetsConfig configures the Google Sheets backend.
//
// Credentials come either from a service-account key file (local dev) or
// from the raw key JSON in an environment variable (deployments where a key
// file on disk is awkward). Exactly one of the two should be set.
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsFile string // path to a service-account key file
	CredentialsJSON []byte // raw service-account key, alternative to the file
}

// SheetsStore implements Store against one Google spreadsheet, with each
// table a named sheet inside it.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	logger        *slog.Logger
}

var _ Store = (*SheetsStore)(nil)

// NewSheetsStore authenticates against the Sheets API and returns a store
// bound to the given spreadsheet. The service holds its credentials for the
// process lifetime; there is no per-request session.
func NewSheetsStore(ctx context.Context, cfg SheetsConfig, logger *slog.Logger) (*SheetsStore, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("tabular: spreadsheet ID is required")
	}

	var opts []option.ClientOption
	switch {
	case len(cfg.CredentialsJSON) > 0:
		creds, err := google.CredentialsFromJSON(ctx, cfg.CredentialsJSON, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("tabular: parsing credentials JSON: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	default:
		return nil, fmt.Errorf("tabular: no Google credentials configured")
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("tabular: creating sheets service: %w", err)
	}

	return &SheetsStore{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// ReadTable fetches the table's full range and maps each data row
// positionally onto the header row.
//
// FAIL-SOFT READS:
// Any transport failure is logged and returned as an empty table. The
// listing endpoints depend on this: a flaky spreadsheet shows users an
// empty marketplace, not a 500.
func (s *SheetsStore) ReadTable(ctx context.Context, table string) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, table+"!"+columnRange).
		Context(ctx).
		Do()
	if err != nil {
		s.logger.Warn("reading table failed, returning empty",
			slog.String("table", table),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}

	if len(resp.Values) == 0 {
		return nil, nil
	}

	// Row 1 is the authoritative header: it defines both the field set and
	// the column order for every row below it.
	header := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		header = append(header, cellString(cell))
	}

	records := make([]Record, 0, len(resp.Values)-1)
	for _, row := range resp.Values[1:] {
		rec := make(Record, len(header))
		for i, field := range header {
			if i < len(row) {
				rec[field] = cellString(row[i])
			} else {
				rec[field] = "" // missing trailing cell
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

// AppendRow appends one row at the end of the table's range.
func (s *SheetsStore) AppendRow(ctx context.Context, table string, values []string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, table+"!"+columnRange, valueRange(values)).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return apperror.StoreUnavailable(fmt.Sprintf("append to %s", table), err)
	}
	return nil
}

// UpdateRow overwrites the full row at the given 1-based row number.
func (s *SheetsStore) UpdateRow(ctx context.Context, table string, row int, values []string) error {
	if row < 2 {
		// Row 1 is the header; overwriting it would corrupt the table.
		return fmt.Errorf("tabular: refusing to update row %d of %s", row, table)
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	rng := fmt.Sprintf("%s!A%d:Z%d", table, row, row)
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rng, valueRange(values)).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return apperror.StoreUnavailable(fmt.Sprintf("update row %d of %s", row, table), err)
	}
	return nil
}

// valueRange wraps one string row in the API's value container.
func valueRange(values []string) *sheets.ValueRange {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return &sheets.ValueRange{Values: [][]interface{}{row}}
}

// cellString normalizes a cell value. The API returns interface{} cells;
// with RAW input they are strings, but formula-derived cells can come back
// as numbers, so fall through fmt for anything else.
func cellString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
