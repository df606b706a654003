// Package tabular adapts a sheet-like resource — named tables addressed by
// a fixed A:Z column range, with row 1 as the authoritative header — into
// read/append/update operations on string records.
//
// THE STORE MODEL:
// The backing store is a remote spreadsheet. It has no transactions, no
// row-level locking, and no schema; a "table" is just a named sheet whose
// first row defines the field names and order. This package imposes a
// consistent row/record mapping so higher layers never deal with raw
// positional arrays.
//
// FAILURE POLICY:
//   - Reads fail soft: a transport failure is logged and surfaced as an
//     empty table, so listing endpoints degrade to "no data" instead of
//     erroring. Callers that must distinguish absence from outage cannot —
//     that is an accepted property of the store, not a bug here.
//   - Mutations fail hard: AppendRow and UpdateRow return
//     apperror.ErrStoreUnavailable so no write is ever silently dropped.
//
// Every remote call runs under a bounded timeout; the spreadsheet API is a
// rate-limited external service and must not hang a request forever.
package tabular

import "context"

// Record is one row of a table as a flat field→value mapping, keyed by the
// header names. Missing trailing cells map to the empty string.
type Record map[string]string

// Store is the minimal contract the repository layer builds on.
//
// Physical row numbers are 1-based positions within the sheet: the header
// is row 1, so data rows start at row 2. UpdateRow overwrites the full row;
// partial-field update is not supported by the store, so callers must
// read-merge-write entire records.
type Store interface {
	// ReadTable returns all data rows of the named table, in sheet order.
	// An empty or unreachable table yields an empty slice and a nil error.
	ReadTable(ctx context.Context, table string) ([]Record, error)

	// AppendRow appends one row at the end of the table's range. The new
	// row is readable by subsequent ReadTable calls on the same store.
	AppendRow(ctx context.Context, table string, values []string) error

	// UpdateRow overwrites the row at the given 1-based physical row
	// number with the provided values.
	UpdateRow(ctx context.Context, table string, row int, values []string) error
}
