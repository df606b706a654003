package tabular

import (
	"context"
	"fmt"
	"sync"
)

// MemStore is an in-memory Store with the same contract as SheetsStore:
// header row at physical row 1, data rows from row 2, whole-row overwrites.
//
// It serves two roles:
//   - the test double for every package above the store, including failure
//     injection for the settlement error paths;
//   - the degraded mode the server falls back to when no spreadsheet
//     credentials are configured, so local development works out of the box.
type MemStore struct {
	mu     sync.Mutex
	tables map[string]*memTable

	readErr        error
	writeErr       error
	writesBeforeEr int // writes allowed before writeErr starts firing
}

type memTable struct {
	header []string
	rows   [][]string
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{tables: make(map[string]*memTable)}
}

// Seed creates (or replaces) a table with the given header and rows.
func (m *MemStore) Seed(table string, header []string, rows ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &memTable{header: append([]string(nil), header...)}
	for _, r := range rows {
		t.rows = append(t.rows, append([]string(nil), r...))
	}
	m.tables[table] = t
}

// FailReads makes subsequent ReadTable calls behave like a transport
// outage: empty result, nil error, matching the fail-soft read contract.
func (m *MemStore) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// FailWritesAfter lets the next n mutations succeed and fails every one
// after that with err. n = 0 fails immediately. Used to drive the
// partial-settlement paths in tests.
func (m *MemStore) FailWritesAfter(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writesBeforeEr = n
	m.writeErr = err
}

func (m *MemStore) ReadTable(_ context.Context, table string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.readErr != nil {
		return nil, nil
	}

	t, ok := m.tables[table]
	if !ok {
		return nil, nil
	}

	records := make([]Record, 0, len(t.rows))
	for _, row := range t.rows {
		rec := make(Record, len(t.header))
		for i, field := range t.header {
			if i < len(row) {
				rec[field] = row[i]
			} else {
				rec[field] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (m *MemStore) AppendRow(_ context.Context, table string, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.nextWriteErr(); err != nil {
		return err
	}

	t, ok := m.tables[table]
	if !ok {
		// Mirror the real store: appending to a sheet that doesn't exist
		// is a hard failure, not an implicit create. Seed the header first.
		return fmt.Errorf("tabular: table %s does not exist", table)
	}
	t.rows = append(t.rows, append([]string(nil), values...))
	return nil
}

func (m *MemStore) UpdateRow(_ context.Context, table string, row int, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.nextWriteErr(); err != nil {
		return err
	}

	t, ok := m.tables[table]
	idx := row - 2 // physical row 2 is rows[0]
	if !ok || idx < 0 || idx >= len(t.rows) {
		return &outOfRangeError{table: table, row: row}
	}
	t.rows[idx] = append([]string(nil), values...)
	return nil
}

// Rows returns a copy of the raw data rows of a table, for test assertions
// on physical layout.
func (m *MemStore) Rows(table string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[table]
	if !ok {
		return nil
	}
	out := make([][]string, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, append([]string(nil), r...))
	}
	return out
}

// nextWriteErr implements the FailWritesAfter countdown. Caller holds mu.
func (m *MemStore) nextWriteErr() error {
	if m.writeErr == nil {
		return nil
	}
	if m.writesBeforeEr > 0 {
		m.writesBeforeEr--
		return nil
	}
	return m.writeErr
}

type outOfRangeError struct {
	table string
	row   int
}

func (e *outOfRangeError) Error() string {
	return fmt.Sprintf("tabular: row %d out of range for table %s", e.row, e.table)
}
