package tabular

import (
	"context"
	"errors"
	"testing"
)

func TestReadTable_MapsRowsOntoHeader(t *testing.T) {
	store := NewMemStore()
	store.Seed("Users",
		[]string{"id", "username", "email"},
		[]string{"u1", "paul", "paul@arrakis.example"},
		[]string{"u2", "chani"}, // missing trailing cell
	)

	records, err := store.ReadTable(context.Background(), "Users")
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0]["username"] != "paul" {
		t.Errorf("records[0][username] = %q, want %q", records[0]["username"], "paul")
	}
	// A missing trailing cell maps to the empty string, not a missing key.
	if got, ok := records[1]["email"]; !ok || got != "" {
		t.Errorf("records[1][email] = %q (present=%v), want empty string", got, ok)
	}
}

func TestReadTable_EmptyAndUnknownTables(t *testing.T) {
	store := NewMemStore()
	store.Seed("Items", []string{"id", "name"})

	records, err := store.ReadTable(context.Background(), "Items")
	if err != nil || len(records) != 0 {
		t.Errorf("empty table: records=%v err=%v, want empty and nil", records, err)
	}

	records, err = store.ReadTable(context.Background(), "Nope")
	if err != nil || len(records) != 0 {
		t.Errorf("unknown table: records=%v err=%v, want empty and nil", records, err)
	}
}

func TestAppendRow_VisibleToSubsequentReads(t *testing.T) {
	store := NewMemStore()
	store.Seed("Offers", []string{"id", "status"})

	if err := store.AppendRow(context.Background(), "Offers", []string{"o1", "pending"}); err != nil {
		t.Fatalf("AppendRow() error = %v", err)
	}

	records, _ := store.ReadTable(context.Background(), "Offers")
	if len(records) != 1 || records[0]["status"] != "pending" {
		t.Fatalf("appended row not readable: %v", records)
	}
}

func TestUpdateRow_PhysicalRowAddressing(t *testing.T) {
	store := NewMemStore()
	store.Seed("Items",
		[]string{"id", "status"},
		[]string{"i1", "available"},
		[]string{"i2", "available"},
	)

	// Header is physical row 1, so the second data row is physical row 3.
	if err := store.UpdateRow(context.Background(), "Items", 3, []string{"i2", "sold"}); err != nil {
		t.Fatalf("UpdateRow() error = %v", err)
	}

	rows := store.Rows("Items")
	if rows[0][1] != "available" {
		t.Errorf("row 2 touched by update of row 3: %v", rows[0])
	}
	if rows[1][1] != "sold" {
		t.Errorf("row 3 = %v, want status sold", rows[1])
	}
}

func TestUpdateRow_OutOfRange(t *testing.T) {
	store := NewMemStore()
	store.Seed("Items", []string{"id"}, []string{"i1"})

	if err := store.UpdateRow(context.Background(), "Items", 9, []string{"x"}); err == nil {
		t.Error("UpdateRow() should fail for a row past the end of the table")
	}
}

func TestFailReads_DegradesToEmpty(t *testing.T) {
	store := NewMemStore()
	store.Seed("Users", []string{"id"}, []string{"u1"})
	store.FailReads(errors.New("transport down"))

	records, err := store.ReadTable(context.Background(), "Users")
	if err != nil {
		t.Errorf("ReadTable() during outage must not error, got %v", err)
	}
	if len(records) != 0 {
		t.Errorf("ReadTable() during outage = %v, want empty", records)
	}
}

func TestFailWritesAfter_Countdown(t *testing.T) {
	store := NewMemStore()
	store.Seed("Users", []string{"id"})
	boom := errors.New("quota exceeded")
	store.FailWritesAfter(1, boom)

	if err := store.AppendRow(context.Background(), "Users", []string{"u1"}); err != nil {
		t.Fatalf("first write should succeed, got %v", err)
	}
	if err := store.AppendRow(context.Background(), "Users", []string{"u2"}); !errors.Is(err, boom) {
		t.Fatalf("second write = %v, want injected error", err)
	}
}
