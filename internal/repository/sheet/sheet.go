// Package sheet implements the repository interfaces over a tabular.Store.
//
// Each entity gets its own file (users.go, items.go, ...) holding three
// things: the canonical column order for its table, the row↔struct codecs,
// and the typed repository methods. The generic scan machinery lives here.
//
// EVERY LOOKUP IS A FULL-TABLE SCAN:
// The store has no indexes, so findByField re-reads the whole table and
// takes the first match. The repository deliberately caches nothing across
// calls — re-reading on every operation is the correctness-preserving choice
// given that other writers (or a human with the spreadsheet open) can change
// rows at any time.
package sheet

import (
	"context"
	"log/slog"

	"github.com/alvaro-reta/solari-market/internal/apperror"
	"github.com/alvaro-reta/solari-market/internal/tabular"
)

// Table names inside the spreadsheet. The store addresses sheets purely by
// name; these must match the tab names exactly.
const (
	usersTable    = "Users"
	itemsTable    = "Items"
	offersTable   = "Offers"
	messagesTable = "Messages"
	catalogTable  = "ItemsCatalog"
)

// Tables lists every table this repository touches, with its header row.
// The server seeds these into the in-memory store when running without
// spreadsheet credentials.
func Tables() map[string][]string {
	return map[string][]string{
		usersTable:    append([]string(nil), userColumns...),
		itemsTable:    append([]string(nil), itemColumns...),
		offersTable:   append([]string(nil), offerColumns...),
		messagesTable: append([]string(nil), messageColumns...),
		catalogTable:  append([]string(nil), catalogColumns...),
	}
}

// DB bundles one typed repository per table, all sharing the same store.
// The repository interfaces collide on method names (every entity has
// Create/GetByID/...), so each gets its own receiver type instead of one
// fat struct.
type DB struct {
	Users    *UserRepo
	Items    *ItemRepo
	Offers   *OfferRepo
	Messages *MessageRepo
	Catalog  *CatalogRepo
}

type base struct {
	store  tabular.Store
	logger *slog.Logger
}

func New(store tabular.Store, logger *slog.Logger) *DB {
	b := &base{store: store, logger: logger}
	return &DB{
		Users:    &UserRepo{b},
		Items:    &ItemRepo{b},
		Offers:   &OfferRepo{b},
		Messages: &MessageRepo{b},
		Catalog:  &CatalogRepo{b},
	}
}

// findByField scans the table for the first record whose field equals
// value. It returns the record and its physical row number — the slice
// index plus 2, because the header occupies row 1 and slices are 0-based.
//
// Absence is reported as apperror.NotFound with the given resource name;
// a store outage looks identical to absence here, which is the documented
// fail-soft trade-off of the read path.
func (b *base) findByField(ctx context.Context, table, resource, field, value string) (tabular.Record, int, error) {
	records, err := b.store.ReadTable(ctx, table)
	if err != nil {
		return nil, 0, err
	}
	for i, rec := range records {
		if rec[field] == value {
			return rec, i + 2, nil
		}
	}
	return nil, 0, apperror.NotFound(resource, value)
}
