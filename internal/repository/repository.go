// Package repository declares the data-access interfaces the service layer
// depends on. The concrete implementation over the tabular store lives in
// repository/sheet; tests substitute in-memory stores behind the same
// interfaces.
//
// PHYSICAL ROW NUMBERS:
// The backing store only supports whole-row overwrite at an absolute
// position, so every lookup returns the record together with its 1-based
// physical row number (header is row 1, data starts at row 2). Callers hold
// on to the row number and pass it back to Update — one scan, not two.
//
// There is no row lock in the store: two concurrent find→mutate→update
// sequences on the same row race and the later write wins silently. The
// settlement engine layers per-resource serialization on top of this
// (service/locks.go); plain CRUD accepts last-write-wins.
package repository

import (
	"context"

	"github.com/alvaro-reta/solari-market/internal/model"
)

type UserRepository interface {
	// Create assigns an ID and CreatedAt and appends the user.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, int, error)
	GetByEmail(ctx context.Context, email string) (*model.User, int, error)
	List(ctx context.Context) ([]model.User, error)
	// Update overwrites the full row; the caller must pass a record with
	// every field populated, not just the ones it changed.
	Update(ctx context.Context, row int, user *model.User) error
}

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	GetByID(ctx context.Context, id string) (*model.Item, int, error)
	List(ctx context.Context) ([]model.Item, error)
	Update(ctx context.Context, row int, item *model.Item) error
}

type OfferRepository interface {
	Create(ctx context.Context, offer *model.Offer) error
	GetByID(ctx context.Context, id string) (*model.Offer, int, error)
	List(ctx context.Context) ([]model.Offer, error)
	Update(ctx context.Context, row int, offer *model.Offer) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	// List returns messages in sheet order, which is send order: the
	// messages table is append-only.
	List(ctx context.Context) ([]model.Message, error)
	Update(ctx context.Context, row int, msg *model.Message) error
}

// CatalogRepository is read-only: the catalog is reference data maintained
// outside this service.
type CatalogRepository interface {
	List(ctx context.Context) ([]model.CatalogEntry, error)
}
