package sheet

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/alvaro-reta/solari-market/internal/model"
	"github.com/alvaro-reta/solari-market/internal/repository"
	"github.com/alvaro-reta/solari-market/internal/tabular"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

type ItemRepo struct {
	*base
}

var itemColumns = []string{
	"id", "name", "price", "imageUrl", "largeImageUrl", "description",
	"tier", "type", "sellerId", "status", "stock", "region", "server",
	"createdAt",
}

func itemRow(i *model.Item) []string {
	return []string{
		i.ID,
		i.Name,
		intCell(i.Price),
		i.ImageURL,
		i.LargeImageURL,
		i.Description,
		intCell(i.Tier),
		i.Type,
		i.SellerID,
		i.Status,
		intCell(i.Stock),
		i.Region,
		i.Server,
		timeCell(i.CreatedAt),
	}
}

func itemFromRecord(rec tabular.Record) model.Item {
	return model.Item{
		ID:            rec["id"],
		Name:          rec["name"],
		Price:         parseIntCell(rec["price"]),
		ImageURL:      rec["imageUrl"],
		LargeImageURL: rec["largeImageUrl"],
		Description:   rec["description"],
		Tier:          parseIntCell(rec["tier"]),
		Type:          rec["type"],
		SellerID:      rec["sellerId"],
		Status:        rec["status"],
		Stock:         parseIntCell(rec["stock"]),
		Region:        rec["region"],
		Server:        rec["server"],
		CreatedAt:     parseTimeCell(rec["createdAt"]),
	}
}

func (r *ItemRepo) Create(ctx context.Context, item *model.Item) error {
	if item.ID == "" {
		item.ID = xid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	if err := r.store.AppendRow(ctx, itemsTable, itemRow(item)); err != nil {
		return fmt.Errorf("sheet: creating item: %w", err)
	}
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*model.Item, int, error) {
	rec, row, err := r.findByField(ctx, itemsTable, "item", "id", id)
	if err != nil {
		return nil, 0, err
	}
	i := itemFromRecord(rec)
	return &i, row, nil
}

func (r *ItemRepo) List(ctx context.Context) ([]model.Item, error) {
	records, err := r.store.ReadTable(ctx, itemsTable)
	if err != nil {
		return nil, fmt.Errorf("sheet: listing items: %w", err)
	}
	items := make([]model.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, itemFromRecord(rec))
	}
	return items, nil
}

func (r *ItemRepo) Update(ctx context.Context, row int, item *model.Item) error {
	if err := r.store.UpdateRow(ctx, itemsTable, row, itemRow(item)); err != nil {
		return fmt.Errorf("sheet: updating item %s: %w", item.ID, err)
	}
	return nil
}
