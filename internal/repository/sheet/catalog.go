package sheet

import (
	"context"
	"fmt"

	"github.com/alvaro-reta/solari-market/internal/model"
	"github.com/alvaro-reta/solari-market/internal/repository"
	"github.com/alvaro-reta/solari-market/internal/tabular"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo reads the static in-game item catalog. The table is owned by
// whoever curates the spreadsheet; this service never writes it.
type CatalogRepo struct {
	*base
}

var catalogColumns = []string{"name", "imageUrl", "tier", "type"}

func catalogFromRecord(rec tabular.Record) model.CatalogEntry {
	return model.CatalogEntry{
		Name:     rec["name"],
		ImageURL: rec["imageUrl"],
		Tier:     parseIntCell(rec["tier"]),
		Type:     rec["type"],
	}
}

func (r *CatalogRepo) List(ctx context.Context) ([]model.CatalogEntry, error) {
	records, err := r.store.ReadTable(ctx, catalogTable)
	if err != nil {
		return nil, fmt.Errorf("sheet: listing catalog: %w", err)
	}
	entries := make([]model.CatalogEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, catalogFromRecord(rec))
	}
	return entries, nil
}
