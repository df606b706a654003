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

var _ repository.OfferRepository = (*OfferRepo)(nil)

type OfferRepo struct {
	*base
}

var offerColumns = []string{
	"id", "itemId", "buyerId", "sellerId", "amount", "status",
	"message", "createdAt",
}

func offerRow(o *model.Offer) []string {
	return []string{
		o.ID,
		o.ItemID,
		o.BuyerID,
		o.SellerID,
		intCell(o.Amount),
		o.Status,
		o.Message,
		timeCell(o.CreatedAt),
	}
}

func offerFromRecord(rec tabular.Record) model.Offer {
	return model.Offer{
		ID:        rec["id"],
		ItemID:    rec["itemId"],
		BuyerID:   rec["buyerId"],
		SellerID:  rec["sellerId"],
		Amount:    parseIntCell(rec["amount"]),
		Status:    rec["status"],
		Message:   rec["message"],
		CreatedAt: parseTimeCell(rec["createdAt"]),
	}
}

func (r *OfferRepo) Create(ctx context.Context, offer *model.Offer) error {
	if offer.ID == "" {
		offer.ID = xid.New().String()
	}
	if offer.CreatedAt.IsZero() {
		offer.CreatedAt = time.Now().UTC()
	}

	if err := r.store.AppendRow(ctx, offersTable, offerRow(offer)); err != nil {
		return fmt.Errorf("sheet: creating offer: %w", err)
	}
	return nil
}

func (r *OfferRepo) GetByID(ctx context.Context, id string) (*model.Offer, int, error) {
	rec, row, err := r.findByField(ctx, offersTable, "offer", "id", id)
	if err != nil {
		return nil, 0, err
	}
	o := offerFromRecord(rec)
	return &o, row, nil
}

func (r *OfferRepo) List(ctx context.Context) ([]model.Offer, error) {
	records, err := r.store.ReadTable(ctx, offersTable)
	if err != nil {
		return nil, fmt.Errorf("sheet: listing offers: %w", err)
	}
	offers := make([]model.Offer, 0, len(records))
	for _, rec := range records {
		offers = append(offers, offerFromRecord(rec))
	}
	return offers, nil
}

func (r *OfferRepo) Update(ctx context.Context, row int, offer *model.Offer) error {
	if err := r.store.UpdateRow(ctx, offersTable, row, offerRow(offer)); err != nil {
		return fmt.Errorf("sheet: updating offer %s: %w", offer.ID, err)
	}
	return nil
}
