package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alvaro-reta/solari-market/internal/apperror"
	"github.com/alvaro-reta/solari-market/internal/metrics"
	"github.com/alvaro-reta/solari-market/internal/model"
	"github.com/alvaro-reta/solari-market/internal/repository"
)

const MaxOfferMessageLength = 500

// OfferService owns the offer lifecycle: placing offers and settling them
// when the seller answers.
type OfferService struct {
	offers repository.OfferRepository
	items  repository.ItemRepository
	users  repository.UserRepository
	locks  *resourceLocks
	logger *slog.Logger
}

func NewOfferService(
	offers repository.OfferRepository,
	items repository.ItemRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *OfferService {
	return &OfferService{
		offers: offers,
		items:  items,
		users:  users,
		locks:  newResourceLocks(),
		logger: logger,
	}
}

// Create places a pending offer from the buyer on an item.
//
// The seller ID is denormalized from the item at offer time so that the
// respond path authorizes against the offer row alone.
func (s *OfferService) Create(ctx context.Context, buyer *model.User, itemID string, amount int, message string) (*model.Offer, error) {
	itemID = strings.TrimSpace(itemID)
	switch {
	case itemID == "":
		return nil, apperror.ValidationFailed("itemId", "item ID is required")
	case amount <= 0:
		return nil, apperror.ValidationFailed("amount", "offer amount must be a positive whole number")
	case len(message) > MaxOfferMessageLength:
		return nil, apperror.ValidationFailed("message",
			fmt.Sprintf("message must be %d characters or less", MaxOfferMessageLength))
	}

	item, _, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Available() {
		return nil, apperror.NotAvailable(item.ID)
	}
	if item.SellerID == buyer.ID {
		return nil, apperror.SelfOffer()
	}

	offer := &model.Offer{
		ItemID:   item.ID,
		BuyerID:  buyer.ID,
		SellerID: item.SellerID,
		Amount:   amount,
		Status:   model.OfferStatusPending,
		Message:  strings.TrimSpace(message),
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, fmt.Errorf("service/offers: creating offer: %w", err)
	}

	metrics.OffersCreatedTotal.Inc()
	s.logger.Info("offer placed",
		slog.String("offerID", offer.ID),
		slog.String("itemID", item.ID),
		slog.String("buyerID", buyer.ID),
		slog.Int("amount", amount),
	)

	return offer, nil
}

// OfferView is an offer joined with item and counterparty summaries for the
// inbox listing.
type OfferView struct {
	model.Offer
	Item   *OfferItemSummary `json:"item"`
	Buyer  *model.Profile    `json:"buyer"`
	Seller *model.Profile    `json:"seller"`
}

type OfferItemSummary struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// Inbox filters for MyOffers.
const (
	OfferBoxSent     = "sent"
	OfferBoxReceived = "received"
)

// MyOffers returns the user's offers — sent, received, or both — enriched
// with item and profile summaries. Each referenced table is read once.
func (s *OfferService) MyOffers(ctx context.Context, userID, box string) ([]OfferView, error) {
	offers, err := s.offers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/offers: listing: %w", err)
	}

	mine := make([]model.Offer, 0, len(offers))
	for _, o := range offers {
		switch box {
		case OfferBoxSent:
			if o.BuyerID == userID {
				mine = append(mine, o)
			}
		case OfferBoxReceived:
			if o.SellerID == userID {
				mine = append(mine, o)
			}
		default:
			if o.BuyerID == userID || o.SellerID == userID {
				mine = append(mine, o)
			}
		}
	}

	items, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/offers: listing items: %w", err)
	}
	itemsByID := make(map[string]model.Item, len(items))
	for _, i := range items {
		itemsByID[i.ID] = i
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/offers: listing users: %w", err)
	}
	profiles := make(map[string]*model.Profile, len(users))
	for i := range users {
		p := users[i].Profile()
		profiles[users[i].ID] = &p
	}

	views := make([]OfferView, 0, len(mine))
	for _, o := range mine {
		view := OfferView{
			Offer:  o,
			Buyer:  profiles[o.BuyerID],
			Seller: profiles[o.SellerID],
		}
		if item, ok := itemsByID[o.ItemID]; ok {
			view.Item = &OfferItemSummary{Name: item.Name, ImageURL: item.ImageURL}
		}
		views = append(views, view)
	}
	return views, nil
}

// Respond executes the offer state machine for a seller's decision.
//
// GUARD ORDER (all before any write):
//  1. offer exists                    → NotFound
//  2. caller is the offer's seller    → Forbidden
//  3. offer still pending             → Conflict ("already processed")
//
// A rejection is a single row write. An acceptance additionally runs the
// settlement sequence under per-resource locks; see settle.
func (s *OfferService) Respond(ctx context.Context, seller *model.User, offerID, decision string) (*model.Offer, error) {
	offerID = strings.TrimSpace(offerID)
	if offerID == "" {
		return nil, apperror.ValidationFailed("id", "offer ID is required")
	}
	if decision != model.OfferStatusAccepted && decision != model.OfferStatusRejected {
		return nil, apperror.ValidationFailed("status", `decision must be "accepted" or "rejected"`)
	}

	offer, offerRow, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.SellerID != seller.ID {
		return nil, apperror.Forbidden("only the item's seller can respond to this offer")
	}
	if offer.Terminal() {
		// Reject replays loudly instead of no-op-ing, so a double
		// submission is visible to the caller.
		return nil, apperror.Conflict("this offer has already been processed")
	}

	if decision == model.OfferStatusRejected {
		offer.Status = model.OfferStatusRejected
		if err := s.offers.Update(ctx, offerRow, offer); err != nil {
			return nil, fmt.Errorf("service/offers: rejecting offer %s: %w", offer.ID, err)
		}
		metrics.SettlementsTotal.WithLabelValues("rejected").Inc()
		s.logger.Info("offer rejected", slog.String("offerID", offer.ID))
		return offer, nil
	}

	return s.settle(ctx, offer, offerRow)
}

// settle executes the multi-record acceptance: offer → accepted, item →
// sold with stock decremented, amount moved from buyer to seller.
//
// VALIDATE THEN COMMIT:
// The store cannot make these four writes atomic, so the only defense is
// ordering: every guard — including the buyer's funds — runs before the
// first write. Once writing starts, the offer row goes first; it is the
// idempotency key, because a retry of a half-settled offer fails the
// pending guard in Respond instead of settling twice.
//
// A write failure after the offer commit leaves the books inconsistent.
// That is surfaced as PartialSettlement naming the completed steps; there
// is no automatic compensation against a store that can fail mid-rollback
// just as easily.
//
// CONCURRENCY:
// The item and both user rows are locked (in sorted order) for the whole
// sequence, and the offer is re-read under the lock. Two concurrent
// acceptances on offers for the same item serialize here; the loser then
// fails the availability guard instead of driving stock negative. The same
// locks make balance updates per-user serial, so two simultaneous sales to
// one seller cannot lose a credit to last-write-wins.
func (s *OfferService) settle(ctx context.Context, offer *model.Offer, offerRow int) (*model.Offer, error) {
	release := s.locks.acquire(offer.ItemID, offer.BuyerID, offer.SellerID)
	defer release()

	// Re-read under the lock: another settlement may have answered this
	// offer between our first read and the lock acquisition.
	offer, offerRow, err := s.offers.GetByID(ctx, offer.ID)
	if err != nil {
		return nil, err
	}
	if offer.Terminal() {
		return nil, apperror.Conflict("this offer has already been processed")
	}

	item, itemRow, err := s.items.GetByID(ctx, offer.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Available() {
		return nil, apperror.NotAvailable(item.ID)
	}

	buyer, buyerRow, err := s.users.GetByID(ctx, offer.BuyerID)
	if err != nil {
		return nil, err
	}
	sellerRec, sellerRow, err := s.users.GetByID(ctx, offer.SellerID)
	if err != nil {
		return nil, err
	}

	if buyer.Balance < offer.Amount {
		return nil, apperror.InsufficientFunds(offer.Amount, buyer.Balance)
	}

	// Commit phase. Order matters: offer first (see above).
	var completed []string

	offer.Status = model.OfferStatusAccepted
	if err := s.offers.Update(ctx, offerRow, offer); err != nil {
		// Nothing else was written; the offer is still pending in the
		// store and the caller can retry cleanly.
		return nil, fmt.Errorf("service/offers: accepting offer %s: %w", offer.ID, err)
	}
	completed = append(completed, "offer accepted")

	item.Status = model.ItemStatusSold
	if item.Stock > 0 {
		item.Stock--
	}
	if err := s.items.Update(ctx, itemRow, item); err != nil {
		return nil, s.partial(offer, completed, err)
	}
	completed = append(completed, "item sold")

	buyer.Balance -= offer.Amount
	if err := s.users.Update(ctx, buyerRow, buyer); err != nil {
		return nil, s.partial(offer, completed, err)
	}
	completed = append(completed, "buyer debited")

	sellerRec.Balance += offer.Amount
	if err := s.users.Update(ctx, sellerRow, sellerRec); err != nil {
		return nil, s.partial(offer, completed, err)
	}

	metrics.SettlementsTotal.WithLabelValues("accepted").Inc()
	s.logger.Info("offer settled",
		slog.String("offerID", offer.ID),
		slog.String("itemID", item.ID),
		slog.String("buyerID", buyer.ID),
		slog.String("sellerID", sellerRec.ID),
		slog.Int("amount", offer.Amount),
	)

	return offer, nil
}

// partial logs and wraps a settlement that died after its first write.
func (s *OfferService) partial(offer *model.Offer, completed []string, err error) error {
	metrics.SettlementsTotal.WithLabelValues("partial").Inc()
	s.logger.Error("settlement incomplete, manual reconciliation required",
		slog.String("offerID", offer.ID),
		slog.String("completed", strings.Join(completed, ", ")),
		slog.String("error", err.Error()),
	)
	return apperror.PartialSettlement(offer.ID, completed, err)
}
