package model

import "time"

// Offer lifecycle states. Pending is the only non-terminal state; accepted
// and rejected are terminal and immutable. The settlement engine rejects any
// second transition with a conflict error rather than no-op-ing, so a
// double-submission is always visible to the caller.
const (
	OfferStatusPending  = "pending"
	OfferStatusAccepted = "accepted"
	OfferStatusRejected = "rejected"
)

// Offer represents a buyer's bid on an item.
//
// SellerID is denormalized from the item at offer time. That makes the
// authorization check on respond a single row read, and it preserves the
// correct payee even if the item row were ever edited afterwards.
type Offer struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"itemId"`
	BuyerID   string    `json:"buyerId"`
	SellerID  string    `json:"sellerId"`
	Amount    int       `json:"amount"` // positive, whole solari
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Terminal reports whether the offer has already been answered.
func (o *Offer) Terminal() bool {
	return o.Status != OfferStatusPending
}
