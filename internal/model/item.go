package model

import "time"

// Item listing states. An item flips to sold exactly once, when an offer on
// it is accepted; stock is decremented in the same settlement.
const (
	ItemStatusAvailable = "available"
	ItemStatusSold      = "sold"
)

// Item represents a listing put up by a seller.
type Item struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Price         int       `json:"price"` // positive, whole solari
	ImageURL      string    `json:"imageUrl"`
	LargeImageURL string    `json:"largeImageUrl"`
	Description   string    `json:"description"`
	Tier          int       `json:"tier"`
	Type          string    `json:"type"`
	SellerID      string    `json:"sellerId"`
	Status        string    `json:"status"`
	Stock         int       `json:"stock"` // never negative
	Region        string    `json:"region"`
	Server        string    `json:"server"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Available reports whether the item can still receive offers.
func (i *Item) Available() bool {
	return i.Status == ItemStatusAvailable && i.Stock > 0
}
