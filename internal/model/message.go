package model

import "time"

// Message is one direct message between two users, optionally tied to an
// item. Messages are append-only; the only mutation ever applied is the
// read flag, flipped when the recipient fetches the conversation.
type Message struct {
	ID        string    `json:"id"`
	FromID    string    `json:"from"`
	ToID      string    `json:"to"`
	ItemID    string    `json:"itemId,omitempty"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
