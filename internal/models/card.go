package models

import "time"

// Card represents an image card in the shared feed.
type Card struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	OwnerID   string    `json:"ownerId"`
	Likes     []string  `json:"likes"` // ids of users who liked the card
	CreatedAt time.Time `json:"createdAt"`
}
