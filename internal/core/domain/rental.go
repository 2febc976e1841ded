package domain

import "time"

const RentalStatusPending = "pending"

// RentalLine is one item of a checked-out cart.
type RentalLine struct {
	ItemID   string       `json:"item_id" bson:"item_id"`
	Table    CatalogTable `json:"table" bson:"table"`
	Name     string       `json:"name" bson:"name"`
	Quantity int          `json:"quantity" bson:"quantity"`
}

// Rental is the request written to the record store at checkout.
type Rental struct {
	ID        string       `json:"id" bson:"-"`
	UserID    string       `json:"user_id" bson:"user_id"`
	Username  string       `json:"username" bson:"username"`
	Lines     []RentalLine `json:"lines" bson:"lines"`
	Status    string       `json:"status" bson:"status"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
}
