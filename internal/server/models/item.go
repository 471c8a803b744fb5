package models

import "time"

// Item is a single stored food item. Location is a free-text tag matched
// loosely against the owner's Location titles.
type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Amount    string    `json:"amount"`
	Location  string    `json:"location"`
	Category  string    `json:"category"`
	Notes     *string   `json:"notes"`
	NeedsMore bool      `json:"needsMore"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemFields are the user-editable fields of an Item.
type ItemFields struct {
	Title    string
	Amount   string
	Location string
	Category string
	Notes    *string
}
