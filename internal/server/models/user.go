// Package models defines server-side data models persisted in the database.
package models

import "time"

type User struct {
	ID        string    `json:"id"`
	UserName  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Password is the bcrypt hash stored one-to-one with a User.
type Password struct {
	UserID string
	Hash   string
}
