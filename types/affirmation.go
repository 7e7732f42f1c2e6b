package types

import "time"

// Affirmation is a user's favorited affirmation text. A (user, text)
// pair is unique at the storage layer; duplicate submissions are
// absorbed by an idempotent upsert.
type Affirmation struct {
	ID int `json:"id" db:"id"`

	UserID int `json:"userId" db:"user_id"`

	Text string `json:"text" db:"text"`

	// DateKey is the IST civil date (YYYY-MM-DD) the favorite was added.
	DateKey string `json:"dateKey" db:"date_key"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
