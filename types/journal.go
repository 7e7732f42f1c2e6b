package types

import "time"

// JournalEntry is an encrypted journal record. Content, IV and Tag are
// produced together by one AES-256-GCM encryption and are only
// meaningful as a unit; plaintext is never persisted.
type JournalEntry struct {
	ID int `json:"id" db:"id"`

	UserID int `json:"userId" db:"user_id"`

	// Content is the base64 ciphertext. Never exposed in API responses.
	Content string `json:"-" db:"content"`

	// IV is the base64 96-bit nonce used for this record.
	IV string `json:"-" db:"iv"`

	// Tag is the base64 128-bit GCM authentication tag.
	Tag string `json:"-" db:"tag"`

	Title string   `json:"title" db:"title"`
	Tags  []string `json:"tags" db:"tags"`

	// DateKey is the IST civil date (YYYY-MM-DD) of creation.
	DateKey string `json:"date" db:"date_key"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// JournalView is the decrypted shape returned to the owning user.
// Unreadable marks an entry whose ciphertext failed authentication;
// Text is empty in that case and the client must render the two
// states differently.
type JournalView struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Text       string    `json:"text"`
	Tags       []string  `json:"tags"`
	Date       string    `json:"date"`
	Unreadable bool      `json:"unreadable,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// JournalMeta is the admin-facing projection: metadata only, no
// ciphertext and no plaintext.
type JournalMeta struct {
	ID        int         `json:"id"`
	User      UserSummary `json:"user"`
	Title     string      `json:"title"`
	Date      string      `json:"date"`
	CreatedAt time.Time   `json:"createdAt"`
}
