package types

import "time"

// MoodValues maps each allowed mood label to its numeric value (1-7).
// The value is always derived server-side from the label, never
// accepted from the client.
var MoodValues = map[string]int{
	"Excited": 7,
	"Happy":   6,
	"Calm":    5,
	"Neutral": 4,
	"Tired":   3,
	"Sad":     2,
	"Angry":   1,
}

// MoodEntry is a single mood log owned by one user.
type MoodEntry struct {
	ID int `json:"id" db:"id"`

	UserID int `json:"userId" db:"user_id"`

	// Mood is one of the labels in MoodValues.
	Mood string `json:"mood" db:"mood"`

	// MoodValue is the numeric value derived from Mood.
	MoodValue int `json:"moodValue" db:"mood_value"`

	// DateKey is the IST civil date (YYYY-MM-DD) of Timestamp.
	// Computed at write time so day queries are exact string matches.
	DateKey string `json:"dateKey" db:"date_key"`

	// Timestamp is the precise creation instant (UTC).
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}
