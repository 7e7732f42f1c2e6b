package types

import "time"

// BreathingSession records one completed breathing exercise.
type BreathingSession struct {
	ID int `json:"id" db:"id"`

	UserID int `json:"userId" db:"user_id"`

	// CyclesCompleted is the number of breath cycles finished; always >= 1.
	CyclesCompleted int `json:"cyclesCompleted" db:"cycles_completed"`

	// DateKey is the IST civil date (YYYY-MM-DD) of CreatedAt.
	DateKey string `json:"dateKey" db:"date_key"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
