package types

import "time"

// QuizAnswer is one answered question within a quiz attempt.
type QuizAnswer struct {
	Question string `json:"question"`
	Value    int    `json:"value"`
	Index    int    `json:"index"`
}

// QuizResult is a saved self-assessment attempt. At most one saved
// attempt per (user, quiz slug) is allowed inside a rolling 24-hour
// window, enforced by a cooldown check against the latest prior
// attempt rather than a uniqueness constraint.
type QuizResult struct {
	ID int `json:"id" db:"id"`

	UserID int `json:"userId" db:"user_id"`

	QuizSlug  string `json:"quizSlug" db:"quiz_slug"`
	QuizTitle string `json:"quizTitle" db:"quiz_title"`

	// Answers is the ordered list of per-question answers,
	// stored as a JSON column.
	Answers []QuizAnswer `json:"answers" db:"answers"`

	Score      int    `json:"score" db:"score"`
	MaxScore   int    `json:"maxScore" db:"max_score"`
	Percentage int    `json:"percentage" db:"percentage"`
	Level      string `json:"level" db:"level"`

	// DateKey is the IST civil date (YYYY-MM-DD) of TakenAt.
	DateKey string `json:"dateKey" db:"date_key"`

	TakenAt time.Time `json:"takenAt" db:"taken_at"`
}

// QuizSummary is the per-day projection used by calendar and month views.
type QuizSummary struct {
	QuizTitle  string `json:"quizTitle"`
	Score      int    `json:"score"`
	MaxScore   int    `json:"maxScore"`
	Percentage int    `json:"percentage"`
	Level      string `json:"level"`
}

// Summary projects a QuizResult into its calendar shape.
func (q QuizResult) Summary() QuizSummary {
	return QuizSummary{
		QuizTitle:  q.QuizTitle,
		Score:      q.Score,
		MaxScore:   q.MaxScore,
		Percentage: q.Percentage,
		Level:      q.Level,
	}
}
