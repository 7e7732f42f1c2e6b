package store

import (
	"context"
	"database/sql"

	"github.com/calmana/apiserver/types"
)

// DayCount is one point of a per-day series.
type DayCount struct {
	DateKey string
	Count   int
}

// LabelCount is one bucket of a grouped count (quiz level, affirmation
// text).
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// OwnedMood, OwnedQuiz, OwnedBreathing and OwnedAffirmation pair an
// entity with its owner's summary for admin listings.
type OwnedMood struct {
	types.MoodEntry
	User types.UserSummary `json:"user"`
}

type OwnedQuiz struct {
	types.QuizResult
	User types.UserSummary `json:"user"`
}

type OwnedBreathing struct {
	types.BreathingSession
	User types.UserSummary `json:"user"`
}

type OwnedAffirmation struct {
	types.Affirmation
	User types.UserSummary `json:"user"`
}

// AdminRepository runs the cross-user queries behind the admin panel.
type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) CountUsers(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users`).Scan(&total)
	return total, err
}

// CountMoodsInRange counts mood entries across all users with day
// keys in [startKey, endKey].
func (r *AdminRepository) CountMoodsInRange(ctx context.Context, startKey, endKey string) (int, error) {
	const query = `SELECT COUNT(1) FROM mood_entries WHERE date_key >= $1 AND date_key <= $2`
	var total int
	err := r.db.QueryRowContext(ctx, query, startKey, endKey).Scan(&total)
	return total, err
}

// CountBreathingInRange counts breathing sessions across all users in
// the key range.
func (r *AdminRepository) CountBreathingInRange(ctx context.Context, startKey, endKey string) (int, error) {
	const query = `SELECT COUNT(1) FROM breathing_sessions WHERE date_key >= $1 AND date_key <= $2`
	var total int
	err := r.db.QueryRowContext(ctx, query, startKey, endKey).Scan(&total)
	return total, err
}

// CountBreathingTotal counts all breathing sessions ever recorded.
func (r *AdminRepository) CountBreathingTotal(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM breathing_sessions`).Scan(&total)
	return total, err
}

// MoodTrend returns the number of mood entries logged per day key in
// the range, ordered by day. Days with zero entries are absent; the
// service layer fills the gaps.
func (r *AdminRepository) MoodTrend(ctx context.Context, startKey, endKey string) ([]DayCount, error) {
	const query = `
		SELECT date_key, COUNT(1)
		FROM mood_entries
		WHERE date_key >= $1 AND date_key <= $2
		GROUP BY date_key
		ORDER BY date_key`
	return r.dayCounts(ctx, query, startKey, endKey)
}

// DailyActiveUsers counts, per day key, the distinct users active in
// ANY entity kind that day. The union ensures a user active in two
// kinds on the same day counts once.
func (r *AdminRepository) DailyActiveUsers(ctx context.Context, startKey, endKey string) ([]DayCount, error) {
	const query = `
		SELECT date_key, COUNT(DISTINCT user_id)
		FROM (
			SELECT date_key, user_id FROM mood_entries WHERE date_key >= $1 AND date_key <= $2
			UNION
			SELECT date_key, user_id FROM journal_entries WHERE date_key >= $1 AND date_key <= $2
			UNION
			SELECT date_key, user_id FROM breathing_sessions WHERE date_key >= $1 AND date_key <= $2
			UNION
			SELECT date_key, user_id FROM quiz_results WHERE date_key >= $1 AND date_key <= $2
		) activity
		GROUP BY date_key
		ORDER BY date_key`
	return r.dayCounts(ctx, query, startKey, endKey)
}

// ActiveUsersInRange counts the distinct users active in any entity
// kind anywhere in the key range.
func (r *AdminRepository) ActiveUsersInRange(ctx context.Context, startKey, endKey string) (int, error) {
	const query = `
		SELECT COUNT(DISTINCT user_id)
		FROM (
			SELECT user_id FROM mood_entries WHERE date_key >= $1 AND date_key <= $2
			UNION
			SELECT user_id FROM journal_entries WHERE date_key >= $1 AND date_key <= $2
			UNION
			SELECT user_id FROM breathing_sessions WHERE date_key >= $1 AND date_key <= $2
			UNION
			SELECT user_id FROM quiz_results WHERE date_key >= $1 AND date_key <= $2
		) activity`
	var total int
	err := r.db.QueryRowContext(ctx, query, startKey, endKey).Scan(&total)
	return total, err
}

// QuizLevelDistribution buckets quiz attempts in the range by derived
// level, most common first.
func (r *AdminRepository) QuizLevelDistribution(ctx context.Context, startKey, endKey string) ([]LabelCount, error) {
	const query = `
		SELECT level, COUNT(1)
		FROM quiz_results
		WHERE date_key >= $1 AND date_key <= $2
		GROUP BY level
		ORDER BY COUNT(1) DESC`
	return r.labelCounts(ctx, query, startKey, endKey)
}

// AffirmationPopularity returns the most-favorited affirmation texts
// in the range.
func (r *AdminRepository) AffirmationPopularity(ctx context.Context, startKey, endKey string, limit int) ([]LabelCount, error) {
	const query = `
		SELECT text, COUNT(1)
		FROM affirmations
		WHERE date_key >= $1 AND date_key <= $2
		GROUP BY text
		ORDER BY COUNT(1) DESC
		LIMIT $3`
	return r.labelCounts(ctx, query, startKey, endKey, limit)
}

// TopAffirmations returns the most-favorited texts over all time.
func (r *AdminRepository) TopAffirmations(ctx context.Context, limit int) ([]LabelCount, error) {
	const query = `
		SELECT text, COUNT(1)
		FROM affirmations
		GROUP BY text
		ORDER BY COUNT(1) DESC
		LIMIT $1`
	return r.labelCounts(ctx, query, limit)
}

// ListJournalMeta returns journal metadata with owners, never the
// encrypted payload.
func (r *AdminRepository) ListJournalMeta(ctx context.Context) ([]types.JournalMeta, error) {
	const query = `
		SELECT j.id, j.title, j.date_key, j.created_at, u.id, u.username, u.email
		FROM journal_entries j
		JOIN users u ON u.id = j.user_id
		ORDER BY j.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metas := make([]types.JournalMeta, 0)
	for rows.Next() {
		var meta types.JournalMeta
		if err := rows.Scan(
			&meta.ID,
			&meta.Title,
			&meta.Date,
			&meta.CreatedAt,
			&meta.User.ID,
			&meta.User.Username,
			&meta.User.Email,
		); err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// ListMoods returns every mood entry with its owner.
func (r *AdminRepository) ListMoods(ctx context.Context) ([]OwnedMood, error) {
	const query = `
		SELECT m.id, m.user_id, m.mood, m.mood_value, m.date_key, m.timestamp, u.id, u.username, u.email
		FROM mood_entries m
		JOIN users u ON u.id = m.user_id
		ORDER BY m.timestamp DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	moods := make([]OwnedMood, 0)
	for rows.Next() {
		var m OwnedMood
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.Mood, &m.MoodValue, &m.DateKey, &m.Timestamp,
			&m.User.ID, &m.User.Username, &m.User.Email,
		); err != nil {
			return nil, err
		}
		moods = append(moods, m)
	}
	return moods, rows.Err()
}

// ListQuizzes returns every quiz result with its owner. Answers are
// omitted from the listing.
func (r *AdminRepository) ListQuizzes(ctx context.Context) ([]OwnedQuiz, error) {
	const query = `
		SELECT q.id, q.user_id, q.quiz_slug, q.quiz_title, q.score, q.max_score, q.percentage, q.level, q.date_key, q.taken_at,
			u.id, u.username, u.email
		FROM quiz_results q
		JOIN users u ON u.id = q.user_id
		ORDER BY q.taken_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quizzes := make([]OwnedQuiz, 0)
	for rows.Next() {
		var q OwnedQuiz
		if err := rows.Scan(
			&q.ID, &q.UserID, &q.QuizSlug, &q.QuizTitle, &q.Score, &q.MaxScore,
			&q.Percentage, &q.Level, &q.DateKey, &q.TakenAt,
			&q.User.ID, &q.User.Username, &q.User.Email,
		); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// ListBreathing returns every breathing session with its owner.
func (r *AdminRepository) ListBreathing(ctx context.Context) ([]OwnedBreathing, error) {
	const query = `
		SELECT b.id, b.user_id, b.cycles_completed, b.date_key, b.created_at, u.id, u.username, u.email
		FROM breathing_sessions b
		JOIN users u ON u.id = b.user_id
		ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]OwnedBreathing, 0)
	for rows.Next() {
		var b OwnedBreathing
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.CyclesCompleted, &b.DateKey, &b.CreatedAt,
			&b.User.ID, &b.User.Username, &b.User.Email,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, b)
	}
	return sessions, rows.Err()
}

// ListAffirmations returns every favorite with its owner.
func (r *AdminRepository) ListAffirmations(ctx context.Context) ([]OwnedAffirmation, error) {
	const query = `
		SELECT a.id, a.user_id, a.text, a.date_key, a.created_at, u.id, u.username, u.email
		FROM affirmations a
		JOIN users u ON u.id = a.user_id
		ORDER BY a.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := make([]OwnedAffirmation, 0)
	for rows.Next() {
		var a OwnedAffirmation
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Text, &a.DateKey, &a.CreatedAt,
			&a.User.ID, &a.User.Username, &a.User.Email,
		); err != nil {
			return nil, err
		}
		favorites = append(favorites, a)
	}
	return favorites, rows.Err()
}

func (r *AdminRepository) dayCounts(ctx context.Context, query string, args ...any) ([]DayCount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]DayCount, 0)
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.DateKey, &dc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}

func (r *AdminRepository) labelCounts(ctx context.Context, query string, args ...any) ([]LabelCount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]LabelCount, 0)
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, lc)
	}
	return counts, rows.Err()
}
