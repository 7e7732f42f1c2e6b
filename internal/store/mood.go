package store

import (
	"context"
	"database/sql"

	"github.com/calmana/apiserver/types"
)

// MoodRepository handles persistence for mood entries.
type MoodRepository struct {
	db *sql.DB
}

func NewMoodRepository(db *sql.DB) *MoodRepository {
	return &MoodRepository{db: db}
}

func (r *MoodRepository) Create(ctx context.Context, entry types.MoodEntry) (types.MoodEntry, error) {
	const query = `
		INSERT INTO mood_entries (user_id, mood, mood_value, date_key, timestamp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		entry.UserID,
		entry.Mood,
		entry.MoodValue,
		entry.DateKey,
		entry.Timestamp,
	).Scan(&entry.ID); err != nil {
		return types.MoodEntry{}, err
	}
	return entry, nil
}

// ListByDay returns a user's mood entries for one day key, ordered by
// instant.
func (r *MoodRepository) ListByDay(ctx context.Context, userID int, dateKey string) ([]types.MoodEntry, error) {
	const query = `
		SELECT id, user_id, mood, mood_value, date_key, timestamp
		FROM mood_entries
		WHERE user_id = $1 AND date_key = $2
		ORDER BY timestamp`
	return r.list(ctx, query, userID, dateKey)
}

// ListByKeyRange returns a user's mood entries with day keys in
// [startKey, endKey], ordered by instant.
func (r *MoodRepository) ListByKeyRange(ctx context.Context, userID int, startKey, endKey string) ([]types.MoodEntry, error) {
	const query = `
		SELECT id, user_id, mood, mood_value, date_key, timestamp
		FROM mood_entries
		WHERE user_id = $1 AND date_key >= $2 AND date_key <= $3
		ORDER BY timestamp`
	return r.list(ctx, query, userID, startKey, endKey)
}

func (r *MoodRepository) list(ctx context.Context, query string, args ...any) ([]types.MoodEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]types.MoodEntry, 0)
	for rows.Next() {
		var entry types.MoodEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Mood,
			&entry.MoodValue,
			&entry.DateKey,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
