package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/calmana/apiserver/types"
)

// BreathingRepository handles persistence for breathing sessions.
type BreathingRepository struct {
	db *sql.DB
}

func NewBreathingRepository(db *sql.DB) *BreathingRepository {
	return &BreathingRepository{db: db}
}

func (r *BreathingRepository) Create(ctx context.Context, session types.BreathingSession) (types.BreathingSession, error) {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	const query = `
		INSERT INTO breathing_sessions (user_id, cycles_completed, date_key, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		session.UserID,
		session.CyclesCompleted,
		session.DateKey,
		session.CreatedAt,
	).Scan(&session.ID); err != nil {
		return types.BreathingSession{}, err
	}
	return session, nil
}

// ListByDay returns a user's sessions for one day key, oldest first.
func (r *BreathingRepository) ListByDay(ctx context.Context, userID int, dateKey string) ([]types.BreathingSession, error) {
	const query = `
		SELECT id, user_id, cycles_completed, date_key, created_at
		FROM breathing_sessions
		WHERE user_id = $1 AND date_key = $2
		ORDER BY created_at`
	return r.list(ctx, query, userID, dateKey)
}

// ListByKeyRange returns a user's sessions with day keys in
// [startKey, endKey].
func (r *BreathingRepository) ListByKeyRange(ctx context.Context, userID int, startKey, endKey string) ([]types.BreathingSession, error) {
	const query = `
		SELECT id, user_id, cycles_completed, date_key, created_at
		FROM breathing_sessions
		WHERE user_id = $1 AND date_key >= $2 AND date_key <= $3
		ORDER BY created_at`
	return r.list(ctx, query, userID, startKey, endKey)
}

func (r *BreathingRepository) list(ctx context.Context, query string, args ...any) ([]types.BreathingSession, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]types.BreathingSession, 0)
	for rows.Next() {
		var session types.BreathingSession
		if err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.CyclesCompleted,
			&session.DateKey,
			&session.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}
