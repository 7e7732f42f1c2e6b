package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/calmana/apiserver/types"
)

// AffirmationRepository handles persistence for favorited affirmations.
type AffirmationRepository struct {
	db *sql.DB
}

func NewAffirmationRepository(db *sql.DB) *AffirmationRepository {
	return &AffirmationRepository{db: db}
}

// Upsert inserts a favorite if the (user, text) pair is new. The
// UNIQUE constraint absorbs concurrent duplicate submissions; created
// reports whether a row was actually inserted.
func (r *AffirmationRepository) Upsert(ctx context.Context, favorite types.Affirmation) (types.Affirmation, bool, error) {
	if favorite.CreatedAt.IsZero() {
		favorite.CreatedAt = time.Now()
	}

	const query = `
		INSERT INTO affirmations (user_id, text, date_key, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, text) DO NOTHING
		RETURNING id`
	err := r.db.QueryRowContext(
		ctx,
		query,
		favorite.UserID,
		favorite.Text,
		favorite.DateKey,
		favorite.CreatedAt,
	).Scan(&favorite.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			// Conflict: the pair already exists.
			return favorite, false, nil
		}
		return types.Affirmation{}, false, err
	}
	return favorite, true, nil
}

// List returns a user's favorites, newest first.
func (r *AffirmationRepository) List(ctx context.Context, userID int) ([]types.Affirmation, error) {
	const query = `
		SELECT id, user_id, text, date_key, created_at
		FROM affirmations
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := make([]types.Affirmation, 0)
	for rows.Next() {
		var favorite types.Affirmation
		if err := rows.Scan(
			&favorite.ID,
			&favorite.UserID,
			&favorite.Text,
			&favorite.DateKey,
			&favorite.CreatedAt,
		); err != nil {
			return nil, err
		}
		favorites = append(favorites, favorite)
	}
	return favorites, rows.Err()
}

// Delete removes one favorite by (user, text).
func (r *AffirmationRepository) Delete(ctx context.Context, userID int, text string) error {
	const query = `DELETE FROM affirmations WHERE user_id = $1 AND text = $2`
	result, err := r.db.ExecContext(ctx, query, userID, text)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
