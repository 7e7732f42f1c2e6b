package store

import (
	"context"
	"database/sql"
	"fmt"
)

// AccountRepository performs whole-account operations that span every
// entity table.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// DeleteUserCompletely removes every row owned by userID across all
// entity tables plus the user row itself, in one transaction. Either
// everything is removed or nothing is.
func (r *AccountRepository) DeleteUserCompletely(ctx context.Context, userID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	statements := []string{
		`DELETE FROM mood_entries WHERE user_id = $1`,
		`DELETE FROM journal_entries WHERE user_id = $1`,
		`DELETE FROM breathing_sessions WHERE user_id = $1`,
		`DELETE FROM affirmations WHERE user_id = $1`,
		`DELETE FROM quiz_results WHERE user_id = $1`,
	}
	for _, statement := range statements {
		if _, err := tx.ExecContext(ctx, statement, userID); err != nil {
			return err
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
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

	return tx.Commit()
}
